package artifact

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/kuberlab/mldeploy/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Unstager removes a path from the version control staging area.
type Unstager interface {
	Unstage(path string) error
}

// Stager guards artifact directories inside a working copy.
type Stager struct {
	root string
	vcs  Unstager
}

func NewStager(root string, vcs Unstager) *Stager {
	return &Stager{root: root, vcs: vcs}
}

func (s *Stager) Root() string {
	return s.root
}

func (s *Stager) Path(rel string) string {
	return filepath.Join(s.root, rel)
}

// Prepare makes rel an empty directory. An absent directory is created, an
// empty one is left alone and a non-empty one is cleared and unstaged only
// when overwrite is set.
func (s *Stager) Prepare(rel string, overwrite bool) error {
	dir := s.Path(rel)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		logrus.Debugf("Creating directory %v", dir)
		return os.MkdirAll(dir, 0755)
	}
	if err != nil {
		return errors.Smart(err)
	}
	if len(entries) == 0 {
		return nil
	}
	if !overwrite {
		return errors.Smart(
			http.StatusConflict,
			errors.DirectoryNotEmpty,
			fmt.Sprintf("The folder %v is not empty. Set overwrite to replace its contents", dir),
		)
	}
	logrus.Debugf("Clearing directory %v", dir)
	for _, e := range entries {
		if err = os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return errors.Smart(err)
		}
	}
	if s.vcs == nil {
		return nil
	}
	return s.vcs.Unstage(filepath.ToSlash(rel))
}

func (s *Stager) Clear(rel string) error {
	return s.Prepare(rel, true)
}
