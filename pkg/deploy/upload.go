package deploy

import (
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/kuberlab/mldeploy/pkg/errors"
	"github.com/pborman/uuid"
	"github.com/sirupsen/logrus"
)

// uploadFolder uploads every file under rel in one batch and returns the
// remote location of the folder.
func (d *Deployer) uploadFolder(repositoryID, rel string) (string, error) {
	root := d.vcs.Root()
	dir := filepath.Join(root, rel)
	batch := uuid.New()

	var locations []string
	err := filepath.WalkDir(dir, func(path string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if e.IsDir() {
			return nil
		}
		folder, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		logrus.Debugf("Uploading %v", path)
		location, err := d.api.UploadFile(path, filepath.ToSlash(folder), d.cfg.WorkspaceID, repositoryID, batch)
		if err != nil {
			return err
		}
		locations = append(locations, location)
		return nil
	})
	if err != nil {
		return "", err
	}
	if len(locations) == 0 {
		return "", errors.Smart(
			http.StatusInternalServerError,
			errors.SerializationFailed,
			"Nothing was saved to "+dir,
		)
	}
	logrus.Infof("Uploaded %v files of %v", len(locations), rel)
	return folderLocation(locations[0], filepath.ToSlash(rel)), nil
}

// folderLocation cuts a file location after the folder segment.
func folderLocation(location, folder string) string {
	if i := strings.Index(location, "/"+folder+"/"); i >= 0 {
		return location[:i+1+len(folder)]
	}
	if i := strings.Index(location, folder); i >= 0 {
		return location[:i+len(folder)]
	}
	return location
}
