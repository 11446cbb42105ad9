package vcs

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	gitssh "github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/kuberlab/mldeploy/pkg/apputil"
	"github.com/kuberlab/mldeploy/pkg/errors"
	"github.com/sirupsen/logrus"
	cryptossh "golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

const DefaultRemote = "origin"

type Options struct {
	RemoteName            string
	SSHKeyPath            string
	SSHKeyPassphrase      string
	KnownHostsPath        string
	InsecureIgnoreHostKey bool
	Username              string
	Password              string
	AuthorName            string
	AuthorEmail           string
}

// Repository is a local working copy.
type Repository struct {
	repo *git.Repository
	wt   *git.Worktree
	opts Options
}

// Open opens the working copy containing path.
func Open(path string, opts Options) (*Repository, error) {
	if opts.RemoteName == "" {
		opts.RemoteName = DefaultRemote
	}
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.Smart(http.StatusBadRequest, errors.InvalidOptions, fmt.Sprintf("Failed open repository %v: %v", path, err), err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.Smart(http.StatusBadRequest, errors.InvalidOptions, fmt.Sprintf("Repository %v has no worktree: %v", path, err), err)
	}
	return &Repository{repo: repo, wt: wt, opts: opts}, nil
}

func (r *Repository) Root() string {
	return r.wt.Filesystem.Root()
}

func (r *Repository) RemoteURL() (string, error) {
	remote, err := r.repo.Remote(r.opts.RemoteName)
	if err != nil {
		return "", fmt.Errorf("remote %v: %v", r.opts.RemoteName, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %v has no url", r.opts.RemoteName)
	}
	return urls[0], nil
}

func (r *Repository) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", err
	}
	return head.Name().Short(), nil
}

func (r *Repository) HeadCommitSHA() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", err
	}
	return head.Hash().String(), nil
}

func (r *Repository) Pull() error {
	auth, err := r.auth()
	if err != nil {
		return err
	}
	err = r.wt.Pull(&git.PullOptions{RemoteName: r.opts.RemoteName, Auth: auth})
	if err == git.NoErrAlreadyUpToDate {
		logrus.Debugf("Repository %v is already up to date", r.Root())
		return nil
	}
	return err
}

func (r *Repository) Push() error {
	auth, err := r.auth()
	if err != nil {
		return err
	}
	err = r.repo.Push(&git.PushOptions{RemoteName: r.opts.RemoteName, Auth: auth})
	if err == git.NoErrAlreadyUpToDate {
		return nil
	}
	return err
}

// Stage adds path, a file or a directory relative to the root, to the
// index. Index entries below path that are gone from disk are dropped.
func (r *Repository) Stage(path string) error {
	path = cleanPath(path)
	if _, err := os.Stat(filepath.Join(r.Root(), path)); err == nil {
		if err = r.wt.AddWithOptions(&git.AddOptions{Path: path}); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	return r.removeFromIndex(path, func(name string) bool {
		_, err := os.Lstat(filepath.Join(r.Root(), filepath.FromSlash(name)))
		return os.IsNotExist(err)
	})
}

// Unstage drops every index entry at or below path.
func (r *Repository) Unstage(path string) error {
	return r.removeFromIndex(cleanPath(path), func(string) bool { return true })
}

func (r *Repository) Commit(message string) (string, error) {
	name := r.opts.AuthorName
	if name == "" {
		name = "mldeploy"
	}
	hash, err := r.wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: name, Email: r.opts.AuthorEmail, When: time.Now()},
	})
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

func (r *Repository) removeFromIndex(path string, drop func(name string) bool) error {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return err
	}
	kept := make([]*index.Entry, 0, len(idx.Entries))
	removed := 0
	for _, e := range idx.Entries {
		if under(e.Name, path) && drop(e.Name) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed == 0 {
		return nil
	}
	logrus.Debugf("Removing %v entries under %v from index", removed, path)
	idx.Entries = kept
	return r.repo.Storer.SetIndex(idx)
}

func cleanPath(path string) string {
	path = filepath.ToSlash(filepath.Clean(path))
	return strings.TrimPrefix(path, "./")
}

func under(name, path string) bool {
	if path == "." || path == "" {
		return true
	}
	return name == path || strings.HasPrefix(name, path+"/")
}

func (r *Repository) auth() (transport.AuthMethod, error) {
	remote, err := r.RemoteURL()
	if err != nil {
		return nil, err
	}
	if apputil.IsSSHURL(remote) {
		if r.opts.SSHKeyPath == "" {
			return nil, nil
		}
		keys, err := gitssh.NewPublicKeysFromFile(sshUser(remote), r.opts.SSHKeyPath, r.opts.SSHKeyPassphrase)
		if err != nil {
			return nil, errors.Smart(http.StatusUnauthorized, errors.MissingCredentials, fmt.Sprintf("Failed load ssh key: %v", err), err)
		}
		switch {
		case r.opts.InsecureIgnoreHostKey:
			keys.HostKeyCallback = cryptossh.InsecureIgnoreHostKey()
		case r.opts.KnownHostsPath != "":
			cb, err := knownhosts.New(r.opts.KnownHostsPath)
			if err != nil {
				return nil, fmt.Errorf("Failed read known hosts: %v", err)
			}
			keys.HostKeyCallback = cb
		}
		return keys, nil
	}
	if r.opts.Username != "" {
		return &githttp.BasicAuth{Username: r.opts.Username, Password: r.opts.Password}, nil
	}
	return nil, nil
}

func sshUser(remote string) string {
	remote = strings.TrimPrefix(remote, "ssh://")
	if at := strings.Index(remote, "@"); at > 0 {
		return remote[:at]
	}
	return gitssh.DefaultUsername
}
