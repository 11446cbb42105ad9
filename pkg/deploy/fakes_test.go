package deploy

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/kuberlab/mldeploy/pkg/errors"
	"github.com/kuberlab/mldeploy/pkg/platform"
)

type fakeVCS struct {
	root     string
	remote   string
	branch   string
	head     string
	pulls    int
	pushes   int
	staged   []string
	unstaged []string
	commits  []string
}

func newFakeVCS(root string) *fakeVCS {
	return &fakeVCS{
		root:   root,
		remote: "git@github.com:acme/models.git",
		branch: "main",
		head:   "head-sha",
	}
}

func (f *fakeVCS) Root() string { return f.root }
func (f *fakeVCS) Pull() error  { f.pulls++; return nil }
func (f *fakeVCS) Push() error  { f.pushes++; return nil }

func (f *fakeVCS) Commit(message string) (string, error) {
	f.commits = append(f.commits, message)
	f.head = fmt.Sprintf("sha-%d", len(f.commits))
	return f.head, nil
}

func (f *fakeVCS) Stage(path string) error {
	f.staged = append(f.staged, path)
	return nil
}

func (f *fakeVCS) Unstage(path string) error {
	f.unstaged = append(f.unstaged, path)
	return nil
}

func (f *fakeVCS) CurrentBranch() (string, error) { return f.branch, nil }
func (f *fakeVCS) RemoteURL() (string, error)     { return f.remote, nil }
func (f *fakeVCS) HeadCommitSHA() (string, error) { return f.head, nil }

type upload struct {
	path, folder, batch string
}

type fakeAPI struct {
	authErr    error
	repos      []platform.Repository
	deployment *platform.Deployment

	uploads  []upload
	created  []*platform.CreateDeployment
	updated  []*platform.UpdateDeployment
	metadata []*platform.UpdateDeploymentMetadata
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		repos: []platform.Repository{
			{ID: "repo-1", GitSSHPullLink: "git@github.com:acme/models.git"},
			{ID: "repo-2", GitSSHPullLink: "git@github.com:acme/other.git"},
		},
	}
}

func (f *fakeAPI) CheckAuth(authType platform.AuthType) error { return f.authErr }

func (f *fakeAPI) ListRepositories(workspaceID string) ([]platform.Repository, error) {
	return f.repos, nil
}

func (f *fakeAPI) GetDeployment(workspaceID, deploymentID string, withExamples bool) (*platform.Deployment, error) {
	if f.deployment == nil || f.deployment.ID != deploymentID {
		return nil, errors.Smart(http.StatusNotFound, "deployment not found")
	}
	return f.deployment, nil
}

func (f *fakeAPI) CreateDeployment(workspaceID string, payload *platform.CreateDeployment) (*platform.Deployment, error) {
	f.created = append(f.created, payload)
	return &platform.Deployment{ID: "dep-new", Name: payload.Name, RepositoryID: payload.RepositoryID}, nil
}

func (f *fakeAPI) UpdateDeployment(workspaceID string, payload *platform.UpdateDeployment) (*platform.Deployment, error) {
	f.updated = append(f.updated, payload)
	return &platform.Deployment{ID: payload.DeploymentID, Name: "updated"}, nil
}

func (f *fakeAPI) UpdateDeploymentMetadata(workspaceID string, payload *platform.UpdateDeploymentMetadata) (*platform.Deployment, error) {
	f.metadata = append(f.metadata, payload)
	return &platform.Deployment{ID: payload.DeploymentID, Name: payload.Name}, nil
}

func (f *fakeAPI) UploadFile(localPath, folderPath, workspaceID, repositoryID, batchID string) (string, error) {
	f.uploads = append(f.uploads, upload{path: localPath, folder: folderPath, batch: batchID})
	return strings.Join([]string{"s3://bucket", workspaceID, repositoryID, batchID, folderPath, filepath.Base(localPath)}, "/"), nil
}
