package deploy

import (
	"github.com/kuberlab/mldeploy/pkg/platform"
	"github.com/kuberlab/mldeploy/pkg/vcs"
)

// VersionControl is the working copy the artifacts are committed to.
// Paths are relative to Root.
type VersionControl interface {
	Root() string
	Pull() error
	Push() error
	Commit(message string) (string, error)
	Stage(path string) error
	Unstage(path string) error
	CurrentBranch() (string, error)
	RemoteURL() (string, error)
	HeadCommitSHA() (string, error)
}

// PlatformAPI is the subset of the platform REST API used to deploy.
type PlatformAPI interface {
	CheckAuth(authType platform.AuthType) error
	ListRepositories(workspaceID string) ([]platform.Repository, error)
	GetDeployment(workspaceID, deploymentID string, withExamples bool) (*platform.Deployment, error)
	CreateDeployment(workspaceID string, payload *platform.CreateDeployment) (*platform.Deployment, error)
	UpdateDeployment(workspaceID string, payload *platform.UpdateDeployment) (*platform.Deployment, error)
	UpdateDeploymentMetadata(workspaceID string, payload *platform.UpdateDeploymentMetadata) (*platform.Deployment, error)
	UploadFile(localPath, folderPath, workspaceID, repositoryID, batchID string) (string, error)
}

var (
	_ VersionControl = (*vcs.Repository)(nil)
	_ PlatformAPI    = (*platform.Client)(nil)
)
