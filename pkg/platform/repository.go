package platform

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/kuberlab/mldeploy/pkg/types"
)

type Commit struct {
	ID           string          `json:"id"`
	BranchName   string          `json:"branchName"`
	Commit       string          `json:"commit"`
	UploadMethod int             `json:"uploadMethod"`
	S3Link       string          `json:"s3Link,omitempty"`
	Status       int             `json:"status"`
	CreatedAt    types.TimeMilli `json:"createdAt"`
	UpdatedAt    types.TimeMilli `json:"updatedAt"`
}

type Repository struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Status         int             `json:"status"`
	IsArchived     bool            `json:"isArchived"`
	WorkspaceID    string          `json:"workspaceId"`
	IsPublic       bool            `json:"isPublic"`
	GitSSHPullLink string          `json:"gitSSHPullLink"`
	CreatedAt      types.TimeMilli `json:"createdAt"`
	UpdatedAt      types.TimeMilli `json:"updatedAt"`
	Commits        []Commit        `json:"commits,omitempty"`
}

// ListRepositories returns the non archived repositories of a workspace.
func (c *Client) ListRepositories(workspaceID string) ([]Repository, error) {
	u := withQuery(
		fmt.Sprintf("/workspaces/%v/repositories", workspaceID),
		url.Values{"isArchived": {"false"}},
	)

	repos := make([]Repository, 0)
	if err := c.do(http.MethodGet, u, AuthBasic, nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *Client) GetRepository(workspaceID, repositoryID string) (*Repository, error) {
	u := fmt.Sprintf("/workspaces/%v/repositories/%v", workspaceID, repositoryID)

	var repo = &Repository{}
	if err := c.do(http.MethodGet, u, AuthBasic, nil, repo); err != nil {
		return nil, err
	}
	return repo, nil
}
