package platform

import (
	"fmt"
	"net/http"

	"github.com/kuberlab/mldeploy/pkg/types"
)

type Workspace struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	OwnerID     string          `json:"ownerId"`
	CreatedAt   types.TimeMilli `json:"createdAt"`
	UpdatedAt   types.TimeMilli `json:"updatedAt"`
}

// ValidateKeys checks the access key pair against the platform.
func (c *Client) ValidateKeys() error {
	return c.do(http.MethodGet, "/workspaces", AuthBasic, nil, nil)
}

func (c *Client) GetWorkspace(workspaceID string) (*Workspace, error) {
	u := fmt.Sprintf("/workspaces/%v", workspaceID)

	var ws = &Workspace{}
	if err := c.do(http.MethodGet, u, AuthBasic, nil, ws); err != nil {
		return nil, err
	}
	return ws, nil
}
