package platform

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kuberlab/mldeploy/pkg/types"
	"github.com/kuberlab/mldeploy/pkg/utils"
)

type DeploymentVersion struct {
	ID                  string                 `json:"id"`
	Commit              string                 `json:"commit"`
	CommitMessage       string                 `json:"commitMessage,omitempty"`
	BranchName          string                 `json:"branchName,omitempty"`
	ModelType           types.ModelType        `json:"modelType"`
	ModelServerless     bool                   `json:"modelServerless"`
	ExplainerType       types.ExplainerType    `json:"explainerType"`
	ExplainerServerless bool                   `json:"explainerServerless"`
	Method              types.PredictionMethod `json:"method,omitempty"`
	ContractPath        string                 `json:"contractPath,omitempty"`
	ExampleInput        []interface{}          `json:"exampleInput,omitempty"`
	ExampleOutput       []interface{}          `json:"exampleOutput,omitempty"`
}

type Deployment struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description,omitempty"`
	WorkspaceID     string             `json:"workspaceId"`
	RepositoryID    string             `json:"repositoryId"`
	OwnerID         string             `json:"ownerId,omitempty"`
	PublicURL       string             `json:"publicURL,omitempty"`
	Status          int                `json:"status"`
	IsArchived      bool               `json:"isArchived"`
	Tags            []string           `json:"tags,omitempty"`
	ActiveVersionID string             `json:"activeVersionId,omitempty"`
	ActiveVersion   *DeploymentVersion `json:"activeVersion,omitempty"`

	// Flat fields of records without a version object.
	CommitID            string               `json:"commitId,omitempty"`
	ModelType           *types.ModelType     `json:"modelType,omitempty"`
	ModelServerless     bool                 `json:"modelServerless,omitempty"`
	ExplainerType       *types.ExplainerType `json:"explainerType,omitempty"`
	ExplainerServerless bool                 `json:"explainerServerless,omitempty"`
	ExampleInput        []interface{}        `json:"exampleInput,omitempty"`
	ExampleOutput       []interface{}        `json:"exampleOutput,omitempty"`

	CreatedAt types.TimeMilli `json:"createdAt"`
	UpdatedAt types.TimeMilli `json:"updatedAt"`
}

// Current returns the active version, falling back to the flat fields.
func (d *Deployment) Current() DeploymentVersion {
	if d.ActiveVersion != nil {
		return *d.ActiveVersion
	}
	v := DeploymentVersion{
		ID:                  d.ActiveVersionID,
		Commit:              d.CommitID,
		ModelServerless:     d.ModelServerless,
		ExplainerServerless: d.ExplainerServerless,
		ExampleInput:        d.ExampleInput,
		ExampleOutput:       d.ExampleOutput,
	}
	if d.ModelType != nil {
		v.ModelType = *d.ModelType
	}
	if d.ExplainerType != nil {
		v.ExplainerType = *d.ExplainerType
	}
	return v
}

// Sizing is the wire form of pod resources.
type Sizing struct {
	InstanceType string
	CPULimit     *float64
	CPURequest   *float64
	MemLimit     *int64
	MemRequest   *int64
}

type CreateDeployment struct {
	RepositoryID    string        `json:"repositoryId"`
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	ExampleInput    []interface{} `json:"exampleInput,omitempty"`
	ExampleOutput   []interface{} `json:"exampleOutput,omitempty"`
	HasExampleInput bool          `json:"hasExampleInput"`

	ModelType         types.ModelType `json:"modelType"`
	ModelServerless   bool            `json:"modelServerless"`
	ModelInstanceType string          `json:"modelInstanceType,omitempty"`
	ModelCPULimit     *float64        `json:"modelCpuLimit,omitempty"`
	ModelCPURequest   *float64        `json:"modelCpuRequest,omitempty"`
	ModelMemLimit     *int64          `json:"modelMemLimit,omitempty"`
	ModelMemRequest   *int64          `json:"modelMemRequest,omitempty"`

	ExplainerType         types.ExplainerType `json:"explainerType"`
	ExplainerServerless   bool                `json:"explainerServerless"`
	ExplainerInstanceType string              `json:"explainerInstanceType,omitempty"`
	ExplainerCPULimit     *float64            `json:"explainerCpuLimit,omitempty"`
	ExplainerCPURequest   *float64            `json:"explainerCpuRequest,omitempty"`
	ExplainerMemLimit     *int64              `json:"explainerMemLimit,omitempty"`
	ExplainerMemRequest   *int64              `json:"explainerMemRequest,omitempty"`

	Method        types.PredictionMethod `json:"method,omitempty"`
	BranchName    string                 `json:"branchName"`
	Commit        string                 `json:"commit"`
	CommitMessage string                 `json:"commitMessage,omitempty"`
	ContractPath  string                 `json:"contractPath,omitempty"`
}

func (p *CreateDeployment) SetModelSizing(s Sizing) {
	p.ModelInstanceType = s.InstanceType
	p.ModelCPULimit, p.ModelCPURequest = s.CPULimit, s.CPURequest
	p.ModelMemLimit, p.ModelMemRequest = s.MemLimit, s.MemRequest
}

func (p *CreateDeployment) SetExplainerSizing(s Sizing) {
	p.ExplainerInstanceType = s.InstanceType
	p.ExplainerCPULimit, p.ExplainerCPURequest = s.CPULimit, s.CPURequest
	p.ExplainerMemLimit, p.ExplainerMemRequest = s.MemLimit, s.MemRequest
}

// VersionUpdate describes a new version of a deployment. Unset fields keep
// their current value.
type VersionUpdate struct {
	Commit              string                  `json:"commit,omitempty"`
	CommitMessage       string                  `json:"commitMessage,omitempty"`
	BranchName          string                  `json:"branchName,omitempty"`
	HasExampleInput     *bool                   `json:"hasExampleInput,omitempty"`
	ExampleInput        []interface{}           `json:"exampleInput,omitempty"`
	ExampleOutput       []interface{}           `json:"exampleOutput,omitempty"`
	ModelType           *types.ModelType        `json:"modelType,omitempty"`
	ModelServerless     *bool                   `json:"modelServerless,omitempty"`
	ExplainerType       *types.ExplainerType    `json:"explainerType,omitempty"`
	ExplainerServerless *bool                   `json:"explainerServerless,omitempty"`
	Method              *types.PredictionMethod `json:"method,omitempty"`
	ContractPath        string                  `json:"contractPath,omitempty"`
}

type UpdateDeployment struct {
	DeploymentID string         `json:"-"`
	UpdatingTo   *VersionUpdate `json:"updatingTo,omitempty"`
}

// Body is the pruned request body.
func (u *UpdateDeployment) Body() (map[string]interface{}, error) {
	return utils.PruneObject(u)
}

func (u *UpdateDeployment) HasContent() bool {
	body, err := u.Body()
	return err == nil && len(body) > 0
}

type UpdateDeploymentMetadata struct {
	DeploymentID string `json:"-"`
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`

	ModelInstanceType string   `json:"modelInstanceType,omitempty"`
	ModelCPULimit     *float64 `json:"modelCpuLimit,omitempty"`
	ModelCPURequest   *float64 `json:"modelCpuRequest,omitempty"`
	ModelMemLimit     *int64   `json:"modelMemLimit,omitempty"`
	ModelMemRequest   *int64   `json:"modelMemRequest,omitempty"`

	ExplainerInstanceType string   `json:"explainerInstanceType,omitempty"`
	ExplainerCPULimit     *float64 `json:"explainerCpuLimit,omitempty"`
	ExplainerCPURequest   *float64 `json:"explainerCpuRequest,omitempty"`
	ExplainerMemLimit     *int64   `json:"explainerMemLimit,omitempty"`
	ExplainerMemRequest   *int64   `json:"explainerMemRequest,omitempty"`
}

func (u *UpdateDeploymentMetadata) SetModelSizing(s Sizing) {
	u.ModelInstanceType = s.InstanceType
	u.ModelCPULimit, u.ModelCPURequest = s.CPULimit, s.CPURequest
	u.ModelMemLimit, u.ModelMemRequest = s.MemLimit, s.MemRequest
}

func (u *UpdateDeploymentMetadata) SetExplainerSizing(s Sizing) {
	u.ExplainerInstanceType = s.InstanceType
	u.ExplainerCPULimit, u.ExplainerCPURequest = s.CPULimit, s.CPURequest
	u.ExplainerMemLimit, u.ExplainerMemRequest = s.MemLimit, s.MemRequest
}

func (u *UpdateDeploymentMetadata) Body() (map[string]interface{}, error) {
	return utils.PruneObject(u)
}

func (u *UpdateDeploymentMetadata) HasContent() bool {
	body, err := u.Body()
	return err == nil && len(body) > 0
}

func (c *Client) GetDeployment(workspaceID, deploymentID string, withExamples bool) (*Deployment, error) {
	u := withQuery(
		fmt.Sprintf("/workspaces/%v/deployments/%v", workspaceID, deploymentID),
		url.Values{"withExamples": {strconv.FormatBool(withExamples)}},
	)

	var d = &Deployment{}
	if err := c.do(http.MethodGet, u, AuthBasic, nil, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (c *Client) CreateDeployment(workspaceID string, payload *CreateDeployment) (*Deployment, error) {
	u := fmt.Sprintf("/workspaces/%v/deployments", workspaceID)

	var d = &Deployment{}
	if err := c.do(http.MethodPost, u, AuthBasic, payload, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (c *Client) UpdateDeployment(workspaceID string, payload *UpdateDeployment) (*Deployment, error) {
	u := fmt.Sprintf("/workspaces/%v/deployments/%v", workspaceID, payload.DeploymentID)

	body, err := payload.Body()
	if err != nil {
		return nil, err
	}
	var d = &Deployment{}
	if err = c.do(http.MethodPatch, u, AuthBasic, body, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (c *Client) UpdateDeploymentMetadata(workspaceID string, payload *UpdateDeploymentMetadata) (*Deployment, error) {
	u := fmt.Sprintf("/workspaces/%v/deployments/%v/metadata", workspaceID, payload.DeploymentID)

	body, err := payload.Body()
	if err != nil {
		return nil, err
	}
	var resp = &struct {
		Data *Deployment `json:"data"`
	}{}
	if err = c.do(http.MethodPatch, u, AuthBasic, body, resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = &Deployment{ID: payload.DeploymentID}
	}
	return resp.Data, nil
}
