package deploy

import (
	"net/http"
	"os"

	"github.com/ghodss/yaml"
	"github.com/kuberlab/mldeploy/pkg/artifact"
	"github.com/kuberlab/mldeploy/pkg/errors"
	"github.com/kuberlab/mldeploy/pkg/platform"
	"github.com/kuberlab/mldeploy/pkg/types"
)

// DeployFile is the YAML form of deploy options. Only references can be
// described in a file.
type DeployFile struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ContractPath string `json:"contractPath,omitempty"`

	Model     RoleSpec `json:"model"`
	Explainer RoleSpec `json:"explainer"`

	ExampleInput      []interface{}           `json:"exampleInput,omitempty"`
	ExampleOutput     []interface{}           `json:"exampleOutput,omitempty"`
	PredictionMethod  *types.PredictionMethod `json:"predictionMethod,omitempty"`
	FeatureLabels     []string                `json:"featureLabels,omitempty"`
	ProblemType       types.ProblemType       `json:"problemType,omitempty"`
	PredictionClasses map[string]string       `json:"predictionClasses,omitempty"`

	CommitMessage     string `json:"commitMessage,omitempty"`
	Overwrite         bool   `json:"overwrite,omitempty"`
	OverwriteMetadata bool   `json:"overwriteMetadata,omitempty"`
}

type RoleSpec struct {
	// Type is a model or explainer type name, depending on the role.
	Type       string                    `json:"type,omitempty"`
	Serverless *bool                     `json:"serverless,omitempty"`
	Docker     *artifact.DockerReference `json:"docker,omitempty"`
	Blob       *artifact.BlobReference   `json:"blob,omitempty"`
	Resources  *platform.Resources       `json:"resources,omitempty"`
}

func ParseDeployFile(data []byte) (*DeployFile, error) {
	f := &DeployFile{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, errors.Smart(http.StatusBadRequest, errors.InvalidOptions, "Failed parse deploy file: "+err.Error(), err)
	}
	return f, nil
}

func ReadDeployFile(path string) (*DeployFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Smart(err)
	}
	return ParseDeployFile(data)
}

func (r RoleSpec) source() Source {
	return SourceOf(nil, r.Docker, r.Blob)
}

func (r RoleSpec) model() (ModelOptions, error) {
	o := ModelOptions{Source: r.source(), Serverless: r.Serverless, Resources: r.Resources}
	if r.Type != "" {
		t, err := types.ParseModelType(r.Type)
		if err != nil {
			return o, invalid("%v", err)
		}
		o.Type = &t
	}
	return o, nil
}

func (r RoleSpec) explainer() (ExplainerOptions, error) {
	o := ExplainerOptions{Source: r.source(), Serverless: r.Serverless, Resources: r.Resources}
	if r.Type != "" {
		t, err := types.ParseExplainerType(r.Type)
		if err != nil {
			return o, invalid("%v", err)
		}
		o.Type = &t
	}
	return o, nil
}

func (f *DeployFile) Options() (DeployOptions, error) {
	model, err := f.Model.model()
	if err != nil {
		return DeployOptions{}, err
	}
	explainer, err := f.Explainer.explainer()
	if err != nil {
		return DeployOptions{}, err
	}
	opts := DeployOptions{
		Name:              f.Name,
		Description:       f.Description,
		ContractPath:      f.ContractPath,
		Model:             model,
		Explainer:         explainer,
		ExampleInput:      f.ExampleInput,
		ExampleOutput:     f.ExampleOutput,
		FeatureLabels:     f.FeatureLabels,
		ProblemType:       f.ProblemType,
		PredictionClasses: f.PredictionClasses,
		CommitMessage:     f.CommitMessage,
		Overwrite:         f.Overwrite,
		OverwriteMetadata: f.OverwriteMetadata,
	}
	if f.PredictionMethod != nil {
		opts.PredictionMethod = *f.PredictionMethod
	}
	return opts, nil
}

// UpdateOptions treats empty name and description as unchanged.
func (f *DeployFile) UpdateOptions(deploymentID, commitSHA string) (UpdateOptions, error) {
	model, err := f.Model.model()
	if err != nil {
		return UpdateOptions{}, err
	}
	explainer, err := f.Explainer.explainer()
	if err != nil {
		return UpdateOptions{}, err
	}
	opts := UpdateOptions{
		DeploymentID:      deploymentID,
		ContractPath:      f.ContractPath,
		Model:             model,
		Explainer:         explainer,
		ExampleInput:      f.ExampleInput,
		ExampleOutput:     f.ExampleOutput,
		PredictionMethod:  f.PredictionMethod,
		FeatureLabels:     f.FeatureLabels,
		ProblemType:       f.ProblemType,
		PredictionClasses: f.PredictionClasses,
		CommitSHA:         commitSHA,
		CommitMessage:     f.CommitMessage,
		Overwrite:         f.Overwrite,
		OverwriteMetadata: f.OverwriteMetadata,
	}
	if f.Name != "" {
		opts.Name = &f.Name
	}
	if f.Description != "" {
		opts.Description = &f.Description
	}
	return opts, nil
}
