package deploy

import (
	"fmt"
	"net/http"

	"github.com/kuberlab/mldeploy/pkg/errors"
	"github.com/kuberlab/mldeploy/pkg/platform"
	"github.com/kuberlab/mldeploy/pkg/types"
)

type ModelOptions struct {
	Source Source
	// Type is required for blob references, the kind can not be detected.
	Type       *types.ModelType
	Serverless *bool
	Resources  *platform.Resources
}

type ExplainerOptions struct {
	Source     Source
	Type       *types.ExplainerType
	Serverless *bool
	Resources  *platform.Resources
}

type DeployOptions struct {
	Name        string
	Description string
	// ContractPath is the directory, relative to the repository root, that
	// holds model/, explainer/ and metadata.json.
	ContractPath string

	Model     ModelOptions
	Explainer ExplainerOptions

	ExampleInput      []interface{}
	ExampleOutput     []interface{}
	PredictionMethod  types.PredictionMethod
	FeatureLabels     []string
	ProblemType       types.ProblemType
	PredictionClasses map[string]string

	// CommitMessage is a text/template, see messageData.
	CommitMessage     string
	Overwrite         bool
	OverwriteMetadata bool
}

type UpdateOptions struct {
	DeploymentID string
	Name         *string
	Description  *string
	ContractPath string

	Model     ModelOptions
	Explainer ExplainerOptions

	ExampleInput      []interface{}
	ExampleOutput     []interface{}
	PredictionMethod  *types.PredictionMethod
	FeatureLabels     []string
	ProblemType       types.ProblemType
	PredictionClasses map[string]string

	// CommitSHA, when set, is used as is and nothing is written or committed.
	CommitSHA         string
	CommitMessage     string
	Overwrite         bool
	OverwriteMetadata bool
}

func invalid(format string, args ...interface{}) error {
	return errors.Smart(http.StatusBadRequest, errors.InvalidOptions, fmt.Sprintf(format, args...))
}

func validateRoles(model ModelOptions, explainer ExplainerOptions) error {
	if model.Source.Kind() == SourceInline && model.Source.Object() == nil {
		return invalid("model object is nil")
	}
	if explainer.Source.Kind() == SourceInline && explainer.Source.Object() == nil {
		return invalid("explainer object is nil")
	}
	if model.Type != nil && !model.Type.Valid() {
		return invalid("unknown model type %v", *model.Type)
	}
	if explainer.Type != nil && !explainer.Type.Valid() {
		return invalid("unknown explainer type %v", *explainer.Type)
	}
	if err := model.Resources.Validate(); err != nil {
		return err
	}
	return explainer.Resources.Validate()
}

func validateMetadata(problemType types.ProblemType) error {
	if problemType != "" && !problemType.Valid() {
		return invalid("unknown problem type %q", problemType)
	}
	return nil
}

func (o *DeployOptions) Validate() error {
	if o.Name == "" {
		return invalid("deployment name is required")
	}
	if o.PredictionMethod != "" && !o.PredictionMethod.Valid() {
		return invalid("unknown prediction method %q", o.PredictionMethod)
	}
	if o.Model.Source.Kind() == SourceBlob && o.Model.Type == nil {
		return invalid("model type is required for a blob reference")
	}
	if o.Explainer.Source.Kind() == SourceBlob && o.Explainer.Type == nil {
		return invalid("explainer type is required for a blob reference")
	}
	if err := validateMetadata(o.ProblemType); err != nil {
		return err
	}
	return validateRoles(o.Model, o.Explainer)
}

func (o *UpdateOptions) Validate() error {
	if o.DeploymentID == "" {
		return invalid("deployment id is required")
	}
	if o.Name != nil && *o.Name == "" {
		return invalid("deployment name can not be empty")
	}
	if o.PredictionMethod != nil && !o.PredictionMethod.Valid() {
		return invalid("unknown prediction method %q", *o.PredictionMethod)
	}
	if err := validateMetadata(o.ProblemType); err != nil {
		return err
	}
	if o.CommitSHA != "" {
		if o.Model.Source.Kind() != SourceExisting || o.Explainer.Source.Kind() != SourceExisting {
			return invalid("commit %v is given, model and explainer sources can not be set", o.CommitSHA)
		}
		if o.hasMetadata() {
			return invalid("commit %v is given, metadata can not be set", o.CommitSHA)
		}
	}
	return validateRoles(o.Model, o.Explainer)
}

func (o *UpdateOptions) hasMetadata() bool {
	return len(o.FeatureLabels) > 0 || o.ProblemType != "" || len(o.PredictionClasses) > 0
}
