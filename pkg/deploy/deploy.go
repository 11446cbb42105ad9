package deploy

import (
	"path/filepath"

	"github.com/kuberlab/mldeploy/pkg/artifact"
	"github.com/kuberlab/mldeploy/pkg/platform"
	"github.com/sirupsen/logrus"
)

// Deploy publishes the model and the optional explainer of opts as a new
// deployment of the platform repository bound to the working copy.
func (d *Deployer) Deploy(opts DeployOptions) (*platform.Deployment, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := d.api.CheckAuth(platform.AuthBasic); err != nil {
		return nil, err
	}
	repo, err := d.bindRepository()
	if err != nil {
		return nil, err
	}
	logrus.Info("Pulling the latest changes from the remote")
	if err = d.vcs.Pull(); err != nil {
		return nil, err
	}

	l := newLayout(opts.ContractPath)
	changes := &changeSet{}

	modelType, err := d.resolveModel(repo.ID, opts.Model, l, opts.Overwrite, changes, nil)
	if err != nil {
		return nil, err
	}
	explainerType, err := d.resolveExplainer(repo.ID, opts.Explainer, l, opts.Overwrite, changes, nil)
	if err != nil {
		return nil, err
	}
	md := artifact.Metadata{
		FeatureLabels:     opts.FeatureLabels,
		ProblemType:       opts.ProblemType,
		PredictionClasses: opts.PredictionClasses,
	}
	if err = d.writeMetadata(l, md, opts.OverwriteMetadata, changes); err != nil {
		return nil, err
	}

	msg, err := commitMessage(opts.CommitMessage, messageData{
		Name:          opts.Name,
		ModelType:     modelType.String(),
		ExplainerType: explainerType.String(),
		Roles:         changes.roles,
	}, false)
	if err != nil {
		return nil, err
	}
	sha, committed, err := d.commit(changes, msg)
	if err != nil {
		return nil, err
	}
	branch, err := d.vcs.CurrentBranch()
	if err != nil {
		return nil, err
	}

	payload := &platform.CreateDeployment{
		RepositoryID:    repo.ID,
		Name:            opts.Name,
		Description:     opts.Description,
		ExampleInput:    opts.ExampleInput,
		ExampleOutput:   opts.ExampleOutput,
		HasExampleInput: len(opts.ExampleInput) > 0,
		ModelType:       modelType,
		ExplainerType:   explainerType,
		Method:          opts.PredictionMethod,
		BranchName:      branch,
		Commit:          sha,
		CommitMessage:   committed,
		ContractPath:    contractPath(l),
	}
	if opts.Model.Serverless != nil {
		payload.ModelServerless = *opts.Model.Serverless
	}
	if opts.Explainer.Serverless != nil {
		payload.ExplainerServerless = *opts.Explainer.Serverless
	}
	payload.SetModelSizing(opts.Model.Resources.Sizing())
	payload.SetExplainerSizing(opts.Explainer.Resources.Sizing())

	logrus.Infof("Creating deployment %v from commit %v", opts.Name, sha)
	return d.api.CreateDeployment(d.cfg.WorkspaceID, payload)
}

func contractPath(l layout) string {
	if l.contract == "." {
		return ""
	}
	return filepath.ToSlash(l.contract)
}
