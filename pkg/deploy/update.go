package deploy

import (
	"net/http"

	"github.com/kuberlab/mldeploy/pkg/artifact"
	"github.com/kuberlab/mldeploy/pkg/errors"
	"github.com/kuberlab/mldeploy/pkg/platform"
	"github.com/sirupsen/logrus"
)

// Update publishes a new version of an existing deployment. Roles without a
// source keep their current artifacts and only changed fields are sent.
func (d *Deployer) Update(opts UpdateOptions) (*platform.Deployment, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := d.api.CheckAuth(platform.AuthBasic); err != nil {
		return nil, err
	}
	dep, err := d.api.GetDeployment(d.cfg.WorkspaceID, opts.DeploymentID, false)
	if err != nil {
		return nil, err
	}
	if dep.RepositoryID == "" {
		return nil, errors.Smart(
			http.StatusConflict,
			errors.RepositoryNotBound,
			"Deployment "+dep.ID+" has no repository",
		)
	}
	current := dep.Current()

	logrus.Info("Pulling the latest changes from the remote")
	if err = d.vcs.Pull(); err != nil {
		return nil, err
	}

	contract := opts.ContractPath
	if contract == "" {
		contract = current.ContractPath
	}
	l := newLayout(contract)
	changes := &changeSet{}

	modelType, err := d.resolveModel(dep.RepositoryID, opts.Model, l, opts.Overwrite, changes, &current.ModelType)
	if err != nil {
		return nil, err
	}
	explainerType, err := d.resolveExplainer(dep.RepositoryID, opts.Explainer, l, opts.Overwrite, changes, &current.ExplainerType)
	if err != nil {
		return nil, err
	}
	if opts.hasMetadata() {
		md := artifact.Metadata{
			FeatureLabels:     opts.FeatureLabels,
			ProblemType:       opts.ProblemType,
			PredictionClasses: opts.PredictionClasses,
		}
		if err = d.writeMetadata(l, md, opts.OverwriteMetadata, changes); err != nil {
			return nil, err
		}
	}

	var sha, committed string
	if opts.CommitSHA != "" {
		sha = opts.CommitSHA
	} else {
		name := dep.Name
		if opts.Name != nil {
			name = *opts.Name
		}
		msg, err := commitMessage(opts.CommitMessage, messageData{
			Name:          name,
			ModelType:     modelType.String(),
			ExplainerType: explainerType.String(),
			Roles:         changes.roles,
		}, true)
		if err != nil {
			return nil, err
		}
		if sha, committed, err = d.commit(changes, msg); err != nil {
			return nil, err
		}
	}

	version := &platform.VersionUpdate{
		ExampleInput:  opts.ExampleInput,
		ExampleOutput: opts.ExampleOutput,
	}
	// HEAD after the pull is not a new version unless this call committed.
	pinned := opts.CommitSHA != "" || changes.changed()
	if pinned && sha != current.Commit {
		branch, err := d.vcs.CurrentBranch()
		if err != nil {
			return nil, err
		}
		version.Commit = sha
		version.CommitMessage = committed
		version.BranchName = branch
	}
	if modelType != current.ModelType {
		version.ModelType = &modelType
	}
	if explainerType != current.ExplainerType {
		version.ExplainerType = &explainerType
	}
	if len(opts.ExampleInput) > 0 {
		has := true
		version.HasExampleInput = &has
	}
	if s := opts.Model.Serverless; s != nil && *s != current.ModelServerless {
		version.ModelServerless = s
	}
	if s := opts.Explainer.Serverless; s != nil && *s != current.ExplainerServerless {
		version.ExplainerServerless = s
	}
	if m := opts.PredictionMethod; m != nil && *m != current.Method {
		version.Method = m
	}
	if opts.ContractPath != "" && contractPath(l) != current.ContractPath {
		version.ContractPath = contractPath(l)
	}
	versionUpdate := &platform.UpdateDeployment{DeploymentID: dep.ID, UpdatingTo: version}

	meta := &platform.UpdateDeploymentMetadata{DeploymentID: dep.ID}
	if opts.Name != nil && *opts.Name != dep.Name {
		meta.Name = *opts.Name
	}
	if opts.Description != nil && *opts.Description != dep.Description {
		meta.Description = *opts.Description
	}
	meta.SetModelSizing(opts.Model.Resources.Sizing())
	meta.SetExplainerSizing(opts.Explainer.Resources.Sizing())

	result := dep
	if meta.HasContent() {
		logrus.Infof("Updating metadata of deployment %v", dep.ID)
		if result, err = d.api.UpdateDeploymentMetadata(d.cfg.WorkspaceID, meta); err != nil {
			return nil, err
		}
	}
	if versionUpdate.HasContent() {
		logrus.Infof("Updating deployment %v to commit %v", dep.ID, sha)
		if result, err = d.api.UpdateDeployment(d.cfg.WorkspaceID, versionUpdate); err != nil {
			return nil, err
		}
	}
	if result == dep {
		logrus.Info("Nothing to update")
	}
	return result, nil
}
