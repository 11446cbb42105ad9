package deploy

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/kuberlab/mldeploy/pkg/apputil"
	"github.com/kuberlab/mldeploy/pkg/artifact"
	"github.com/kuberlab/mldeploy/pkg/errors"
	"github.com/kuberlab/mldeploy/pkg/mlmodel"
	"github.com/kuberlab/mldeploy/pkg/platform"
	"github.com/kuberlab/mldeploy/pkg/types"
	"github.com/sirupsen/logrus"
)

type Config struct {
	WorkspaceID string

	// Optional, the defaults of pkg/mlmodel are used when nil.
	ModelResolver     *mlmodel.ModelResolver
	ExplainerResolver *mlmodel.ExplainerResolver
	Serializers       *mlmodel.Serializers
}

// Deployer publishes models from one working copy. Calls on one Deployer
// must not overlap.
type Deployer struct {
	cfg    Config
	vcs    VersionControl
	api    PlatformAPI
	stager *artifact.Stager
}

func NewDeployer(cfg Config, vcs VersionControl, api PlatformAPI) *Deployer {
	if cfg.ModelResolver == nil {
		cfg.ModelResolver = mlmodel.NewModelResolver()
	}
	if cfg.ExplainerResolver == nil {
		cfg.ExplainerResolver = mlmodel.NewExplainerResolver()
	}
	if cfg.Serializers == nil {
		cfg.Serializers = mlmodel.DefaultSerializers()
	}
	return &Deployer{
		cfg:    cfg,
		vcs:    vcs,
		api:    api,
		stager: artifact.NewStager(vcs.Root(), vcs),
	}
}

// layout holds the working copy relative paths of one contract.
type layout struct {
	contract  string
	model     string
	explainer string
	metadata  string
}

func newLayout(contractPath string) layout {
	contract := filepath.Clean(contractPath)
	return layout{
		contract:  contract,
		model:     filepath.Join(contract, types.ModelDir),
		explainer: filepath.Join(contract, types.ExplainerDir),
		metadata:  filepath.Join(contract, types.MetadataFile),
	}
}

// changeSet accumulates the paths written during one call. Nothing is
// committed while it is empty.
type changeSet struct {
	paths []string
	roles []string
}

func (c *changeSet) mark(role, path string) {
	c.paths = append(c.paths, path)
	c.roles = append(c.roles, role)
}

func (c *changeSet) changed() bool {
	return len(c.paths) > 0
}

func (d *Deployer) path(rel string) string {
	return filepath.Join(d.vcs.Root(), rel)
}

func (d *Deployer) bindRepository() (*platform.Repository, error) {
	remote, err := d.vcs.RemoteURL()
	if err != nil {
		return nil, errors.Smart(http.StatusBadRequest, errors.RepositoryNotBound, fmt.Sprintf("Failed read remote url: %v", err), err)
	}
	repos, err := d.api.ListRepositories(d.cfg.WorkspaceID)
	if err != nil {
		return nil, err
	}
	var matches []platform.Repository
	for _, r := range repos {
		if apputil.SameRemote(r.GitSSHPullLink, remote) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return nil, errors.Smart(
			http.StatusNotFound,
			errors.RepositoryNotBound,
			fmt.Sprintf("Repository %v was not found in workspace %v. Make sure it is connected", remote, d.cfg.WorkspaceID),
		)
	case 1:
		logrus.Debugf("Repository %v bound to %v", remote, matches[0].ID)
		return &matches[0], nil
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	return nil, errors.Smart(
		http.StatusConflict,
		errors.RepositoryNotBound,
		fmt.Sprintf("Repository %v matches several repositories of workspace %v: %v", remote, d.cfg.WorkspaceID, strings.Join(ids, ", ")),
	)
}

// materialize saves an object into rel, uploads it and replaces the saved
// files by a blob reference.
func (d *Deployer) materialize(repositoryID, rel string, overwrite bool, save func(dir string) error) error {
	if err := d.stager.Prepare(rel, overwrite); err != nil {
		return err
	}
	dir := d.path(rel)
	if err := save(dir); err != nil {
		d.discard(rel)
		return err
	}
	location, err := d.uploadFolder(repositoryID, rel)
	if err != nil {
		d.discard(rel)
		return err
	}
	if err = d.stager.Clear(rel); err != nil {
		return err
	}
	return artifact.WriteReference(dir, artifact.BlobURL(location))
}

func (d *Deployer) discard(rel string) {
	if err := d.stager.Clear(rel); err != nil {
		logrus.Warnf("Failed clear %v: %v", rel, err)
	}
}

func (d *Deployer) writeReference(rel string, ref artifact.Reference) error {
	if err := d.stager.Clear(rel); err != nil {
		return err
	}
	return artifact.WriteReference(d.path(rel), ref)
}

func (d *Deployer) resolveModel(repositoryID string, opts ModelOptions, l layout, overwrite bool, changes *changeSet, current *types.ModelType) (types.ModelType, error) {
	hint := opts.Type
	if hint == nil {
		hint = current
	}
	switch opts.Source.Kind() {
	case SourceInline:
		w, err := mlmodel.NewModelWrapper(opts.Source.Object(), d.cfg.ModelResolver, d.cfg.Serializers)
		if err != nil {
			return 0, err
		}
		logrus.Infof("Saving the %v model to disk", w.Kind())
		if err = d.materialize(repositoryID, l.model, overwrite, w.Save); err != nil {
			return 0, err
		}
		changes.mark(types.RoleModel, l.model)
		return w.Kind(), nil
	case SourceDocker:
		if err := d.writeReference(l.model, opts.Source.Reference()); err != nil {
			return 0, err
		}
		changes.mark(types.RoleModel, l.model)
		return types.ModelTypeCustom, nil
	case SourceBlob:
		if hint == nil {
			return 0, invalid("model type is required for a blob reference")
		}
		if err := d.writeReference(l.model, opts.Source.Reference()); err != nil {
			return 0, err
		}
		changes.mark(types.RoleModel, l.model)
		return *hint, nil
	}
	logrus.Debugf("Reading existing model reference in %v", l.model)
	return artifact.ReadModelKind(d.path(l.model), hint)
}

func (d *Deployer) resolveExplainer(repositoryID string, opts ExplainerOptions, l layout, overwrite bool, changes *changeSet, current *types.ExplainerType) (types.ExplainerType, error) {
	hint := opts.Type
	if hint == nil {
		hint = current
	}
	switch opts.Source.Kind() {
	case SourceInline:
		w, err := mlmodel.NewExplainerWrapper(opts.Source.Object(), d.cfg.ExplainerResolver, d.cfg.Serializers)
		if err != nil {
			return types.ExplainerTypeNone, err
		}
		logrus.Infof("Saving the %v explainer to disk", w.Kind())
		if err = d.materialize(repositoryID, l.explainer, overwrite, w.Save); err != nil {
			return types.ExplainerTypeNone, err
		}
		changes.mark(types.RoleExplainer, l.explainer)
		return w.Kind(), nil
	case SourceDocker:
		if err := d.writeReference(l.explainer, opts.Source.Reference()); err != nil {
			return types.ExplainerTypeNone, err
		}
		changes.mark(types.RoleExplainer, l.explainer)
		return types.ExplainerTypeCustom, nil
	case SourceBlob:
		if hint == nil {
			return types.ExplainerTypeNone, invalid("explainer type is required for a blob reference")
		}
		if err := d.writeReference(l.explainer, opts.Source.Reference()); err != nil {
			return types.ExplainerTypeNone, err
		}
		changes.mark(types.RoleExplainer, l.explainer)
		return *hint, nil
	}
	logrus.Debugf("Reading existing explainer reference in %v", l.explainer)
	return artifact.ReadExplainerKind(d.path(l.explainer), hint)
}

func (d *Deployer) writeMetadata(l layout, md artifact.Metadata, overwrite bool, changes *changeSet) error {
	written, err := artifact.WriteMetadata(d.path(l.contract), md, overwrite)
	if err != nil {
		return err
	}
	if written {
		changes.mark("metadata", l.metadata)
	}
	return nil
}

// commit stages and commits the change set and pushes it. Without changes
// HEAD is returned and the message is empty.
func (d *Deployer) commit(changes *changeSet, message string) (sha string, committed string, err error) {
	if !changes.changed() {
		logrus.Info("Nothing changed, using the current commit")
		sha, err = d.vcs.HeadCommitSHA()
		return sha, "", err
	}
	for _, p := range changes.paths {
		if err = d.vcs.Stage(filepath.ToSlash(p)); err != nil {
			return "", "", err
		}
	}
	logrus.Info("Committing and pushing the result to the remote")
	if sha, err = d.vcs.Commit(message); err != nil {
		return "", "", err
	}
	if err = d.vcs.Push(); err != nil {
		return "", "", err
	}
	return sha, message, nil
}
