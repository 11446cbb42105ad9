package deploy

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/kuberlab/mldeploy/pkg/artifact"
	"github.com/kuberlab/mldeploy/pkg/errors"
	"github.com/kuberlab/mldeploy/pkg/mlmodel"
	"github.com/kuberlab/mldeploy/pkg/platform"
	"github.com/kuberlab/mldeploy/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type forest struct {
	fail bool
}

func (forest) Lineage() []string { return []string{mlmodel.SklearnBaseEstimator} }

func (f forest) WriteTo(w io.Writer) (int64, error) {
	if f.fail {
		return 0, io.ErrShortWrite
	}
	n, err := w.Write([]byte("joblib"))
	return int64(n), err
}

type tabularAnchor struct{}

func (tabularAnchor) Lineage() []string {
	return []string{mlmodel.AlibiExplainer, mlmodel.AlibiAnchorTabular}
}

func (tabularAnchor) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write([]byte("dill"))
	return int64(n), err
}

// unwritable resolves to sklearn but has no way to be saved.
type unwritable struct{}

func (unwritable) Lineage() []string { return []string{mlmodel.SklearnBaseEstimator} }

func setup(t *testing.T) (*Deployer, *fakeVCS, *fakeAPI) {
	t.Helper()
	vcs := newFakeVCS(t.TempDir())
	api := newFakeAPI()
	return NewDeployer(Config{WorkspaceID: "ws-1"}, vcs, api), vcs, api
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDeploy_MissingModelReference(t *testing.T) {
	d, vcs, api := setup(t)

	_, err := d.Deploy(DeployOptions{Name: "iris"})
	require.Error(t, err)
	assert.True(t, errors.HasReason(err, errors.MissingModelReference))
	assert.Empty(t, vcs.commits)
	assert.Zero(t, vcs.pushes)
	assert.Empty(t, api.created)
}

func TestDeploy_InlineModel(t *testing.T) {
	d, vcs, api := setup(t)

	dep, err := d.Deploy(DeployOptions{
		Name:         "iris",
		Model:        ModelOptions{Source: InlineSource(forest{})},
		ExampleInput: []interface{}{[]interface{}{1, 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, "dep-new", dep.ID)

	require.Len(t, api.uploads, 1)
	assert.Equal(t, "model", api.uploads[0].folder)
	assert.NotEmpty(t, api.uploads[0].batch)

	ref, err := artifact.ReadReference(filepath.Join(vcs.root, types.ModelDir))
	require.NoError(t, err)
	require.NotNil(t, ref.Blob)
	assert.Equal(t, "s3://bucket/ws-1/repo-1/"+api.uploads[0].batch+"/model", ref.Blob.URL)
	_, err = os.Stat(filepath.Join(vcs.root, types.ModelDir, mlmodel.SklearnFile))
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, []string{"model", "metadata.json"}, vcs.staged)
	assert.Equal(t, []string{"[mldeploy] Add new model"}, vcs.commits)
	assert.Equal(t, 1, vcs.pushes)
	assert.Equal(t, 1, vcs.pulls)

	require.Len(t, api.created, 1)
	p := api.created[0]
	assert.Equal(t, "repo-1", p.RepositoryID)
	assert.Equal(t, types.ModelTypeSklearn, p.ModelType)
	assert.Equal(t, types.ExplainerTypeNone, p.ExplainerType)
	assert.Equal(t, "sha-1", p.Commit)
	assert.Equal(t, "main", p.BranchName)
	assert.Equal(t, "[mldeploy] Add new model", p.CommitMessage)
	assert.True(t, p.HasExampleInput)
	assert.Empty(t, p.ContractPath)
}

func TestDeploy_InlineModelAndExplainerInContract(t *testing.T) {
	d, vcs, api := setup(t)

	_, err := d.Deploy(DeployOptions{
		Name:         "iris",
		ContractPath: "contracts/iris",
		Model:        ModelOptions{Source: InlineSource(forest{})},
		Explainer:    ExplainerOptions{Source: DockerSource(artifact.DockerReference{Image: "acme/explainer:1"})},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"contracts/iris/model", "contracts/iris/explainer", "contracts/iris/metadata.json"}, vcs.staged)
	assert.Equal(t, []string{"[mldeploy] Add new model and explainer"}, vcs.commits)
	assert.Equal(t, "contracts/iris/model", api.uploads[0].folder)

	p := api.created[0]
	assert.Equal(t, types.ExplainerTypeCustom, p.ExplainerType)
	assert.Equal(t, "contracts/iris", p.ContractPath)
}

func TestDeploy_InlineExplainer(t *testing.T) {
	d, vcs, api := setup(t)

	_, err := d.Deploy(DeployOptions{
		Name:      "iris",
		Model:     ModelOptions{Source: InlineSource(forest{})},
		Explainer: ExplainerOptions{Source: InlineSource(tabularAnchor{})},
	})
	require.NoError(t, err)

	require.Len(t, api.uploads, 2)
	assert.Equal(t, "model", api.uploads[0].folder)
	assert.Equal(t, "explainer", api.uploads[1].folder)
	assert.Equal(t, mlmodel.ExplainerFile, filepath.Base(api.uploads[1].path))
	assert.NotEqual(t, api.uploads[0].batch, api.uploads[1].batch)

	ref, err := artifact.ReadReference(filepath.Join(vcs.root, types.ExplainerDir))
	require.NoError(t, err)
	require.NotNil(t, ref.Blob)
	assert.Equal(t, "s3://bucket/ws-1/repo-1/"+api.uploads[1].batch+"/explainer", ref.Blob.URL)
	_, err = os.Stat(filepath.Join(vcs.root, types.ExplainerDir, mlmodel.ExplainerFile))
	assert.True(t, os.IsNotExist(err))

	assert.Equal(t, []string{"model", "explainer", "metadata.json"}, vcs.staged)
	assert.Equal(t, []string{"[mldeploy] Add new model and explainer"}, vcs.commits)
	assert.Equal(t, types.ExplainerTypeAnchorTabular, api.created[0].ExplainerType)
	assert.Equal(t, types.ModelTypeSklearn, api.created[0].ModelType)
}

func TestDeploy_SaveFailureClearsDirectory(t *testing.T) {
	for name, obj := range map[string]interface{}{
		"write error":   forest{fail: true},
		"no serializer": unwritable{},
	} {
		t.Run(name, func(t *testing.T) {
			d, vcs, api := setup(t)

			_, err := d.Deploy(DeployOptions{Name: "iris", Model: ModelOptions{Source: InlineSource(obj)}})
			require.Error(t, err)
			assert.True(t, errors.HasReason(err, errors.SerializationFailed))

			entries, err := os.ReadDir(filepath.Join(vcs.root, types.ModelDir))
			require.NoError(t, err)
			assert.Empty(t, entries)
			assert.Empty(t, api.uploads)
			assert.Empty(t, vcs.commits)
		})
	}
}

func TestDeploy_ExistingNonEmptyDirectory(t *testing.T) {
	d, vcs, _ := setup(t)
	writeFile(t, filepath.Join(vcs.root, "model", "old.bin"), "old")

	_, err := d.Deploy(DeployOptions{Name: "iris", Model: ModelOptions{Source: InlineSource(forest{})}})
	require.Error(t, err)
	assert.True(t, errors.HasReason(err, errors.DirectoryNotEmpty))

	_, err = d.Deploy(DeployOptions{Name: "iris", Model: ModelOptions{Source: InlineSource(forest{})}, Overwrite: true})
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(vcs.root, "model", "old.bin"))
	assert.True(t, os.IsNotExist(err))
	assert.Contains(t, vcs.unstaged, "model")
}

func TestDeploy_NothingChangedReusesHead(t *testing.T) {
	d, vcs, api := setup(t)
	writeFile(t, filepath.Join(vcs.root, "model", types.ReferenceFile), `{"reference":{"docker":{"image":"acme/model:1"}}}`)
	writeFile(t, filepath.Join(vcs.root, types.MetadataFile), `{}`)

	_, err := d.Deploy(DeployOptions{Name: "iris"})
	require.NoError(t, err)

	assert.Empty(t, vcs.commits)
	assert.Zero(t, vcs.pushes)
	p := api.created[0]
	assert.Equal(t, "head-sha", p.Commit)
	assert.Empty(t, p.CommitMessage)
	assert.Equal(t, types.ModelTypeCustom, p.ModelType)
	assert.Equal(t, types.ExplainerTypeNone, p.ExplainerType)
}

func TestDeploy_BlobRequiresType(t *testing.T) {
	d, _, api := setup(t)

	_, err := d.Deploy(DeployOptions{
		Name:  "iris",
		Model: ModelOptions{Source: BlobSource(artifact.BlobReference{URL: "s3://b/m"})},
	})
	assert.True(t, errors.HasReason(err, errors.InvalidOptions))

	xgb := types.ModelTypeXGBoost
	_, err = d.Deploy(DeployOptions{
		Name:  "iris",
		Model: ModelOptions{Source: BlobSource(artifact.BlobReference{URL: "s3://b/m"}), Type: &xgb},
	})
	require.NoError(t, err)
	assert.Equal(t, types.ModelTypeXGBoost, api.created[0].ModelType)
}

func TestDeploy_CommitMessageTemplate(t *testing.T) {
	d, vcs, _ := setup(t)

	_, err := d.Deploy(DeployOptions{
		Name:          "iris",
		Model:         ModelOptions{Source: DockerSource(artifact.DockerReference{Image: "acme/model:1"})},
		CommitMessage: "Deploy {{ .Name }} ({{ .ModelType }})",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Deploy iris (custom)"}, vcs.commits)
}

func TestDeploy_Resources(t *testing.T) {
	d, _, api := setup(t)

	res := &platform.Resources{InstanceType: "small"}
	_, err := d.Deploy(DeployOptions{
		Name:  "iris",
		Model: ModelOptions{Source: DockerSource(artifact.DockerReference{Image: "acme/model:1"}), Resources: res},
	})
	require.NoError(t, err)
	assert.Equal(t, "small", api.created[0].ModelInstanceType)
	assert.Empty(t, api.created[0].ExplainerInstanceType)
}

func TestDeploy_RepositoryBinding(t *testing.T) {
	t.Run("https link matches ssh remote", func(t *testing.T) {
		d, vcs, api := setup(t)
		api.repos = []platform.Repository{{ID: "repo-h", GitSSHPullLink: "https://github.com/acme/models"}}
		writeFile(t, filepath.Join(vcs.root, "model", types.ReferenceFile), `{"reference":{"docker":{"image":"m"}}}`)

		_, err := d.Deploy(DeployOptions{Name: "iris"})
		require.NoError(t, err)
		assert.Equal(t, "repo-h", api.created[0].RepositoryID)
	})
	t.Run("no match", func(t *testing.T) {
		d, vcs, _ := setup(t)
		vcs.remote = "git@github.com:acme/unknown.git"

		_, err := d.Deploy(DeployOptions{Name: "iris"})
		require.Error(t, err)
		assert.True(t, errors.HasReason(err, errors.RepositoryNotBound))
		assert.Zero(t, vcs.pulls)
	})
	t.Run("several matches", func(t *testing.T) {
		d, _, api := setup(t)
		api.repos = append(api.repos, platform.Repository{ID: "repo-3", GitSSHPullLink: "ssh://git@github.com/acme/models.git"})

		_, err := d.Deploy(DeployOptions{Name: "iris"})
		require.Error(t, err)
		assert.True(t, errors.HasReason(err, errors.RepositoryNotBound))
		assert.Equal(t, http.StatusConflict, err.(*errors.Error).HttpStatus())
	})
}

func TestDeploy_AuthFailure(t *testing.T) {
	d, vcs, api := setup(t)
	api.authErr = errors.Smart(http.StatusUnauthorized, errors.MissingCredentials, "keys required")

	_, err := d.Deploy(DeployOptions{Name: "iris"})
	assert.True(t, errors.HasReason(err, errors.MissingCredentials))
	assert.Zero(t, vcs.pulls)
}

func TestDeploy_Validate(t *testing.T) {
	d, vcs, _ := setup(t)

	_, err := d.Deploy(DeployOptions{})
	assert.True(t, errors.HasReason(err, errors.InvalidOptions))

	_, err = d.Deploy(DeployOptions{Name: "iris", PredictionMethod: "transform"})
	assert.True(t, errors.HasReason(err, errors.InvalidOptions))
	assert.Zero(t, vcs.pulls)
}

func TestFolderLocation(t *testing.T) {
	cases := map[string]struct{ location, folder, want string }{
		"nested file": {"s3://b/ws/r/batch/model/sub/a.bin", "model", "s3://b/ws/r/batch/model"},
		"contract":    {"gs://b/x/c/iris/model/model.pt", "c/iris/model", "gs://b/x/c/iris/model"},
		"bare suffix": {"blob://store/model", "model", "blob://store/model"},
		"unknown":     {"https://host/object", "model", "https://host/object"},
	}
	for name, c := range cases {
		assert.Equal(t, c.want, folderLocation(c.location, c.folder), name)
	}
}

func TestDefaultMessage(t *testing.T) {
	assert.Equal(t, "[mldeploy] Add new model", defaultMessage([]string{"model", "metadata"}, false))
	assert.Equal(t, "[mldeploy] Add new explainer", defaultMessage([]string{"explainer"}, false))
	assert.Equal(t, "[mldeploy] Update model and explainer", defaultMessage([]string{"explainer", "model"}, true))
	assert.Equal(t, "[mldeploy] Update metadata", defaultMessage([]string{"metadata"}, true))
}
