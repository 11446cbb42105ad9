package mlmodel

import (
	"testing"

	"github.com/kuberlab/mldeploy/pkg/errors"
	"github.com/kuberlab/mldeploy/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type foreign []string

func (f foreign) Lineage() []string { return f }

type estimator struct{}

func (estimator) Lineage() []string { return []string{SklearnBaseEstimator} }

type classifier struct {
	estimator
	Depth int
}

type boosted struct {
	*classifier
}

func (*boosted) Lineage() []string {
	return []string{XGBoostModel, SklearnBaseEstimator}
}

type plain struct{}

func TestModelResolver_Resolve(t *testing.T) {
	r := NewModelResolver()
	cases := map[string]struct {
		obj  interface{}
		kind types.ModelType
	}{
		"sklearn":            {foreign{SklearnBaseEstimator}, types.ModelTypeSklearn},
		"embedded sklearn":   {&classifier{}, types.ModelTypeSklearn},
		"xgboost over base":  {&boosted{classifier: &classifier{}}, types.ModelTypeXGBoost},
		"lightgbm over base": {foreign{SklearnBaseEstimator, LightGBMModel}, types.ModelTypeLightGBM},
		"pytorch":            {foreign{TorchModule}, types.ModelTypePytorch},
		"tensorflow":         {foreign{KerasModel}, types.ModelTypeTensorflow},
		"keras engine":       {foreign{KerasEngineModel}, types.ModelTypeTensorflow},
		"onnx":               {foreign{ONNXModelProto}, types.ModelTypeONNX},
		"triton":             {foreign{TritonModelRepository}, types.ModelTypeTriton},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			kind, err := r.Resolve(c.obj)
			require.NoError(t, err)
			assert.Equal(t, c.kind, kind)
		})
	}
}

func TestModelResolver_Unsupported(t *testing.T) {
	r := NewModelResolver()
	for _, obj := range []interface{}{nil, plain{}, &plain{}, 42, foreign{"some.other.Type"}} {
		_, err := r.Resolve(obj)
		require.Error(t, err)
		assert.True(t, errors.HasReason(err, errors.UnsupportedArtifactKind), "%T", obj)
	}
}

func TestModelResolver_InsertBefore(t *testing.T) {
	r := NewModelResolver()
	r.InsertBefore("sklearn", ModelPredicate{
		Name:  "custom",
		Kind:  types.ModelTypeCustom,
		Match: DerivesFrom("my.Estimator"),
	})

	kind, err := r.Resolve(foreign{"my.Estimator", SklearnBaseEstimator})
	require.NoError(t, err)
	assert.Equal(t, types.ModelTypeCustom, kind)

	names := []string{}
	for _, p := range r.Predicates() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"xgboost", "lightgbm", "custom", "sklearn", "pytorch", "tensorflow", "onnx", "triton"}, names)
}

func TestExplainerResolver_Resolve(t *testing.T) {
	r := NewExplainerResolver()

	kind, err := r.Resolve(foreign{AlibiExplainer, AlibiAnchorTabular})
	require.NoError(t, err)
	assert.Equal(t, types.ExplainerTypeAnchorTabular, kind)

	kind, err = r.Resolve(foreign{AlibiKernelShap})
	require.NoError(t, err)
	assert.Equal(t, types.ExplainerTypeShapKernel, kind)

	_, err = r.Resolve(foreign{AlibiExplainer})
	assert.True(t, errors.HasReason(err, errors.UnsupportedArtifactKind))
}

func TestAncestors(t *testing.T) {
	set := Ancestors(&boosted{classifier: &classifier{}})
	assert.True(t, set.Has(XGBoostModel))
	assert.True(t, set.Has(SklearnBaseEstimator))
	assert.True(t, set.Has("github.com/kuberlab/mldeploy/pkg/mlmodel.boosted"))
	assert.True(t, set.Has("github.com/kuberlab/mldeploy/pkg/mlmodel.classifier"))
	assert.True(t, set.Has("github.com/kuberlab/mldeploy/pkg/mlmodel.estimator"))

	nilEmbedded := Ancestors(&boosted{})
	assert.True(t, nilEmbedded.Has("github.com/kuberlab/mldeploy/pkg/mlmodel.classifier"))
	assert.False(t, nilEmbedded.Has("github.com/kuberlab/mldeploy/pkg/mlmodel.estimator"))

	assert.Empty(t, Ancestors(nil))
	assert.Equal(t, "github.com/kuberlab/mldeploy/pkg/mlmodel.plain", TypeID(&plain{}))
}

func TestResolver_KeepsCallerPredicates(t *testing.T) {
	preds := make([]ModelPredicate, 2, 4)
	preds[0] = ModelPredicate{Name: "a", Kind: types.ModelTypeONNX, Match: DerivesFrom("a")}
	preds[1] = ModelPredicate{Name: "b", Kind: types.ModelTypeTriton, Match: DerivesFrom("b")}

	r := NewModelResolver(preds...)
	r.InsertBefore("b", ModelPredicate{Name: "x", Kind: types.ModelTypeCustom, Match: DerivesFrom("x")})
	assert.Equal(t, "b", preds[1].Name)
	assert.Len(t, r.Predicates(), 3)

	epreds := make([]ExplainerPredicate, 1, 4)
	epreds[0] = ExplainerPredicate{Name: "a", Kind: types.ExplainerTypeAnchorText, Match: DerivesFrom("a")}
	er := NewExplainerResolver(epreds...)
	er.InsertBefore("a", ExplainerPredicate{Name: "x", Kind: types.ExplainerTypeCustom, Match: DerivesFrom("x")})
	assert.Equal(t, "a", epreds[0].Name)
	assert.Equal(t, "x", er.Predicates()[0].Name)
}
