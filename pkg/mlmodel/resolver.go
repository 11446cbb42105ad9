package mlmodel

import (
	"fmt"
	"net/http"

	"github.com/kuberlab/mldeploy/pkg/errors"
	"github.com/kuberlab/mldeploy/pkg/types"
	"github.com/sirupsen/logrus"
)

// Match tests an ancestor closure.
type Match func(TypeSet) bool

func DerivesFrom(ids ...string) Match {
	return func(s TypeSet) bool {
		return s.HasAny(ids...)
	}
}

type ModelPredicate struct {
	Name  string
	Kind  types.ModelType
	Match Match
}

type ExplainerPredicate struct {
	Name  string
	Kind  types.ExplainerType
	Match Match
}

// DefaultModelPredicates lists the known model kinds. Gradient boosting
// estimators derive from the sklearn estimator base, so they go first.
func DefaultModelPredicates() []ModelPredicate {
	return []ModelPredicate{
		{Name: "xgboost", Kind: types.ModelTypeXGBoost, Match: DerivesFrom(XGBoostModel, XGBoostBooster)},
		{Name: "lightgbm", Kind: types.ModelTypeLightGBM, Match: DerivesFrom(LightGBMModel, LightGBMBooster)},
		{Name: "sklearn", Kind: types.ModelTypeSklearn, Match: DerivesFrom(SklearnBaseEstimator)},
		{Name: "pytorch", Kind: types.ModelTypePytorch, Match: DerivesFrom(TorchModule)},
		{Name: "tensorflow", Kind: types.ModelTypeTensorflow, Match: DerivesFrom(KerasModel, KerasEngineModel)},
		{Name: "onnx", Kind: types.ModelTypeONNX, Match: DerivesFrom(ONNXModelProto)},
		{Name: "triton", Kind: types.ModelTypeTriton, Match: DerivesFrom(TritonModelRepository)},
	}
}

func DefaultExplainerPredicates() []ExplainerPredicate {
	return []ExplainerPredicate{
		{Name: "anchor-tabular", Kind: types.ExplainerTypeAnchorTabular, Match: DerivesFrom(AlibiAnchorTabular)},
		{Name: "anchor-images", Kind: types.ExplainerTypeAnchorImages, Match: DerivesFrom(AlibiAnchorImage)},
		{Name: "anchor-text", Kind: types.ExplainerTypeAnchorText, Match: DerivesFrom(AlibiAnchorText)},
		{Name: "shap-kernel", Kind: types.ExplainerTypeShapKernel, Match: DerivesFrom(AlibiKernelShap)},
	}
}

func unsupported(obj interface{}, role string) error {
	id := TypeID(obj)
	if id == "" {
		id = "<nil>"
	}
	return errors.Smart(
		http.StatusBadRequest,
		errors.UnsupportedArtifactKind,
		fmt.Sprintf("%v object of type %v is not supported", role, id),
	)
}

// ModelResolver classifies model objects by evaluating predicates in order.
type ModelResolver struct {
	predicates []ModelPredicate
}

func NewModelResolver(predicates ...ModelPredicate) *ModelResolver {
	if len(predicates) == 0 {
		predicates = DefaultModelPredicates()
	}
	return &ModelResolver{predicates: append([]ModelPredicate{}, predicates...)}
}

func (r *ModelResolver) Predicates() []ModelPredicate {
	return append([]ModelPredicate{}, r.predicates...)
}

// InsertBefore places p in front of the predicate called name. An empty or
// unknown name appends p.
func (r *ModelResolver) InsertBefore(name string, p ModelPredicate) {
	for i, existing := range r.predicates {
		if existing.Name == name {
			r.predicates = append(r.predicates[:i], append([]ModelPredicate{p}, r.predicates[i:]...)...)
			return
		}
	}
	r.predicates = append(r.predicates, p)
}

func (r *ModelResolver) Resolve(obj interface{}) (types.ModelType, error) {
	if obj == nil {
		return 0, unsupported(obj, "model")
	}
	ancestors := Ancestors(obj)
	for _, p := range r.predicates {
		if p.Match(ancestors) {
			logrus.Debugf("Model %v resolved to %v by predicate %v", TypeID(obj), p.Kind, p.Name)
			return p.Kind, nil
		}
	}
	return 0, unsupported(obj, "model")
}

type ExplainerResolver struct {
	predicates []ExplainerPredicate
}

func NewExplainerResolver(predicates ...ExplainerPredicate) *ExplainerResolver {
	if len(predicates) == 0 {
		predicates = DefaultExplainerPredicates()
	}
	return &ExplainerResolver{predicates: append([]ExplainerPredicate{}, predicates...)}
}

func (r *ExplainerResolver) Predicates() []ExplainerPredicate {
	return append([]ExplainerPredicate{}, r.predicates...)
}

func (r *ExplainerResolver) InsertBefore(name string, p ExplainerPredicate) {
	for i, existing := range r.predicates {
		if existing.Name == name {
			r.predicates = append(r.predicates[:i], append([]ExplainerPredicate{p}, r.predicates[i:]...)...)
			return
		}
	}
	r.predicates = append(r.predicates, p)
}

func (r *ExplainerResolver) Resolve(obj interface{}) (types.ExplainerType, error) {
	if obj == nil {
		return types.ExplainerTypeNone, unsupported(obj, "explainer")
	}
	ancestors := Ancestors(obj)
	for _, p := range r.predicates {
		if p.Match(ancestors) {
			logrus.Debugf("Explainer %v resolved to %v by predicate %v", TypeID(obj), p.Kind, p.Name)
			return p.Kind, nil
		}
	}
	return types.ExplainerTypeNone, unsupported(obj, "explainer")
}
