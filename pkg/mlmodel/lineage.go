package mlmodel

import (
	"reflect"
)

// Identifiers of foreign base types an object may derive from.
const (
	SklearnBaseEstimator  = "sklearn.base.BaseEstimator"
	XGBoostModel          = "xgboost.sklearn.XGBModel"
	XGBoostBooster        = "xgboost.core.Booster"
	LightGBMModel         = "lightgbm.sklearn.LGBMModel"
	LightGBMBooster       = "lightgbm.basic.Booster"
	TorchModule           = "torch.nn.modules.module.Module"
	KerasModel            = "tensorflow.keras.Model"
	KerasEngineModel      = "keras.engine.training.Model"
	ONNXModelProto        = "onnx.onnx_ml_pb2.ModelProto"
	TritonModelRepository = "tritonserver.ModelRepository"

	AlibiExplainer     = "alibi.api.interfaces.Explainer"
	AlibiAnchorTabular = "alibi.explainers.anchor_tabular.AnchorTabular"
	AlibiAnchorImage   = "alibi.explainers.anchor_image.AnchorImage"
	AlibiAnchorText    = "alibi.explainers.anchor_text.AnchorText"
	AlibiKernelShap    = "alibi.explainers.shap_wrappers.KernelShap"
)

const maxEmbedDepth = 16

// Lineage is implemented by objects that derive from types living outside
// of Go, e.g. a handle to a python estimator.
type Lineage interface {
	Lineage() []string
}

// TypeSet is the ancestor-type closure of an object.
type TypeSet map[string]struct{}

func (s TypeSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s TypeSet) HasAny(ids ...string) bool {
	for _, id := range ids {
		if s.Has(id) {
			return true
		}
	}
	return false
}

func (s TypeSet) add(ids ...string) {
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
}

func (s TypeSet) addType(t reflect.Type) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() == "" {
		return
	}
	if t.PkgPath() == "" {
		s.add(t.Name())
		return
	}
	s.add(t.PkgPath() + "." + t.Name())
}

// TypeID returns the identifier Ancestors uses for the dynamic type of obj.
func TypeID(obj interface{}) string {
	if obj == nil {
		return ""
	}
	s := TypeSet{}
	s.addType(reflect.TypeOf(obj))
	for id := range s {
		return id
	}
	return ""
}

// Ancestors returns the identifier of the object's own type, of every type
// embedded in it (recursively) and everything reported through Lineage.
func Ancestors(obj interface{}) TypeSet {
	set := TypeSet{}
	if obj == nil {
		return set
	}
	collect(reflect.ValueOf(obj), set, 0)
	return set
}

func collect(v reflect.Value, set TypeSet, depth int) {
	if !v.IsValid() || depth > maxEmbedDepth {
		return
	}
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			if v.Kind() == reflect.Ptr {
				set.addType(v.Type())
			}
			return
		}
		if v.Kind() == reflect.Ptr && v.CanInterface() {
			if l, ok := v.Interface().(Lineage); ok {
				set.add(l.Lineage()...)
			}
		}
		v = v.Elem()
	}
	if v.CanInterface() {
		if l, ok := v.Interface().(Lineage); ok {
			set.add(l.Lineage()...)
		}
	}
	set.addType(v.Type())
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Anonymous {
			collect(v.Field(i), set, depth+1)
		}
	}
}
