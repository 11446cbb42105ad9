package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ModelType is the artifact kind of a deployed model. Values are the
// integers the platform stores.
type ModelType int

const (
	ModelTypeTensorflow ModelType = 0
	ModelTypePytorch    ModelType = 1
	ModelTypeSklearn    ModelType = 2
	ModelTypeXGBoost    ModelType = 3
	ModelTypeONNX       ModelType = 4
	ModelTypeTriton     ModelType = 5
	ModelTypeCustom     ModelType = 6
	ModelTypeLightGBM   ModelType = 7
)

var modelTypeNames = map[ModelType]string{
	ModelTypeTensorflow: "tensorflow",
	ModelTypePytorch:    "pytorch",
	ModelTypeSklearn:    "sklearn",
	ModelTypeXGBoost:    "xgboost",
	ModelTypeONNX:       "onnx",
	ModelTypeTriton:     "triton",
	ModelTypeCustom:     "custom",
	ModelTypeLightGBM:   "lightgbm",
}

func (t ModelType) String() string {
	if n, ok := modelTypeNames[t]; ok {
		return n
	}
	return "ModelType(" + strconv.Itoa(int(t)) + ")"
}

func (t ModelType) Valid() bool {
	_, ok := modelTypeNames[t]
	return ok
}

func ParseModelType(s string) (ModelType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, v := range modelTypeNames {
		if v == s {
			return k, nil
		}
	}
	if i, err := strconv.Atoi(s); err == nil && ModelType(i).Valid() {
		return ModelType(i), nil
	}
	return 0, fmt.Errorf("unknown model type %q", s)
}

func (t *ModelType) UnmarshalJSON(data []byte) error {
	v, err := parseKind(data)
	if err != nil {
		return err
	}
	parsed, err := ParseModelType(v)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ExplainerType is the artifact kind of a deployed explainer.
type ExplainerType int

const (
	ExplainerTypeNone          ExplainerType = 0
	ExplainerTypeAnchorTabular ExplainerType = 1
	ExplainerTypeAnchorImages  ExplainerType = 2
	ExplainerTypeAnchorText    ExplainerType = 3
	ExplainerTypeShapKernel    ExplainerType = 4
	ExplainerTypeCustom        ExplainerType = 5
)

var explainerTypeNames = map[ExplainerType]string{
	ExplainerTypeNone:          "no-explainer",
	ExplainerTypeAnchorTabular: "anchor-tabular",
	ExplainerTypeAnchorImages:  "anchor-images",
	ExplainerTypeAnchorText:    "anchor-text",
	ExplainerTypeShapKernel:    "shap-kernel",
	ExplainerTypeCustom:        "custom",
}

func (t ExplainerType) String() string {
	if n, ok := explainerTypeNames[t]; ok {
		return n
	}
	return "ExplainerType(" + strconv.Itoa(int(t)) + ")"
}

func (t ExplainerType) Valid() bool {
	_, ok := explainerTypeNames[t]
	return ok
}

func ParseExplainerType(s string) (ExplainerType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Replace(s, "_", "-", -1)
	for k, v := range explainerTypeNames {
		if v == s {
			return k, nil
		}
	}
	if i, err := strconv.Atoi(s); err == nil && ExplainerType(i).Valid() {
		return ExplainerType(i), nil
	}
	return 0, fmt.Errorf("unknown explainer type %q", s)
}

func (t *ExplainerType) UnmarshalJSON(data []byte) error {
	v, err := parseKind(data)
	if err != nil {
		return err
	}
	parsed, err := ParseExplainerType(v)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// parseKind accepts both the platform's integer form and a name.
func parseKind(data []byte) (string, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return "", err
	}
	switch k := v.(type) {
	case string:
		return k, nil
	case float64:
		return strconv.Itoa(int(k)), nil
	}
	return "", fmt.Errorf("invalid kind value %s", string(data))
}
