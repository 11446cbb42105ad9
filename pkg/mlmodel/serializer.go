package mlmodel

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kuberlab/mldeploy/pkg/types"
)

const (
	SklearnFile   = "model.joblib"
	XGBoostFile   = "model.bst"
	PytorchFile   = "model.pt"
	ONNXFile      = "model.onnx"
	LightGBMFile  = "model.txt"
	ExplainerFile = "explainer.dill"
)

// Serializer writes the framework representation of obj into dir.
type Serializer interface {
	Serialize(obj interface{}, dir string) error
}

type SerializerFunc func(obj interface{}, dir string) error

func (f SerializerFunc) Serialize(obj interface{}, dir string) error {
	return f(obj, dir)
}

// DirSaver is implemented by objects that know how to save themselves.
type DirSaver interface {
	Save(dir string) error
}

// FileSerializer writes an io.WriterTo object into dir/name. Objects
// implementing DirSaver are asked to save themselves instead.
func FileSerializer(name string) Serializer {
	return SerializerFunc(func(obj interface{}, dir string) error {
		switch o := obj.(type) {
		case DirSaver:
			return o.Save(dir)
		case io.WriterTo:
			f, err := os.Create(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			if _, err = o.WriteTo(f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}
		return fmt.Errorf("%v can not be written to %v", TypeID(obj), name)
	})
}

// DirSerializer requires the object to save a whole directory layout.
func DirSerializer() Serializer {
	return SerializerFunc(func(obj interface{}, dir string) error {
		if o, ok := obj.(DirSaver); ok {
			return o.Save(dir)
		}
		return fmt.Errorf("%v does not implement Save(dir)", TypeID(obj))
	})
}

type Serializers struct {
	Models     map[types.ModelType]Serializer
	Explainers map[types.ExplainerType]Serializer
}

func DefaultSerializers() *Serializers {
	explainer := FileSerializer(ExplainerFile)
	return &Serializers{
		Models: map[types.ModelType]Serializer{
			types.ModelTypeSklearn:    FileSerializer(SklearnFile),
			types.ModelTypeXGBoost:    FileSerializer(XGBoostFile),
			types.ModelTypePytorch:    FileSerializer(PytorchFile),
			types.ModelTypeONNX:       FileSerializer(ONNXFile),
			types.ModelTypeLightGBM:   FileSerializer(LightGBMFile),
			types.ModelTypeTensorflow: DirSerializer(),
			types.ModelTypeTriton:     DirSerializer(),
		},
		Explainers: map[types.ExplainerType]Serializer{
			types.ExplainerTypeAnchorTabular: explainer,
			types.ExplainerTypeAnchorImages:  explainer,
			types.ExplainerTypeAnchorText:    explainer,
			types.ExplainerTypeShapKernel:    explainer,
		},
	}
}

func (s *Serializers) SetModel(kind types.ModelType, serializer Serializer) *Serializers {
	if s.Models == nil {
		s.Models = map[types.ModelType]Serializer{}
	}
	s.Models[kind] = serializer
	return s
}

func (s *Serializers) SetExplainer(kind types.ExplainerType, serializer Serializer) *Serializers {
	if s.Explainers == nil {
		s.Explainers = map[types.ExplainerType]Serializer{}
	}
	s.Explainers[kind] = serializer
	return s
}
