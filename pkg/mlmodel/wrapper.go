package mlmodel

import (
	"fmt"
	"net/http"

	"github.com/kuberlab/mldeploy/pkg/errors"
	"github.com/kuberlab/mldeploy/pkg/types"
)

// ModelWrapper binds a model object to the serializer of its kind.
type ModelWrapper struct {
	obj        interface{}
	kind       types.ModelType
	serializer Serializer
}

func NewModelWrapper(obj interface{}, resolver *ModelResolver, serializers *Serializers) (*ModelWrapper, error) {
	if resolver == nil {
		resolver = NewModelResolver()
	}
	if serializers == nil {
		serializers = DefaultSerializers()
	}
	kind, err := resolver.Resolve(obj)
	if err != nil {
		return nil, err
	}
	return &ModelWrapper{obj: obj, kind: kind, serializer: serializers.Models[kind]}, nil
}

func (w *ModelWrapper) Kind() types.ModelType {
	return w.kind
}

// Save writes the model into an existing directory.
func (w *ModelWrapper) Save(dir string) error {
	return save(w.obj, w.serializer, w.kind.String(), dir)
}

type ExplainerWrapper struct {
	obj        interface{}
	kind       types.ExplainerType
	serializer Serializer
}

func NewExplainerWrapper(obj interface{}, resolver *ExplainerResolver, serializers *Serializers) (*ExplainerWrapper, error) {
	if resolver == nil {
		resolver = NewExplainerResolver()
	}
	if serializers == nil {
		serializers = DefaultSerializers()
	}
	kind, err := resolver.Resolve(obj)
	if err != nil {
		return nil, err
	}
	return &ExplainerWrapper{obj: obj, kind: kind, serializer: serializers.Explainers[kind]}, nil
}

func (w *ExplainerWrapper) Kind() types.ExplainerType {
	return w.kind
}

func (w *ExplainerWrapper) Save(dir string) error {
	return save(w.obj, w.serializer, w.kind.String(), dir)
}

func save(obj interface{}, serializer Serializer, kind, dir string) error {
	if serializer == nil {
		return errors.Smart(
			http.StatusInternalServerError,
			errors.SerializationFailed,
			fmt.Sprintf("No serializer registered for %v", kind),
		)
	}
	if err := serializer.Serialize(obj, dir); err != nil {
		return errors.Smart(
			http.StatusInternalServerError,
			errors.SerializationFailed,
			fmt.Sprintf("Failed serialize %v: %v", kind, err),
			err,
		)
	}
	return nil
}
