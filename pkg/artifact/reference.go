package artifact

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/kuberlab/mldeploy/pkg/errors"
	"github.com/kuberlab/mldeploy/pkg/types"
	"github.com/kuberlab/mldeploy/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type DockerReference struct {
	Image         string `json:"image,omitempty"`
	URI           string `json:"uri,omitempty"`
	CredentialsID string `json:"credentialsId,omitempty"`
	Port          *int   `json:"port,omitempty"`
}

func (d *DockerReference) IsEmpty() bool {
	return d == nil || (d.Image == "" && d.URI == "" && d.CredentialsID == "" && d.Port == nil)
}

type BlobReference struct {
	URL           string `json:"url,omitempty"`
	CredentialsID string `json:"credentialsId,omitempty"`
}

func (b *BlobReference) IsEmpty() bool {
	return b == nil || (b.URL == "" && b.CredentialsID == "")
}

type Reference struct {
	Docker *DockerReference `json:"docker"`
	Blob   *BlobReference   `json:"blob"`
}

type referenceFile struct {
	Reference Reference `json:"reference"`
}

func BuildReference(docker *DockerReference, blob *BlobReference) Reference {
	return Reference{Docker: docker, Blob: blob}
}

func BlobURL(url string) Reference {
	return Reference{Blob: &BlobReference{URL: url}}
}

// WriteReference writes dir/reference.json with empty leaves and containers
// removed.
func WriteReference(dir string, ref Reference) error {
	pruned, err := utils.PruneObject(referenceFile{Reference: ref})
	if err != nil {
		return errors.Smart(errors.SerializationFailed, err)
	}
	if len(pruned) == 0 {
		pruned = map[string]interface{}{"reference": map[string]interface{}{}}
	}
	data, err := json.MarshalIndent(pruned, "", "  ")
	if err != nil {
		return errors.Smart(errors.SerializationFailed, err)
	}
	if err = os.MkdirAll(dir, 0755); err != nil {
		return errors.Smart(err)
	}
	return os.WriteFile(filepath.Join(dir, types.ReferenceFile), data, 0644)
}

// ReadReference loads dir/reference.json. A missing file is reported as a
// 404 error.
func ReadReference(dir string) (*Reference, error) {
	data, err := os.ReadFile(filepath.Join(dir, types.ReferenceFile))
	if err != nil {
		return nil, errors.Smart(err)
	}
	f := referenceFile{}
	if err = json.Unmarshal(data, &f); err != nil {
		return nil, errors.Smart(
			http.StatusBadRequest,
			fmt.Sprintf("Invalid %v in %v: %v", types.ReferenceFile, dir, err),
			errors.InvalidOptions,
		)
	}
	return &f.Reference, nil
}

// ReadModelKind classifies an existing model reference. Docker means a custom
// image, a blob keeps the caller's kind.
func ReadModelKind(dir string, hint *types.ModelType) (types.ModelType, error) {
	missing := errors.Smart(
		http.StatusNotFound,
		errors.MissingModelReference,
		fmt.Sprintf("No model reference found in %v", dir),
	)
	ref, err := ReadReference(dir)
	if err != nil {
		if errors.IsNotFound(err) {
			return 0, missing
		}
		return 0, err
	}
	switch {
	case !ref.Docker.IsEmpty():
		return types.ModelTypeCustom, nil
	case !ref.Blob.IsEmpty():
		if hint == nil {
			return 0, errors.Smart(
				http.StatusBadRequest,
				errors.InvalidOptions,
				fmt.Sprintf("Model in %v is a blob reference, its model type must be given", dir),
			)
		}
		return *hint, nil
	}
	return 0, missing
}

// ReadExplainerKind classifies an existing explainer reference. No reference
// means no explainer.
func ReadExplainerKind(dir string, hint *types.ExplainerType) (types.ExplainerType, error) {
	ref, err := ReadReference(dir)
	if err != nil {
		if errors.IsNotFound(err) {
			return types.ExplainerTypeNone, nil
		}
		return types.ExplainerTypeNone, err
	}
	switch {
	case !ref.Docker.IsEmpty():
		return types.ExplainerTypeCustom, nil
	case !ref.Blob.IsEmpty():
		if hint == nil {
			return types.ExplainerTypeNone, errors.Smart(
				http.StatusBadRequest,
				errors.MissingExplainerReference,
				fmt.Sprintf("Explainer in %v is a blob reference, its explainer type must be given", dir),
			)
		}
		return *hint, nil
	}
	return types.ExplainerTypeNone, nil
}
