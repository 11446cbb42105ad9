package artifact

import (
	"os"
	"path/filepath"

	"github.com/kuberlab/mldeploy/pkg/errors"
	"github.com/kuberlab/mldeploy/pkg/types"
	"github.com/kuberlab/mldeploy/pkg/utils"
)

// Metadata describes model features for explanations.
type Metadata struct {
	FeatureLabels     []string          `json:"featureLabels,omitempty"`
	ProblemType       types.ProblemType `json:"problemType,omitempty"`
	PredictionClasses map[string]string `json:"predictionClasses,omitempty"`
}

// WriteMetadata writes dir/metadata.json. An existing file is kept unless
// overwrite is set; written reports whether the file was touched.
func WriteMetadata(dir string, md Metadata, overwrite bool) (written bool, err error) {
	path := filepath.Join(dir, types.MetadataFile)
	if _, err = os.Stat(path); err == nil && !overwrite {
		return false, nil
	} else if err != nil && !os.IsNotExist(err) {
		return false, errors.Smart(err)
	}
	pruned, err := utils.PruneObject(md)
	if err != nil {
		return false, errors.Smart(errors.SerializationFailed, err)
	}
	data, err := json.MarshalIndent(pruned, "", "  ")
	if err != nil {
		return false, errors.Smart(errors.SerializationFailed, err)
	}
	if err = os.MkdirAll(dir, 0755); err != nil {
		return false, errors.Smart(err)
	}
	if err = os.WriteFile(path, data, 0644); err != nil {
		return false, errors.Smart(err)
	}
	return true, nil
}

func ReadMetadata(dir string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, types.MetadataFile))
	if err != nil {
		return nil, errors.Smart(err)
	}
	md := &Metadata{}
	if err = json.Unmarshal(data, md); err != nil {
		return nil, errors.Smart(errors.SerializationFailed, err)
	}
	return md, nil
}
