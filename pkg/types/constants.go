package types

const (
	ModelDir      = "model"
	ExplainerDir  = "explainer"
	ReferenceFile = "reference.json"
	MetadataFile  = "metadata.json"

	RoleModel     = "model"
	RoleExplainer = "explainer"
)
