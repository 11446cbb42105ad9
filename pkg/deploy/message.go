package deploy

import (
	"strings"

	"github.com/kuberlab/mldeploy/pkg/apputil"
	"github.com/kuberlab/mldeploy/pkg/errors"
	"github.com/kuberlab/mldeploy/pkg/types"
)

const messagePrefix = "[mldeploy] "

// messageData is passed to commit message templates.
type messageData struct {
	Name          string
	ModelType     string
	ExplainerType string
	Roles         []string
}

func commitMessage(tpl string, data messageData, updating bool) (string, error) {
	if tpl != "" {
		msg, err := apputil.RenderTemplate(tpl, data)
		if err != nil {
			return "", errors.Smart(errors.InvalidOptions, err)
		}
		return msg, nil
	}
	return defaultMessage(data.Roles, updating), nil
}

func defaultMessage(roles []string, updating bool) string {
	var model, explainer bool
	for _, r := range roles {
		switch r {
		case types.RoleModel:
			model = true
		case types.RoleExplainer:
			explainer = true
		}
	}
	verb := "Add new"
	if updating {
		verb = "Update"
	}
	var parts []string
	if model {
		parts = append(parts, "model")
	}
	if explainer {
		parts = append(parts, "explainer")
	}
	if len(parts) == 0 {
		return messagePrefix + "Update metadata"
	}
	return messagePrefix + verb + " " + strings.Join(parts, " and ")
}
