package apputil

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/ghodss/yaml"
)

func ToYaml(v interface{}) string {
	data, err := yaml.Marshal(v)
	if err != nil {
		// Swallow errors inside of a template.
		return ""
	}
	return string(data)
}

func FuncMap() template.FuncMap {
	f := sprig.TxtFuncMap()
	delete(f, "env")
	delete(f, "expandenv")
	// Add some extra functionality
	extra := template.FuncMap{
		"toYaml": ToYaml,
	}
	for k, v := range extra {
		f[k] = v
	}
	return f
}

// RenderTemplate executes tpl with sprig functions against data. A string
// without template actions is returned as is.
func RenderTemplate(tpl string, data interface{}) (string, error) {
	if !strings.Contains(tpl, "{{") {
		return tpl, nil
	}
	t, err := template.New("message").Funcs(FuncMap()).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", fmt.Errorf("Failed parse template: %v", err)
	}
	buf := bytes.NewBuffer(nil)
	if err = t.Execute(buf, data); err != nil {
		return "", fmt.Errorf("Failed execute template: %v", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
