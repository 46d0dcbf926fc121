package plan

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

//go:embed template.toml
var defaultTemplate []byte

// Block is one entry of the daily time allocation.
type Block struct {
	Time     string `toml:"time"`
	Activity string `toml:"activity"`
}

// Template holds the fixed parts of a work plan.
type Template struct {
	Schedule []Block  `toml:"schedule"`
	Steps    []string `toml:"steps"`
	Criteria []string `toml:"criteria"`
}

// DefaultTemplate returns the built-in template.
func DefaultTemplate() *Template {
	tmpl, err := parseTemplate(defaultTemplate, "default")
	if err != nil {
		panic("embedded template is invalid: " + err.Error())
	}
	return tmpl
}

// LoadTemplate reads a TOML template from path. An empty path returns the
// built-in template.
func LoadTemplate(path string) (*Template, error) {
	if path == "" {
		return DefaultTemplate(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, TemplateError{Path: path, Reason: err.Error()}
	}
	return parseTemplate(data, path)
}

func parseTemplate(data []byte, source string) (*Template, error) {
	var tmpl Template
	if err := toml.Unmarshal(data, &tmpl); err != nil {
		return nil, TemplateError{Path: source, Reason: "invalid TOML: " + err.Error()}
	}

	switch {
	case len(tmpl.Schedule) == 0:
		return nil, TemplateError{Path: source, Reason: "no schedule blocks"}
	case len(tmpl.Steps) == 0:
		return nil, TemplateError{Path: source, Reason: "no implementation steps"}
	case len(tmpl.Criteria) == 0:
		return nil, TemplateError{Path: source, Reason: "no success criteria"}
	}
	for i, b := range tmpl.Schedule {
		if b.Time == "" || b.Activity == "" {
			return nil, TemplateError{Path: source, Reason: fmt.Sprintf("schedule block %d needs time and activity", i+1)}
		}
	}
	return &tmpl, nil
}
