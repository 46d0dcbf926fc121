package plan

import "fmt"

// TemplateError indicates a plan template that cannot be used.
type TemplateError struct {
	Path   string
	Reason string
}

func (e TemplateError) Error() string {
	return fmt.Sprintf("template %s: %s", e.Path, e.Reason)
}

// ParseError indicates a plan file that was not written by Render.
type ParseError struct {
	Reason string
}

func (e ParseError) Error() string {
	return "invalid work plan: " + e.Reason
}
