package selector

import "fmt"

// InvalidOptionError indicates a selection option outside its valid range.
type InvalidOptionError struct {
	Field  string
	Reason string
}

func (e InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
