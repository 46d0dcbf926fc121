package backlog

import "fmt"

// MalformedRecordError describes a record that was excluded because it does
// not follow the record grammar.
type MalformedRecordError struct {
	Line   int
	ID     string
	Reason string
}

func (e MalformedRecordError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.ID, e.Reason)
}
