//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import "fmt"

// BacklogNotFoundError indicates the backlog document doesn't exist.
type BacklogNotFoundError struct {
	Path string
}

func (e BacklogNotFoundError) Error() string {
	return fmt.Sprintf("backlog not found: %s", e.Path)
}

// PlanNotFoundError indicates no work plan was written for the date.
type PlanNotFoundError struct {
	Date string
}

func (e PlanNotFoundError) Error() string {
	return fmt.Sprintf("no work plan for %s", e.Date)
}

// InvalidTierError indicates an invalid priority tier value.
type InvalidTierError struct {
	Value string
}

func (e InvalidTierError) Error() string {
	return fmt.Sprintf("invalid tier: %s (valid: P1, P2, P3)", e.Value)
}

// InvalidDateError indicates a date that isn't in YYYY-MM-DD form.
type InvalidDateError struct {
	Value string
}

func (e InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date: %s (expected YYYY-MM-DD)", e.Value)
}

// ProblemsFoundError indicates the backlog contains malformed records.
type ProblemsFoundError struct {
	Count int
}

func (e ProblemsFoundError) Error() string {
	return fmt.Sprintf("backlog has %d malformed record(s)", e.Count)
}
