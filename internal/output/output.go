// Package output formats command results for the terminal or as JSON.
package output

import (
	"github.com/abatilo/pick/internal/backlog"
	"github.com/abatilo/pick/internal/plan"
	"github.com/abatilo/pick/internal/task"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatRun(r *Run) string
	FormatTaskList(tasks []*task.Task) string
	FormatProblems(problems []backlog.MalformedRecordError) string
	FormatPlan(p *plan.Plan) string
	FormatPlanDates(dates []string) string
	FormatError(err error) string
	FormatMessage(msg string) string
}

// Run is the outcome of one selection run.
type Run struct {
	Date      string
	Tasks     []*task.Task // every available record
	Problems  []backlog.MalformedRecordError
	Selected  *task.Task // nil when nothing was available
	Fallback  bool       // the selection came from the smallest-effort fallback
	Seed      uint64
	PlanPath  string // where the plan was or would be written
	DryRun    bool
	Plan      []byte // rendered plan, shown on dry runs
	StatusCmd string // suggested command to mark the task in progress
}
