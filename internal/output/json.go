package output

import (
	"encoding/json"
	"time"

	"github.com/abatilo/pick/internal/backlog"
	"github.com/abatilo/pick/internal/plan"
	"github.com/abatilo/pick/internal/task"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// taskJSON is the JSON representation of a task.
type taskJSON struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	EffortHours int    `json:"effort_hours"`
	Tier        string `json:"tier"`
	Line        int    `json:"line,omitempty"`
}

func toTaskJSON(t *task.Task) taskJSON {
	return taskJSON{
		ID:          t.ID,
		Title:       t.Title,
		EffortHours: t.EffortHours,
		Tier:        string(t.Tier),
		Line:        t.Line,
	}
}

func toTaskListJSON(tasks []*task.Task) []taskJSON {
	jsonTasks := make([]taskJSON, len(tasks))
	for i, t := range tasks {
		jsonTasks[i] = toTaskJSON(t)
	}
	return jsonTasks
}

// problemJSON is the JSON representation of a malformed record.
type problemJSON struct {
	Line   int    `json:"line"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

func toProblemListJSON(problems []backlog.MalformedRecordError) []problemJSON {
	out := make([]problemJSON, len(problems))
	for i, p := range problems {
		out[i] = problemJSON{Line: p.Line, ID: p.ID, Reason: p.Reason}
	}
	return out
}

// runJSON is the JSON representation of a selection run.
type runJSON struct {
	Date          string        `json:"date"`
	Tasks         []taskJSON    `json:"tasks"`
	Problems      []problemJSON `json:"problems"`
	Selected      *taskJSON     `json:"selected"`
	Fallback      bool          `json:"fallback"`
	Seed          uint64        `json:"seed"`
	PlanPath      string        `json:"plan_path,omitempty"`
	DryRun        bool          `json:"dry_run"`
	Plan          string        `json:"plan,omitempty"`
	StatusCommand string        `json:"status_command,omitempty"`
}

// FormatRun formats a selection run as JSON.
func (f *JSONFormatter) FormatRun(r *Run) string {
	rj := runJSON{
		Date:     r.Date,
		Tasks:    toTaskListJSON(r.Tasks),
		Problems: toProblemListJSON(r.Problems),
		Fallback: r.Fallback,
		Seed:     r.Seed,
		DryRun:   r.DryRun,
	}
	if r.Selected != nil {
		tj := toTaskJSON(r.Selected)
		rj.Selected = &tj
		rj.PlanPath = r.PlanPath
		rj.StatusCommand = r.StatusCmd
		if r.DryRun {
			rj.Plan = string(r.Plan)
		}
	}
	return marshalJSON(rj)
}

// FormatTaskList formats a list of tasks as JSON.
func (f *JSONFormatter) FormatTaskList(tasks []*task.Task) string {
	return marshalJSON(toTaskListJSON(tasks))
}

// FormatProblems formats malformed records as JSON.
func (f *JSONFormatter) FormatProblems(problems []backlog.MalformedRecordError) string {
	return marshalJSON(toProblemListJSON(problems))
}

// planJSON is the JSON representation of a stored plan.
type planJSON struct {
	Date        string   `json:"date"`
	Task        taskJSON `json:"task"`
	Seed        uint64   `json:"seed"`
	RunID       string   `json:"run_id"`
	GeneratedAt string   `json:"generated_at"`
	Body        string   `json:"body"`
}

// FormatPlan formats a stored work plan as JSON.
func (f *JSONFormatter) FormatPlan(p *plan.Plan) string {
	return marshalJSON(planJSON{
		Date:        p.Date,
		Task:        toTaskJSON(&p.Task),
		Seed:        p.Meta.Seed,
		RunID:       p.Meta.RunID,
		GeneratedAt: p.GeneratedAt.Format(time.RFC3339),
		Body:        p.Body,
	})
}

// FormatPlanDates formats the dates that have a stored plan as JSON.
func (f *JSONFormatter) FormatPlanDates(dates []string) string {
	if dates == nil {
		dates = []string{}
	}
	return marshalJSON(dates)
}

// errorJSON is the JSON representation of an error.
type errorJSON struct {
	Error string `json:"error"`
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorJSON{Error: err.Error()})
}

// messageJSON is the JSON representation of a message.
type messageJSON struct {
	Message string `json:"message"`
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageJSON{Message: msg})
}
