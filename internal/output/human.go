package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"

	"github.com/abatilo/pick/internal/backlog"
	"github.com/abatilo/pick/internal/plan"
	"github.com/abatilo/pick/internal/task"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	idStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	pickedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct{}

// NewHumanFormatter creates a new HumanFormatter.
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// FormatRun formats the narration of a selection run.
func (f *HumanFormatter) FormatRun(r *Run) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Daily Task Selection - "+r.Date) + "\n\n")

	sb.WriteString("Available tasks:\n")
	if len(r.Tasks) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, t := range r.Tasks {
		sb.WriteString("  " + f.formatTaskLine(t))
	}

	if n := len(r.Problems); n > 0 {
		msg := fmt.Sprintf("Skipped %s (run 'pick check' for details)", english.Plural(n, "malformed record", ""))
		sb.WriteString("\n" + warnStyle.Render(msg) + "\n")
	}

	if r.Selected == nil {
		sb.WriteString("\nNo tasks available for selection.\n")
		return sb.String()
	}

	t := r.Selected
	fmt.Fprintf(&sb, "\n%s %s - %s\n", pickedStyle.Render("Selected:"), idStyle.Render(t.ID), t.Title)
	fmt.Fprintf(&sb, "  Priority: %s\n", t.Tier)
	fmt.Fprintf(&sb, "  Effort:   %s\n", plan.Effort(t.EffortHours))
	fmt.Fprintf(&sb, "  Seed:     %d\n", r.Seed)
	if r.Fallback {
		sb.WriteString(warnStyle.Render("  No task fits the effort limit; picked among the smallest.") + "\n")
	}

	if r.DryRun {
		fmt.Fprintf(&sb, "\nWork plan (dry run, not written to %s):\n\n", r.PlanPath)
		sb.Write(r.Plan)
	} else {
		fmt.Fprintf(&sb, "\nWork plan saved to %s\n", r.PlanPath)
	}

	sb.WriteString("\nTo mark the task as in progress, run:\n")
	sb.WriteString("  " + commandStyle.Render(r.StatusCmd) + "\n")

	return sb.String()
}

// FormatTaskList formats a list of tasks for display.
func (f *HumanFormatter) FormatTaskList(tasks []*task.Task) string {
	if len(tasks) == 0 {
		return "No tasks found.\n"
	}

	var sb strings.Builder
	for _, t := range tasks {
		sb.WriteString(f.formatTaskLine(t))
	}
	return sb.String()
}

// formatTaskLine formats a single task as a compact one-liner.
func (f *HumanFormatter) formatTaskLine(t *task.Task) string {
	return fmt.Sprintf("%s: %s (%s, %s)\n", idStyle.Render(t.ID), t.Title, plan.Effort(t.EffortHours), t.Tier)
}

// FormatProblems formats malformed records with their line numbers.
func (f *HumanFormatter) FormatProblems(problems []backlog.MalformedRecordError) string {
	var sb strings.Builder
	for _, p := range problems {
		fmt.Fprintf(&sb, "%s %s: %s\n", warnStyle.Render(fmt.Sprintf("line %d:", p.Line)), p.ID, p.Reason)
	}
	fmt.Fprintf(&sb, "\n%s\n", english.Plural(len(problems), "problem", ""))
	return sb.String()
}

// FormatPlan formats a stored work plan.
func (f *HumanFormatter) FormatPlan(p *plan.Plan) string {
	return p.Body + "\n"
}

// FormatPlanDates formats the dates that have a stored plan.
func (f *HumanFormatter) FormatPlanDates(dates []string) string {
	var sb strings.Builder
	for _, d := range dates {
		sb.WriteString(d + "\n")
	}
	return sb.String()
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return errorStyle.Render("Error:") + " " + err.Error() + "\n"
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}
