// Package plan renders the daily work plan for a selected task.
//
// A plan file is markdown with YAML frontmatter:
//
//	---
//	date: "2026-10-17"
//	id: P1-003
//	...
//	---
//	# Daily Work Plan - 2026-10-17
//	...
package plan

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize/english"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/abatilo/pick/internal/task"
)

const (
	// DateLayout is the date format used in plan file names and headers.
	DateLayout = "2006-01-02"

	frontmatterDelimiter = "---"
	fileNamePrefix       = "daily_work_plan_"
	fileExt              = ".md"
	footerTimeLayout     = "3:04 PM"
)

// Meta records how a plan was produced.
type Meta struct {
	Seed  uint64
	RunID string
}

// NewMeta returns Meta for seed with a fresh run id.
func NewMeta(seed uint64) Meta {
	return Meta{Seed: seed, RunID: uuid.NewString()}
}

// Plan is one day's work plan.
type Plan struct {
	Date        string
	Task        task.Task
	Meta        Meta
	GeneratedAt time.Time
	Body        string // rendered markdown after the frontmatter, set by Parse
}

// planFrontmatter is the YAML-serializable portion of a plan.
type planFrontmatter struct {
	Date        string      `yaml:"date"`
	ID          string      `yaml:"id"`
	Title       string      `yaml:"title"`
	Priority    task.Tier   `yaml:"priority"`
	EffortHours int         `yaml:"effort_hours"`
	Status      task.Status `yaml:"status"`
	Seed        uint64      `yaml:"seed"`
	RunID       string      `yaml:"run_id"`
	GeneratedAt string      `yaml:"generated_at"`
}

// New creates the plan for t on the date of now.
func New(t *task.Task, now time.Time, meta Meta) *Plan {
	return &Plan{
		Date:        now.Format(DateLayout),
		Task:        *t,
		Meta:        meta,
		GeneratedAt: now,
	}
}

// FileName returns the plan file name for date.
func FileName(date time.Time) string {
	return fileNamePrefix + date.Format(DateLayout) + fileExt
}

// Effort formats hours as "1 hour" or "3 hours".
func Effort(hours int) string {
	return english.Plural(hours, "hour", "")
}

// Render converts the plan to markdown with YAML frontmatter.
func (p *Plan) Render(tmpl *Template) ([]byte, error) {
	fm := planFrontmatter{
		Date:        p.Date,
		ID:          p.Task.ID,
		Title:       p.Task.Title,
		Priority:    p.Task.Tier,
		EffortHours: p.Task.EffortHours,
		Status:      task.StatusInProgress,
		Seed:        p.Meta.Seed,
		RunID:       p.Meta.RunID,
		GeneratedAt: p.GeneratedAt.Format(time.RFC3339),
	}

	var buf bytes.Buffer
	buf.WriteString(frontmatterDelimiter + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	buf.WriteString(frontmatterDelimiter + "\n")
	buf.WriteString(p.renderBody(tmpl))

	return buf.Bytes(), nil
}

func (p *Plan) renderBody(tmpl *Template) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Daily Work Plan - %s\n\n", p.Date)

	b.WriteString("## Selected Task\n")
	fmt.Fprintf(&b, "- **ID**: %s\n", p.Task.ID)
	fmt.Fprintf(&b, "- **Title**: %s\n", p.Task.Title)
	fmt.Fprintf(&b, "- **Estimated Effort**: %s\n", Effort(p.Task.EffortHours))
	fmt.Fprintf(&b, "- **Priority**: %s\n", p.Task.Tier)
	fmt.Fprintf(&b, "- **Status**: %s\n\n", task.StatusInProgress)

	b.WriteString("## Time Allocation\n")
	for _, blk := range tmpl.Schedule {
		fmt.Fprintf(&b, "- **%s**: %s\n", blk.Time, blk.Activity)
	}

	b.WriteString("\n## Implementation Steps\n")
	for i, step := range tmpl.Steps {
		fmt.Fprintf(&b, "%d. [ ] %s\n", i+1, step)
	}

	b.WriteString("\n## Success Criteria\n")
	for _, c := range tmpl.Criteria {
		fmt.Fprintf(&b, "- [ ] %s\n", c)
	}

	fmt.Fprintf(&b, "\n---\n*Generated by pick at %s*\n", p.GeneratedAt.Format(footerTimeLayout))
	return b.String()
}

// Parse reads a plan written by Render.
func Parse(content []byte) (*Plan, error) {
	lines := strings.Split(string(content), "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != frontmatterDelimiter {
		return nil, ParseError{Reason: "missing YAML frontmatter"}
	}

	var frontmatterEnd int
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelimiter {
			frontmatterEnd = i
			break
		}
	}
	if frontmatterEnd == 0 {
		return nil, ParseError{Reason: "unclosed YAML frontmatter"}
	}

	var fm planFrontmatter
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:frontmatterEnd], "\n")), &fm); err != nil {
		return nil, ParseError{Reason: "invalid YAML: " + err.Error()}
	}
	if _, ok := task.ParseID(fm.ID); !ok {
		return nil, ParseError{Reason: fmt.Sprintf("invalid task id %q", fm.ID)}
	}
	if _, err := time.Parse(DateLayout, fm.Date); err != nil {
		return nil, ParseError{Reason: fmt.Sprintf("invalid date %q", fm.Date)}
	}

	generatedAt, err := time.Parse(time.RFC3339, fm.GeneratedAt)
	if err != nil {
		return nil, ParseError{Reason: "invalid generated_at: " + err.Error()}
	}

	var body string
	if frontmatterEnd+1 < len(lines) {
		body = strings.TrimSpace(strings.Join(lines[frontmatterEnd+1:], "\n"))
	}

	return &Plan{
		Date: fm.Date,
		Task: task.Task{
			ID:          fm.ID,
			Title:       fm.Title,
			EffortHours: fm.EffortHours,
			Tier:        fm.Priority,
		},
		Meta:        Meta{Seed: fm.Seed, RunID: fm.RunID},
		GeneratedAt: generatedAt,
		Body:        body,
	}, nil
}

var safePathPattern = regexp.MustCompile(`^[A-Za-z0-9_./-]+$`)

// StatusCommand returns a sed command that marks the record id as in progress
// in the backlog at backlogPath. The substitution only applies between the
// record's identifier line and its first status line.
func StatusCommand(backlogPath, id string) string {
	return fmt.Sprintf(
		`sed -i.bak '/\*\*%s\*\*:/,/- \*\*Status\*\*:/ s/- \*\*Status\*\*: %s/- **Status**: %s/' %s`,
		id, task.StatusNotStarted, task.StatusInProgress, shellQuote(backlogPath),
	)
}

func shellQuote(s string) string {
	if safePathPattern.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
