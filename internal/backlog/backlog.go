// Package backlog parses a BACKLOG.md document into available task records.
//
// The document is read line by line. Tier section headers such as
// "### 🟢 P1 Tasks" open a section, and inside a section each record starts
// with an identifier line followed by bullet fields:
//
//	**P1-001**: Add offline mode
//	- **Description**: Cache the last response
//	- **Status**: Not Started
//	- **Effort**: 3 hours
//
// Only records whose status is exactly "Not Started" are extracted.
package backlog

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/abatilo/pick/internal/task"
)

var (
	// Matches "### 🟢 P1 Tasks" and "## P3 Tasks"; the decoration token is optional.
	headerPattern = regexp.MustCompile(`^#{1,6}\s+(?:\S+\s+)?(P[0-9]+)\s+Tasks\b`)
	// Matches "**P1-001**: Title" and "- **P1-001**: Title".
	idLinePattern = regexp.MustCompile(`^(?:[-*]\s+)?\*\*(P[0-9]+-[0-9]+)\*\*:\s*(.*)$`)
	// Matches "- **Status**: Not Started".
	fieldPattern  = regexp.MustCompile(`^[-*]\s+\*\*([^*]+)\*\*:\s*(.*)$`)
	effortPattern = regexp.MustCompile(`^([0-9]+) hours\b`)
)

const (
	fieldStatus = "status"
	fieldEffort = "effort"
)

type state int

const (
	stateOutsideSection state = iota
	stateInSection
	stateInRecord
)

// Backlog is the result of parsing a backlog document.
type Backlog struct {
	tiers    map[task.Tier][]*task.Task
	sections map[task.Tier]int
	problems []MalformedRecordError
}

// Tasks returns every extracted record, P1 first, in document order within a tier.
func (b *Backlog) Tasks() []*task.Task {
	var all []*task.Task
	for _, tier := range task.Tiers {
		all = append(all, b.tiers[tier]...)
	}
	return all
}

// Tier returns the extracted records of one tier in document order.
func (b *Backlog) Tier(t task.Tier) []*task.Task {
	return b.tiers[t]
}

// Len returns the number of extracted records.
func (b *Backlog) Len() int {
	n := 0
	for _, tasks := range b.tiers {
		n += len(tasks)
	}
	return n
}

// SectionLines returns how many lines the sections of a tier spanned,
// header included. Zero means the header was not found.
func (b *Backlog) SectionLines(t task.Tier) int {
	return b.sections[t]
}

// Problems returns the malformed records found while parsing, in line order.
func (b *Backlog) Problems() []MalformedRecordError {
	return b.problems
}

// record is a record being assembled while in stateInRecord.
type record struct {
	id         string
	title      string
	line       int
	status     string
	hasStatus  bool
	effort     string
	hasEffort  bool
	effortLine int
}

type parser struct {
	state   state
	tier    task.Tier
	current *record
	out     *Backlog
}

// Parse converts backlog text into records grouped by tier. It never fails:
// missing sections yield empty tiers and malformed records are reported
// through Problems instead of being extracted.
func Parse(text string) *Backlog {
	p := &parser{
		state: stateOutsideSection,
		out: &Backlog{
			tiers:    make(map[task.Tier][]*task.Task),
			sections: make(map[task.Tier]int),
		},
	}

	lines := strings.Split(text, "\n")
	for i, raw := range lines {
		p.feed(i+1, strings.TrimRight(raw, "\r"))
	}
	p.closeRecord()

	sort.SliceStable(p.out.problems, func(i, j int) bool {
		return p.out.problems[i].Line < p.out.problems[j].Line
	})
	return p.out
}

func (p *parser) feed(lineNo int, line string) {
	trimmed := strings.TrimSpace(line)

	if m := headerPattern.FindStringSubmatch(trimmed); m != nil {
		p.closeRecord()
		tier := task.Tier(m[1])
		if task.IsValidTier(tier) {
			p.state = stateInSection
			p.tier = tier
		} else {
			// Any other tier (P4, ...) ends the current section.
			p.state = stateOutsideSection
			p.tier = ""
		}
	}

	if p.state == stateOutsideSection {
		return
	}
	p.out.sections[p.tier]++

	if m := idLinePattern.FindStringSubmatch(trimmed); m != nil {
		p.closeRecord()
		p.openRecord(lineNo, m[1], strings.TrimSpace(m[2]))
		return
	}

	if p.state != stateInRecord {
		return
	}

	m := fieldPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return // free text inside the record
	}
	value := strings.TrimSpace(m[2])
	switch strings.ToLower(strings.TrimSpace(m[1])) {
	case fieldStatus:
		if p.current.hasStatus {
			p.problem(lineNo, p.current.id, "duplicate status line")
			return
		}
		p.current.status = value
		p.current.hasStatus = true
	case fieldEffort:
		if p.current.hasEffort {
			p.problem(lineNo, p.current.id, "duplicate effort line")
			return
		}
		p.current.effort = value
		p.current.hasEffort = true
		p.current.effortLine = lineNo
	}
}

func (p *parser) openRecord(lineNo int, id, title string) {
	tier, ok := task.ParseID(id)
	if !ok || tier != p.tier {
		p.problem(lineNo, id, "identifier in "+string(p.tier)+" section")
		p.state = stateInSection
		return
	}
	p.current = &record{id: id, title: title, line: lineNo}
	p.state = stateInRecord
}

func (p *parser) closeRecord() {
	r := p.current
	if r == nil {
		return
	}
	p.current = nil
	p.state = stateInSection

	switch {
	case !r.hasStatus:
		p.problem(r.line, r.id, "missing status line")
		return
	case r.status != string(task.StatusNotStarted):
		return // other statuses are not available work
	case r.title == "":
		p.problem(r.line, r.id, "missing title")
		return
	case !r.hasEffort:
		p.problem(r.line, r.id, "missing effort line")
		return
	}

	m := effortPattern.FindStringSubmatch(r.effort)
	if m == nil {
		p.problem(r.effortLine, r.id, "effort "+strconv.Quote(r.effort)+" is not \"<n> hours\"")
		return
	}
	hours, err := strconv.Atoi(m[1])
	if err != nil {
		p.problem(r.effortLine, r.id, "effort "+strconv.Quote(m[1])+" is out of range")
		return
	}

	p.out.tiers[p.tier] = append(p.out.tiers[p.tier], &task.Task{
		ID:          r.id,
		Title:       r.title,
		EffortHours: hours,
		Tier:        p.tier,
		Line:        r.line,
	})
}

func (p *parser) problem(lineNo int, id, reason string) {
	p.out.problems = append(p.out.problems, MalformedRecordError{
		Line:   lineNo,
		ID:     id,
		Reason: reason,
	})
}
