// Package selector picks one task from the parsed backlog.
//
// Candidates are narrowed by effort first, then one tier is drawn with a
// weighted coin and a task is picked uniformly inside that tier.
package selector

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/abatilo/pick/internal/task"
)

const (
	DefaultMaxEffort     = 4
	DefaultFallbackCount = 3
)

// Rand is the random source used for a selection. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a deterministic source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // selection is not security sensitive
}

// RandomSeed returns a fresh seed from the process-wide source.
func RandomSeed() uint64 {
	return rand.Uint64() //nolint:gosec // selection is not security sensitive
}

// Weights is the relative chance of drawing each tier.
type Weights struct {
	P1 float64
	P2 float64
	P3 float64
}

// Options controls eligibility and weighting.
type Options struct {
	MaxEffort     int // largest effort in hours that is eligible
	FallbackCount int // how many smallest tasks to keep when none are eligible
	Weights       Weights
}

// DefaultOptions returns the 4 hour / top 3 / 70-20-10 policy.
func DefaultOptions() Options {
	return Options{
		MaxEffort:     DefaultMaxEffort,
		FallbackCount: DefaultFallbackCount,
		Weights:       Weights{P1: 0.7, P2: 0.2, P3: 0.1},
	}
}

// Validate checks that the options describe a usable policy.
func (o Options) Validate() error {
	if o.MaxEffort < 0 {
		return InvalidOptionError{Field: "max_effort", Reason: "must not be negative"}
	}
	if o.FallbackCount < 1 {
		return InvalidOptionError{Field: "fallback_count", Reason: "must be at least 1"}
	}
	w := o.Weights
	if w.P1 < 0 || w.P2 < 0 || w.P3 < 0 {
		return InvalidOptionError{Field: "weights", Reason: "must not be negative"}
	}
	if w.P1+w.P2+w.P3 <= 0 {
		return InvalidOptionError{Field: "weights", Reason: "must not all be zero"}
	}
	return nil
}

// withDefaults fills the fields Select cannot work without. The zero Options
// is DefaultOptions.
func (o Options) withDefaults() Options {
	if o == (Options{}) {
		return DefaultOptions()
	}
	if o.FallbackCount < 1 {
		o.FallbackCount = DefaultFallbackCount
	}
	if w := o.Weights; w.P1+w.P2+w.P3 <= 0 {
		o.Weights = DefaultOptions().Weights
	}
	return o
}

// thresholds returns the cumulative P1 and P1+P2 bounds on [0, 1).
// Weights that already sum to 1 are used as written so 0.7/0.2/0.1 yields
// exactly 0.7 and 0.9.
func (w Weights) thresholds() (float64, float64) {
	sum := w.P1 + w.P2 + w.P3
	if sum <= 0 {
		return 0, 0
	}
	if math.Abs(sum-1) < 1e-9 {
		return w.P1, 1 - w.P3
	}
	return w.P1 / sum, (w.P1 + w.P2) / sum
}

// Selection is the outcome of Select.
type Selection struct {
	Task       *task.Task   // nil when nothing could be selected
	Candidates []*task.Task // the eligible set the task was drawn from
	Fallback   bool         // true when no task fit MaxEffort
	Draw       float64      // the tier draw in [0, 1)
}

// Found reports whether a task was selected.
func (s Selection) Found() bool {
	return s.Task != nil
}

// Eligible returns the tasks that fit opts.MaxEffort. When none do, it
// returns the opts.FallbackCount smallest tasks of the whole collection and
// fallback is true. A FallbackCount below 1 means DefaultFallbackCount.
func Eligible(tasks []*task.Task, opts Options) ([]*task.Task, bool) {
	opts = opts.withDefaults()
	var fit []*task.Task
	for _, t := range tasks {
		if t.EffortHours <= opts.MaxEffort {
			fit = append(fit, t)
		}
	}
	if len(fit) > 0 || len(tasks) == 0 {
		return fit, false
	}

	sorted := make([]*task.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EffortHours < sorted[j].EffortHours
	})
	n := min(opts.FallbackCount, len(sorted))
	return sorted[:n], true
}

// Select narrows tasks with Eligible and draws one of them.
// Zero options are replaced by their defaults: the zero Options is
// DefaultOptions, a FallbackCount below 1 is DefaultFallbackCount and
// all-zero Weights are 70/20/10. Callers wanting errors instead run Validate.
func Select(tasks []*task.Task, opts Options, rng Rand) Selection {
	opts = opts.withDefaults()
	candidates, fallback := Eligible(tasks, opts)
	sel := Selection{Candidates: candidates, Fallback: fallback}
	if len(candidates) == 0 {
		return sel
	}

	buckets := make(map[task.Tier][]*task.Task)
	for _, t := range candidates {
		buckets[t.Tier] = append(buckets[t.Tier], t)
	}

	sel.Draw = rng.Float64()
	bucket := buckets[pickTier(sel.Draw, opts.Weights, buckets)]
	if len(bucket) == 0 {
		return sel
	}
	sel.Task = bucket[rng.IntN(len(bucket))]
	return sel
}

// pickTier applies the weighted draw, falling back to P3, then P2, then P1
// when the drawn tier has no candidates.
func pickTier(r float64, w Weights, buckets map[task.Tier][]*task.Task) task.Tier {
	p1, p12 := w.thresholds()
	has := func(t task.Tier) bool { return len(buckets[t]) > 0 }

	switch {
	case has(task.TierP1) && r < p1:
		return task.TierP1
	case has(task.TierP2) && r < p12:
		return task.TierP2
	case has(task.TierP3):
		return task.TierP3
	case has(task.TierP2):
		return task.TierP2
	case has(task.TierP1):
		return task.TierP1
	default:
		return ""
	}
}
