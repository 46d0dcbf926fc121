package task

// Status is the value of a record's status field in the backlog.
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
)

// Tier is a priority bucket in the backlog.
type Tier string

const (
	TierP1 Tier = "P1"
	TierP2 Tier = "P2"
	TierP3 Tier = "P3"
	// TierP4 only ends the P3 section. Records under it are never extracted.
	TierP4 Tier = "P4"
)

// Tiers lists the extracted tiers in descending urgency.
//
//nolint:gochecknoglobals // fixed enumeration
var Tiers = []Tier{TierP1, TierP2, TierP3}

// Task is one available backlog record.
type Task struct {
	ID          string
	Title       string
	EffortHours int
	Tier        Tier
	Line        int // 1-based line of the identifier in the backlog
}

// IsValidTier checks if a tier is one the parser extracts records for.
func IsValidTier(t Tier) bool {
	switch t {
	case TierP1, TierP2, TierP3:
		return true
	default:
		return false
	}
}
