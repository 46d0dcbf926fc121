package task

import (
	"regexp"
	"strings"
)

// idPattern matches identifiers like P1-003. The ordinal is any digit run.
var idPattern = regexp.MustCompile(`^(P[0-9]+)-[0-9]+$`)

// ParseID returns the tier part of an identifier.
// The tier is returned as written; callers decide whether it is extracted.
func ParseID(id string) (Tier, bool) {
	m := idPattern.FindStringSubmatch(strings.TrimSpace(id))
	if m == nil {
		return "", false
	}
	return Tier(m[1]), true
}

// ParseTier parses a tier token such as "P2" or "p2".
func ParseTier(s string) (Tier, bool) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	return t, IsValidTier(t)
}
