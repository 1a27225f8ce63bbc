package labels

import (
	"sort"
)

// Calendar indexes the distinct sorted trade dates observed across the whole
// dataset. Streak continuity is judged against positions in this calendar:
// two rows are adjacent when their dates sit in consecutive calendar slots.
type Calendar struct {
	dates     []string
	positions map[string]int
}

// NewCalendar builds a calendar from trade dates in any order, with
// duplicates allowed.
func NewCalendar(dates []string) *Calendar {
	distinct := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		distinct[d] = struct{}{}
	}
	sorted := make([]string, 0, len(distinct))
	for d := range distinct {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	positions := make(map[string]int, len(sorted))
	for i, d := range sorted {
		positions[d] = i
	}
	return &Calendar{dates: sorted, positions: positions}
}

// Dates returns the distinct sorted trade dates.
func (c *Calendar) Dates() []string {
	return c.dates
}

// Adjacent reports whether cur is the market trading day immediately after
// prev. Unknown dates are never adjacent.
func (c *Calendar) Adjacent(prev, cur string) bool {
	prevPos, ok := c.positions[prev]
	if !ok {
		return false
	}
	curPos, ok := c.positions[cur]
	if !ok {
		return false
	}
	return curPos-prevPos == 1
}
