package gameweek

import (
	"sort"
	"time"
)

// Gameweek is a batch of fixtures sharing one lock time.
type Gameweek struct {
	ID            string
	CompetitionID string
	Number        int
	LockTime      time.Time
	IsSettled     bool
	SettledAt     *time.Time
}

// IsLocked reports whether picks for the gameweek are closed at now.
func (g Gameweek) IsLocked(now time.Time) bool {
	return !now.Before(g.LockTime)
}

// NextOpen returns the earliest unsettled gameweek locking after now.
func NextOpen(items []Gameweek, now time.Time) (Gameweek, bool) {
	candidates := make([]Gameweek, 0, len(items))
	for _, item := range items {
		if item.IsSettled || item.IsLocked(now) {
			continue
		}
		candidates = append(candidates, item)
	}
	if len(candidates) == 0 {
		return Gameweek{}, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].LockTime.Before(candidates[j].LockTime)
	})
	return candidates[0], true
}
