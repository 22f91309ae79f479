package pick

import (
	"fmt"
	"strings"
	"time"
)

// Pick is an entry's chosen team for one gameweek.
type Pick struct {
	ID         string
	EntryID    string
	RoundID    string
	GameweekID string
	FixtureID  string
	Team       string
	// Outcome is set when settlement applies the pick to a live entry.
	Outcome    Outcome
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p Pick) ValidateBasic() error {
	if p.ID == "" {
		return fmt.Errorf("pick id is required")
	}
	if p.EntryID == "" || p.RoundID == "" {
		return fmt.Errorf("pick entry and round are required")
	}
	if p.GameweekID == "" || p.FixtureID == "" {
		return fmt.Errorf("pick gameweek and fixture are required")
	}
	if strings.TrimSpace(p.Team) == "" {
		return fmt.Errorf("pick team is required")
	}

	return nil
}

// IsSettled reports whether settlement applied the pick.
func (p Pick) IsSettled() bool {
	return p.Outcome != ""
}

// UsedTeams collects the teams already spent by an entry. Only picks of
// roundID count; older rounds are kept for history but no longer block a team.
func UsedTeams(picks []Pick, roundID string) map[string]struct{} {
	used := make(map[string]struct{}, len(picks))
	for _, item := range picks {
		if item.RoundID != roundID {
			continue
		}
		used[item.Team] = struct{}{}
	}
	return used
}
