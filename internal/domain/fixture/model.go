package fixture

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state reported by the results feed.
type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinished   Status = "FINISHED"
)

// Fixture represents one match inside a gameweek.
type Fixture struct {
	ID         string
	GameweekID string
	HomeTeam   string
	AwayTeam   string
	KickoffAt  time.Time
	HomeGoals  *int
	AwayGoals  *int
	Status     Status
}

var ErrUnknownStatus = errors.New("unknown fixture status")

// ParseStatus maps feed aliases onto the three engine states.
func ParseStatus(value string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case string(StatusFinished), "FT", "AET", "PEN":
		return StatusFinished, nil
	case string(StatusInProgress), "LIVE", "IN_PLAY", "HT", "1H", "2H", "ET":
		return StatusInProgress, nil
	case string(StatusScheduled), "NS", "TBD", "POSTPONED":
		return StatusScheduled, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, value)
	}
}

// IsDecided reports whether the fixture is finished with a full scoreline.
func (f Fixture) IsDecided() bool {
	return f.Status == StatusFinished && f.HomeGoals != nil && f.AwayGoals != nil
}

func (f Fixture) HasTeam(team string) bool {
	team = strings.TrimSpace(team)
	return team != "" && (team == f.HomeTeam || team == f.AwayTeam)
}

func (f Fixture) Teams() []string {
	return []string{f.HomeTeam, f.AwayTeam}
}

func (f Fixture) HasKickedOff(now time.Time) bool {
	return !now.Before(f.KickoffAt)
}

// AllDecided reports whether every fixture in items is decided.
// An empty slice is never decided.
func AllDecided(items []Fixture) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !item.IsDecided() {
			return false
		}
	}
	return true
}
