package entry

import "time"

// Entry is a participant's membership in the current round of a competition.
// The same row moves to every new round of its competition.
type Entry struct {
	ID              string
	CompetitionID   string
	RoundID         string
	UserID          string
	DisplayName     string
	LivesRemaining  int
	EliminatedAtGw  *int
	UsedExacto      bool
	SeasonRoundWins int
	FirstRoundWinAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (e Entry) IsAlive() bool {
	return e.LivesRemaining > 0
}

// LoseLife removes one life and marks the elimination gameweek once no lives
// remain. It is a no-op on an eliminated entry and reports whether the entry
// was eliminated by this call.
func (e *Entry) LoseLife(gameweekNumber int) bool {
	if e.LivesRemaining <= 0 {
		return false
	}
	e.LivesRemaining--
	if e.LivesRemaining > 0 {
		return false
	}
	gw := gameweekNumber
	e.EliminatedAtGw = &gw
	return true
}

func (e *Entry) Revive(lives int) {
	if lives < 1 {
		lives = 1
	}
	e.LivesRemaining = lives
	e.EliminatedAtGw = nil
}

func (e *Entry) ResetForRound(roundID string, lives int) {
	e.RoundID = roundID
	e.LivesRemaining = lives
	e.EliminatedAtGw = nil
	e.UsedExacto = false
}

func (e *Entry) RecordRoundWin(now time.Time) {
	e.SeasonRoundWins++
	if e.FirstRoundWinAt == nil {
		at := now
		e.FirstRoundWinAt = &at
	}
}

// Alive filters the entries that still have lives.
func Alive(items []Entry) []Entry {
	out := make([]Entry, 0, len(items))
	for _, item := range items {
		if item.IsAlive() {
			out = append(out, item)
		}
	}
	return out
}
