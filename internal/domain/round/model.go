package round

import "time"

// TiebreakStatus is the tiebreak sub-state of a round.
type TiebreakStatus string

const (
	TiebreakNone       TiebreakStatus = "none"
	TiebreakPending    TiebreakStatus = "pending"
	TiebreakInProgress TiebreakStatus = "in_progress"
	TiebreakCompleted  TiebreakStatus = "completed"
)

// Round is one game of last man standing inside a competition.
type Round struct {
	ID               string
	CompetitionID    string
	Number           int
	WinnerEntryID    string
	EndedAt          *time.Time
	TiebreakStatus   TiebreakStatus
	TiebreakType     string
	TiebreakStage    int
	TiebreakDeadline *time.Time
	CreatedAt        time.Time
}

func New(id, competitionID string, number int, now time.Time) Round {
	return Round{
		ID:             id,
		CompetitionID:  competitionID,
		Number:         number,
		TiebreakStatus: TiebreakNone,
		CreatedAt:      now,
	}
}

func (r Round) IsActive() bool {
	return r.EndedAt == nil
}

// InTiebreak reports whether the round waits for tiebreak scores.
func (r Round) InTiebreak() bool {
	return r.IsActive() && (r.TiebreakStatus == TiebreakPending || r.TiebreakStatus == TiebreakInProgress)
}

// AcceptsScores reports whether a tiebreak submission may be recorded at now.
func (r Round) AcceptsScores(now time.Time) bool {
	if !r.InTiebreak() {
		return false
	}
	return r.TiebreakDeadline == nil || !now.After(*r.TiebreakDeadline)
}
