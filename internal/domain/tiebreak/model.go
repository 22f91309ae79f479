package tiebreak

import (
	"sort"
	"time"
)

// Participant is one entry's slot in one tiebreak stage.
type Participant struct {
	ID          string
	RoundID     string
	EntryID     string
	Stage       int
	Score       *int
	AttemptUsed bool
	SubmittedAt *time.Time
	CreatedAt   time.Time
}

// StageResult summarizes a fully submitted stage.
type StageResult struct {
	MaxScore   int
	TopScorers []string
}

// Resolved reports whether the stage produced a unique top score.
func (r StageResult) Resolved() bool {
	return len(r.TopScorers) == 1
}

func (r StageResult) Winner() string {
	if !r.Resolved() {
		return ""
	}
	return r.TopScorers[0]
}

// StageComplete reports whether every participant used their attempt.
func StageComplete(items []Participant) bool {
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !item.AttemptUsed {
			return false
		}
	}
	return true
}

// EvaluateStage finds the entries sharing the top score. Participants
// that used their attempt without a score are ranked below any scorer.
func EvaluateStage(items []Participant) StageResult {
	result := StageResult{}
	found := false
	for _, item := range items {
		if item.Score == nil {
			continue
		}
		score := *item.Score
		switch {
		case !found || score > result.MaxScore:
			result.MaxScore = score
			result.TopScorers = []string{item.EntryID}
			found = true
		case score == result.MaxScore:
			result.TopScorers = append(result.TopScorers, item.EntryID)
		}
	}
	sort.Strings(result.TopScorers)
	return result
}
