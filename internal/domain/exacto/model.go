package exacto

import "time"

// Prediction is an eliminated entry's one-shot exact score guess.
type Prediction struct {
	ID         string
	EntryID    string
	RoundID    string
	FixtureID  string
	HomeGoals  int
	AwayGoals  int
	IsCorrect  *bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ResolvedAt *time.Time
}

func (p Prediction) IsResolved() bool {
	return p.IsCorrect != nil
}

// Matches reports whether the prediction equals the final scoreline.
func (p Prediction) Matches(homeGoals, awayGoals int) bool {
	return p.HomeGoals == homeGoals && p.AwayGoals == awayGoals
}
