package pick

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/last-man-standing/internal/domain/competition"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
)

// Outcome is the result of a picked team in a finished fixture.
type Outcome string

const (
	OutcomeWin  Outcome = "WIN"
	OutcomeDraw Outcome = "DRAW"
	OutcomeLoss Outcome = "LOSS"
)

var (
	ErrUndecidable      = errors.New("fixture result is not decidable yet")
	ErrTeamNotInFixture = errors.New("team does not play in fixture")
)

// Evaluate maps a picked team and a fixture onto WIN, DRAW or LOSS.
// It returns ErrUndecidable until the fixture is finished with both scores.
func Evaluate(team string, f fixture.Fixture) (Outcome, error) {
	if !f.IsDecided() {
		return "", fmt.Errorf("%w: fixture=%s status=%s", ErrUndecidable, f.ID, f.Status)
	}

	var own, opponent int
	switch team {
	case f.HomeTeam:
		own, opponent = *f.HomeGoals, *f.AwayGoals
	case f.AwayTeam:
		own, opponent = *f.AwayGoals, *f.HomeGoals
	default:
		return "", fmt.Errorf("%w: team=%s fixture=%s", ErrTeamNotInFixture, team, f.ID)
	}

	switch {
	case own > opponent:
		return OutcomeWin, nil
	case own == opponent:
		return OutcomeDraw, nil
	default:
		return OutcomeLoss, nil
	}
}

// Eliminates reports whether the outcome costs a life under policy.
func Eliminates(outcome Outcome, policy competition.ResultPolicy) bool {
	switch outcome {
	case OutcomeLoss:
		return true
	case OutcomeDraw:
		return policy == competition.ResultPolicyStrict
	default:
		return false
	}
}
