package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/pick"
	"github.com/riskibarqy/last-man-standing/internal/domain/store"
)

// SettlementResult lists what one gameweek settlement changed.
type SettlementResult struct {
	GameweekID     string          `json:"gameweek_id"`
	GameweekNumber int             `json:"gameweek_number"`
	RoundID        string          `json:"round_id"`
	Eliminated     []string        `json:"eliminated"`
	Survived       []string        `json:"survived"`
	Revived        []string        `json:"revived"`
	Transition     RoundTransition `json:"transition"`
}

type SettlementService struct {
	engine *Engine
}

func NewSettlementService(engine *Engine) *SettlementService {
	return &SettlementService{engine: engine}
}

// SettleGameweek evaluates every pick of the gameweek in the active round,
// marks the gameweek settled and runs the round lifecycle, all in one
// competition transaction. The gameweek must have all fixtures finished.
func (s *SettlementService) SettleGameweek(ctx context.Context, gameweekID string) (SettlementResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.SettleGameweek")
	defer span.End()

	gameweekID, err := requireID("gameweek_id", gameweekID)
	if err != nil {
		return SettlementResult{}, err
	}

	competitionID, err := s.engine.competitionOf(ctx, func(ctx context.Context, repos store.Repositories) (string, error) {
		item, err := loadGameweek(ctx, repos, gameweekID)
		if err != nil {
			return "", err
		}
		return item.CompetitionID, nil
	})
	if err != nil {
		return SettlementResult{}, err
	}

	var result SettlementResult
	err = s.engine.inCompetition(ctx, competitionID, func(ctx context.Context, repos store.Repositories) error {
		settled, err := s.engine.settleGameweek(ctx, repos, competitionID, gameweekID)
		if err != nil {
			return err
		}
		result = settled
		return nil
	})
	if err != nil {
		return SettlementResult{}, err
	}

	return result, nil
}

func (e *Engine) settleGameweek(ctx context.Context, repos store.Repositories, competitionID, gameweekID string) (SettlementResult, error) {
	gw, err := loadGameweek(ctx, repos, gameweekID)
	if err != nil {
		return SettlementResult{}, err
	}
	if gw.IsSettled {
		return SettlementResult{}, fmt.Errorf("%w: gameweek=%s", ErrGameweekSettled, gw.ID)
	}

	comp, err := loadCompetition(ctx, repos, competitionID)
	if err != nil {
		return SettlementResult{}, err
	}
	current, err := activeRound(ctx, repos, comp)
	if err != nil {
		return SettlementResult{}, err
	}

	fixtures, err := repos.Fixtures.ListByGameweek(ctx, gw.ID)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("list gameweek fixtures: %w", err)
	}
	if !fixture.AllDecided(fixtures) {
		return SettlementResult{}, fmt.Errorf("%w: gameweek=%s", ErrGameweekNotReady, gw.ID)
	}

	result := SettlementResult{
		GameweekID:     gw.ID,
		GameweekNumber: gw.Number,
		RoundID:        current.ID,
		Eliminated:     []string{},
		Survived:       []string{},
		Revived:        []string{},
	}

	byID := make(map[string]fixture.Fixture, len(fixtures))
	for _, item := range fixtures {
		byID[item.ID] = item
		revived, err := e.resolveExactos(ctx, repos, comp, item)
		if err != nil {
			return SettlementResult{}, err
		}
		result.Revived = append(result.Revived, revived...)
	}

	picks, err := repos.Picks.ListByGameweek(ctx, gw.ID)
	if err != nil {
		return SettlementResult{}, fmt.Errorf("list gameweek picks: %w", err)
	}

	now := e.clock()
	for _, item := range picks {
		if item.RoundID != current.ID {
			continue
		}

		target, ok := byID[item.FixtureID]
		if !ok {
			return SettlementResult{}, fmt.Errorf("%w: pick %s references fixture %s outside gameweek %s", ErrConsistency, item.ID, item.FixtureID, gw.ID)
		}

		outcome, err := pick.Evaluate(item.Team, target)
		if errors.Is(err, pick.ErrUndecidable) {
			continue
		}
		if err != nil {
			return SettlementResult{}, fmt.Errorf("%w: evaluate pick %s: %v", ErrConsistency, item.ID, err)
		}

		member, ok, err := repos.Entries.GetByID(ctx, item.EntryID)
		if err != nil {
			return SettlementResult{}, fmt.Errorf("get entry: %w", err)
		}
		if !ok || member.RoundID != current.ID || !member.IsAlive() {
			continue
		}

		item.Outcome = outcome
		item.UpdatedAt = now
		if err := repos.Picks.Upsert(ctx, item); err != nil {
			return SettlementResult{}, fmt.Errorf("record pick outcome %s: %w", item.ID, err)
		}

		if pick.Eliminates(outcome, comp.ResultPolicy) {
			eliminated := member.LoseLife(gw.Number)
			member.UpdatedAt = now
			if err := repos.Entries.Upsert(ctx, member); err != nil {
				return SettlementResult{}, fmt.Errorf("update entry %s: %w", member.ID, err)
			}
			if eliminated {
				result.Eliminated = append(result.Eliminated, member.ID)
				continue
			}
		}
		result.Survived = append(result.Survived, member.ID)
	}

	gw.IsSettled = true
	gw.SettledAt = &now
	if err := repos.Gameweeks.Upsert(ctx, gw); err != nil {
		return SettlementResult{}, fmt.Errorf("mark gameweek settled: %w", err)
	}

	result.Transition, err = e.afterSettlement(ctx, repos, comp, current)
	if err != nil {
		return SettlementResult{}, err
	}

	e.logger.InfoContext(ctx, "gameweek settled",
		"competition_id", comp.ID,
		"gameweek_id", gw.ID,
		"gameweek_number", gw.Number,
		"eliminated", len(result.Eliminated),
		"survived", len(result.Survived),
		"transition", string(result.Transition.Kind),
	)

	return result, nil
}
