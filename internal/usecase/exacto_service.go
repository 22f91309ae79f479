package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/last-man-standing/internal/domain/competition"
	"github.com/riskibarqy/last-man-standing/internal/domain/exacto"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/store"
)

type SubmitExactoInput struct {
	EntryID   string
	FixtureID string
	HomeGoals int
	AwayGoals int
}

// ExactoResolution reports the predictions settled by one finished fixture.
type ExactoResolution struct {
	FixtureID string   `json:"fixture_id"`
	Resolved  int      `json:"resolved"`
	Revived   []string `json:"revived"`
}

type ExactoService struct {
	engine *Engine
}

func NewExactoService(engine *Engine) *ExactoService {
	return &ExactoService{engine: engine}
}

// SubmitExacto records an eliminated entry's exact score prediction and
// consumes its exacto for the round. An unresolved prediction can be edited
// until its fixture kicks off.
func (s *ExactoService) SubmitExacto(ctx context.Context, input SubmitExactoInput) (exacto.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExactoService.SubmitExacto")
	defer span.End()

	entryID, err := requireID("entry_id", input.EntryID)
	if err != nil {
		return exacto.Prediction{}, err
	}
	fixtureID, err := requireID("fixture_id", input.FixtureID)
	if err != nil {
		return exacto.Prediction{}, err
	}
	maxGoals := s.engine.cfg.ExactoMaxGoals
	if input.HomeGoals < 0 || input.AwayGoals < 0 || input.HomeGoals > maxGoals || input.AwayGoals > maxGoals {
		return exacto.Prediction{}, fmt.Errorf("%w: goals must be between 0 and %d", ErrInvalidInput, maxGoals)
	}

	competitionID, err := s.engine.competitionOf(ctx, func(ctx context.Context, repos store.Repositories) (string, error) {
		item, err := loadEntry(ctx, repos, entryID)
		if err != nil {
			return "", err
		}
		return item.CompetitionID, nil
	})
	if err != nil {
		return exacto.Prediction{}, err
	}

	var saved exacto.Prediction
	err = s.engine.inCompetition(ctx, competitionID, func(ctx context.Context, repos store.Repositories) error {
		now := s.engine.clock()

		comp, err := loadCompetition(ctx, repos, competitionID)
		if err != nil {
			return err
		}
		if !comp.IsActive {
			return fmt.Errorf("%w: competition=%s", ErrCompetitionInactive, comp.ID)
		}
		current, err := activeRound(ctx, repos, comp)
		if err != nil {
			return err
		}
		if current.InTiebreak() {
			return fmt.Errorf("%w: round=%s", ErrRoundInTiebreak, current.ID)
		}

		member, err := loadEntry(ctx, repos, entryID)
		if err != nil {
			return err
		}
		if member.RoundID != current.ID {
			return fmt.Errorf("%w: entry %s is not in round %s", ErrConsistency, member.ID, current.ID)
		}
		if member.IsAlive() {
			return fmt.Errorf("%w: entry=%s", ErrEntryNotEliminated, member.ID)
		}

		existing, hasExisting, err := repos.Exactos.GetByEntry(ctx, member.ID)
		if err != nil {
			return fmt.Errorf("get exacto by entry: %w", err)
		}
		sameRound := hasExisting && existing.RoundID == current.ID
		if member.UsedExacto {
			if !sameRound || existing.IsResolved() {
				return fmt.Errorf("%w: entry=%s", ErrExactoUsed, member.ID)
			}
			previous, ok, err := repos.Fixtures.GetByID(ctx, existing.FixtureID)
			if err != nil {
				return fmt.Errorf("get exacto fixture: %w", err)
			}
			if ok && (previous.HasKickedOff(now) || previous.Status != fixture.StatusScheduled) {
				return fmt.Errorf("%w: prediction fixture %s already started", ErrExactoUsed, previous.ID)
			}
		}

		target, ok, err := repos.Fixtures.GetByID(ctx, fixtureID)
		if err != nil {
			return fmt.Errorf("get fixture: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
		}
		gw, err := loadGameweek(ctx, repos, target.GameweekID)
		if err != nil {
			return err
		}
		if gw.CompetitionID != comp.ID {
			return fmt.Errorf("%w: fixture %s is not in competition %s", ErrInvalidInput, target.ID, comp.ID)
		}
		if gw.IsSettled || gw.IsLocked(now) || target.HasKickedOff(now) {
			return fmt.Errorf("%w: fixture %s is not in a future gameweek", ErrPickLocked, target.ID)
		}

		used, err := usedTeams(ctx, repos, member.ID, current.ID, "")
		if err != nil {
			return err
		}
		for _, team := range target.Teams() {
			if _, taken := used[team]; taken {
				return fmt.Errorf("%w: team=%s", ErrTeamAlreadyUsed, team)
			}
		}

		prediction := exacto.Prediction{
			EntryID:   member.ID,
			RoundID:   current.ID,
			FixtureID: target.ID,
			HomeGoals: input.HomeGoals,
			AwayGoals: input.AwayGoals,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if sameRound {
			prediction.ID = existing.ID
			prediction.CreatedAt = existing.CreatedAt
		} else {
			prediction.ID, err = s.engine.newID()
			if err != nil {
				return err
			}
		}
		if err := repos.Exactos.Upsert(ctx, prediction); err != nil {
			return fmt.Errorf("save exacto prediction: %w", err)
		}

		member.UsedExacto = true
		member.UpdatedAt = now
		if err := repos.Entries.Upsert(ctx, member); err != nil {
			return fmt.Errorf("mark exacto used: %w", err)
		}

		saved = prediction
		return nil
	})
	if err != nil {
		return exacto.Prediction{}, err
	}

	return saved, nil
}

// ResolveFixture settles every open prediction on a finished fixture.
func (s *ExactoService) ResolveFixture(ctx context.Context, fixtureID string) (ExactoResolution, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExactoService.ResolveFixture")
	defer span.End()

	fixtureID, err := requireID("fixture_id", fixtureID)
	if err != nil {
		return ExactoResolution{}, err
	}

	competitionID, err := s.engine.competitionOfFixture(ctx, fixtureID)
	if err != nil {
		return ExactoResolution{}, err
	}

	resolution := ExactoResolution{FixtureID: fixtureID, Revived: []string{}}
	err = s.engine.inCompetition(ctx, competitionID, func(ctx context.Context, repos store.Repositories) error {
		comp, err := loadCompetition(ctx, repos, competitionID)
		if err != nil {
			return err
		}
		target, ok, err := repos.Fixtures.GetByID(ctx, fixtureID)
		if err != nil {
			return fmt.Errorf("get fixture: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
		}
		if !target.IsDecided() {
			return fmt.Errorf("%w: fixture %s is not finished", ErrGameweekNotReady, target.ID)
		}

		open, err := repos.Exactos.ListByFixture(ctx, target.ID)
		if err != nil {
			return fmt.Errorf("list exacto predictions: %w", err)
		}
		for _, item := range open {
			if !item.IsResolved() {
				resolution.Resolved++
			}
		}

		revived, err := s.engine.resolveExactos(ctx, repos, comp, target)
		if err != nil {
			return err
		}
		resolution.Revived = append(resolution.Revived, revived...)
		return nil
	})
	if err != nil {
		return ExactoResolution{}, err
	}

	return resolution, nil
}

func (e *Engine) competitionOfFixture(ctx context.Context, fixtureID string) (string, error) {
	return e.competitionOf(ctx, func(ctx context.Context, repos store.Repositories) (string, error) {
		target, ok, err := repos.Fixtures.GetByID(ctx, fixtureID)
		if err != nil {
			return "", fmt.Errorf("get fixture: %w", err)
		}
		if !ok {
			return "", fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
		}
		gw, err := loadGameweek(ctx, repos, target.GameweekID)
		if err != nil {
			return "", err
		}
		return gw.CompetitionID, nil
	})
}

// resolveExactos marks the open predictions on a decided fixture and revives
// the correct ones whose entry is still eliminated in the same active round.
// A round already in tiebreak keeps its participants: the prediction is
// resolved but the entry is not revived.
func (e *Engine) resolveExactos(ctx context.Context, repos store.Repositories, comp competition.Competition, target fixture.Fixture) ([]string, error) {
	if !target.IsDecided() {
		return nil, nil
	}

	predictions, err := repos.Exactos.ListByFixture(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("list exacto predictions: %w", err)
	}

	now := e.clock()
	revived := make([]string, 0)
	for _, item := range predictions {
		if item.IsResolved() {
			continue
		}

		correct := item.Matches(*target.HomeGoals, *target.AwayGoals)
		item.IsCorrect = &correct
		item.ResolvedAt = &now
		item.UpdatedAt = now
		if err := repos.Exactos.Upsert(ctx, item); err != nil {
			return nil, fmt.Errorf("resolve exacto %s: %w", item.ID, err)
		}
		if !correct || item.RoundID != comp.CurrentRoundID {
			continue
		}

		current, err := activeRound(ctx, repos, comp)
		if err != nil {
			return nil, err
		}
		if current.InTiebreak() {
			continue
		}

		member, ok, err := repos.Entries.GetByID(ctx, item.EntryID)
		if err != nil {
			return nil, fmt.Errorf("get entry: %w", err)
		}
		if !ok || member.RoundID != item.RoundID || member.IsAlive() {
			continue
		}

		member.Revive(1)
		member.UpdatedAt = now
		if err := repos.Entries.Upsert(ctx, member); err != nil {
			return nil, fmt.Errorf("revive entry %s: %w", member.ID, err)
		}
		revived = append(revived, member.ID)

		e.logger.InfoContext(ctx, "entry revived",
			"competition_id", comp.ID,
			"round_id", item.RoundID,
			"entry_id", member.ID,
			"fixture_id", target.ID,
		)
	}

	return revived, nil
}
