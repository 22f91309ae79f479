package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/competition"
	"github.com/riskibarqy/last-man-standing/internal/domain/pick"
	"github.com/riskibarqy/last-man-standing/internal/domain/store"
)

type SubmitPickInput struct {
	EntryID    string
	GameweekID string
	FixtureID  string
	Team       string
}

type PickService struct {
	engine *Engine
}

func NewPickService(engine *Engine) *PickService {
	return &PickService{engine: engine}
}

// SubmitPick stores the entry's team for a gameweek after re-validating
// lock time and team reuse. A resubmission before lock replaces the
// previous pick of the same gameweek.
func (s *PickService) SubmitPick(ctx context.Context, input SubmitPickInput) (pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.SubmitPick")
	defer span.End()

	entryID, err := requireID("entry_id", input.EntryID)
	if err != nil {
		return pick.Pick{}, err
	}
	gameweekID, err := requireID("gameweek_id", input.GameweekID)
	if err != nil {
		return pick.Pick{}, err
	}
	fixtureID, err := requireID("fixture_id", input.FixtureID)
	if err != nil {
		return pick.Pick{}, err
	}
	team := strings.TrimSpace(input.Team)
	if team == "" {
		return pick.Pick{}, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	competitionID, err := s.engine.competitionOf(ctx, func(ctx context.Context, repos store.Repositories) (string, error) {
		item, err := loadEntry(ctx, repos, entryID)
		if err != nil {
			return "", err
		}
		return item.CompetitionID, nil
	})
	if err != nil {
		return pick.Pick{}, err
	}

	var saved pick.Pick
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
		if !member.IsAlive() {
			return fmt.Errorf("%w: entry=%s", ErrEntryEliminated, member.ID)
		}

		gw, err := loadGameweek(ctx, repos, gameweekID)
		if err != nil {
			return err
		}
		if gw.CompetitionID != comp.ID {
			return fmt.Errorf("%w: gameweek %s is not in competition %s", ErrInvalidInput, gw.ID, comp.ID)
		}
		if gw.IsSettled {
			return fmt.Errorf("%w: gameweek=%s", ErrGameweekSettled, gw.ID)
		}

		target, ok, err := repos.Fixtures.GetByID(ctx, fixtureID)
		if err != nil {
			return fmt.Errorf("get fixture: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
		}
		if target.GameweekID != gw.ID {
			return fmt.Errorf("%w: fixture %s is not in gameweek %s", ErrInvalidInput, target.ID, gw.ID)
		}
		if !target.HasTeam(team) {
			return fmt.Errorf("%w: team %s does not play in fixture %s", ErrInvalidInput, team, target.ID)
		}

		previous, hasPrevious, err := repos.Picks.GetByEntryAndGameweek(ctx, member.ID, gw.ID)
		if err != nil {
			return fmt.Errorf("get previous pick: %w", err)
		}

		switch comp.LockPolicy {
		case competition.LockPolicyKickoff:
			if target.HasKickedOff(now) {
				return fmt.Errorf("%w: fixture %s kicked off", ErrPickLocked, target.ID)
			}
			if hasPrevious && previous.FixtureID != target.ID {
				locked, err := s.fixtureStarted(ctx, repos, previous.FixtureID, now)
				if err != nil {
					return err
				}
				if locked {
					return fmt.Errorf("%w: previous fixture %s kicked off", ErrPickLocked, previous.FixtureID)
				}
			}
		default:
			if gw.IsLocked(now) {
				return fmt.Errorf("%w: gameweek %s locked at %s", ErrPickLocked, gw.ID, gw.LockTime.UTC().Format(time.RFC3339))
			}
		}

		used, err := usedTeams(ctx, repos, member.ID, current.ID, gw.ID)
		if err != nil {
			return err
		}
		if _, taken := used[team]; taken {
			return fmt.Errorf("%w: team=%s", ErrTeamAlreadyUsed, team)
		}

		item := pick.Pick{
			EntryID:    member.ID,
			RoundID:    current.ID,
			GameweekID: gw.ID,
			FixtureID:  target.ID,
			Team:       team,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if hasPrevious {
			item.ID = previous.ID
			item.CreatedAt = previous.CreatedAt
		} else {
			item.ID, err = s.engine.newID()
			if err != nil {
				return err
			}
		}
		if err := item.ValidateBasic(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := repos.Picks.Upsert(ctx, item); err != nil {
			return fmt.Errorf("save pick: %w", err)
		}

		saved = item
		return nil
	})
	if err != nil {
		return pick.Pick{}, err
	}

	return saved, nil
}

func (s *PickService) fixtureStarted(ctx context.Context, repos store.Repositories, fixtureID string, now time.Time) (bool, error) {
	item, ok, err := repos.Fixtures.GetByID(ctx, fixtureID)
	if err != nil {
		return false, fmt.Errorf("get fixture: %w", err)
	}
	return ok && item.HasKickedOff(now), nil
}
