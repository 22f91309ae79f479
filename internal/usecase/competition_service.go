package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/competition"
	"github.com/riskibarqy/last-man-standing/internal/domain/entry"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/gameweek"
	"github.com/riskibarqy/last-man-standing/internal/domain/round"
	"github.com/riskibarqy/last-man-standing/internal/domain/store"
)

// CompetitionDefaults apply when a create request leaves a policy empty.
type CompetitionDefaults struct {
	ResultPolicy  competition.ResultPolicy
	LockPolicy    competition.LockPolicy
	LivesPerRound int
}

type CreateCompetitionInput struct {
	Name          string
	ResultPolicy  string
	LockPolicy    string
	LivesPerRound int
}

type JoinCompetitionInput struct {
	CompetitionID string
	UserID        string
	DisplayName   string
}

type ScheduleFixtureInput struct {
	ID        string
	HomeTeam  string
	AwayTeam  string
	KickoffAt time.Time
}

type ScheduleGameweekInput struct {
	CompetitionID string
	Number        int
	LockTime      time.Time
	Fixtures      []ScheduleFixtureInput
}

type ScheduledGameweek struct {
	Gameweek gameweek.Gameweek `json:"gameweek"`
	Fixtures []fixture.Fixture `json:"fixtures"`
}

// CompetitionState is the current view of one competition.
type CompetitionState struct {
	Competition  competition.Competition `json:"competition"`
	CurrentRound round.Round             `json:"current_round"`
	Entries      []entry.Entry           `json:"entries"`
	Gameweeks    []gameweek.Gameweek     `json:"gameweeks"`
}

type CompetitionService struct {
	engine   *Engine
	defaults CompetitionDefaults
}

func NewCompetitionService(engine *Engine, defaults CompetitionDefaults) *CompetitionService {
	if defaults.ResultPolicy == "" {
		defaults.ResultPolicy = competition.ResultPolicyStandard
	}
	if defaults.LockPolicy == "" {
		defaults.LockPolicy = competition.LockPolicyGameweek
	}
	if defaults.LivesPerRound < 1 {
		defaults.LivesPerRound = 1
	}

	return &CompetitionService{engine: engine, defaults: defaults}
}

// Create registers a competition and opens its first round.
func (s *CompetitionService) Create(ctx context.Context, input CreateCompetitionInput) (CompetitionState, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.Create")
	defer span.End()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return CompetitionState{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	resultPolicy := s.defaults.ResultPolicy
	if strings.TrimSpace(input.ResultPolicy) != "" {
		parsed, err := competition.ParseResultPolicy(input.ResultPolicy)
		if err != nil {
			return CompetitionState{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		resultPolicy = parsed
	}
	lockPolicy := s.defaults.LockPolicy
	if strings.TrimSpace(input.LockPolicy) != "" {
		parsed, err := competition.ParseLockPolicy(input.LockPolicy)
		if err != nil {
			return CompetitionState{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		lockPolicy = parsed
	}
	lives := input.LivesPerRound
	if lives == 0 {
		lives = s.defaults.LivesPerRound
	}

	competitionID, err := s.engine.newID()
	if err != nil {
		return CompetitionState{}, err
	}
	roundID, err := s.engine.newID()
	if err != nil {
		return CompetitionState{}, err
	}

	now := s.engine.clock()
	comp := competition.Competition{
		ID:             competitionID,
		Name:           name,
		LockPolicy:     lockPolicy,
		ResultPolicy:   resultPolicy,
		LivesPerRound:  lives,
		IsActive:       true,
		CurrentRoundID: roundID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := comp.Validate(); err != nil {
		return CompetitionState{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	first := round.New(roundID, competitionID, 1, now)

	err = s.engine.inCompetition(ctx, competitionID, func(ctx context.Context, repos store.Repositories) error {
		if err := repos.Competitions.Upsert(ctx, comp); err != nil {
			return fmt.Errorf("create competition: %w", err)
		}
		if err := repos.Rounds.Create(ctx, first); err != nil {
			return fmt.Errorf("create first round: %w", err)
		}
		return nil
	})
	if err != nil {
		return CompetitionState{}, err
	}

	s.engine.logger.InfoContext(ctx, "competition created",
		"competition_id", comp.ID,
		"result_policy", string(comp.ResultPolicy),
		"lock_policy", string(comp.LockPolicy),
		"lives_per_round", comp.LivesPerRound,
	)

	return CompetitionState{
		Competition:  comp,
		CurrentRound: first,
		Entries:      []entry.Entry{},
		Gameweeks:    []gameweek.Gameweek{},
	}, nil
}

// Join enrolls a user in the competition's current round. Joining twice
// returns the existing entry; new users wait while the round is in tiebreak.
func (s *CompetitionService) Join(ctx context.Context, input JoinCompetitionInput) (entry.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.Join")
	defer span.End()

	competitionID, err := requireID("competition_id", input.CompetitionID)
	if err != nil {
		return entry.Entry{}, err
	}
	userID, err := requireID("user_id", input.UserID)
	if err != nil {
		return entry.Entry{}, err
	}
	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = userID
	}

	var joined entry.Entry
	err = s.engine.inCompetition(ctx, competitionID, func(ctx context.Context, repos store.Repositories) error {
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

		members, err := repos.Entries.ListByCompetition(ctx, comp.ID)
		if err != nil {
			return fmt.Errorf("list competition entries: %w", err)
		}
		for _, item := range members {
			if item.UserID == userID {
				joined = item
				return nil
			}
		}
		if current.InTiebreak() {
			return fmt.Errorf("%w: round=%s", ErrRoundInTiebreak, current.ID)
		}

		entryID, err := s.engine.newID()
		if err != nil {
			return err
		}
		now := s.engine.clock()
		joined = entry.Entry{
			ID:             entryID,
			CompetitionID:  comp.ID,
			RoundID:        current.ID,
			UserID:         userID,
			DisplayName:    displayName,
			LivesRemaining: comp.LivesPerRound,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := repos.Entries.Upsert(ctx, joined); err != nil {
			return fmt.Errorf("create entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return entry.Entry{}, err
	}

	return joined, nil
}

// ScheduleGameweek adds a gameweek and its fixtures to the competition.
func (s *CompetitionService) ScheduleGameweek(ctx context.Context, input ScheduleGameweekInput) (ScheduledGameweek, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.ScheduleGameweek")
	defer span.End()

	competitionID, err := requireID("competition_id", input.CompetitionID)
	if err != nil {
		return ScheduledGameweek{}, err
	}
	if input.Number < 1 {
		return ScheduledGameweek{}, fmt.Errorf("%w: number must be at least 1", ErrInvalidInput)
	}
	if input.LockTime.IsZero() {
		return ScheduledGameweek{}, fmt.Errorf("%w: lock_time is required", ErrInvalidInput)
	}
	if len(input.Fixtures) == 0 {
		return ScheduledGameweek{}, fmt.Errorf("%w: at least one fixture is required", ErrInvalidInput)
	}

	gameweekID, err := s.engine.newID()
	if err != nil {
		return ScheduledGameweek{}, err
	}
	gw := gameweek.Gameweek{
		ID:            gameweekID,
		CompetitionID: competitionID,
		Number:        input.Number,
		LockTime:      input.LockTime.UTC(),
	}

	fixtures := make([]fixture.Fixture, 0, len(input.Fixtures))
	seenTeams := make(map[string]struct{}, len(input.Fixtures)*2)
	for i, item := range input.Fixtures {
		home := strings.TrimSpace(item.HomeTeam)
		away := strings.TrimSpace(item.AwayTeam)
		if home == "" || away == "" {
			return ScheduledGameweek{}, fmt.Errorf("%w: fixtures[%d] teams are required", ErrInvalidInput, i)
		}
		if home == away {
			return ScheduledGameweek{}, fmt.Errorf("%w: fixtures[%d] home and away must differ", ErrInvalidInput, i)
		}
		for _, team := range []string{home, away} {
			if _, dup := seenTeams[team]; dup {
				return ScheduledGameweek{}, fmt.Errorf("%w: team %s plays twice in gameweek", ErrInvalidInput, team)
			}
			seenTeams[team] = struct{}{}
		}
		if item.KickoffAt.IsZero() {
			return ScheduledGameweek{}, fmt.Errorf("%w: fixtures[%d] kickoff_at is required", ErrInvalidInput, i)
		}

		fixtureID := strings.TrimSpace(item.ID)
		if fixtureID == "" {
			fixtureID, err = s.engine.newID()
			if err != nil {
				return ScheduledGameweek{}, err
			}
		}
		fixtures = append(fixtures, fixture.Fixture{
			ID:         fixtureID,
			GameweekID: gw.ID,
			HomeTeam:   home,
			AwayTeam:   away,
			KickoffAt:  item.KickoffAt.UTC(),
			Status:     fixture.StatusScheduled,
		})
	}

	err = s.engine.inCompetition(ctx, competitionID, func(ctx context.Context, repos store.Repositories) error {
		comp, err := loadCompetition(ctx, repos, competitionID)
		if err != nil {
			return err
		}
		if !comp.IsActive {
			return fmt.Errorf("%w: competition=%s", ErrCompetitionInactive, comp.ID)
		}

		existing, err := repos.Gameweeks.ListByCompetition(ctx, comp.ID)
		if err != nil {
			return fmt.Errorf("list gameweeks: %w", err)
		}
		for _, item := range existing {
			if item.Number == gw.Number {
				return fmt.Errorf("%w: gameweek %d already scheduled", ErrInvalidInput, gw.Number)
			}
		}

		if err := repos.Gameweeks.Upsert(ctx, gw); err != nil {
			return fmt.Errorf("create gameweek: %w", err)
		}
		for _, item := range fixtures {
			if _, taken, err := repos.Fixtures.GetByID(ctx, item.ID); err != nil {
				return fmt.Errorf("get fixture: %w", err)
			} else if taken {
				return fmt.Errorf("%w: fixture %s already exists", ErrInvalidInput, item.ID)
			}
			if err := repos.Fixtures.Upsert(ctx, item); err != nil {
				return fmt.Errorf("create fixture: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return ScheduledGameweek{}, err
	}

	return ScheduledGameweek{Gameweek: gw, Fixtures: fixtures}, nil
}

func (s *CompetitionService) Deactivate(ctx context.Context, competitionID string) (competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.Deactivate")
	defer span.End()

	competitionID, err := requireID("competition_id", competitionID)
	if err != nil {
		return competition.Competition{}, err
	}

	var out competition.Competition
	err = s.engine.inCompetition(ctx, competitionID, func(ctx context.Context, repos store.Repositories) error {
		comp, err := loadCompetition(ctx, repos, competitionID)
		if err != nil {
			return err
		}
		comp.IsActive = false
		comp.UpdatedAt = s.engine.clock()
		if err := repos.Competitions.Upsert(ctx, comp); err != nil {
			return fmt.Errorf("deactivate competition: %w", err)
		}
		out = comp
		return nil
	})
	if err != nil {
		return competition.Competition{}, err
	}

	return out, nil
}

func (s *CompetitionService) GetState(ctx context.Context, competitionID string) (CompetitionState, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.GetState")
	defer span.End()

	competitionID, err := requireID("competition_id", competitionID)
	if err != nil {
		return CompetitionState{}, err
	}

	var out CompetitionState
	err = s.engine.store.Read(ctx, func(ctx context.Context, repos store.Repositories) error {
		comp, err := loadCompetition(ctx, repos, competitionID)
		if err != nil {
			return err
		}
		current, err := activeRound(ctx, repos, comp)
		if err != nil {
			return err
		}
		entries, err := repos.Entries.ListByRound(ctx, current.ID)
		if err != nil {
			return fmt.Errorf("list round entries: %w", err)
		}
		gameweeks, err := repos.Gameweeks.ListByCompetition(ctx, comp.ID)
		if err != nil {
			return fmt.Errorf("list gameweeks: %w", err)
		}

		out = CompetitionState{
			Competition:  comp,
			CurrentRound: current,
			Entries:      entries,
			Gameweeks:    gameweeks,
		}
		return nil
	})
	if err != nil {
		return CompetitionState{}, err
	}

	return out, nil
}
