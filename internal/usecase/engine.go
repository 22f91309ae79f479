package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/competition"
	"github.com/riskibarqy/last-man-standing/internal/domain/entry"
	"github.com/riskibarqy/last-man-standing/internal/domain/exacto"
	"github.com/riskibarqy/last-man-standing/internal/domain/gameweek"
	"github.com/riskibarqy/last-man-standing/internal/domain/pick"
	"github.com/riskibarqy/last-man-standing/internal/domain/round"
	"github.com/riskibarqy/last-man-standing/internal/domain/store"
	"github.com/riskibarqy/last-man-standing/internal/platform/id"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
)

const (
	defaultTiebreakType           = "score_attack"
	defaultTiebreakMaxScore       = 1000
	defaultTiebreakFallbackWindow = 72 * time.Hour
	defaultExactoMaxGoals         = 20
	defaultIngestWorkers          = 4
)

// EngineConfig carries the tunables shared by the engine operations.
type EngineConfig struct {
	TiebreakType           string
	TiebreakMaxScore       int
	TiebreakFallbackWindow time.Duration
	ExactoMaxGoals         int
	IngestWorkers          int
}

func (c EngineConfig) normalized() EngineConfig {
	if strings.TrimSpace(c.TiebreakType) == "" {
		c.TiebreakType = defaultTiebreakType
	}
	if c.TiebreakMaxScore <= 0 {
		c.TiebreakMaxScore = defaultTiebreakMaxScore
	}
	if c.TiebreakFallbackWindow <= 0 {
		c.TiebreakFallbackWindow = defaultTiebreakFallbackWindow
	}
	if c.ExactoMaxGoals <= 0 {
		c.ExactoMaxGoals = defaultExactoMaxGoals
	}
	if c.IngestWorkers <= 0 {
		c.IngestWorkers = defaultIngestWorkers
	}
	return c
}

// ChangeNotifier is told after a competition's state was committed.
type ChangeNotifier interface {
	CompetitionChanged(ctx context.Context, competitionID string)
}

type noopChangeNotifier struct{}

func (noopChangeNotifier) CompetitionChanged(context.Context, string) {}

// Engine holds the collaborators every engine service shares: storage,
// id generation, the clock and change notification.
type Engine struct {
	store    store.Manager
	ids      id.Generator
	cfg      EngineConfig
	logger   *logging.Logger
	notifier ChangeNotifier
	now      func() time.Time
}

func NewEngine(manager store.Manager, ids id.Generator, cfg EngineConfig, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewUUIDGenerator()
	}

	return &Engine{
		store:    manager,
		ids:      ids,
		cfg:      cfg.normalized(),
		logger:   logger,
		notifier: noopChangeNotifier{},
		now:      time.Now,
	}
}

// SetNotifier replaces the change notifier. A nil notifier disables
// notifications.
func (e *Engine) SetNotifier(notifier ChangeNotifier) {
	if notifier == nil {
		notifier = noopChangeNotifier{}
	}
	e.notifier = notifier
}

func (e *Engine) Config() EngineConfig {
	return e.cfg
}

func (e *Engine) clock() time.Time {
	return e.now().UTC()
}

func (e *Engine) newID() (string, error) {
	value, err := e.ids.NewID()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return value, nil
}

func (e *Engine) changed(ctx context.Context, competitionID string) {
	if competitionID == "" {
		return
	}
	e.notifier.CompetitionChanged(ctx, competitionID)
}

// inCompetition runs fn in the competition's transaction and emits a change
// notification once it committed.
func (e *Engine) inCompetition(ctx context.Context, competitionID string, fn func(ctx context.Context, repos store.Repositories) error) error {
	if err := e.store.InCompetition(ctx, competitionID, fn); err != nil {
		return err
	}
	e.changed(ctx, competitionID)
	return nil
}

func loadCompetition(ctx context.Context, repos store.Repositories, competitionID string) (competition.Competition, error) {
	item, ok, err := repos.Competitions.GetByID(ctx, competitionID)
	if err != nil {
		return competition.Competition{}, fmt.Errorf("get competition: %w", err)
	}
	if !ok {
		return competition.Competition{}, fmt.Errorf("%w: competition=%s", ErrNotFound, competitionID)
	}
	return item, nil
}

// activeRound resolves the competition's current round through its
// CurrentRoundID pointer.
func activeRound(ctx context.Context, repos store.Repositories, comp competition.Competition) (round.Round, error) {
	if comp.CurrentRoundID == "" {
		return round.Round{}, fmt.Errorf("%w: competition=%s", ErrNoActiveRound, comp.ID)
	}

	item, ok, err := repos.Rounds.GetByID(ctx, comp.CurrentRoundID)
	if err != nil {
		return round.Round{}, fmt.Errorf("get round: %w", err)
	}
	if !ok || !item.IsActive() || item.CompetitionID != comp.ID {
		return round.Round{}, fmt.Errorf("%w: competition=%s round=%s", ErrNoActiveRound, comp.ID, comp.CurrentRoundID)
	}
	return item, nil
}

func loadRound(ctx context.Context, repos store.Repositories, roundID string) (round.Round, error) {
	item, ok, err := repos.Rounds.GetByID(ctx, roundID)
	if err != nil {
		return round.Round{}, fmt.Errorf("get round: %w", err)
	}
	if !ok {
		return round.Round{}, fmt.Errorf("%w: round=%s", ErrNotFound, roundID)
	}
	return item, nil
}

func loadEntry(ctx context.Context, repos store.Repositories, entryID string) (entry.Entry, error) {
	item, ok, err := repos.Entries.GetByID(ctx, entryID)
	if err != nil {
		return entry.Entry{}, fmt.Errorf("get entry: %w", err)
	}
	if !ok {
		return entry.Entry{}, fmt.Errorf("%w: entry=%s", ErrNotFound, entryID)
	}
	return item, nil
}

func loadGameweek(ctx context.Context, repos store.Repositories, gameweekID string) (gameweek.Gameweek, error) {
	item, ok, err := repos.Gameweeks.GetByID(ctx, gameweekID)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("get gameweek: %w", err)
	}
	if !ok {
		return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek=%s", ErrNotFound, gameweekID)
	}
	return item, nil
}

// competitionOf resolves which competition owns a row before the
// competition transaction is opened.
func (e *Engine) competitionOf(ctx context.Context, resolve func(ctx context.Context, repos store.Repositories) (string, error)) (string, error) {
	var competitionID string
	err := e.store.Read(ctx, func(ctx context.Context, repos store.Repositories) error {
		value, err := resolve(ctx, repos)
		if err != nil {
			return err
		}
		competitionID = value
		return nil
	})
	if err != nil {
		return "", err
	}
	return competitionID, nil
}

// usedTeams returns the teams an entry can no longer pick in roundID: every
// picked team plus both teams of a correct exacto prediction. skipGameweekID
// excludes the pick a resubmission is about to replace.
func usedTeams(ctx context.Context, repos store.Repositories, entryID, roundID, skipGameweekID string) (map[string]struct{}, error) {
	picks, err := repos.Picks.ListByEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("list picks by entry: %w", err)
	}

	kept := make([]pick.Pick, 0, len(picks))
	for _, item := range picks {
		if skipGameweekID != "" && item.GameweekID == skipGameweekID {
			continue
		}
		kept = append(kept, item)
	}
	used := pick.UsedTeams(kept, roundID)

	prediction, ok, err := repos.Exactos.GetByEntry(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("get exacto by entry: %w", err)
	}
	if ok && isCorrectPrediction(prediction) && prediction.RoundID == roundID {
		target, found, err := repos.Fixtures.GetByID(ctx, prediction.FixtureID)
		if err != nil {
			return nil, fmt.Errorf("get exacto fixture: %w", err)
		}
		if found {
			for _, team := range target.Teams() {
				used[team] = struct{}{}
			}
		}
	}

	return used, nil
}

func isCorrectPrediction(item exacto.Prediction) bool {
	return item.IsCorrect != nil && *item.IsCorrect
}

func requireID(name, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidInput, name)
	}
	return value, nil
}
