package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/competition"
	"github.com/riskibarqy/last-man-standing/internal/domain/entry"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/round"
	"github.com/riskibarqy/last-man-standing/internal/domain/store"
	"github.com/riskibarqy/last-man-standing/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/last-man-standing/internal/platform/cache"
	"github.com/riskibarqy/last-man-standing/internal/platform/id"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
)

// kickoff of the first scheduled gameweek in every test.
var seasonStart = time.Date(2025, 8, 16, 14, 0, 0, 0, time.UTC)

type harness struct {
	t     *testing.T
	store *memory.Store
	now   time.Time

	engine       *Engine
	competitions *CompetitionService
	picks        *PickService
	settlement   *SettlementService
	rounds       *RoundService
	tiebreaks    *TiebreakService
	exactos      *ExactoService
	results      *ResultsService
	leaderboard  *LeaderboardService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		t:     t,
		store: memory.NewStore(),
		now:   seasonStart.Add(-72 * time.Hour),
	}
	h.engine = NewEngine(h.store, id.NewSequenceGenerator("id"), EngineConfig{
		TiebreakMaxScore:       100,
		TiebreakFallbackWindow: 48 * time.Hour,
		ExactoMaxGoals:         10,
		IngestWorkers:          2,
	}, logging.NewNop())
	h.engine.now = func() time.Time { return h.now }

	h.competitions = NewCompetitionService(h.engine, CompetitionDefaults{})
	h.picks = NewPickService(h.engine)
	h.settlement = NewSettlementService(h.engine)
	h.rounds = NewRoundService(h.engine)
	h.tiebreaks = NewTiebreakService(h.engine)
	h.exactos = NewExactoService(h.engine)
	h.results = NewResultsService(h.engine)
	h.leaderboard = NewLeaderboardService(h.engine, cache.NewStore(time.Hour))
	h.engine.SetNotifier(h.leaderboard)
	return h
}

func (h *harness) ctx() context.Context {
	return h.t.Context()
}

func (h *harness) advance(d time.Duration) {
	h.now = h.now.Add(d)
}

func (h *harness) createCompetition(policy competition.ResultPolicy) competition.Competition {
	h.t.Helper()

	state, err := h.competitions.Create(h.ctx(), CreateCompetitionInput{
		Name:         "Premier League LMS",
		ResultPolicy: string(policy),
	})
	if err != nil {
		h.t.Fatalf("create competition: %v", err)
	}
	return state.Competition
}

func (h *harness) join(competitionID string, users ...string) []entry.Entry {
	h.t.Helper()

	out := make([]entry.Entry, 0, len(users))
	for _, user := range users {
		item, err := h.competitions.Join(h.ctx(), JoinCompetitionInput{
			CompetitionID: competitionID,
			UserID:        user,
			DisplayName:   user,
		})
		if err != nil {
			h.t.Fatalf("join %s: %v", user, err)
		}
		out = append(out, item)
		h.advance(time.Minute)
	}
	return out
}

// schedule adds gameweek number locking at seasonStart + (number-1) weeks.
// Each pair is home, away.
func (h *harness) schedule(competitionID string, number int, pairs ...[2]string) ScheduledGameweek {
	h.t.Helper()

	lock := seasonStart.Add(time.Duration(number-1) * 7 * 24 * time.Hour)
	fixtures := make([]ScheduleFixtureInput, 0, len(pairs))
	for i, pair := range pairs {
		fixtures = append(fixtures, ScheduleFixtureInput{
			HomeTeam:  pair[0],
			AwayTeam:  pair[1],
			KickoffAt: lock.Add(time.Duration(i) * 2 * time.Hour),
		})
	}

	scheduled, err := h.competitions.ScheduleGameweek(h.ctx(), ScheduleGameweekInput{
		CompetitionID: competitionID,
		Number:        number,
		LockTime:      lock,
		Fixtures:      fixtures,
	})
	if err != nil {
		h.t.Fatalf("schedule gameweek %d: %v", number, err)
	}
	return scheduled
}

func (h *harness) pick(item entry.Entry, scheduled ScheduledGameweek, team string) {
	h.t.Helper()

	for _, f := range scheduled.Fixtures {
		if !f.HasTeam(team) {
			continue
		}
		if _, err := h.picks.SubmitPick(h.ctx(), SubmitPickInput{
			EntryID:    item.ID,
			GameweekID: scheduled.Gameweek.ID,
			FixtureID:  f.ID,
			Team:       team,
		}); err != nil {
			h.t.Fatalf("pick %s for %s: %v", team, item.UserID, err)
		}
		return
	}
	h.t.Fatalf("team %s not scheduled in gameweek %d", team, scheduled.Gameweek.Number)
}

// finish stores a final score without triggering settlement.
func (h *harness) finish(competitionID, fixtureID string, home, away int) {
	h.t.Helper()

	err := h.store.InCompetition(h.ctx(), competitionID, func(ctx context.Context, repos store.Repositories) error {
		item, _, err := repos.Fixtures.GetByID(ctx, fixtureID)
		if err != nil {
			return err
		}
		item.HomeGoals = &home
		item.AwayGoals = &away
		item.Status = fixture.StatusFinished
		return repos.Fixtures.Upsert(ctx, item)
	})
	if err != nil {
		h.t.Fatalf("finish fixture %s: %v", fixtureID, err)
	}
}

func (h *harness) finishAll(competitionID string, scheduled ScheduledGameweek, scores ...[2]int) {
	h.t.Helper()

	if len(scores) != len(scheduled.Fixtures) {
		h.t.Fatalf("expected %d scores, got %d", len(scheduled.Fixtures), len(scores))
	}
	for i, f := range scheduled.Fixtures {
		h.finish(competitionID, f.ID, scores[i][0], scores[i][1])
	}
}

func (h *harness) entry(entryID string) entry.Entry {
	h.t.Helper()

	var out entry.Entry
	err := h.store.Read(h.ctx(), func(ctx context.Context, repos store.Repositories) error {
		item, err := loadEntry(ctx, repos, entryID)
		out = item
		return err
	})
	if err != nil {
		h.t.Fatalf("load entry %s: %v", entryID, err)
	}
	return out
}

func (h *harness) round(roundID string) round.Round {
	h.t.Helper()

	var out round.Round
	err := h.store.Read(h.ctx(), func(ctx context.Context, repos store.Repositories) error {
		item, err := loadRound(ctx, repos, roundID)
		out = item
		return err
	})
	if err != nil {
		h.t.Fatalf("load round %s: %v", roundID, err)
	}
	return out
}

func (h *harness) state(competitionID string) CompetitionState {
	h.t.Helper()

	state, err := h.competitions.GetState(h.ctx(), competitionID)
	if err != nil {
		h.t.Fatalf("get competition state: %v", err)
	}
	return state
}

// activeRounds counts rounds with no end time.
func (h *harness) activeRounds(competitionID string) int {
	h.t.Helper()

	count := 0
	err := h.store.Read(h.ctx(), func(ctx context.Context, repos store.Repositories) error {
		items, err := repos.Rounds.ListByCompetition(ctx, competitionID)
		for _, item := range items {
			if item.IsActive() {
				count++
			}
		}
		return err
	})
	if err != nil {
		h.t.Fatalf("list rounds: %v", err)
	}
	return count
}
