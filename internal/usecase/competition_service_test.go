package usecase

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/last-man-standing/internal/domain/competition"
	"github.com/riskibarqy/last-man-standing/internal/infrastructure/repository/memory"
	idmock "github.com/riskibarqy/last-man-standing/internal/mocks/platform/id"
	"github.com/riskibarqy/last-man-standing/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompetitionService_CreateOpensFirstRound(t *testing.T) {
	h := newHarness(t)

	state, err := h.competitions.Create(h.ctx(), CreateCompetitionInput{Name: "  Sunday League  "})
	require.NoError(t, err)

	assert.Equal(t, "Sunday League", state.Competition.Name)
	assert.Equal(t, competition.ResultPolicyStandard, state.Competition.ResultPolicy)
	assert.Equal(t, competition.LockPolicyGameweek, state.Competition.LockPolicy)
	assert.Equal(t, 1, state.Competition.LivesPerRound)
	assert.True(t, state.Competition.IsActive)
	assert.Equal(t, state.CurrentRound.ID, state.Competition.CurrentRoundID)
	assert.Equal(t, 1, state.CurrentRound.Number)
	assert.Equal(t, 1, h.activeRounds(state.Competition.ID))
}

func TestCompetitionService_CreateValidation(t *testing.T) {
	h := newHarness(t)

	tests := []CreateCompetitionInput{
		{Name: ""},
		{Name: "x", ResultPolicy: "lenient"},
		{Name: "x", LockPolicy: "never"},
		{Name: "x", LivesPerRound: -1},
	}
	for _, input := range tests {
		_, err := h.competitions.Create(h.ctx(), input)
		assert.True(t, errors.Is(err, ErrInvalidInput), "input %+v: %v", input, err)
	}
}

func TestCompetitionService_CreateFailsWhenIDGenerationFails(t *testing.T) {
	ids := idmock.NewGenerator(t)
	ids.On("NewID").Return("", errors.New("entropy exhausted")).Once()

	engine := NewEngine(memory.NewStore(), ids, EngineConfig{}, logging.NewNop())
	service := NewCompetitionService(engine, CompetitionDefaults{})

	_, err := service.Create(t.Context(), CreateCompetitionInput{Name: "LMS"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entropy exhausted")
}

func TestCompetitionService_JoinIsIdempotentPerUser(t *testing.T) {
	h := newHarness(t)
	comp := h.createCompetition(competition.ResultPolicyStandard)

	first := h.join(comp.ID, "ana")[0]
	again := h.join(comp.ID, "ana")[0]
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, comp.CurrentRoundID, first.RoundID)
	assert.Equal(t, 1, first.LivesRemaining)

	assert.Len(t, h.state(comp.ID).Entries, 1)
}

func TestCompetitionService_JoinUsesLivesPerRound(t *testing.T) {
	h := newHarness(t)
	state, err := h.competitions.Create(h.ctx(), CreateCompetitionInput{Name: "Two lives", LivesPerRound: 2})
	require.NoError(t, err)

	joined := h.join(state.Competition.ID, "ana")[0]
	assert.Equal(t, 2, joined.LivesRemaining)
}

func TestCompetitionService_ScheduleGameweekValidation(t *testing.T) {
	h := newHarness(t)
	comp := h.createCompetition(competition.ResultPolicyStandard)
	h.schedule(comp.ID, 1, [2]string{"Arsenal", "Chelsea"})

	lock := seasonStart.Add(7 * 24 * time.Hour)
	tests := []struct {
		name  string
		input ScheduleGameweekInput
	}{
		{name: "duplicate number", input: ScheduleGameweekInput{CompetitionID: comp.ID, Number: 1, LockTime: lock, Fixtures: []ScheduleFixtureInput{{HomeTeam: "A", AwayTeam: "B", KickoffAt: lock}}}},
		{name: "same team twice", input: ScheduleGameweekInput{CompetitionID: comp.ID, Number: 2, LockTime: lock, Fixtures: []ScheduleFixtureInput{{HomeTeam: "A", AwayTeam: "B", KickoffAt: lock}, {HomeTeam: "B", AwayTeam: "C", KickoffAt: lock}}}},
		{name: "home equals away", input: ScheduleGameweekInput{CompetitionID: comp.ID, Number: 2, LockTime: lock, Fixtures: []ScheduleFixtureInput{{HomeTeam: "A", AwayTeam: "A", KickoffAt: lock}}}},
		{name: "no fixtures", input: ScheduleGameweekInput{CompetitionID: comp.ID, Number: 2, LockTime: lock}},
		{name: "missing lock time", input: ScheduleGameweekInput{CompetitionID: comp.ID, Number: 2, Fixtures: []ScheduleFixtureInput{{HomeTeam: "A", AwayTeam: "B", KickoffAt: lock}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.competitions.ScheduleGameweek(h.ctx(), tc.input)
			assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
		})
	}

	_, err := h.competitions.ScheduleGameweek(h.ctx(), ScheduleGameweekInput{
		CompetitionID: "missing",
		Number:        2,
		LockTime:      lock,
		Fixtures:      []ScheduleFixtureInput{{HomeTeam: "A", AwayTeam: "B", KickoffAt: lock}},
	})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCompetitionService_DeactivateBlocksJoin(t *testing.T) {
	h := newHarness(t)
	comp := h.createCompetition(competition.ResultPolicyStandard)

	deactivated, err := h.competitions.Deactivate(h.ctx(), comp.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	_, err = h.competitions.Join(h.ctx(), JoinCompetitionInput{CompetitionID: comp.ID, UserID: "late"})
	assert.True(t, errors.Is(err, ErrCompetitionInactive))
}

func TestCompetitionService_JoinRefusedDuringTiebreak(t *testing.T) {
	h := newHarness(t)
	comp, entries, roundID := wipeout(t, h, "ana", "ben")

	_, err := h.competitions.Join(h.ctx(), JoinCompetitionInput{CompetitionID: comp.ID, UserID: "late"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRoundInTiebreak))

	again, err := h.competitions.Join(h.ctx(), JoinCompetitionInput{CompetitionID: comp.ID, UserID: "ana"})
	require.NoError(t, err)
	assert.Equal(t, entries[0].ID, again.ID)
	assert.Equal(t, roundID, again.RoundID)
	assert.Len(t, h.state(comp.ID).Entries, 2)
}
