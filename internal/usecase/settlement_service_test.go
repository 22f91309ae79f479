package usecase

import (
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/last-man-standing/internal/domain/competition"
	"github.com/riskibarqy/last-man-standing/internal/domain/round"
	usecasemock "github.com/riskibarqy/last-man-standing/internal/mocks/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSettlementService_AllPickedWinnersSurvive(t *testing.T) {
	h := newHarness(t)
	comp := h.createCompetition(competition.ResultPolicyStandard)
	entries := h.join(comp.ID, "ana", "ben", "cai", "dee")
	gw1 := h.schedule(comp.ID, 1, [2]string{"Liverpool", "Bournemouth"}, [2]string{"Tottenham", "Burnley"})

	h.pick(entries[0], gw1, "Liverpool")
	h.pick(entries[1], gw1, "Tottenham")
	h.pick(entries[2], gw1, "Tottenham")
	h.pick(entries[3], gw1, "Tottenham")
	h.finishAll(comp.ID, gw1, [2]int{4, 2}, [2]int{3, 0})

	result, err := h.settlement.SettleGameweek(h.ctx(), gw1.Gameweek.ID)
	require.NoError(t, err)

	assert.Empty(t, result.Eliminated)
	assert.Len(t, result.Survived, 4)
	assert.Equal(t, TransitionNone, result.Transition.Kind)

	state := h.state(comp.ID)
	assert.True(t, state.CurrentRound.IsActive())
	assert.Equal(t, 1, state.CurrentRound.Number)
	for _, item := range state.Entries {
		assert.Equal(t, 1, item.LivesRemaining, "entry %s", item.UserID)
	}
}

func TestSettlementService_RejectsSecondSettlement(t *testing.T) {
	h := newHarness(t)
	comp := h.createCompetition(competition.ResultPolicyStandard)
	entries := h.join(comp.ID, "ana", "ben", "cai")
	gw1 := h.schedule(comp.ID, 1, [2]string{"Arsenal", "Chelsea"}, [2]string{"Everton", "Fulham"})

	h.pick(entries[0], gw1, "Chelsea")
	h.pick(entries[1], gw1, "Everton")
	h.pick(entries[2], gw1, "Fulham")
	h.finishAll(comp.ID, gw1, [2]int{2, 0}, [2]int{1, 0})

	first, err := h.settlement.SettleGameweek(h.ctx(), gw1.Gameweek.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{entries[0].ID, entries[2].ID}, first.Eliminated)
	require.Equal(t, TransitionCompleted, first.Transition.Kind)

	_, err = h.settlement.SettleGameweek(h.ctx(), gw1.Gameweek.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGameweekSettled))
	assert.True(t, errors.Is(err, ErrPrecondition))

	for _, item := range entries {
		got := h.entry(item.ID)
		assert.GreaterOrEqual(t, got.LivesRemaining, 0)
	}
	assert.Equal(t, 1, h.activeRounds(comp.ID))
}

func TestSettlementService_WaitsForEveryFixture(t *testing.T) {
	h := newHarness(t)
	comp := h.createCompetition(competition.ResultPolicyStandard)
	entries := h.join(comp.ID, "ana", "ben")
	gw1 := h.schedule(comp.ID, 1, [2]string{"Arsenal", "Chelsea"}, [2]string{"Everton", "Fulham"})

	h.pick(entries[0], gw1, "Chelsea")
	h.pick(entries[1], gw1, "Everton")
	h.finish(comp.ID, gw1.Fixtures[0].ID, 2, 0)

	_, err := h.settlement.SettleGameweek(h.ctx(), gw1.Gameweek.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGameweekNotReady))

	state := h.state(comp.ID)
	assert.False(t, state.Gameweeks[0].IsSettled)
	assert.Equal(t, 1, h.entry(entries[0].ID).LivesRemaining)
}

func TestSettlementService_DrawPolicy(t *testing.T) {
	tests := []struct {
		name           string
		policy         competition.ResultPolicy
		wantEliminated bool
	}{
		{name: "standard keeps draws alive", policy: competition.ResultPolicyStandard, wantEliminated: false},
		{name: "strict eliminates on draw", policy: competition.ResultPolicyStrict, wantEliminated: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			comp := h.createCompetition(tc.policy)
			entries := h.join(comp.ID, "ana", "ben", "cai")
			gw1 := h.schedule(comp.ID, 1, [2]string{"Arsenal", "Chelsea"}, [2]string{"Everton", "Fulham"})

			h.pick(entries[0], gw1, "Arsenal")
			h.pick(entries[1], gw1, "Everton")
			h.pick(entries[2], gw1, "Fulham")
			h.finishAll(comp.ID, gw1, [2]int{1, 1}, [2]int{2, 2})

			result, err := h.settlement.SettleGameweek(h.ctx(), gw1.Gameweek.ID)
			require.NoError(t, err)

			if tc.wantEliminated {
				assert.Len(t, result.Eliminated, 3)
				assert.Equal(t, TransitionTiebreak, result.Transition.Kind)
				return
			}
			assert.Empty(t, result.Eliminated)
			assert.Equal(t, TransitionNone, result.Transition.Kind)
		})
	}
}

func TestSettlementService_EntriesWithoutPickAreUntouched(t *testing.T) {
	h := newHarness(t)
	comp := h.createCompetition(competition.ResultPolicyStandard)
	entries := h.join(comp.ID, "ana", "ben", "cai")
	gw1 := h.schedule(comp.ID, 1, [2]string{"Arsenal", "Chelsea"})

	h.pick(entries[0], gw1, "Chelsea")
	h.finishAll(comp.ID, gw1, [2]int{3, 1})

	result, err := h.settlement.SettleGameweek(h.ctx(), gw1.Gameweek.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{entries[0].ID}, result.Eliminated)
	assert.Equal(t, TransitionNone, result.Transition.Kind)
	assert.Equal(t, 1, h.entry(entries[1].ID).LivesRemaining)
	assert.Equal(t, 1, h.entry(entries[2].ID).LivesRemaining)

	loser := h.entry(entries[0].ID)
	require.NotNil(t, loser.EliminatedAtGw)
	assert.Equal(t, 1, *loser.EliminatedAtGw)
}

func TestSettlementService_TwoLosersEnterTiebreak(t *testing.T) {
	h := newHarness(t)
	comp := h.createCompetition(competition.ResultPolicyStandard)
	entries := h.join(comp.ID, "ana", "ben")
	gw1 := h.schedule(comp.ID, 1, [2]string{"Arsenal", "Chelsea"}, [2]string{"Everton", "Fulham"})
	gw2 := h.schedule(comp.ID, 2, [2]string{"Brentford", "Wolves"})

	h.pick(entries[0], gw1, "Chelsea")
	h.pick(entries[1], gw1, "Fulham")
	h.finishAll(comp.ID, gw1, [2]int{2, 1}, [2]int{1, 0})

	result, err := h.settlement.SettleGameweek(h.ctx(), gw1.Gameweek.ID)
	require.NoError(t, err)
	require.Equal(t, TransitionTiebreak, result.Transition.Kind)
	assert.ElementsMatch(t, []string{entries[0].ID, entries[1].ID}, result.Transition.Participants)

	status, err := h.tiebreaks.GetStatus(h.ctx(), result.RoundID)
	require.NoError(t, err)
	assert.Equal(t, round.TiebreakPending, status.Round.TiebreakStatus)
	assert.Equal(t, 1, status.Round.TiebreakStage)
	require.NotNil(t, status.Round.TiebreakDeadline)
	assert.True(t, status.Round.TiebreakDeadline.Equal(gw2.Gameweek.LockTime))
	assert.Len(t, status.Participants, 2)
	for _, p := range status.Participants {
		assert.Equal(t, 1, p.Stage)
		assert.False(t, p.AttemptUsed)
		assert.Nil(t, p.Score)
	}
	assert.Equal(t, 1, h.activeRounds(comp.ID))
}

func TestSettlementService_SingleSurvivorWinsRound(t *testing.T) {
	h := newHarness(t)
	comp := h.createCompetition(competition.ResultPolicyStandard)
	entries := h.join(comp.ID, "ana", "ben", "cai")
	gw1 := h.schedule(comp.ID, 1, [2]string{"Arsenal", "Chelsea"}, [2]string{"Everton", "Fulham"})

	h.pick(entries[0], gw1, "Arsenal")
	h.pick(entries[1], gw1, "Chelsea")
	h.pick(entries[2], gw1, "Fulham")
	h.finishAll(comp.ID, gw1, [2]int{2, 0}, [2]int{1, 0})

	result, err := h.settlement.SettleGameweek(h.ctx(), gw1.Gameweek.ID)
	require.NoError(t, err)
	require.Equal(t, TransitionCompleted, result.Transition.Kind)
	assert.Equal(t, entries[0].ID, result.Transition.WinnerEntryID)

	closed := h.round(result.RoundID)
	assert.False(t, closed.IsActive())
	assert.Equal(t, entries[0].ID, closed.WinnerEntryID)

	state := h.state(comp.ID)
	assert.Equal(t, result.Transition.NextRoundID, state.Competition.CurrentRoundID)
	assert.Equal(t, 2, state.CurrentRound.Number)
	require.Len(t, state.Entries, 3)
	for _, item := range state.Entries {
		assert.Equal(t, state.CurrentRound.ID, item.RoundID)
		assert.Equal(t, 1, item.LivesRemaining)
		assert.Nil(t, item.EliminatedAtGw)
		assert.False(t, item.UsedExacto)
	}

	winner := h.entry(entries[0].ID)
	assert.Equal(t, 1, winner.SeasonRoundWins)
	assert.NotNil(t, winner.FirstRoundWinAt)
	assert.Equal(t, 1, h.activeRounds(comp.ID))
}

func TestSettlementService_ConcurrentSettlementIsSerialized(t *testing.T) {
	h := newHarness(t)
	comp := h.createCompetition(competition.ResultPolicyStandard)
	entries := h.join(comp.ID, "ana", "ben")
	gw1 := h.schedule(comp.ID, 1, [2]string{"Arsenal", "Chelsea"})

	h.pick(entries[0], gw1, "Arsenal")
	h.pick(entries[1], gw1, "Chelsea")
	h.finishAll(comp.ID, gw1, [2]int{1, 0})

	const callers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		settled  int
		rejected int
	)
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_, err := h.settlement.SettleGameweek(h.ctx(), gw1.Gameweek.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				settled++
			case errors.Is(err, ErrGameweekSettled):
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, settled)
	assert.Equal(t, callers-1, rejected)
	assert.Equal(t, 1, h.activeRounds(comp.ID))
	assert.Equal(t, 1, h.entry(entries[0].ID).SeasonRoundWins)
}

func TestSettlementService_NotifiesCommittedCompetition(t *testing.T) {
	h := newHarness(t)
	comp := h.createCompetition(competition.ResultPolicyStandard)
	entries := h.join(comp.ID, "ana", "ben")
	gw1 := h.schedule(comp.ID, 1, [2]string{"Arsenal", "Chelsea"})
	h.pick(entries[0], gw1, "Arsenal")
	h.finishAll(comp.ID, gw1, [2]int{0, 0})

	notifier := usecasemock.NewChangeNotifier(t)
	notifier.
		On("CompetitionChanged", mock.Anything, comp.ID).
		Return().
		Once()
	h.engine.SetNotifier(notifier)

	_, err := h.settlement.SettleGameweek(h.ctx(), gw1.Gameweek.ID)
	require.NoError(t, err)

	_, err = h.settlement.SettleGameweek(h.ctx(), gw1.Gameweek.ID)
	require.Error(t, err)
}

func TestSettlementService_UnknownGameweek(t *testing.T) {
	h := newHarness(t)

	_, err := h.settlement.SettleGameweek(h.ctx(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = h.settlement.SettleGameweek(h.ctx(), " ")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
