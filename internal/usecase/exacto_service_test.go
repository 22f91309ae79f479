package usecase

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/last-man-standing/internal/domain/competition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int {
	return &v
}

func TestExactoService_CorrectPredictionRevivesEntry(t *testing.T) {
	h := newHarness(t)
	comp := h.createCompetition(competition.ResultPolicyStandard)
	entries := h.join(comp.ID, "ana", "ben", "cai")
	gw1 := h.schedule(comp.ID, 1, [2]string{"Arsenal", "Chelsea"}, [2]string{"Everton", "Fulham"})
	gw2 := h.schedule(comp.ID, 2, [2]string{"Brentford", "Wolves"}, [2]string{"Newcastle", "Leeds"})
	gw3 := h.schedule(comp.ID, 3, [2]string{"Brentford", "Everton"}, [2]string{"Arsenal", "Fulham"})

	h.pick(entries[0], gw1, "Arsenal")
	h.pick(entries[1], gw1, "Everton")
	h.pick(entries[2], gw1, "Chelsea")
	h.finishAll(comp.ID, gw1, [2]int{2, 0}, [2]int{1, 0})

	settled, err := h.settlement.SettleGameweek(h.ctx(), gw1.Gameweek.ID)
	require.NoError(t, err)
	require.Equal(t, []string{entries[2].ID}, settled.Eliminated)

	_, err = h.exactos.SubmitExacto(h.ctx(), SubmitExactoInput{EntryID: entries[0].ID, FixtureID: gw2.Fixtures[0].ID, HomeGoals: 1, AwayGoals: 0})
	assert.True(t, errors.Is(err, ErrEntryNotEliminated))

	prediction, err := h.exactos.SubmitExacto(h.ctx(), SubmitExactoInput{
		EntryID:   entries[2].ID,
		FixtureID: gw2.Fixtures[0].ID,
		HomeGoals: 2,
		AwayGoals: 1,
	})
	require.NoError(t, err)
	assert.Nil(t, prediction.IsCorrect)
	assert.True(t, h.entry(entries[2].ID).UsedExacto)

	report, err := h.results.Ingest(h.ctx(), []ResultUpdate{
		{FixtureID: gw2.Fixtures[0].ID, HomeGoals: intPtr(2), AwayGoals: intPtr(1), Status: "FT"},
	})
	require.NoError(t, err)
	require.Len(t, report.Fixtures, 1)
	assert.Equal(t, []string{entries[2].ID}, report.Fixtures[0].Revived)
	require.Len(t, report.Gameweeks, 1)
	assert.Equal(t, "skipped", report.Gameweeks[0].Status, "gameweek 2 still has an unfinished fixture")

	revived := h.entry(entries[2].ID)
	assert.Equal(t, 1, revived.LivesRemaining)
	assert.Nil(t, revived.EliminatedAtGw)
	assert.True(t, revived.UsedExacto)

	_, err = h.picks.SubmitPick(h.ctx(), SubmitPickInput{
		EntryID:    entries[2].ID,
		GameweekID: gw3.Gameweek.ID,
		FixtureID:  gw3.Fixtures[0].ID,
		Team:       "Brentford",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTeamAlreadyUsed), "exacto teams count as used: %v", err)

	h.pick(revived, gw3, "Everton")
}

func TestExactoService_WrongPredictionStaysEliminated(t *testing.T) {
	h := newHarness(t)
	comp := h.createCompetition(competition.ResultPolicyStandard)
	entries := h.join(comp.ID, "ana", "ben", "cai")
	gw1 := h.schedule(comp.ID, 1, [2]string{"Arsenal", "Chelsea"}, [2]string{"Everton", "Fulham"})
	gw2 := h.schedule(comp.ID, 2, [2]string{"Brentford", "Wolves"})

	h.pick(entries[0], gw1, "Arsenal")
	h.pick(entries[1], gw1, "Everton")
	h.pick(entries[2], gw1, "Chelsea")
	h.finishAll(comp.ID, gw1, [2]int{2, 0}, [2]int{1, 0})
	_, err := h.settlement.SettleGameweek(h.ctx(), gw1.Gameweek.ID)
	require.NoError(t, err)

	_, err = h.exactos.SubmitExacto(h.ctx(), SubmitExactoInput{EntryID: entries[2].ID, FixtureID: gw2.Fixtures[0].ID, HomeGoals: 0, AwayGoals: 0})
	require.NoError(t, err)

	h.finish(comp.ID, gw2.Fixtures[0].ID, 1, 1)
	resolution, err := h.exactos.ResolveFixture(h.ctx(), gw2.Fixtures[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, resolution.Resolved)
	assert.Empty(t, resolution.Revived)

	loser := h.entry(entries[2].ID)
	assert.Equal(t, 0, loser.LivesRemaining)
	assert.True(t, loser.UsedExacto)

	_, err = h.exactos.SubmitExacto(h.ctx(), SubmitExactoInput{EntryID: entries[2].ID, FixtureID: gw2.Fixtures[0].ID, HomeGoals: 1, AwayGoals: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExactoUsed))
}

func TestExactoService_EditBeforeKickoff(t *testing.T) {
	h := newHarness(t)
	comp := h.createCompetition(competition.ResultPolicyStandard)
	entries := h.join(comp.ID, "ana", "ben", "cai")
	gw1 := h.schedule(comp.ID, 1, [2]string{"Arsenal", "Chelsea"}, [2]string{"Everton", "Fulham"})
	gw2 := h.schedule(comp.ID, 2, [2]string{"Brentford", "Wolves"}, [2]string{"Newcastle", "Leeds"})

	h.pick(entries[0], gw1, "Arsenal")
	h.pick(entries[1], gw1, "Everton")
	h.pick(entries[2], gw1, "Chelsea")
	h.finishAll(comp.ID, gw1, [2]int{2, 0}, [2]int{1, 0})
	_, err := h.settlement.SettleGameweek(h.ctx(), gw1.Gameweek.ID)
	require.NoError(t, err)

	first, err := h.exactos.SubmitExacto(h.ctx(), SubmitExactoInput{EntryID: entries[2].ID, FixtureID: gw2.Fixtures[0].ID, HomeGoals: 1, AwayGoals: 0})
	require.NoError(t, err)
	edited, err := h.exactos.SubmitExacto(h.ctx(), SubmitExactoInput{EntryID: entries[2].ID, FixtureID: gw2.Fixtures[1].ID, HomeGoals: 3, AwayGoals: 3})
	require.NoError(t, err)

	assert.Equal(t, first.ID, edited.ID)
	assert.Equal(t, gw2.Fixtures[1].ID, edited.FixtureID)
	assert.Equal(t, 3, edited.HomeGoals)
}

func TestExactoService_RejectsUsedTeamAndInvalidGoals(t *testing.T) {
	h := newHarness(t)
	comp := h.createCompetition(competition.ResultPolicyStandard)
	entries := h.join(comp.ID, "ana", "ben", "cai")
	gw1 := h.schedule(comp.ID, 1, [2]string{"Arsenal", "Chelsea"}, [2]string{"Everton", "Fulham"})
	gw2 := h.schedule(comp.ID, 2, [2]string{"Chelsea", "Wolves"})

	h.pick(entries[0], gw1, "Arsenal")
	h.pick(entries[1], gw1, "Everton")
	h.pick(entries[2], gw1, "Chelsea")
	h.finishAll(comp.ID, gw1, [2]int{2, 0}, [2]int{1, 0})
	_, err := h.settlement.SettleGameweek(h.ctx(), gw1.Gameweek.ID)
	require.NoError(t, err)

	_, err = h.exactos.SubmitExacto(h.ctx(), SubmitExactoInput{EntryID: entries[2].ID, FixtureID: gw2.Fixtures[0].ID, HomeGoals: 1, AwayGoals: 0})
	assert.True(t, errors.Is(err, ErrTeamAlreadyUsed))

	_, err = h.exactos.SubmitExacto(h.ctx(), SubmitExactoInput{EntryID: entries[2].ID, FixtureID: gw2.Fixtures[0].ID, HomeGoals: 11, AwayGoals: 0})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = h.exactos.SubmitExacto(h.ctx(), SubmitExactoInput{EntryID: entries[2].ID, FixtureID: gw1.Fixtures[1].ID, HomeGoals: 1, AwayGoals: 0})
	assert.True(t, errors.Is(err, ErrPickLocked), "settled gameweek is not a valid target: %v", err)

	assert.False(t, h.entry(entries[2].ID).UsedExacto)
}

func TestExactoService_RefusedDuringTiebreak(t *testing.T) {
	h := newHarness(t)
	_, entries, _ := wipeout(t, h, "ana", "ben")

	_, err := h.exactos.SubmitExacto(h.ctx(), SubmitExactoInput{EntryID: entries[0].ID, FixtureID: "any", HomeGoals: 1, AwayGoals: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRoundInTiebreak))
}
