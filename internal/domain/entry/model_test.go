package entry

import (
	"testing"
	"time"
)

func TestLoseLife(t *testing.T) {
	item := Entry{LivesRemaining: 2}

	if item.LoseLife(3) {
		t.Fatalf("first life lost must not eliminate")
	}
	if item.EliminatedAtGw != nil {
		t.Fatalf("eliminated gameweek set too early")
	}
	if !item.LoseLife(4) {
		t.Fatalf("last life lost must eliminate")
	}
	if item.EliminatedAtGw == nil || *item.EliminatedAtGw != 4 {
		t.Fatalf("expected elimination at gameweek 4, got %v", item.EliminatedAtGw)
	}

	if item.LoseLife(5) {
		t.Fatalf("eliminated entry must not be eliminated twice")
	}
	if item.LivesRemaining != 0 || *item.EliminatedAtGw != 4 {
		t.Fatalf("eliminated entry changed: %+v", item)
	}
}

func TestReviveAndReset(t *testing.T) {
	gw := 2
	item := Entry{RoundID: "r1", LivesRemaining: 0, EliminatedAtGw: &gw, UsedExacto: true}

	item.Revive(0)
	if item.LivesRemaining != 1 || item.EliminatedAtGw != nil {
		t.Fatalf("unexpected revive result: %+v", item)
	}
	if !item.UsedExacto {
		t.Fatalf("revive must keep the exacto flag")
	}

	item.ResetForRound("r2", 3)
	if item.RoundID != "r2" || item.LivesRemaining != 3 || item.UsedExacto {
		t.Fatalf("unexpected reset result: %+v", item)
	}
}

func TestRecordRoundWinKeepsFirstWin(t *testing.T) {
	first := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	item := Entry{}

	item.RecordRoundWin(first)
	item.RecordRoundWin(first.Add(time.Hour))

	if item.SeasonRoundWins != 2 {
		t.Fatalf("expected 2 wins, got %d", item.SeasonRoundWins)
	}
	if item.FirstRoundWinAt == nil || !item.FirstRoundWinAt.Equal(first) {
		t.Fatalf("first win timestamp changed: %v", item.FirstRoundWinAt)
	}
}

func TestAlive(t *testing.T) {
	items := []Entry{{ID: "a", LivesRemaining: 1}, {ID: "b"}, {ID: "c", LivesRemaining: 2}}
	alive := Alive(items)
	if len(alive) != 2 || alive[0].ID != "a" || alive[1].ID != "c" {
		t.Fatalf("unexpected alive entries: %+v", alive)
	}
}
