package round

import (
	"testing"
	"time"
)

func TestAcceptsScores(t *testing.T) {
	now := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(time.Hour)

	item := New("r1", "c1", 1, now)
	if item.InTiebreak() || item.AcceptsScores(now) {
		t.Fatalf("new round must not accept scores")
	}

	item.TiebreakStatus = TiebreakPending
	item.TiebreakDeadline = &deadline
	if !item.AcceptsScores(deadline) {
		t.Fatalf("scores at the deadline must be accepted")
	}
	if item.AcceptsScores(deadline.Add(time.Second)) {
		t.Fatalf("scores after the deadline must be rejected")
	}

	ended := now
	item.EndedAt = &ended
	if item.InTiebreak() {
		t.Fatalf("ended round cannot be in tiebreak")
	}
}
