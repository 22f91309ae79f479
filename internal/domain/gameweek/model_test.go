package gameweek

import (
	"testing"
	"time"
)

func TestNextOpen(t *testing.T) {
	now := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)
	items := []Gameweek{
		{ID: "gw4", LockTime: now.Add(21 * 24 * time.Hour)},
		{ID: "gw1", LockTime: now.Add(-24 * time.Hour)},
		{ID: "gw3", LockTime: now.Add(14 * 24 * time.Hour)},
		{ID: "gw2", LockTime: now.Add(7 * 24 * time.Hour), IsSettled: true},
	}

	got, ok := NextOpen(items, now)
	if !ok {
		t.Fatalf("expected an open gameweek")
	}
	if got.ID != "gw3" {
		t.Fatalf("expected gw3, got %s", got.ID)
	}

	if _, ok := NextOpen(items[1:2], now); ok {
		t.Fatalf("locked gameweek must not be open")
	}
}

func TestIsLocked(t *testing.T) {
	lock := time.Date(2025, 8, 16, 11, 0, 0, 0, time.UTC)
	item := Gameweek{LockTime: lock}
	if item.IsLocked(lock.Add(-time.Nanosecond)) {
		t.Fatalf("gameweek locked before lock time")
	}
	if !item.IsLocked(lock) {
		t.Fatalf("gameweek must lock at lock time")
	}
}
