package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/last-man-standing/internal/domain/entry"
)

type EntryRepository struct {
	rows *overlay[entry.Entry]
}

func (r *EntryRepository) GetByID(_ context.Context, entryID string) (entry.Entry, bool, error) {
	item, ok := r.rows.get(entryID)
	return item, ok, nil
}

func (r *EntryRepository) ListByCompetition(_ context.Context, competitionID string) ([]entry.Entry, error) {
	return sortEntries(r.rows.filter(func(item entry.Entry) bool {
		return item.CompetitionID == competitionID
	})), nil
}

func (r *EntryRepository) ListByRound(_ context.Context, roundID string) ([]entry.Entry, error) {
	return sortEntries(r.rows.filter(func(item entry.Entry) bool {
		return item.RoundID == roundID
	})), nil
}

func (r *EntryRepository) Upsert(_ context.Context, item entry.Entry) error {
	r.rows.put(item.ID, item)
	return nil
}

func sortEntries(items []entry.Entry) []entry.Entry {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items
}
