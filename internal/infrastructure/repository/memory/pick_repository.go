package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/last-man-standing/internal/domain/pick"
)

type PickRepository struct {
	rows *overlay[pick.Pick]
}

func (r *PickRepository) GetByEntryAndGameweek(_ context.Context, entryID, gameweekID string) (pick.Pick, bool, error) {
	items := r.rows.filter(func(item pick.Pick) bool {
		return item.EntryID == entryID && item.GameweekID == gameweekID
	})
	if len(items) == 0 {
		return pick.Pick{}, false, nil
	}
	return items[0], true, nil
}

func (r *PickRepository) ListByEntry(_ context.Context, entryID string) ([]pick.Pick, error) {
	return sortPicks(r.rows.filter(func(item pick.Pick) bool {
		return item.EntryID == entryID
	})), nil
}

func (r *PickRepository) ListByGameweek(_ context.Context, gameweekID string) ([]pick.Pick, error) {
	return sortPicks(r.rows.filter(func(item pick.Pick) bool {
		return item.GameweekID == gameweekID
	})), nil
}

// Upsert keeps one pick per entry and gameweek; a new pick for the same
// pair replaces the stored one under the stored id.
func (r *PickRepository) Upsert(_ context.Context, item pick.Pick) error {
	existing := r.rows.filter(func(stored pick.Pick) bool {
		return stored.EntryID == item.EntryID && stored.GameweekID == item.GameweekID
	})
	if len(existing) > 0 {
		item.ID = existing[0].ID
		item.CreatedAt = existing[0].CreatedAt
	}

	r.rows.put(item.ID, item)
	return nil
}

func sortPicks(items []pick.Pick) []pick.Pick {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items
}
