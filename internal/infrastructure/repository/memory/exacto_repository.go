package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/last-man-standing/internal/domain/exacto"
)

type ExactoRepository struct {
	rows *overlay[exacto.Prediction]
}

func (r *ExactoRepository) GetByEntry(_ context.Context, entryID string) (exacto.Prediction, bool, error) {
	items := r.rows.filter(func(item exacto.Prediction) bool {
		return item.EntryID == entryID
	})
	if len(items) == 0 {
		return exacto.Prediction{}, false, nil
	}
	return items[0], true, nil
}

func (r *ExactoRepository) ListByFixture(_ context.Context, fixtureID string) ([]exacto.Prediction, error) {
	out := r.rows.filter(func(item exacto.Prediction) bool {
		return item.FixtureID == fixtureID
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].EntryID < out[j].EntryID
	})
	return out, nil
}

// Upsert keeps a single prediction row per entry.
func (r *ExactoRepository) Upsert(_ context.Context, item exacto.Prediction) error {
	existing := r.rows.filter(func(stored exacto.Prediction) bool {
		return stored.EntryID == item.EntryID
	})
	if len(existing) > 0 {
		item.ID = existing[0].ID
	}

	r.rows.put(item.ID, item)
	return nil
}
