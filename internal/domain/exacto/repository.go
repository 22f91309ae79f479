package exacto

import "context"

// Repository stores at most one prediction per entry.
type Repository interface {
	GetByEntry(ctx context.Context, entryID string) (Prediction, bool, error)
	ListByFixture(ctx context.Context, fixtureID string) ([]Prediction, error)
	Upsert(ctx context.Context, item Prediction) error
}
