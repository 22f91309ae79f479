package pick

import "context"

type Repository interface {
	GetByEntryAndGameweek(ctx context.Context, entryID, gameweekID string) (Pick, bool, error)
	ListByEntry(ctx context.Context, entryID string) ([]Pick, error)
	ListByGameweek(ctx context.Context, gameweekID string) ([]Pick, error)
	Upsert(ctx context.Context, item Pick) error
}
