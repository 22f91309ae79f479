package entry

import "context"

type Repository interface {
	GetByID(ctx context.Context, entryID string) (Entry, bool, error)
	ListByCompetition(ctx context.Context, competitionID string) ([]Entry, error)
	ListByRound(ctx context.Context, roundID string) ([]Entry, error)
	Upsert(ctx context.Context, item Entry) error
}
