package gameweek

import "context"

type Repository interface {
	GetByID(ctx context.Context, gameweekID string) (Gameweek, bool, error)
	ListByCompetition(ctx context.Context, competitionID string) ([]Gameweek, error)
	Upsert(ctx context.Context, item Gameweek) error
}
