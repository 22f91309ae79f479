package fixture

import "context"

// Repository exposes fixture persistence for the engine.
type Repository interface {
	GetByID(ctx context.Context, fixtureID string) (Fixture, bool, error)
	ListByGameweek(ctx context.Context, gameweekID string) ([]Fixture, error)
	Upsert(ctx context.Context, item Fixture) error
}
