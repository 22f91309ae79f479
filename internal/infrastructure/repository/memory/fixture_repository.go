package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
)

type FixtureRepository struct {
	rows *overlay[fixture.Fixture]
}

func (r *FixtureRepository) GetByID(_ context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	item, ok := r.rows.get(fixtureID)
	return item, ok, nil
}

func (r *FixtureRepository) ListByGameweek(_ context.Context, gameweekID string) ([]fixture.Fixture, error) {
	out := r.rows.filter(func(item fixture.Fixture) bool {
		return item.GameweekID == gameweekID
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *FixtureRepository) Upsert(_ context.Context, item fixture.Fixture) error {
	r.rows.put(item.ID, item)
	return nil
}
