package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/last-man-standing/internal/domain/gameweek"
)

type GameweekRepository struct {
	rows *overlay[gameweek.Gameweek]
}

func (r *GameweekRepository) GetByID(_ context.Context, gameweekID string) (gameweek.Gameweek, bool, error) {
	item, ok := r.rows.get(gameweekID)
	return item, ok, nil
}

func (r *GameweekRepository) ListByCompetition(_ context.Context, competitionID string) ([]gameweek.Gameweek, error) {
	out := r.rows.filter(func(item gameweek.Gameweek) bool {
		return item.CompetitionID == competitionID
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Number < out[j].Number
	})
	return out, nil
}

func (r *GameweekRepository) Upsert(_ context.Context, item gameweek.Gameweek) error {
	r.rows.put(item.ID, item)
	return nil
}
