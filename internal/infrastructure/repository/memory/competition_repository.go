package memory

import (
	"context"
	"sort"

	"github.com/riskibarqy/last-man-standing/internal/domain/competition"
)

type CompetitionRepository struct {
	rows *overlay[competition.Competition]
}

func (r *CompetitionRepository) GetByID(_ context.Context, competitionID string) (competition.Competition, bool, error) {
	item, ok := r.rows.get(competitionID)
	return item, ok, nil
}

func (r *CompetitionRepository) List(_ context.Context) ([]competition.Competition, error) {
	out := r.rows.filter(func(competition.Competition) bool { return true })
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CompetitionRepository) Upsert(_ context.Context, item competition.Competition) error {
	r.rows.put(item.ID, item)
	return nil
}
