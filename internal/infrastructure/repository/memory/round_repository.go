package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/last-man-standing/internal/domain/round"
)

type RoundRepository struct {
	rows *overlay[round.Round]
}

func (r *RoundRepository) GetByID(_ context.Context, roundID string) (round.Round, bool, error) {
	item, ok := r.rows.get(roundID)
	return item, ok, nil
}

func (r *RoundRepository) ListByCompetition(_ context.Context, competitionID string) ([]round.Round, error) {
	out := r.rows.filter(func(item round.Round) bool {
		return item.CompetitionID == competitionID
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].Number < out[j].Number
	})
	return out, nil
}

func (r *RoundRepository) Create(_ context.Context, item round.Round) error {
	clash := r.rows.filter(func(existing round.Round) bool {
		return existing.ID == item.ID ||
			(existing.CompetitionID == item.CompetitionID && existing.Number == item.Number)
	})
	if len(clash) > 0 {
		return fmt.Errorf("%w: competition=%s number=%d", round.ErrDuplicateNumber, item.CompetitionID, item.Number)
	}

	r.rows.put(item.ID, item)
	return nil
}

func (r *RoundRepository) Update(_ context.Context, item round.Round) error {
	if _, ok := r.rows.get(item.ID); !ok {
		return fmt.Errorf("round %s does not exist", item.ID)
	}

	r.rows.put(item.ID, item)
	return nil
}
