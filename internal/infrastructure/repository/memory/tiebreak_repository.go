package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/last-man-standing/internal/domain/tiebreak"
)

type TiebreakRepository struct {
	rows *overlay[tiebreak.Participant]
}

func (r *TiebreakRepository) Get(_ context.Context, roundID, entryID string, stage int) (tiebreak.Participant, bool, error) {
	items := r.rows.filter(func(item tiebreak.Participant) bool {
		return item.RoundID == roundID && item.EntryID == entryID && item.Stage == stage
	})
	if len(items) == 0 {
		return tiebreak.Participant{}, false, nil
	}
	return items[0], true, nil
}

func (r *TiebreakRepository) ListByRoundStage(_ context.Context, roundID string, stage int) ([]tiebreak.Participant, error) {
	return sortParticipants(r.rows.filter(func(item tiebreak.Participant) bool {
		return item.RoundID == roundID && item.Stage == stage
	})), nil
}

func (r *TiebreakRepository) ListByRound(_ context.Context, roundID string) ([]tiebreak.Participant, error) {
	return sortParticipants(r.rows.filter(func(item tiebreak.Participant) bool {
		return item.RoundID == roundID
	})), nil
}

func (r *TiebreakRepository) Create(_ context.Context, items []tiebreak.Participant) error {
	for _, item := range items {
		clash := r.rows.filter(func(existing tiebreak.Participant) bool {
			return existing.RoundID == item.RoundID && existing.EntryID == item.EntryID && existing.Stage == item.Stage
		})
		if len(clash) > 0 {
			return fmt.Errorf("tiebreak participant exists: round=%s entry=%s stage=%d", item.RoundID, item.EntryID, item.Stage)
		}
		r.rows.put(item.ID, item)
	}
	return nil
}

func (r *TiebreakRepository) Update(_ context.Context, item tiebreak.Participant) error {
	if _, ok := r.rows.get(item.ID); !ok {
		return fmt.Errorf("tiebreak participant %s does not exist", item.ID)
	}

	r.rows.put(item.ID, item)
	return nil
}

func sortParticipants(items []tiebreak.Participant) []tiebreak.Participant {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Stage != items[j].Stage {
			return items[i].Stage < items[j].Stage
		}
		return items[i].EntryID < items[j].EntryID
	})
	return items
}
