package tiebreak

import "context"

type Repository interface {
	Get(ctx context.Context, roundID, entryID string, stage int) (Participant, bool, error)
	ListByRoundStage(ctx context.Context, roundID string, stage int) ([]Participant, error)
	ListByRound(ctx context.Context, roundID string) ([]Participant, error)
	Create(ctx context.Context, items []Participant) error
	Update(ctx context.Context, item Participant) error
}
