package round

import (
	"context"
	"errors"
)

// ErrDuplicateNumber is returned by Create when the competition already has
// a round with the same number.
var ErrDuplicateNumber = errors.New("round number already exists for competition")

type Repository interface {
	GetByID(ctx context.Context, roundID string) (Round, bool, error)
	ListByCompetition(ctx context.Context, competitionID string) ([]Round, error)
	Create(ctx context.Context, item Round) error
	Update(ctx context.Context, item Round) error
}
