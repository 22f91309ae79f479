package store

import (
	"context"

	"github.com/riskibarqy/last-man-standing/internal/domain/competition"
	"github.com/riskibarqy/last-man-standing/internal/domain/entry"
	"github.com/riskibarqy/last-man-standing/internal/domain/exacto"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/gameweek"
	"github.com/riskibarqy/last-man-standing/internal/domain/pick"
	"github.com/riskibarqy/last-man-standing/internal/domain/round"
	"github.com/riskibarqy/last-man-standing/internal/domain/tiebreak"
)

// Repositories is the engine's data-access surface, bound to one view of
// the data (a transaction or a read snapshot).
type Repositories struct {
	Competitions competition.Repository
	Gameweeks    gameweek.Repository
	Fixtures     fixture.Repository
	Rounds       round.Repository
	Entries      entry.Repository
	Picks        pick.Repository
	Tiebreaks    tiebreak.Repository
	Exactos      exacto.Repository
}

// Manager runs engine operations against storage.
//
// InCompetition serializes every call for the same competition and commits
// all writes made through repos only when fn returns nil.
type Manager interface {
	Read(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	InCompetition(ctx context.Context, competitionID string, fn func(ctx context.Context, repos Repositories) error) error
}
