package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/last-man-standing/internal/domain/gameweek"
	qb "github.com/riskibarqy/last-man-standing/internal/platform/querybuilder"
)

type GameweekRepository struct {
	db queryer
}

func NewGameweekRepository(db queryer) *GameweekRepository {
	return &GameweekRepository{db: db}
}

func (r *GameweekRepository) GetByID(ctx context.Context, gameweekID string) (gameweek.Gameweek, bool, error) {
	query, args, err := qb.Select(gameweekColumns).From("gameweeks").
		Where(qb.Eq("public_id", gameweekID)).
		ToSQL()
	if err != nil {
		return gameweek.Gameweek{}, false, fmt.Errorf("build select gameweek query: %w", err)
	}

	var row gameweekTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return gameweek.Gameweek{}, false, nil
		}
		return gameweek.Gameweek{}, false, fmt.Errorf("get gameweek: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *GameweekRepository) ListByCompetition(ctx context.Context, competitionID string) ([]gameweek.Gameweek, error) {
	query, args, err := qb.Select(gameweekColumns).From("gameweeks").
		Where(qb.Eq("competition_public_id", competitionID)).
		OrderBy("gameweek_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list gameweeks query: %w", err)
	}

	var rows []gameweekTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list gameweeks by competition: %w", err)
	}

	out := make([]gameweek.Gameweek, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *GameweekRepository) Upsert(ctx context.Context, item gameweek.Gameweek) error {
	query, args, err := qb.InsertModel("gameweeks", gameweekRowFromDomain(item), `ON CONFLICT (public_id)
DO UPDATE SET
    lock_time = EXCLUDED.lock_time,
    is_settled = EXCLUDED.is_settled,
    settled_at = EXCLUDED.settled_at`)
	if err != nil {
		return fmt.Errorf("build gameweek upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert gameweek: %w", err)
	}
	return nil
}
