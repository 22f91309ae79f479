package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/last-man-standing/internal/domain/pick"
	qb "github.com/riskibarqy/last-man-standing/internal/platform/querybuilder"
)

type PickRepository struct {
	db queryer
}

func NewPickRepository(db queryer) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) GetByEntryAndGameweek(ctx context.Context, entryID, gameweekID string) (pick.Pick, bool, error) {
	query, args, err := qb.Select(pickColumns).From("picks").
		Where(
			qb.Eq("entry_public_id", entryID),
			qb.Eq("gameweek_public_id", gameweekID),
		).
		ToSQL()
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("build select pick query: %w", err)
	}

	var row pickTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pick.Pick{}, false, nil
		}
		return pick.Pick{}, false, fmt.Errorf("get pick: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PickRepository) ListByEntry(ctx context.Context, entryID string) ([]pick.Pick, error) {
	return r.list(ctx, qb.Eq("entry_public_id", entryID))
}

func (r *PickRepository) ListByGameweek(ctx context.Context, gameweekID string) ([]pick.Pick, error) {
	return r.list(ctx, qb.Eq("gameweek_public_id", gameweekID))
}

func (r *PickRepository) list(ctx context.Context, where qb.Condition) ([]pick.Pick, error) {
	query, args, err := qb.Select(pickColumns).From("picks").
		Where(where).
		OrderBy("created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list picks query: %w", err)
	}

	var rows []pickTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Upsert keeps one pick per entry and gameweek; the stored public id and
// created_at survive a replacement.
func (r *PickRepository) Upsert(ctx context.Context, item pick.Pick) error {
	query, args, err := qb.InsertModel("picks", pickRowFromDomain(item), `ON CONFLICT (entry_public_id, gameweek_public_id)
DO UPDATE SET
    fixture_public_id = EXCLUDED.fixture_public_id,
    team = EXCLUDED.team,
    outcome = EXCLUDED.outcome,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build pick upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert pick: %w", err)
	}
	return nil
}
