package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/last-man-standing/internal/domain/entry"
	qb "github.com/riskibarqy/last-man-standing/internal/platform/querybuilder"
)

type EntryRepository struct {
	db queryer
}

func NewEntryRepository(db queryer) *EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) GetByID(ctx context.Context, entryID string) (entry.Entry, bool, error) {
	query, args, err := qb.Select(entryColumns).From("entries").
		Where(qb.Eq("public_id", entryID)).
		ToSQL()
	if err != nil {
		return entry.Entry{}, false, fmt.Errorf("build select entry query: %w", err)
	}

	var row entryTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return entry.Entry{}, false, nil
		}
		return entry.Entry{}, false, fmt.Errorf("get entry: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *EntryRepository) ListByCompetition(ctx context.Context, competitionID string) ([]entry.Entry, error) {
	return r.list(ctx, qb.Eq("competition_public_id", competitionID))
}

func (r *EntryRepository) ListByRound(ctx context.Context, roundID string) ([]entry.Entry, error) {
	return r.list(ctx, qb.Eq("round_public_id", roundID))
}

func (r *EntryRepository) list(ctx context.Context, where qb.Condition) ([]entry.Entry, error) {
	query, args, err := qb.Select(entryColumns).From("entries").
		Where(where).
		OrderBy("created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list entries query: %w", err)
	}

	var rows []entryTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	out := make([]entry.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *EntryRepository) Upsert(ctx context.Context, item entry.Entry) error {
	query, args, err := qb.InsertModel("entries", entryRowFromDomain(item), `ON CONFLICT (public_id)
DO UPDATE SET
    round_public_id = EXCLUDED.round_public_id,
    display_name = EXCLUDED.display_name,
    lives_remaining = EXCLUDED.lives_remaining,
    eliminated_at_gw = EXCLUDED.eliminated_at_gw,
    used_exacto = EXCLUDED.used_exacto,
    season_round_wins = EXCLUDED.season_round_wins,
    first_round_win_at = EXCLUDED.first_round_win_at,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build entry upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert entry: %w", err)
	}
	return nil
}
