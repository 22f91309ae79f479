package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/last-man-standing/internal/domain/exacto"
	qb "github.com/riskibarqy/last-man-standing/internal/platform/querybuilder"
)

type ExactoRepository struct {
	db queryer
}

func NewExactoRepository(db queryer) *ExactoRepository {
	return &ExactoRepository{db: db}
}

func (r *ExactoRepository) GetByEntry(ctx context.Context, entryID string) (exacto.Prediction, bool, error) {
	query, args, err := qb.Select(exactoColumns).From("exacto_predictions").
		Where(qb.Eq("entry_public_id", entryID)).
		ToSQL()
	if err != nil {
		return exacto.Prediction{}, false, fmt.Errorf("build select exacto prediction query: %w", err)
	}

	var row exactoTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return exacto.Prediction{}, false, nil
		}
		return exacto.Prediction{}, false, fmt.Errorf("get exacto prediction: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *ExactoRepository) ListByFixture(ctx context.Context, fixtureID string) ([]exacto.Prediction, error) {
	query, args, err := qb.Select(exactoColumns).From("exacto_predictions").
		Where(qb.Eq("fixture_public_id", fixtureID)).
		OrderBy("created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list exacto predictions query: %w", err)
	}

	var rows []exactoTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list exacto predictions by fixture: %w", err)
	}

	out := make([]exacto.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Upsert keeps one prediction per entry.
func (r *ExactoRepository) Upsert(ctx context.Context, item exacto.Prediction) error {
	query, args, err := qb.InsertModel("exacto_predictions", exactoRowFromDomain(item), `ON CONFLICT (entry_public_id)
DO UPDATE SET
    round_public_id = EXCLUDED.round_public_id,
    fixture_public_id = EXCLUDED.fixture_public_id,
    home_goals = EXCLUDED.home_goals,
    away_goals = EXCLUDED.away_goals,
    is_correct = EXCLUDED.is_correct,
    updated_at = EXCLUDED.updated_at,
    resolved_at = EXCLUDED.resolved_at`)
	if err != nil {
		return fmt.Errorf("build exacto prediction upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert exacto prediction: %w", err)
	}
	return nil
}
