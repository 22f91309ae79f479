package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/last-man-standing/internal/domain/competition"
	qb "github.com/riskibarqy/last-man-standing/internal/platform/querybuilder"
)

type CompetitionRepository struct {
	db queryer
}

func NewCompetitionRepository(db queryer) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

func (r *CompetitionRepository) GetByID(ctx context.Context, competitionID string) (competition.Competition, bool, error) {
	query, args, err := qb.Select(competitionColumns).From("competitions").
		Where(qb.Eq("public_id", competitionID)).
		ToSQL()
	if err != nil {
		return competition.Competition{}, false, fmt.Errorf("build select competition query: %w", err)
	}

	var row competitionTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return competition.Competition{}, false, nil
		}
		return competition.Competition{}, false, fmt.Errorf("get competition: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *CompetitionRepository) List(ctx context.Context) ([]competition.Competition, error) {
	query, args, err := qb.Select(competitionColumns).From("competitions").
		OrderBy("created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list competitions query: %w", err)
	}

	var rows []competitionTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}

	out := make([]competition.Competition, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *CompetitionRepository) Upsert(ctx context.Context, item competition.Competition) error {
	query, args, err := qb.InsertModel("competitions", competitionRowFromDomain(item), `ON CONFLICT (public_id)
DO UPDATE SET
    name = EXCLUDED.name,
    lock_policy = EXCLUDED.lock_policy,
    result_policy = EXCLUDED.result_policy,
    lives_per_round = EXCLUDED.lives_per_round,
    is_active = EXCLUDED.is_active,
    current_round_public_id = EXCLUDED.current_round_public_id,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build competition upsert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert competition: %w", err)
	}
	return nil
}
