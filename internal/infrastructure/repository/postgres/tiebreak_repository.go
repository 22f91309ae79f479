package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/last-man-standing/internal/domain/tiebreak"
	qb "github.com/riskibarqy/last-man-standing/internal/platform/querybuilder"
)

type TiebreakRepository struct {
	db queryer
}

func NewTiebreakRepository(db queryer) *TiebreakRepository {
	return &TiebreakRepository{db: db}
}

func (r *TiebreakRepository) Get(ctx context.Context, roundID, entryID string, stage int) (tiebreak.Participant, bool, error) {
	query, args, err := qb.Select(tiebreakColumns).From("tiebreak_participants").
		Where(
			qb.Eq("round_public_id", roundID),
			qb.Eq("entry_public_id", entryID),
			qb.Eq("stage", stage),
		).
		ToSQL()
	if err != nil {
		return tiebreak.Participant{}, false, fmt.Errorf("build select tiebreak participant query: %w", err)
	}

	var row tiebreakTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tiebreak.Participant{}, false, nil
		}
		return tiebreak.Participant{}, false, fmt.Errorf("get tiebreak participant: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TiebreakRepository) ListByRoundStage(ctx context.Context, roundID string, stage int) ([]tiebreak.Participant, error) {
	return r.list(ctx, qb.Eq("round_public_id", roundID), qb.Eq("stage", stage))
}

func (r *TiebreakRepository) ListByRound(ctx context.Context, roundID string) ([]tiebreak.Participant, error) {
	return r.list(ctx, qb.Eq("round_public_id", roundID))
}

func (r *TiebreakRepository) list(ctx context.Context, where ...qb.Condition) ([]tiebreak.Participant, error) {
	query, args, err := qb.Select(tiebreakColumns).From("tiebreak_participants").
		Where(where...).
		OrderBy("stage", "entry_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list tiebreak participants query: %w", err)
	}

	var rows []tiebreakTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list tiebreak participants: %w", err)
	}

	out := make([]tiebreak.Participant, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Create inserts one stage worth of participants in a single statement.
func (r *TiebreakRepository) Create(ctx context.Context, items []tiebreak.Participant) error {
	if len(items) == 0 {
		return nil
	}

	insert := qb.InsertInto("tiebreak_participants").
		Columns("public_id", "round_public_id", "entry_public_id", "stage", "score", "attempt_used", "submitted_at", "created_at")
	for _, item := range items {
		insert.Values(item.ID, item.RoundID, item.EntryID, item.Stage, item.Score, item.AttemptUsed, item.SubmittedAt, item.CreatedAt)
	}
	query, args, err := insert.ToSQL()
	if err != nil {
		return fmt.Errorf("build tiebreak participants insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("tiebreak participant already exists for round %s stage %d: %w", items[0].RoundID, items[0].Stage, err)
		}
		return fmt.Errorf("insert tiebreak participants: %w", err)
	}
	return nil
}

func (r *TiebreakRepository) Update(ctx context.Context, item tiebreak.Participant) error {
	query, args, err := qb.Update("tiebreak_participants").
		Set("score", item.Score).
		Set("attempt_used", item.AttemptUsed).
		Set("submitted_at", item.SubmittedAt).
		Where(qb.Eq("public_id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build tiebreak participant update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update tiebreak participant: %w", err)
	}
	ok, err := expectOneRow(result)
	if err != nil {
		return fmt.Errorf("read updated tiebreak participant rows: %w", err)
	}
	if !ok {
		return fmt.Errorf("tiebreak participant %s does not exist", item.ID)
	}
	return nil
}
