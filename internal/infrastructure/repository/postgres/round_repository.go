package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/last-man-standing/internal/domain/round"
	qb "github.com/riskibarqy/last-man-standing/internal/platform/querybuilder"
)

type RoundRepository struct {
	db queryer
}

func NewRoundRepository(db queryer) *RoundRepository {
	return &RoundRepository{db: db}
}

func (r *RoundRepository) GetByID(ctx context.Context, roundID string) (round.Round, bool, error) {
	query, args, err := qb.Select(roundColumns).From("rounds").
		Where(qb.Eq("public_id", roundID)).
		ToSQL()
	if err != nil {
		return round.Round{}, false, fmt.Errorf("build select round query: %w", err)
	}

	var row roundTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return round.Round{}, false, nil
		}
		return round.Round{}, false, fmt.Errorf("get round: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *RoundRepository) ListByCompetition(ctx context.Context, competitionID string) ([]round.Round, error) {
	query, args, err := qb.Select(roundColumns).From("rounds").
		Where(qb.Eq("competition_public_id", competitionID)).
		OrderBy("round_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list rounds query: %w", err)
	}

	var rows []roundTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list rounds by competition: %w", err)
	}

	out := make([]round.Round, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Create inserts a new round. Both the (competition, number) constraint and
// the single-active-round index surface as round.ErrDuplicateNumber.
func (r *RoundRepository) Create(ctx context.Context, item round.Round) error {
	query, args, err := qb.InsertModel("rounds", roundRowFromDomain(item), "")
	if err != nil {
		return fmt.Errorf("build round insert query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: competition=%s number=%d", round.ErrDuplicateNumber, item.CompetitionID, item.Number)
		}
		return fmt.Errorf("insert round: %w", err)
	}
	return nil
}

func (r *RoundRepository) Update(ctx context.Context, item round.Round) error {
	row := roundRowFromDomain(item)
	query, args, err := qb.Update("rounds").
		Set("winner_entry_public_id", row.WinnerEntryID).
		Set("ended_at", row.EndedAt).
		Set("tiebreak_status", row.TiebreakStatus).
		Set("tiebreak_type", row.TiebreakType).
		Set("tiebreak_stage", row.TiebreakStage).
		Set("tiebreak_deadline", row.TiebreakDeadline).
		Where(qb.Eq("public_id", row.PublicID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build round update query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update round: %w", err)
	}
	ok, err := expectOneRow(result)
	if err != nil {
		return fmt.Errorf("read updated round rows: %w", err)
	}
	if !ok {
		return fmt.Errorf("round %s does not exist", item.ID)
	}
	return nil
}
