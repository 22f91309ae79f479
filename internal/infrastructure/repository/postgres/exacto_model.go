package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/exacto"
)

const exactoColumns = "public_id, entry_public_id, round_public_id, fixture_public_id, home_goals, away_goals, is_correct, created_at, updated_at, resolved_at"

type exactoTableModel struct {
	PublicID   string       `db:"public_id"`
	EntryID    string       `db:"entry_public_id"`
	RoundID    string       `db:"round_public_id"`
	FixtureID  string       `db:"fixture_public_id"`
	HomeGoals  int          `db:"home_goals"`
	AwayGoals  int          `db:"away_goals"`
	IsCorrect  sql.NullBool `db:"is_correct"`
	CreatedAt  time.Time    `db:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at"`
	ResolvedAt *time.Time   `db:"resolved_at"`
}

func exactoRowFromDomain(item exacto.Prediction) exactoTableModel {
	row := exactoTableModel{
		PublicID:   item.ID,
		EntryID:    item.EntryID,
		RoundID:    item.RoundID,
		FixtureID:  item.FixtureID,
		HomeGoals:  item.HomeGoals,
		AwayGoals:  item.AwayGoals,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
		ResolvedAt: item.ResolvedAt,
	}
	if item.IsCorrect != nil {
		row.IsCorrect = sql.NullBool{Bool: *item.IsCorrect, Valid: true}
	}
	return row
}

func (m exactoTableModel) toDomain() exacto.Prediction {
	out := exacto.Prediction{
		ID:         m.PublicID,
		EntryID:    m.EntryID,
		RoundID:    m.RoundID,
		FixtureID:  m.FixtureID,
		HomeGoals:  m.HomeGoals,
		AwayGoals:  m.AwayGoals,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		ResolvedAt: m.ResolvedAt,
	}
	if m.IsCorrect.Valid {
		correct := m.IsCorrect.Bool
		out.IsCorrect = &correct
	}
	return out
}
