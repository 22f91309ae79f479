package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/competition"
)

const competitionColumns = "public_id, name, lock_policy, result_policy, lives_per_round, is_active, current_round_public_id, created_at, updated_at"

type competitionTableModel struct {
	PublicID       string         `db:"public_id"`
	Name           string         `db:"name"`
	LockPolicy     string         `db:"lock_policy"`
	ResultPolicy   string         `db:"result_policy"`
	LivesPerRound  int            `db:"lives_per_round"`
	IsActive       bool           `db:"is_active"`
	CurrentRoundID sql.NullString `db:"current_round_public_id"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func competitionRowFromDomain(item competition.Competition) competitionTableModel {
	return competitionTableModel{
		PublicID:       item.ID,
		Name:           item.Name,
		LockPolicy:     string(item.LockPolicy),
		ResultPolicy:   string(item.ResultPolicy),
		LivesPerRound:  item.LivesPerRound,
		IsActive:       item.IsActive,
		CurrentRoundID: sql.NullString{String: item.CurrentRoundID, Valid: item.CurrentRoundID != ""},
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}

func (m competitionTableModel) toDomain() competition.Competition {
	return competition.Competition{
		ID:             m.PublicID,
		Name:           m.Name,
		LockPolicy:     competition.LockPolicy(m.LockPolicy),
		ResultPolicy:   competition.ResultPolicy(m.ResultPolicy),
		LivesPerRound:  m.LivesPerRound,
		IsActive:       m.IsActive,
		CurrentRoundID: m.CurrentRoundID.String,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}
