package postgres

import (
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/entry"
)

const entryColumns = "public_id, competition_public_id, round_public_id, user_id, display_name, lives_remaining, eliminated_at_gw, used_exacto, season_round_wins, first_round_win_at, created_at, updated_at"

type entryTableModel struct {
	PublicID        string     `db:"public_id"`
	CompetitionID   string     `db:"competition_public_id"`
	RoundID         string     `db:"round_public_id"`
	UserID          string     `db:"user_id"`
	DisplayName     string     `db:"display_name"`
	LivesRemaining  int        `db:"lives_remaining"`
	EliminatedAtGw  *int       `db:"eliminated_at_gw"`
	UsedExacto      bool       `db:"used_exacto"`
	SeasonRoundWins int        `db:"season_round_wins"`
	FirstRoundWinAt *time.Time `db:"first_round_win_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

func entryRowFromDomain(item entry.Entry) entryTableModel {
	return entryTableModel{
		PublicID:        item.ID,
		CompetitionID:   item.CompetitionID,
		RoundID:         item.RoundID,
		UserID:          item.UserID,
		DisplayName:     item.DisplayName,
		LivesRemaining:  item.LivesRemaining,
		EliminatedAtGw:  item.EliminatedAtGw,
		UsedExacto:      item.UsedExacto,
		SeasonRoundWins: item.SeasonRoundWins,
		FirstRoundWinAt: item.FirstRoundWinAt,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

func (m entryTableModel) toDomain() entry.Entry {
	return entry.Entry{
		ID:              m.PublicID,
		CompetitionID:   m.CompetitionID,
		RoundID:         m.RoundID,
		UserID:          m.UserID,
		DisplayName:     m.DisplayName,
		LivesRemaining:  m.LivesRemaining,
		EliminatedAtGw:  m.EliminatedAtGw,
		UsedExacto:      m.UsedExacto,
		SeasonRoundWins: m.SeasonRoundWins,
		FirstRoundWinAt: m.FirstRoundWinAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
