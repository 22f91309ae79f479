package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/round"
)

const roundColumns = "public_id, competition_public_id, round_number, winner_entry_public_id, ended_at, tiebreak_status, tiebreak_type, tiebreak_stage, tiebreak_deadline, created_at"

type roundTableModel struct {
	PublicID         string         `db:"public_id"`
	CompetitionID    string         `db:"competition_public_id"`
	Number           int            `db:"round_number"`
	WinnerEntryID    sql.NullString `db:"winner_entry_public_id"`
	EndedAt          *time.Time     `db:"ended_at"`
	TiebreakStatus   string         `db:"tiebreak_status"`
	TiebreakType     string         `db:"tiebreak_type"`
	TiebreakStage    int            `db:"tiebreak_stage"`
	TiebreakDeadline *time.Time     `db:"tiebreak_deadline"`
	CreatedAt        time.Time      `db:"created_at"`
}

func roundRowFromDomain(item round.Round) roundTableModel {
	status := item.TiebreakStatus
	if status == "" {
		status = round.TiebreakNone
	}
	return roundTableModel{
		PublicID:         item.ID,
		CompetitionID:    item.CompetitionID,
		Number:           item.Number,
		WinnerEntryID:    sql.NullString{String: item.WinnerEntryID, Valid: item.WinnerEntryID != ""},
		EndedAt:          item.EndedAt,
		TiebreakStatus:   string(status),
		TiebreakType:     item.TiebreakType,
		TiebreakStage:    item.TiebreakStage,
		TiebreakDeadline: item.TiebreakDeadline,
		CreatedAt:        item.CreatedAt,
	}
}

func (m roundTableModel) toDomain() round.Round {
	return round.Round{
		ID:               m.PublicID,
		CompetitionID:    m.CompetitionID,
		Number:           m.Number,
		WinnerEntryID:    m.WinnerEntryID.String,
		EndedAt:          m.EndedAt,
		TiebreakStatus:   round.TiebreakStatus(m.TiebreakStatus),
		TiebreakType:     m.TiebreakType,
		TiebreakStage:    m.TiebreakStage,
		TiebreakDeadline: m.TiebreakDeadline,
		CreatedAt:        m.CreatedAt,
	}
}
