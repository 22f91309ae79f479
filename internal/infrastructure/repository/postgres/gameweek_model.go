package postgres

import (
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/gameweek"
)

const gameweekColumns = "public_id, competition_public_id, gameweek_number, lock_time, is_settled, settled_at"

type gameweekTableModel struct {
	PublicID      string     `db:"public_id"`
	CompetitionID string     `db:"competition_public_id"`
	Number        int        `db:"gameweek_number"`
	LockTime      time.Time  `db:"lock_time"`
	IsSettled     bool       `db:"is_settled"`
	SettledAt     *time.Time `db:"settled_at"`
}

func gameweekRowFromDomain(item gameweek.Gameweek) gameweekTableModel {
	return gameweekTableModel{
		PublicID:      item.ID,
		CompetitionID: item.CompetitionID,
		Number:        item.Number,
		LockTime:      item.LockTime,
		IsSettled:     item.IsSettled,
		SettledAt:     item.SettledAt,
	}
}

func (m gameweekTableModel) toDomain() gameweek.Gameweek {
	return gameweek.Gameweek{
		ID:            m.PublicID,
		CompetitionID: m.CompetitionID,
		Number:        m.Number,
		LockTime:      m.LockTime,
		IsSettled:     m.IsSettled,
		SettledAt:     m.SettledAt,
	}
}
