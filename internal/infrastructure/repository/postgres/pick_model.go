package postgres

import (
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/pick"
)

const pickColumns = "public_id, entry_public_id, round_public_id, gameweek_public_id, fixture_public_id, team, outcome, created_at, updated_at"

type pickTableModel struct {
	PublicID   string    `db:"public_id"`
	EntryID    string    `db:"entry_public_id"`
	RoundID    string    `db:"round_public_id"`
	GameweekID string    `db:"gameweek_public_id"`
	FixtureID  string    `db:"fixture_public_id"`
	Team       string    `db:"team"`
	Outcome    string    `db:"outcome"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func pickRowFromDomain(item pick.Pick) pickTableModel {
	return pickTableModel{
		PublicID:   item.ID,
		EntryID:    item.EntryID,
		RoundID:    item.RoundID,
		GameweekID: item.GameweekID,
		FixtureID:  item.FixtureID,
		Team:       item.Team,
		Outcome:    string(item.Outcome),
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

func (m pickTableModel) toDomain() pick.Pick {
	return pick.Pick{
		ID:         m.PublicID,
		EntryID:    m.EntryID,
		RoundID:    m.RoundID,
		GameweekID: m.GameweekID,
		FixtureID:  m.FixtureID,
		Team:       m.Team,
		Outcome:    pick.Outcome(m.Outcome),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
