package postgres

import (
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
)

const fixtureColumns = "public_id, gameweek_public_id, home_team, away_team, kickoff_at, home_goals, away_goals, status"

type fixtureTableModel struct {
	PublicID   string    `db:"public_id"`
	GameweekID string    `db:"gameweek_public_id"`
	HomeTeam   string    `db:"home_team"`
	AwayTeam   string    `db:"away_team"`
	KickoffAt  time.Time `db:"kickoff_at"`
	HomeGoals  *int      `db:"home_goals"`
	AwayGoals  *int      `db:"away_goals"`
	Status     string    `db:"status"`
}

func fixtureRowFromDomain(item fixture.Fixture) fixtureTableModel {
	return fixtureTableModel{
		PublicID:   item.ID,
		GameweekID: item.GameweekID,
		HomeTeam:   item.HomeTeam,
		AwayTeam:   item.AwayTeam,
		KickoffAt:  item.KickoffAt,
		HomeGoals:  item.HomeGoals,
		AwayGoals:  item.AwayGoals,
		Status:     string(item.Status),
	}
}

func (m fixtureTableModel) toDomain() fixture.Fixture {
	return fixture.Fixture{
		ID:         m.PublicID,
		GameweekID: m.GameweekID,
		HomeTeam:   m.HomeTeam,
		AwayTeam:   m.AwayTeam,
		KickoffAt:  m.KickoffAt,
		HomeGoals:  m.HomeGoals,
		AwayGoals:  m.AwayGoals,
		Status:     fixture.Status(m.Status),
	}
}
