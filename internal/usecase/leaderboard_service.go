package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/pick"
	"github.com/riskibarqy/last-man-standing/internal/domain/store"
	"github.com/riskibarqy/last-man-standing/internal/platform/cache"
)

const leaderboardCachePrefix = "leaderboard:"

// Standing is one leaderboard row. GameweeksSurvived and EliminationCount
// are derived from the outcomes settlement recorded on picks.
type Standing struct {
	Rank              int        `json:"rank"`
	EntryID           string     `json:"entry_id"`
	UserID            string     `json:"user_id"`
	DisplayName       string     `json:"display_name"`
	SeasonRoundWins   int        `json:"season_round_wins"`
	GameweeksSurvived int        `json:"gameweeks_survived"`
	EliminationCount  int        `json:"elimination_count"`
	LivesRemaining    int        `json:"lives_remaining"`
	FirstRoundWinAt   *time.Time `json:"first_round_win_at,omitempty"`
	JoinedAt          time.Time  `json:"joined_at"`
}

type LeaderboardService struct {
	engine *Engine
	cache  *cache.Store
}

func NewLeaderboardService(engine *Engine, cacheStore *cache.Store) *LeaderboardService {
	return &LeaderboardService{engine: engine, cache: cacheStore}
}

// CompetitionChanged drops the cached standings of the competition.
func (s *LeaderboardService) CompetitionChanged(ctx context.Context, competitionID string) {
	if s.cache == nil {
		return
	}
	s.cache.Delete(ctx, leaderboardCachePrefix+competitionID)
}

func (s *LeaderboardService) Standings(ctx context.Context, competitionID string) ([]Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Standings")
	defer span.End()

	competitionID, err := requireID("competition_id", competitionID)
	if err != nil {
		return nil, err
	}

	if s.cache == nil {
		return s.compute(ctx, competitionID)
	}

	value, err := s.cache.GetOrLoad(ctx, leaderboardCachePrefix+competitionID, func(ctx context.Context) (any, error) {
		return s.compute(ctx, competitionID)
	})
	if err != nil {
		return nil, err
	}
	rows, ok := value.([]Standing)
	if !ok {
		return nil, errors.New("unexpected leaderboard cache value")
	}

	out := make([]Standing, len(rows))
	copy(out, rows)
	return out, nil
}

func (s *LeaderboardService) compute(ctx context.Context, competitionID string) ([]Standing, error) {
	var out []Standing
	err := s.engine.store.Read(ctx, func(ctx context.Context, repos store.Repositories) error {
		comp, err := loadCompetition(ctx, repos, competitionID)
		if err != nil {
			return err
		}
		entries, err := repos.Entries.ListByCompetition(ctx, comp.ID)
		if err != nil {
			return fmt.Errorf("list competition entries: %w", err)
		}
		gameweeks, err := repos.Gameweeks.ListByCompetition(ctx, comp.ID)
		if err != nil {
			return fmt.Errorf("list gameweeks: %w", err)
		}

		survived := make(map[string]int, len(entries))
		eliminations := make(map[string]int, len(entries))
		for _, gw := range gameweeks {
			if !gw.IsSettled {
				continue
			}
			picks, err := repos.Picks.ListByGameweek(ctx, gw.ID)
			if err != nil {
				return fmt.Errorf("list gameweek picks: %w", err)
			}
			for _, item := range picks {
				if !item.IsSettled() {
					continue
				}
				if item.Outcome == pick.OutcomeWin {
					survived[item.EntryID]++
				}
				if pick.Eliminates(item.Outcome, comp.ResultPolicy) {
					eliminations[item.EntryID]++
				}
			}
		}

		out = make([]Standing, 0, len(entries))
		for _, item := range entries {
			out = append(out, Standing{
				EntryID:           item.ID,
				UserID:            item.UserID,
				DisplayName:       item.DisplayName,
				SeasonRoundWins:   item.SeasonRoundWins,
				GameweeksSurvived: survived[item.ID],
				EliminationCount:  eliminations[item.ID],
				LivesRemaining:    item.LivesRemaining,
				FirstRoundWinAt:   item.FirstRoundWinAt,
				JoinedAt:          item.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortStandings(out)
	return out, nil
}

// sortStandings orders by round wins, gameweeks survived, fewest
// eliminations and earliest join, then assigns ranks.
func sortStandings(rows []Standing) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.SeasonRoundWins != b.SeasonRoundWins {
			return a.SeasonRoundWins > b.SeasonRoundWins
		}
		if a.GameweeksSurvived != b.GameweeksSurvived {
			return a.GameweeksSurvived > b.GameweeksSurvived
		}
		if a.EliminationCount != b.EliminationCount {
			return a.EliminationCount < b.EliminationCount
		}
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return a.EntryID < b.EntryID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
}
