package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/store"
)

const (
	ingestStatusUpdated = "updated"
	ingestStatusFailed  = "failed"
	ingestStatusSettled = "settled"
	ingestStatusSkipped = "skipped"
)

// ResultUpdate is one fixture result from the feed. Status accepts the
// engine states and common feed aliases (FT, AET, PEN, LIVE, HT, 1H, 2H, NS).
type ResultUpdate struct {
	FixtureID string
	HomeGoals *int
	AwayGoals *int
	Status    string

	status fixture.Status
}

type FixtureIngestResult struct {
	FixtureID     string         `json:"fixture_id"`
	CompetitionID string         `json:"competition_id,omitempty"`
	Status        string         `json:"status"`
	FixtureStatus fixture.Status `json:"fixture_status,omitempty"`
	Revived       []string       `json:"revived,omitempty"`
	Message       string         `json:"message,omitempty"`
}

type GameweekIngestResult struct {
	GameweekID    string            `json:"gameweek_id"`
	CompetitionID string            `json:"competition_id"`
	Status        string            `json:"status"`
	Settlement    *SettlementResult `json:"settlement,omitempty"`
	Message       string            `json:"message,omitempty"`
}

type IngestReport struct {
	CompetitionCount int                    `json:"competition_count"`
	WorkerCount      int                    `json:"worker_count"`
	DurationMs       int64                  `json:"duration_ms"`
	Fixtures         []FixtureIngestResult  `json:"fixtures"`
	Gameweeks        []GameweekIngestResult `json:"gameweeks"`
}

type ResultsService struct {
	engine *Engine
}

func NewResultsService(engine *Engine) *ResultsService {
	return &ResultsService{engine: engine}
}

type ingestTarget struct {
	update     ResultUpdate
	gameweekID string
}

// Ingest stores fixture results, resolves exacto predictions on finished
// fixtures and settles every gameweek the batch completed. Competitions are
// processed concurrently; a failure in one competition does not stop the
// others and is reported per fixture or gameweek.
func (s *ResultsService) Ingest(ctx context.Context, updates []ResultUpdate) (IngestReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsService.Ingest")
	defer span.End()

	start := time.Now()
	if len(updates) == 0 {
		return IngestReport{}, fmt.Errorf("%w: at least one result is required", ErrInvalidInput)
	}
	for i := range updates {
		if err := normalizeResultUpdate(&updates[i]); err != nil {
			return IngestReport{}, fmt.Errorf("%w: results[%d]: %v", ErrInvalidInput, i, err)
		}
	}

	report := IngestReport{
		Fixtures:  make([]FixtureIngestResult, 0, len(updates)),
		Gameweeks: []GameweekIngestResult{},
	}

	grouped := make(map[string][]ingestTarget)
	err := s.engine.store.Read(ctx, func(ctx context.Context, repos store.Repositories) error {
		for _, update := range updates {
			item, ok, err := repos.Fixtures.GetByID(ctx, update.FixtureID)
			if err != nil {
				return fmt.Errorf("get fixture: %w", err)
			}
			if !ok {
				report.Fixtures = append(report.Fixtures, FixtureIngestResult{
					FixtureID: update.FixtureID,
					Status:    ingestStatusFailed,
					Message:   "fixture not found",
				})
				continue
			}
			gw, ok, err := repos.Gameweeks.GetByID(ctx, item.GameweekID)
			if err != nil {
				return fmt.Errorf("get gameweek: %w", err)
			}
			if !ok {
				report.Fixtures = append(report.Fixtures, FixtureIngestResult{
					FixtureID: update.FixtureID,
					Status:    ingestStatusFailed,
					Message:   "gameweek not found",
				})
				continue
			}
			grouped[gw.CompetitionID] = append(grouped[gw.CompetitionID], ingestTarget{update: update, gameweekID: gw.ID})
		}
		return nil
	})
	if err != nil {
		return IngestReport{}, err
	}

	report.CompetitionCount = len(grouped)
	if len(grouped) == 0 {
		report.DurationMs = time.Since(start).Milliseconds()
		return report, nil
	}

	workerCount := s.engine.cfg.IngestWorkers
	if workerCount > len(grouped) {
		workerCount = len(grouped)
	}
	report.WorkerCount = workerCount

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return IngestReport{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		workers sync.WaitGroup
	)
	for competitionID, targets := range grouped {
		competitionID, targets := competitionID, targets
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			fixtures, gameweeks := s.ingestCompetition(ctx, competitionID, targets)

			mu.Lock()
			report.Fixtures = append(report.Fixtures, fixtures...)
			report.Gameweeks = append(report.Gameweeks, gameweeks...)
			mu.Unlock()
		}); err != nil {
			workers.Done()
			return IngestReport{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	sort.SliceStable(report.Fixtures, func(i, j int) bool {
		return report.Fixtures[i].FixtureID < report.Fixtures[j].FixtureID
	})
	sort.SliceStable(report.Gameweeks, func(i, j int) bool {
		if report.Gameweeks[i].CompetitionID != report.Gameweeks[j].CompetitionID {
			return report.Gameweeks[i].CompetitionID < report.Gameweeks[j].CompetitionID
		}
		return report.Gameweeks[i].GameweekID < report.Gameweeks[j].GameweekID
	})
	report.DurationMs = time.Since(start).Milliseconds()

	return report, nil
}

// ingestCompetition applies one competition's results in a single
// transaction, then settles each touched gameweek in its own transaction.
func (s *ResultsService) ingestCompetition(ctx context.Context, competitionID string, targets []ingestTarget) ([]FixtureIngestResult, []GameweekIngestResult) {
	rows := make([]FixtureIngestResult, 0, len(targets))
	touched := make([]string, 0, len(targets))
	seen := make(map[string]struct{}, len(targets))

	err := s.engine.inCompetition(ctx, competitionID, func(ctx context.Context, repos store.Repositories) error {
		rows = rows[:0]
		comp, err := loadCompetition(ctx, repos, competitionID)
		if err != nil {
			return err
		}

		for _, target := range targets {
			item, ok, err := repos.Fixtures.GetByID(ctx, target.update.FixtureID)
			if err != nil {
				return fmt.Errorf("get fixture: %w", err)
			}
			if !ok {
				return fmt.Errorf("%w: fixture=%s", ErrNotFound, target.update.FixtureID)
			}
			gw, err := loadGameweek(ctx, repos, item.GameweekID)
			if err != nil {
				return err
			}
			if gw.IsSettled {
				rows = append(rows, FixtureIngestResult{
					FixtureID:     item.ID,
					CompetitionID: competitionID,
					Status:        ingestStatusFailed,
					FixtureStatus: item.Status,
					Message:       fmt.Errorf("%w: gameweek=%s", ErrGameweekSettled, gw.ID).Error(),
				})
				continue
			}

			item.Status = target.update.status
			item.HomeGoals = target.update.HomeGoals
			item.AwayGoals = target.update.AwayGoals
			if err := repos.Fixtures.Upsert(ctx, item); err != nil {
				return fmt.Errorf("store fixture result: %w", err)
			}

			revived, err := s.engine.resolveExactos(ctx, repos, comp, item)
			if err != nil {
				return err
			}
			rows = append(rows, FixtureIngestResult{
				FixtureID:     item.ID,
				CompetitionID: competitionID,
				Status:        ingestStatusUpdated,
				FixtureStatus: item.Status,
				Revived:       revived,
			})

			if _, ok := seen[target.gameweekID]; !ok && item.IsDecided() {
				seen[target.gameweekID] = struct{}{}
				touched = append(touched, target.gameweekID)
			}
		}
		return nil
	})
	if err != nil {
		s.engine.logger.WarnContext(ctx, "result ingestion failed", "competition_id", competitionID, "error", err)
		failed := make([]FixtureIngestResult, 0, len(targets))
		for _, target := range targets {
			failed = append(failed, FixtureIngestResult{
				FixtureID:     target.update.FixtureID,
				CompetitionID: competitionID,
				Status:        ingestStatusFailed,
				Message:       err.Error(),
			})
		}
		return failed, nil
	}

	gameweeks := make([]GameweekIngestResult, 0, len(touched))
	for _, gameweekID := range touched {
		row := GameweekIngestResult{GameweekID: gameweekID, CompetitionID: competitionID}

		var settled SettlementResult
		err := s.engine.inCompetition(ctx, competitionID, func(ctx context.Context, repos store.Repositories) error {
			result, err := s.engine.settleGameweek(ctx, repos, competitionID, gameweekID)
			if err != nil {
				return err
			}
			settled = result
			return nil
		})
		switch {
		case err == nil:
			row.Status = ingestStatusSettled
			row.Settlement = &settled
		case errors.Is(err, ErrGameweekNotReady), errors.Is(err, ErrGameweekSettled):
			row.Status = ingestStatusSkipped
			row.Message = err.Error()
		default:
			s.engine.logger.WarnContext(ctx, "gameweek settlement failed", "competition_id", competitionID, "gameweek_id", gameweekID, "error", err)
			row.Status = ingestStatusFailed
			row.Message = err.Error()
		}
		gameweeks = append(gameweeks, row)
	}

	return rows, gameweeks
}

func normalizeResultUpdate(update *ResultUpdate) error {
	update.FixtureID = strings.TrimSpace(update.FixtureID)
	if update.FixtureID == "" {
		return fmt.Errorf("fixture_id is required")
	}
	if (update.HomeGoals == nil) != (update.AwayGoals == nil) {
		return fmt.Errorf("home_goals and away_goals must be set together")
	}
	if update.HomeGoals != nil && (*update.HomeGoals < 0 || *update.AwayGoals < 0) {
		return fmt.Errorf("goals must not be negative")
	}
	status, err := fixture.ParseStatus(update.Status)
	if err != nil {
		return err
	}
	update.status = status
	if status == fixture.StatusFinished && update.HomeGoals == nil {
		return fmt.Errorf("finished fixture %s requires a scoreline", update.FixtureID)
	}
	return nil
}
