package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/competition"
	"github.com/riskibarqy/last-man-standing/internal/domain/entry"
	"github.com/riskibarqy/last-man-standing/internal/domain/gameweek"
	"github.com/riskibarqy/last-man-standing/internal/domain/round"
	"github.com/riskibarqy/last-man-standing/internal/domain/store"
	"github.com/riskibarqy/last-man-standing/internal/domain/tiebreak"
)

type TransitionKind string

const (
	TransitionNone      TransitionKind = "none"
	TransitionCompleted TransitionKind = "completed"
	TransitionTiebreak  TransitionKind = "tiebreak"
)

// RoundTransition describes what the lifecycle did to a round.
type RoundTransition struct {
	Kind          TransitionKind `json:"kind"`
	RoundID       string         `json:"round_id"`
	WinnerEntryID string         `json:"winner_entry_id,omitempty"`
	NextRoundID   string         `json:"next_round_id,omitempty"`
	Participants  []string       `json:"participants,omitempty"`
}

type RoundService struct {
	engine *Engine
}

func NewRoundService(engine *Engine) *RoundService {
	return &RoundService{engine: engine}
}

// AfterSettlement re-evaluates the round population and applies the
// resulting transition. Ended or tiebreaking rounds yield TransitionNone.
func (s *RoundService) AfterSettlement(ctx context.Context, roundID string) (RoundTransition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RoundService.AfterSettlement")
	defer span.End()

	roundID, err := requireID("round_id", roundID)
	if err != nil {
		return RoundTransition{}, err
	}

	competitionID, err := s.engine.competitionOf(ctx, func(ctx context.Context, repos store.Repositories) (string, error) {
		item, err := loadRound(ctx, repos, roundID)
		if err != nil {
			return "", err
		}
		return item.CompetitionID, nil
	})
	if err != nil {
		return RoundTransition{}, err
	}

	var transition RoundTransition
	err = s.engine.inCompetition(ctx, competitionID, func(ctx context.Context, repos store.Repositories) error {
		comp, err := loadCompetition(ctx, repos, competitionID)
		if err != nil {
			return err
		}
		current, err := loadRound(ctx, repos, roundID)
		if err != nil {
			return err
		}

		members, err := repos.Entries.ListByRound(ctx, current.ID)
		if err != nil {
			return fmt.Errorf("list round entries: %w", err)
		}
		if current.IsActive() && !current.InTiebreak() && len(members) == 0 {
			return fmt.Errorf("%w: round=%s", ErrRoundHasNoEntries, current.ID)
		}

		transition, err = s.engine.afterSettlement(ctx, repos, comp, current)
		return err
	})
	if err != nil {
		return RoundTransition{}, err
	}

	return transition, nil
}

// afterSettlement decides whether the round continues, completes with a
// single winner or enters a tiebreak. A round without members is left
// untouched.
func (e *Engine) afterSettlement(ctx context.Context, repos store.Repositories, comp competition.Competition, current round.Round) (RoundTransition, error) {
	none := RoundTransition{Kind: TransitionNone, RoundID: current.ID}
	if !current.IsActive() || current.TiebreakStatus != round.TiebreakNone {
		return none, nil
	}

	members, err := repos.Entries.ListByRound(ctx, current.ID)
	if err != nil {
		return RoundTransition{}, fmt.Errorf("list round entries: %w", err)
	}
	if len(members) == 0 {
		return none, nil
	}

	alive := entry.Alive(members)
	switch {
	case len(alive) == 1:
		return e.completeRound(ctx, repos, comp, current, alive[0].ID)
	case len(alive) == 0 && len(members) == 1:
		return e.completeRound(ctx, repos, comp, current, members[0].ID)
	case len(alive) == 0:
		return e.startTiebreak(ctx, repos, comp, current, members)
	default:
		return none, nil
	}
}

// completeRound closes the round for winnerEntryID, opens the next round and
// moves every entry of the competition into it with fresh lives.
func (e *Engine) completeRound(ctx context.Context, repos store.Repositories, comp competition.Competition, current round.Round, winnerEntryID string) (RoundTransition, error) {
	now := e.clock()

	current.WinnerEntryID = winnerEntryID
	current.EndedAt = &now
	if current.TiebreakStatus != round.TiebreakNone {
		current.TiebreakStatus = round.TiebreakCompleted
	}
	if err := repos.Rounds.Update(ctx, current); err != nil {
		return RoundTransition{}, fmt.Errorf("close round: %w", err)
	}

	nextID, err := e.newID()
	if err != nil {
		return RoundTransition{}, err
	}
	next := round.New(nextID, comp.ID, current.Number+1, now)
	if err := repos.Rounds.Create(ctx, next); err != nil {
		if errors.Is(err, round.ErrDuplicateNumber) {
			return RoundTransition{}, fmt.Errorf("%w: competition=%s number=%d", ErrRoundExists, comp.ID, next.Number)
		}
		return RoundTransition{}, fmt.Errorf("create next round: %w", err)
	}

	comp.CurrentRoundID = next.ID
	comp.UpdatedAt = now
	if err := repos.Competitions.Upsert(ctx, comp); err != nil {
		return RoundTransition{}, fmt.Errorf("move competition to next round: %w", err)
	}

	entries, err := repos.Entries.ListByCompetition(ctx, comp.ID)
	if err != nil {
		return RoundTransition{}, fmt.Errorf("list competition entries: %w", err)
	}
	for _, item := range entries {
		if item.ID == winnerEntryID {
			item.RecordRoundWin(now)
		}
		item.ResetForRound(next.ID, comp.LivesPerRound)
		item.UpdatedAt = now
		if err := repos.Entries.Upsert(ctx, item); err != nil {
			return RoundTransition{}, fmt.Errorf("reset entry %s: %w", item.ID, err)
		}
	}

	e.logger.InfoContext(ctx, "round completed",
		"competition_id", comp.ID,
		"round_id", current.ID,
		"round_number", current.Number,
		"winner_entry_id", winnerEntryID,
		"next_round_id", next.ID,
	)

	return RoundTransition{
		Kind:          TransitionCompleted,
		RoundID:       current.ID,
		WinnerEntryID: winnerEntryID,
		NextRoundID:   next.ID,
	}, nil
}

// startTiebreak seeds stage 1 with every member of the round.
func (e *Engine) startTiebreak(ctx context.Context, repos store.Repositories, comp competition.Competition, current round.Round, members []entry.Entry) (RoundTransition, error) {
	deadline, err := e.tiebreakDeadline(ctx, repos, comp.ID)
	if err != nil {
		return RoundTransition{}, err
	}

	entryIDs := make([]string, 0, len(members))
	for _, item := range members {
		entryIDs = append(entryIDs, item.ID)
	}
	if err := e.createStage(ctx, repos, current.ID, 1, entryIDs); err != nil {
		return RoundTransition{}, err
	}

	current.TiebreakStatus = round.TiebreakPending
	current.TiebreakType = e.cfg.TiebreakType
	current.TiebreakStage = 1
	current.TiebreakDeadline = &deadline
	if err := repos.Rounds.Update(ctx, current); err != nil {
		return RoundTransition{}, fmt.Errorf("start tiebreak: %w", err)
	}

	e.logger.InfoContext(ctx, "tiebreak started",
		"competition_id", comp.ID,
		"round_id", current.ID,
		"participants", len(entryIDs),
		"deadline", deadline,
	)

	return RoundTransition{
		Kind:         TransitionTiebreak,
		RoundID:      current.ID,
		Participants: entryIDs,
	}, nil
}

func (e *Engine) createStage(ctx context.Context, repos store.Repositories, roundID string, stage int, entryIDs []string) error {
	now := e.clock()
	participants := make([]tiebreak.Participant, 0, len(entryIDs))
	for _, entryID := range entryIDs {
		participantID, err := e.newID()
		if err != nil {
			return err
		}
		participants = append(participants, tiebreak.Participant{
			ID:        participantID,
			RoundID:   roundID,
			EntryID:   entryID,
			Stage:     stage,
			CreatedAt: now,
		})
	}

	if err := repos.Tiebreaks.Create(ctx, participants); err != nil {
		return fmt.Errorf("create tiebreak stage %d: %w", stage, err)
	}
	return nil
}

// tiebreakDeadline is the lock time of the next open gameweek, or the
// fallback window when none is scheduled.
func (e *Engine) tiebreakDeadline(ctx context.Context, repos store.Repositories, competitionID string) (time.Time, error) {
	now := e.clock()
	gameweeks, err := repos.Gameweeks.ListByCompetition(ctx, competitionID)
	if err != nil {
		return time.Time{}, fmt.Errorf("list gameweeks: %w", err)
	}
	if next, ok := gameweek.NextOpen(gameweeks, now); ok {
		return next.LockTime.UTC(), nil
	}
	return now.Add(e.cfg.TiebreakFallbackWindow), nil
}
