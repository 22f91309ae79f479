package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/last-man-standing/internal/domain/round"
	"github.com/riskibarqy/last-man-standing/internal/domain/store"
	"github.com/riskibarqy/last-man-standing/internal/domain/tiebreak"
)

type SubmitScoreInput struct {
	RoundID string
	EntryID string
	Score   int
}

// ScoreSubmission is the recorded attempt plus whatever the stage
// evaluation did once the attempt completed the stage.
type ScoreSubmission struct {
	Participant tiebreak.Participant `json:"participant"`
	StageClosed bool                 `json:"stage_closed"`
	NextStage   int                  `json:"next_stage,omitempty"`
	Transition  RoundTransition      `json:"transition"`
}

// TiebreakStatus is the tiebreak sub-state of a round with the current
// stage's participants.
type TiebreakStatus struct {
	Round        round.Round            `json:"round"`
	Participants []tiebreak.Participant `json:"participants"`
}

type TiebreakStage struct {
	Stage        int                    `json:"stage"`
	Participants []tiebreak.Participant `json:"participants"`
	Complete     bool                   `json:"complete"`
	TopScorers   []string               `json:"top_scorers,omitempty"`
	MaxScore     *int                   `json:"max_score,omitempty"`
}

type TiebreakService struct {
	engine *Engine
}

func NewTiebreakService(engine *Engine) *TiebreakService {
	return &TiebreakService{engine: engine}
}

// SubmitScore records the entry's single attempt for the current stage.
// The submission that completes the stage also evaluates it, in the same
// transaction.
func (s *TiebreakService) SubmitScore(ctx context.Context, input SubmitScoreInput) (ScoreSubmission, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TiebreakService.SubmitScore")
	defer span.End()

	roundID, err := requireID("round_id", input.RoundID)
	if err != nil {
		return ScoreSubmission{}, err
	}
	entryID, err := requireID("entry_id", input.EntryID)
	if err != nil {
		return ScoreSubmission{}, err
	}
	if input.Score < 0 || input.Score > s.engine.cfg.TiebreakMaxScore {
		return ScoreSubmission{}, fmt.Errorf("%w: score must be between 0 and %d", ErrInvalidInput, s.engine.cfg.TiebreakMaxScore)
	}

	competitionID, err := s.competitionOfRound(ctx, roundID)
	if err != nil {
		return ScoreSubmission{}, err
	}

	var out ScoreSubmission
	err = s.engine.inCompetition(ctx, competitionID, func(ctx context.Context, repos store.Repositories) error {
		now := s.engine.clock()

		current, err := loadRound(ctx, repos, roundID)
		if err != nil {
			return err
		}
		if !current.InTiebreak() {
			return fmt.Errorf("%w: round=%s status=%s", ErrTiebreakNotOpen, current.ID, current.TiebreakStatus)
		}
		if !current.AcceptsScores(now) {
			return fmt.Errorf("%w: round=%s", ErrDeadlinePassed, current.ID)
		}

		participant, ok, err := repos.Tiebreaks.Get(ctx, current.ID, entryID, current.TiebreakStage)
		if err != nil {
			return fmt.Errorf("get tiebreak participant: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: entry %s is not in stage %d of round %s", ErrNotFound, entryID, current.TiebreakStage, current.ID)
		}
		if participant.AttemptUsed {
			return fmt.Errorf("%w: entry=%s stage=%d", ErrAttemptUsed, entryID, current.TiebreakStage)
		}

		score := input.Score
		participant.Score = &score
		participant.AttemptUsed = true
		participant.SubmittedAt = &now
		if err := repos.Tiebreaks.Update(ctx, participant); err != nil {
			return fmt.Errorf("record tiebreak score: %w", err)
		}
		out.Participant = participant
		out.Transition = RoundTransition{Kind: TransitionNone, RoundID: current.ID}

		stage, err := repos.Tiebreaks.ListByRoundStage(ctx, current.ID, current.TiebreakStage)
		if err != nil {
			return fmt.Errorf("list tiebreak stage: %w", err)
		}
		if !tiebreak.StageComplete(stage) {
			return nil
		}

		out.StageClosed = true
		transition, nextStage, err := s.engine.closeStage(ctx, repos, current, stage)
		if err != nil {
			return err
		}
		out.Transition = transition
		out.NextStage = nextStage
		return nil
	})
	if err != nil {
		return ScoreSubmission{}, err
	}

	return out, nil
}

// closeStage evaluates a fully submitted stage. A unique top score wins the
// round; tied top scorers move on to a fresh stage.
func (e *Engine) closeStage(ctx context.Context, repos store.Repositories, current round.Round, stage []tiebreak.Participant) (RoundTransition, int, error) {
	comp, err := loadCompetition(ctx, repos, current.CompetitionID)
	if err != nil {
		return RoundTransition{}, 0, err
	}

	result := tiebreak.EvaluateStage(stage)
	if result.Resolved() {
		transition, err := e.completeRound(ctx, repos, comp, current, result.Winner())
		return transition, 0, err
	}

	next := result.TopScorers
	if len(next) == 0 {
		next = make([]string, 0, len(stage))
		for _, item := range stage {
			next = append(next, item.EntryID)
		}
		sort.Strings(next)
	}

	deadline, err := e.tiebreakDeadline(ctx, repos, comp.ID)
	if err != nil {
		return RoundTransition{}, 0, err
	}

	nextStage := current.TiebreakStage + 1
	if err := e.createStage(ctx, repos, current.ID, nextStage, next); err != nil {
		return RoundTransition{}, 0, err
	}

	current.TiebreakStage = nextStage
	current.TiebreakStatus = round.TiebreakInProgress
	current.TiebreakDeadline = &deadline
	if err := repos.Rounds.Update(ctx, current); err != nil {
		return RoundTransition{}, 0, fmt.Errorf("advance tiebreak stage: %w", err)
	}

	e.logger.InfoContext(ctx, "tiebreak stage advanced",
		"competition_id", comp.ID,
		"round_id", current.ID,
		"stage", nextStage,
		"participants", len(next),
		"max_score", result.MaxScore,
	)

	return RoundTransition{Kind: TransitionTiebreak, RoundID: current.ID, Participants: next}, nextStage, nil
}

func (s *TiebreakService) GetStatus(ctx context.Context, roundID string) (TiebreakStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TiebreakService.GetStatus")
	defer span.End()

	roundID, err := requireID("round_id", roundID)
	if err != nil {
		return TiebreakStatus{}, err
	}

	var out TiebreakStatus
	err = s.engine.store.Read(ctx, func(ctx context.Context, repos store.Repositories) error {
		current, err := loadRound(ctx, repos, roundID)
		if err != nil {
			return err
		}
		out.Round = current
		out.Participants = []tiebreak.Participant{}
		if current.TiebreakStage == 0 {
			return nil
		}

		participants, err := repos.Tiebreaks.ListByRoundStage(ctx, current.ID, current.TiebreakStage)
		if err != nil {
			return fmt.Errorf("list tiebreak stage: %w", err)
		}
		out.Participants = participants
		return nil
	})
	if err != nil {
		return TiebreakStatus{}, err
	}

	return out, nil
}

// ListHistory returns every stage of the round's tiebreak in stage order.
func (s *TiebreakService) ListHistory(ctx context.Context, roundID string) ([]TiebreakStage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TiebreakService.ListHistory")
	defer span.End()

	roundID, err := requireID("round_id", roundID)
	if err != nil {
		return nil, err
	}

	var participants []tiebreak.Participant
	err = s.engine.store.Read(ctx, func(ctx context.Context, repos store.Repositories) error {
		if _, err := loadRound(ctx, repos, roundID); err != nil {
			return err
		}
		items, err := repos.Tiebreaks.ListByRound(ctx, roundID)
		if err != nil {
			return fmt.Errorf("list tiebreak participants: %w", err)
		}
		participants = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	byStage := make(map[int][]tiebreak.Participant)
	for _, item := range participants {
		byStage[item.Stage] = append(byStage[item.Stage], item)
	}

	out := make([]TiebreakStage, 0, len(byStage))
	for stage, items := range byStage {
		row := TiebreakStage{
			Stage:        stage,
			Participants: items,
			Complete:     tiebreak.StageComplete(items),
		}
		if row.Complete {
			result := tiebreak.EvaluateStage(items)
			maxScore := result.MaxScore
			row.MaxScore = &maxScore
			row.TopScorers = result.TopScorers
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Stage < out[j].Stage
	})

	return out, nil
}

func (s *TiebreakService) competitionOfRound(ctx context.Context, roundID string) (string, error) {
	return s.engine.competitionOf(ctx, func(ctx context.Context, repos store.Repositories) (string, error) {
		item, err := loadRound(ctx, repos, roundID)
		if err != nil {
			return "", err
		}
		return item.CompetitionID, nil
	})
}
