package httpapi

import (
	"time"

	"github.com/riskibarqy/last-man-standing/internal/domain/competition"
	"github.com/riskibarqy/last-man-standing/internal/domain/entry"
	"github.com/riskibarqy/last-man-standing/internal/domain/exacto"
	"github.com/riskibarqy/last-man-standing/internal/domain/fixture"
	"github.com/riskibarqy/last-man-standing/internal/domain/gameweek"
	"github.com/riskibarqy/last-man-standing/internal/domain/pick"
	"github.com/riskibarqy/last-man-standing/internal/domain/round"
	"github.com/riskibarqy/last-man-standing/internal/domain/tiebreak"
	"github.com/riskibarqy/last-man-standing/internal/usecase"
)

type createCompetitionRequest struct {
	Name          string `json:"name" validate:"required,max=120"`
	ResultPolicy  string `json:"result_policy" validate:"omitempty,oneof=standard strict"`
	LockPolicy    string `json:"lock_policy" validate:"omitempty,oneof=gameweek kickoff"`
	LivesPerRound int    `json:"lives_per_round" validate:"omitempty,min=1,max=10"`
}

type joinCompetitionRequest struct {
	UserID      string `json:"user_id" validate:"required,max=64"`
	DisplayName string `json:"display_name" validate:"omitempty,max=100"`
}

type scheduleFixtureRequest struct {
	ID        string    `json:"id" validate:"omitempty,max=64"`
	HomeTeam  string    `json:"home_team" validate:"required,max=100"`
	AwayTeam  string    `json:"away_team" validate:"required,max=100"`
	KickoffAt time.Time `json:"kickoff_at"`
}

type scheduleGameweekRequest struct {
	Number   int                      `json:"number" validate:"required,min=1"`
	LockTime time.Time                `json:"lock_time"`
	Fixtures []scheduleFixtureRequest `json:"fixtures" validate:"required,min=1,dive"`
}

type submitPickRequest struct {
	EntryID    string `json:"entry_id" validate:"required"`
	GameweekID string `json:"gameweek_id" validate:"required"`
	FixtureID  string `json:"fixture_id" validate:"required"`
	Team       string `json:"team" validate:"required,max=100"`
}

type submitExactoRequest struct {
	EntryID   string `json:"entry_id" validate:"required"`
	FixtureID string `json:"fixture_id" validate:"required"`
	HomeGoals *int   `json:"home_goals" validate:"required,min=0"`
	AwayGoals *int   `json:"away_goals" validate:"required,min=0"`
}

type submitScoreRequest struct {
	EntryID string `json:"entry_id" validate:"required"`
	Score   *int   `json:"score" validate:"required,min=0"`
}

type resultUpdateRequest struct {
	FixtureID string `json:"fixture_id" validate:"required"`
	HomeGoals *int   `json:"home_goals" validate:"omitempty,min=0"`
	AwayGoals *int   `json:"away_goals" validate:"omitempty,min=0"`
	Status    string `json:"status" validate:"required,fixture_status"`
}

type ingestResultsRequest struct {
	Results []resultUpdateRequest `json:"results" validate:"required,min=1,dive"`
}

type competitionDTO struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	ResultPolicy   string    `json:"result_policy"`
	LockPolicy     string    `json:"lock_policy"`
	LivesPerRound  int       `json:"lives_per_round"`
	IsActive       bool      `json:"is_active"`
	CurrentRoundID string    `json:"current_round_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type roundDTO struct {
	ID               string     `json:"id"`
	CompetitionID    string     `json:"competition_id"`
	Number           int        `json:"number"`
	Active           bool       `json:"active"`
	WinnerEntryID    string     `json:"winner_entry_id,omitempty"`
	EndedAt          *time.Time `json:"ended_at,omitempty"`
	TiebreakStatus   string     `json:"tiebreak_status"`
	TiebreakType     string     `json:"tiebreak_type,omitempty"`
	TiebreakStage    int        `json:"tiebreak_stage,omitempty"`
	TiebreakDeadline *time.Time `json:"tiebreak_deadline,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type entryDTO struct {
	ID              string     `json:"id"`
	CompetitionID   string     `json:"competition_id"`
	RoundID         string     `json:"round_id"`
	UserID          string     `json:"user_id"`
	DisplayName     string     `json:"display_name,omitempty"`
	LivesRemaining  int        `json:"lives_remaining"`
	Alive           bool       `json:"alive"`
	EliminatedAtGw  *int       `json:"eliminated_at_gw,omitempty"`
	UsedExacto      bool       `json:"used_exacto"`
	SeasonRoundWins int        `json:"season_round_wins"`
	FirstRoundWinAt *time.Time `json:"first_round_win_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type gameweekDTO struct {
	ID            string     `json:"id"`
	CompetitionID string     `json:"competition_id"`
	Number        int        `json:"number"`
	LockTime      time.Time  `json:"lock_time"`
	IsSettled     bool       `json:"is_settled"`
	SettledAt     *time.Time `json:"settled_at,omitempty"`
}

type fixtureDTO struct {
	ID         string    `json:"id"`
	GameweekID string    `json:"gameweek_id"`
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	KickoffAt  time.Time `json:"kickoff_at"`
	HomeGoals  *int      `json:"home_goals,omitempty"`
	AwayGoals  *int      `json:"away_goals,omitempty"`
	Status     string    `json:"status"`
}

type pickDTO struct {
	ID         string    `json:"id"`
	EntryID    string    `json:"entry_id"`
	RoundID    string    `json:"round_id"`
	GameweekID string    `json:"gameweek_id"`
	FixtureID  string    `json:"fixture_id"`
	Team       string    `json:"team"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type exactoDTO struct {
	ID         string     `json:"id"`
	EntryID    string     `json:"entry_id"`
	RoundID    string     `json:"round_id"`
	FixtureID  string     `json:"fixture_id"`
	HomeGoals  int        `json:"home_goals"`
	AwayGoals  int        `json:"away_goals"`
	IsCorrect  *bool      `json:"is_correct,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

type participantDTO struct {
	EntryID     string     `json:"entry_id"`
	Stage       int        `json:"stage"`
	Score       *int       `json:"score,omitempty"`
	AttemptUsed bool       `json:"attempt_used"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

type competitionStateDTO struct {
	Competition  competitionDTO `json:"competition"`
	CurrentRound roundDTO       `json:"current_round"`
	Entries      []entryDTO     `json:"entries"`
	Gameweeks    []gameweekDTO  `json:"gameweeks"`
}

type scheduledGameweekDTO struct {
	Gameweek gameweekDTO  `json:"gameweek"`
	Fixtures []fixtureDTO `json:"fixtures"`
}

type scoreSubmissionDTO struct {
	Participant participantDTO          `json:"participant"`
	StageClosed bool                    `json:"stage_closed"`
	NextStage   int                     `json:"next_stage,omitempty"`
	Transition  usecase.RoundTransition `json:"transition"`
}

type tiebreakStatusDTO struct {
	Round        roundDTO         `json:"round"`
	Participants []participantDTO `json:"participants"`
}

type tiebreakStageDTO struct {
	Stage        int              `json:"stage"`
	Complete     bool             `json:"complete"`
	MaxScore     *int             `json:"max_score,omitempty"`
	TopScorers   []string         `json:"top_scorers,omitempty"`
	Participants []participantDTO `json:"participants"`
}

func competitionToDTO(v competition.Competition) competitionDTO {
	return competitionDTO{
		ID:             v.ID,
		Name:           v.Name,
		ResultPolicy:   string(v.ResultPolicy),
		LockPolicy:     string(v.LockPolicy),
		LivesPerRound:  v.LivesPerRound,
		IsActive:       v.IsActive,
		CurrentRoundID: v.CurrentRoundID,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

func roundToDTO(v round.Round) roundDTO {
	return roundDTO{
		ID:               v.ID,
		CompetitionID:    v.CompetitionID,
		Number:           v.Number,
		Active:           v.IsActive(),
		WinnerEntryID:    v.WinnerEntryID,
		EndedAt:          v.EndedAt,
		TiebreakStatus:   string(v.TiebreakStatus),
		TiebreakType:     v.TiebreakType,
		TiebreakStage:    v.TiebreakStage,
		TiebreakDeadline: v.TiebreakDeadline,
		CreatedAt:        v.CreatedAt,
	}
}

func entryToDTO(v entry.Entry) entryDTO {
	return entryDTO{
		ID:              v.ID,
		CompetitionID:   v.CompetitionID,
		RoundID:         v.RoundID,
		UserID:          v.UserID,
		DisplayName:     v.DisplayName,
		LivesRemaining:  v.LivesRemaining,
		Alive:           v.IsAlive(),
		EliminatedAtGw:  v.EliminatedAtGw,
		UsedExacto:      v.UsedExacto,
		SeasonRoundWins: v.SeasonRoundWins,
		FirstRoundWinAt: v.FirstRoundWinAt,
		CreatedAt:       v.CreatedAt,
	}
}

func gameweekToDTO(v gameweek.Gameweek) gameweekDTO {
	return gameweekDTO{
		ID:            v.ID,
		CompetitionID: v.CompetitionID,
		Number:        v.Number,
		LockTime:      v.LockTime,
		IsSettled:     v.IsSettled,
		SettledAt:     v.SettledAt,
	}
}

func fixtureToDTO(v fixture.Fixture) fixtureDTO {
	return fixtureDTO{
		ID:         v.ID,
		GameweekID: v.GameweekID,
		HomeTeam:   v.HomeTeam,
		AwayTeam:   v.AwayTeam,
		KickoffAt:  v.KickoffAt,
		HomeGoals:  v.HomeGoals,
		AwayGoals:  v.AwayGoals,
		Status:     string(v.Status),
	}
}

func pickToDTO(v pick.Pick) pickDTO {
	return pickDTO{
		ID:         v.ID,
		EntryID:    v.EntryID,
		RoundID:    v.RoundID,
		GameweekID: v.GameweekID,
		FixtureID:  v.FixtureID,
		Team:       v.Team,
		UpdatedAt:  v.UpdatedAt,
	}
}

func exactoToDTO(v exacto.Prediction) exactoDTO {
	return exactoDTO{
		ID:         v.ID,
		EntryID:    v.EntryID,
		RoundID:    v.RoundID,
		FixtureID:  v.FixtureID,
		HomeGoals:  v.HomeGoals,
		AwayGoals:  v.AwayGoals,
		IsCorrect:  v.IsCorrect,
		ResolvedAt: v.ResolvedAt,
	}
}

func participantToDTO(v tiebreak.Participant) participantDTO {
	return participantDTO{
		EntryID:     v.EntryID,
		Stage:       v.Stage,
		Score:       v.Score,
		AttemptUsed: v.AttemptUsed,
		SubmittedAt: v.SubmittedAt,
	}
}

func participantsToDTO(items []tiebreak.Participant) []participantDTO {
	out := make([]participantDTO, 0, len(items))
	for _, item := range items {
		out = append(out, participantToDTO(item))
	}
	return out
}

func competitionStateToDTO(v usecase.CompetitionState) competitionStateDTO {
	out := competitionStateDTO{
		Competition:  competitionToDTO(v.Competition),
		CurrentRound: roundToDTO(v.CurrentRound),
		Entries:      make([]entryDTO, 0, len(v.Entries)),
		Gameweeks:    make([]gameweekDTO, 0, len(v.Gameweeks)),
	}
	for _, item := range v.Entries {
		out.Entries = append(out.Entries, entryToDTO(item))
	}
	for _, item := range v.Gameweeks {
		out.Gameweeks = append(out.Gameweeks, gameweekToDTO(item))
	}
	return out
}

func scheduledGameweekToDTO(v usecase.ScheduledGameweek) scheduledGameweekDTO {
	out := scheduledGameweekDTO{
		Gameweek: gameweekToDTO(v.Gameweek),
		Fixtures: make([]fixtureDTO, 0, len(v.Fixtures)),
	}
	for _, item := range v.Fixtures {
		out.Fixtures = append(out.Fixtures, fixtureToDTO(item))
	}
	return out
}

func tiebreakHistoryToDTO(stages []usecase.TiebreakStage) []tiebreakStageDTO {
	out := make([]tiebreakStageDTO, 0, len(stages))
	for _, stage := range stages {
		out = append(out, tiebreakStageDTO{
			Stage:        stage.Stage,
			Complete:     stage.Complete,
			MaxScore:     stage.MaxScore,
			TopScorers:   stage.TopScorers,
			Participants: participantsToDTO(stage.Participants),
		})
	}
	return out
}
