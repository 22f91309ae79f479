package httpapi

import (
	"net/http"

	"github.com/riskibarqy/last-man-standing/internal/usecase"
)

func (h *Handler) CreateCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateCompetition")
	defer span.End()

	var req createCompetitionRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	state, err := h.competitionService.Create(ctx, usecase.CreateCompetitionInput{
		Name:          req.Name,
		ResultPolicy:  req.ResultPolicy,
		LockPolicy:    req.LockPolicy,
		LivesPerRound: req.LivesPerRound,
	})
	if err != nil {
		h.fail(ctx, w, "create competition failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, competitionStateToDTO(state))
}

func (h *Handler) GetCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCompetition")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	state, err := h.competitionService.GetState(ctx, competitionID)
	if err != nil {
		h.fail(ctx, w, "get competition failed", err, "competition_id", competitionID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, competitionStateToDTO(state))
}

func (h *Handler) DeactivateCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeactivateCompetition")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	item, err := h.competitionService.Deactivate(ctx, competitionID)
	if err != nil {
		h.fail(ctx, w, "deactivate competition failed", err, "competition_id", competitionID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, competitionToDTO(item))
}

func (h *Handler) JoinCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinCompetition")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	var req joinCompetitionRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	joined, err := h.competitionService.Join(ctx, usecase.JoinCompetitionInput{
		CompetitionID: competitionID,
		UserID:        req.UserID,
		DisplayName:   req.DisplayName,
	})
	if err != nil {
		h.fail(ctx, w, "join competition failed", err, "competition_id", competitionID, "user_id", req.UserID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, entryToDTO(joined))
}

func (h *Handler) ScheduleGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScheduleGameweek")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	var req scheduleGameweekRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtures := make([]usecase.ScheduleFixtureInput, 0, len(req.Fixtures))
	for _, item := range req.Fixtures {
		fixtures = append(fixtures, usecase.ScheduleFixtureInput{
			ID:        item.ID,
			HomeTeam:  item.HomeTeam,
			AwayTeam:  item.AwayTeam,
			KickoffAt: item.KickoffAt,
		})
	}

	scheduled, err := h.competitionService.ScheduleGameweek(ctx, usecase.ScheduleGameweekInput{
		CompetitionID: competitionID,
		Number:        req.Number,
		LockTime:      req.LockTime,
		Fixtures:      fixtures,
	})
	if err != nil {
		h.fail(ctx, w, "schedule gameweek failed", err, "competition_id", competitionID, "number", req.Number)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, scheduledGameweekToDTO(scheduled))
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	rows, err := h.leaderboardService.Standings(ctx, competitionID)
	if err != nil {
		h.fail(ctx, w, "get leaderboard failed", err, "competition_id", competitionID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rows)
}
