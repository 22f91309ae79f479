package httpapi

import (
	"net/http"

	"github.com/riskibarqy/last-man-standing/internal/usecase"
)

func (h *Handler) SettleGameweek(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SettleGameweek")
	defer span.End()

	gameweekID := r.PathValue("gameweekID")
	result, err := h.settlementService.SettleGameweek(ctx, gameweekID)
	if err != nil {
		h.fail(ctx, w, "settle gameweek failed", err, "gameweek_id", gameweekID)
		return
	}

	h.logger.InfoContext(ctx, "gameweek settled",
		"gameweek_id", gameweekID,
		"round_id", result.RoundID,
		"eliminated", len(result.Eliminated),
		"transition", result.Transition.Kind,
	)
	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) EvaluateRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EvaluateRound")
	defer span.End()

	roundID := r.PathValue("roundID")
	transition, err := h.roundService.AfterSettlement(ctx, roundID)
	if err != nil {
		h.fail(ctx, w, "evaluate round failed", err, "round_id", roundID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, transition)
}

func (h *Handler) GetTiebreak(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTiebreak")
	defer span.End()

	roundID := r.PathValue("roundID")
	status, err := h.tiebreakService.GetStatus(ctx, roundID)
	if err != nil {
		h.fail(ctx, w, "get tiebreak failed", err, "round_id", roundID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tiebreakStatusDTO{
		Round:        roundToDTO(status.Round),
		Participants: participantsToDTO(status.Participants),
	})
}

func (h *Handler) ListTiebreakHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTiebreakHistory")
	defer span.End()

	roundID := r.PathValue("roundID")
	stages, err := h.tiebreakService.ListHistory(ctx, roundID)
	if err != nil {
		h.fail(ctx, w, "list tiebreak history failed", err, "round_id", roundID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tiebreakHistoryToDTO(stages))
}

func (h *Handler) SubmitTiebreakScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitTiebreakScore")
	defer span.End()

	roundID := r.PathValue("roundID")
	var req submitScoreRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	out, err := h.tiebreakService.SubmitScore(ctx, usecase.SubmitScoreInput{
		RoundID: roundID,
		EntryID: req.EntryID,
		Score:   *req.Score,
	})
	if err != nil {
		h.fail(ctx, w, "submit tiebreak score failed", err, "round_id", roundID, "entry_id", req.EntryID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreSubmissionDTO{
		Participant: participantToDTO(out.Participant),
		StageClosed: out.StageClosed,
		NextStage:   out.NextStage,
		Transition:  out.Transition,
	})
}

func (h *Handler) IngestResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestResults")
	defer span.End()

	var req ingestResultsRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	updates := make([]usecase.ResultUpdate, 0, len(req.Results))
	for _, item := range req.Results {
		updates = append(updates, usecase.ResultUpdate{
			FixtureID: item.FixtureID,
			HomeGoals: item.HomeGoals,
			AwayGoals: item.AwayGoals,
			Status:    item.Status,
		})
	}

	report, err := h.resultsService.Ingest(ctx, updates)
	if err != nil {
		h.fail(ctx, w, "ingest results failed", err, "updates", len(updates))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}
