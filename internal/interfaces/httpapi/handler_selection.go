package httpapi

import (
	"net/http"

	"github.com/riskibarqy/last-man-standing/internal/usecase"
)

func (h *Handler) SubmitPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPick")
	defer span.End()

	var req submitPickRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.pickService.SubmitPick(ctx, usecase.SubmitPickInput{
		EntryID:    req.EntryID,
		GameweekID: req.GameweekID,
		FixtureID:  req.FixtureID,
		Team:       req.Team,
	})
	if err != nil {
		h.fail(ctx, w, "submit pick failed", err, "entry_id", req.EntryID, "gameweek_id", req.GameweekID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickToDTO(item))
}

func (h *Handler) SubmitExacto(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitExacto")
	defer span.End()

	var req submitExactoRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.exactoService.SubmitExacto(ctx, usecase.SubmitExactoInput{
		EntryID:   req.EntryID,
		FixtureID: req.FixtureID,
		HomeGoals: *req.HomeGoals,
		AwayGoals: *req.AwayGoals,
	})
	if err != nil {
		h.fail(ctx, w, "submit exacto failed", err, "entry_id", req.EntryID, "fixture_id", req.FixtureID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, exactoToDTO(item))
}

func (h *Handler) ResolveExactos(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveExactos")
	defer span.End()

	fixtureID := r.PathValue("fixtureID")
	resolution, err := h.exactoService.ResolveFixture(ctx, fixtureID)
	if err != nil {
		h.fail(ctx, w, "resolve exactos failed", err, "fixture_id", fixtureID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resolution)
}
