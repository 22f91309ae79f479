package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/competitions/{competitionID}", handler.GetCompetition)
	mux.HandleFunc("POST /v1/competitions/{competitionID}/entries", handler.JoinCompetition)
	mux.HandleFunc("GET /v1/competitions/{competitionID}/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("POST /v1/picks", handler.SubmitPick)
	mux.HandleFunc("POST /v1/exactos", handler.SubmitExacto)
	mux.HandleFunc("GET /v1/rounds/{roundID}/tiebreak", handler.GetTiebreak)
	mux.HandleFunc("GET /v1/rounds/{roundID}/tiebreak/history", handler.ListTiebreakHistory)
	mux.HandleFunc("POST /v1/rounds/{roundID}/tiebreak/scores", handler.SubmitTiebreakScore)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	admin := func(fn http.HandlerFunc) http.Handler {
		return RequireAdminToken(adminToken, fn)
	}

	mux.Handle("POST /v1/competitions", admin(handler.CreateCompetition))
	mux.Handle("POST /v1/competitions/{competitionID}/deactivate", admin(handler.DeactivateCompetition))
	mux.Handle("POST /v1/competitions/{competitionID}/gameweeks", admin(handler.ScheduleGameweek))
	mux.Handle("POST /v1/gameweeks/{gameweekID}/settle", admin(handler.SettleGameweek))
	mux.Handle("POST /v1/rounds/{roundID}/evaluate", admin(handler.EvaluateRound))
	mux.Handle("POST /v1/fixtures/{fixtureID}/exactos/resolve", admin(handler.ResolveExactos))
	mux.Handle("POST /v1/results", admin(handler.IngestResults))
}
