package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/formations", handler.ListFormations)
	mux.HandleFunc("GET /v1/matchdays", handler.ListMatchdays)
	mux.HandleFunc("GET /v1/matchdays/current", handler.GetCurrentMatchday)
	mux.HandleFunc("GET /v1/matchdays/lock", handler.GetMatchdayLock)
	mux.HandleFunc("GET /v1/matchdays/{matchdayID}/matches", handler.ListMatchdayMatches)
	mux.HandleFunc("GET /v1/leaderboard", handler.GetGeneralLeaderboard)
	mux.HandleFunc("GET /v1/leaderboard/{matchdayID}", handler.GetMatchdayLeaderboard)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, locker MatchdayLocker) {
	registerAuthorizedSquadRoutes(mux, handler, verifier, locker)
	registerAuthorizedTransferRoutes(mux, handler, verifier, locker)
	registerAuthorizedPointsRoutes(mux, handler, verifier)
	registerAuthorizedMatchdayRoutes(mux, handler, verifier)
}

func registerAuthorizedSquadRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, locker MatchdayLocker) {
	mux.Handle("GET /v1/squad", RequireAuth(verifier, http.HandlerFunc(handler.GetMySquad)))
	mux.Handle("GET /v1/squad/summary", RequireAuth(verifier, http.HandlerFunc(handler.GetMySquadSummary)))

	// Mutations are rejected once the active matchday leaves OPEN.
	mux.Handle("POST /v1/squad", RequireAuth(verifier, RequireUnlockedMatchday(locker, http.HandlerFunc(handler.CreateSquad))))
	mux.Handle("POST /v1/squad/players", RequireAuth(verifier, RequireUnlockedMatchday(locker, http.HandlerFunc(handler.AddSquadPlayer))))
	mux.Handle("DELETE /v1/squad/players/{playerID}", RequireAuth(verifier, RequireUnlockedMatchday(locker, http.HandlerFunc(handler.RemoveSquadPlayer))))
	mux.Handle("POST /v1/squad/players/{playerID}/toggle", RequireAuth(verifier, RequireUnlockedMatchday(locker, http.HandlerFunc(handler.ToggleSquadStarter))))
	mux.Handle("POST /v1/squad/swap", RequireAuth(verifier, RequireUnlockedMatchday(locker, http.HandlerFunc(handler.SwapSquadPlayers))))
	mux.Handle("PUT /v1/squad/captain", RequireAuth(verifier, RequireUnlockedMatchday(locker, http.HandlerFunc(handler.SetSquadCaptain))))
	mux.Handle("PUT /v1/squad/formation", RequireAuth(verifier, RequireUnlockedMatchday(locker, http.HandlerFunc(handler.UpdateSquadFormation))))
}

func registerAuthorizedTransferRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier, locker MatchdayLocker) {
	mux.Handle("POST /v1/transfers/buy", RequireAuth(verifier, RequireUnlockedMatchday(locker, http.HandlerFunc(handler.BuyPlayer))))
	mux.Handle("POST /v1/transfers/sell", RequireAuth(verifier, RequireUnlockedMatchday(locker, http.HandlerFunc(handler.SellPlayer))))
}

func registerAuthorizedPointsRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/points/{matchdayID}", RequireAuth(verifier, http.HandlerFunc(handler.GetMyMatchdayPoints)))
	mux.Handle("POST /v1/points/{matchdayID}/recalculate", RequireAuth(verifier, http.HandlerFunc(handler.RecalculateMyMatchdayPoints)))
}

func registerAuthorizedMatchdayRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/matchdays/simulate", RequireAuth(verifier, http.HandlerFunc(handler.SimulateMatchday)))
	mux.Handle("POST /v1/matchdays/{matchdayID}/advance", RequireAuth(verifier, http.HandlerFunc(handler.AdvanceMatchday)))
}
