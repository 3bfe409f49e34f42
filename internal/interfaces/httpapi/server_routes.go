package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerRoundRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/rounds", handler.ListRounds)
	mux.HandleFunc("POST /v1/rounds", handler.CreateRound)
	mux.HandleFunc("POST /v1/rounds/refresh", handler.RefreshRounds)
	mux.HandleFunc("PATCH /v1/rounds/{roundID}", handler.UpdateRound)
	mux.HandleFunc("DELETE /v1/rounds/{roundID}", handler.DeleteRound)
	mux.HandleFunc("GET /v1/handicap", handler.GetHandicap)
}
