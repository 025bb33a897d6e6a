package handlers

import (
	"encoding/json"
	"net/http"

	"adgen/internal/history"
	"adgen/internal/infra"
	"adgen/internal/pipeline"
)

// App carries the handler dependencies. History is nil when no database is
// configured; handlers that need it answer 404 in that case.
type App struct {
	Orchestrator *pipeline.Orchestrator
	History      *history.Store
	Logger       infra.Logger
	MaxUploadMB  int64
}

func NewApp(orc *pipeline.Orchestrator, hist *history.Store, logger infra.Logger) *App {
	return &App{
		Orchestrator: orc,
		History:      hist,
		Logger:       logger,
		MaxUploadMB:  15,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]string{"error": kind, "message": message})
}

// currentUserID trusts the gateway-provided user header. Authentication is a
// collaborator concern; this service only needs the identity.
func (a *App) currentUserID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}
