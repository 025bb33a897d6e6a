package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"adgen/internal/domain"
	"adgen/internal/infra"
)

type runHistoryItem struct {
	ID                string    `json:"id"`
	Stage             string    `json:"stage"`
	ProductFileID     int64     `json:"product_file_id,omitempty"`
	ModelFileID       int64     `json:"model_file_id,omitempty"`
	PointsReserved    int       `json:"points_reserved"`
	PromptSuffix      string    `json:"prompt_suffix,omitempty"`
	GeneratedImageURL string    `json:"generated_image_url,omitempty"`
	ResultFileID      int64     `json:"result_file_id,omitempty"`
	FailureKind       string    `json:"failure_kind,omitempty"`
	FailureMessage    string    `json:"failure_message,omitempty"`
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at"`
}

// RunsList serves the profile history page.
func (a *App) RunsList(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if a.History == nil {
		a.error(w, http.StatusNotFound, "not_found", "run history is not enabled")
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	runs, err := a.History.ListByUser(r.Context(), userID, limit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("handlers: list runs failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load runs")
		return
	}
	items := make([]runHistoryItem, 0, len(runs))
	for _, run := range runs {
		items = append(items, toHistoryItem(run))
	}
	a.json(w, http.StatusOK, map[string]any{"runs": items})
}

// RunGet returns a single run owned by the caller.
func (a *App) RunGet(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	if a.History == nil {
		a.error(w, http.StatusNotFound, "not_found", "run history is not enabled")
		return
	}
	runID := chi.URLParam(r, "run_id")
	if runID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "run_id required")
		return
	}
	run, err := a.History.Get(r.Context(), runID, userID)
	if err != nil {
		if infra.IsNoRows(err) {
			a.error(w, http.StatusNotFound, "not_found", "run not found")
			return
		}
		a.Logger.Error().Err(err).Str("run_id", runID).Msg("handlers: load run failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load run")
		return
	}
	a.json(w, http.StatusOK, toHistoryItem(*run))
}

func toHistoryItem(run domain.PipelineRun) runHistoryItem {
	return runHistoryItem{
		ID:                run.ID,
		Stage:             string(run.Stage),
		ProductFileID:     run.ProductFileID,
		ModelFileID:       run.ModelFileID,
		PointsReserved:    run.PointsReserved,
		PromptSuffix:      run.PromptSuffix,
		GeneratedImageURL: run.FinalImageURL,
		ResultFileID:      run.FinalFileID,
		FailureKind:       run.FailureKind,
		FailureMessage:    run.FailureMessage,
		StartedAt:         run.StartedAt,
		FinishedAt:        run.FinishedAt,
	}
}
