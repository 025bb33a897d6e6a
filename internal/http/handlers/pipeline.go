package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"adgen/internal/domain"
	"adgen/internal/middleware"
	"adgen/internal/pipeline"
)

type runResponse struct {
	RunID             string `json:"run_id"`
	OriginalFileID    int64  `json:"original_file_id"`
	GeneratedImageURL string `json:"generated_image_url"`
	ResultFileID      int64  `json:"result_file_id"`
	PromptSuffix      string `json:"prompt_suffix,omitempty"`
	PointsSpent       int    `json:"points_spent"`
	RemainingPoints   int    `json:"remaining_points"`
}

type runFailureResponse struct {
	Stage   string `json:"stage"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// PipelineRun triggers one generation run and blocks until it reaches a
// terminal state. The UI disables the trigger while a run is in flight;
// nothing here enforces single-flight per session.
func (a *App) PipelineRun(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	maxBytes := a.MaxUploadMB << 20
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "image file is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil || int64(len(data)) > maxBytes {
		a.error(w, http.StatusBadRequest, "bad_request", "image too large or unreadable")
		return
	}

	model := domain.ModelAsset{
		ID:        strings.TrimSpace(r.FormValue("model_id")),
		SeedValue: strings.TrimSpace(r.FormValue("seed_value")),
	}
	if model.ID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "model_id is required")
		return
	}
	if raw := r.FormValue("model_file_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			model.FileID = id
		}
	}
	if raw := r.FormValue("price"); raw != "" {
		if price, err := strconv.Atoi(raw); err == nil && price >= 0 {
			model.Price = price
		} else {
			a.error(w, http.StatusBadRequest, "bad_request", "invalid price")
			return
		}
	}

	result, err := a.Orchestrator.Run(r.Context(), pipeline.RunRequest{
		UserID:       userID,
		ImageName:    header.Filename,
		ImageData:    data,
		Model:        model,
		PromptSuffix: r.FormValue("prompt_suffix"),
	})
	if err != nil {
		a.pipelineFailure(w, r, err)
		return
	}

	a.json(w, http.StatusOK, runResponse{
		RunID:             result.RunID,
		OriginalFileID:    result.OriginalFileID,
		GeneratedImageURL: result.GeneratedImageURL,
		ResultFileID:      result.ResultFileID,
		PromptSuffix:      result.PromptSuffix,
		PointsSpent:       result.PointsSpent,
		RemainingPoints:   result.RemainingPoints,
	})
}

func (a *App) pipelineFailure(w http.ResponseWriter, r *http.Request, err error) {
	stage := domain.StageFailed
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		stage = stageErr.Stage
	}
	kind := pipeline.FailureKind(err)
	locale := middleware.LocaleFromContext(r.Context())

	a.json(w, failureStatus(kind), runFailureResponse{
		Stage:   string(stage),
		Kind:    kind,
		Message: failureMessage(locale, stage, kind),
	})
}

func failureStatus(kind string) int {
	switch kind {
	case "insufficient_points":
		return http.StatusPaymentRequired
	case "model_asset_not_found":
		return http.StatusUnprocessableEntity
	case "poll_timeout":
		return http.StatusGatewayTimeout
	case "internal":
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
