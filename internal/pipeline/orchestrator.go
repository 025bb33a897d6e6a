package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"adgen/internal/domain"
	"adgen/internal/imageprep"
	"adgen/internal/infra"
)

// Ledger is the point balance contract. Deduction has no compensating refund;
// a failed run keeps the points spent on it.
type Ledger interface {
	CheckSufficient(ctx context.Context, amount int) (bool, int, error)
	Deduct(ctx context.Context, amount int, refererID string) (int, error)
}

// Uploader pushes image bytes to the backend file store.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) (int64, error)
}

// JobService submits generation work. Compose returns its terminal result
// directly; background removal hands back a job id for polling.
type JobService interface {
	SubmitBackgroundRemoval(ctx context.Context, fileID int64) (string, error)
	SubmitCompose(ctx context.Context, productFileID, modelFileID int64, prompt string) (*domain.ComposeResult, error)
}

// JobAwaiter waits for a submitted job to reach a terminal state.
type JobAwaiter interface {
	Await(ctx context.Context, jobID string) (domain.Job, error)
}

// ModelFileResolver finds the file id backing a model asset.
type ModelFileResolver interface {
	Resolve(ctx context.Context, model domain.ModelAsset) (int64, error)
}

// RunRecorder persists run history. A nil recorder disables recording.
type RunRecorder interface {
	Begin(ctx context.Context, run *domain.PipelineRun) error
	Finish(ctx context.Context, run *domain.PipelineRun) error
}

// RunRequest is one user-triggered generation attempt.
type RunRequest struct {
	UserID       string
	ImageName    string
	ImageData    []byte
	Model        domain.ModelAsset
	PromptSuffix string
}

// Result is the published outcome of a completed run.
type Result struct {
	RunID             string
	OriginalFileID    int64
	GeneratedImageURL string
	ResultFileID      int64
	PromptSuffix      string
	PointsSpent       int
	RemainingPoints   int
}

// StageError reports the stage a run failed at along with the underlying cause.
type StageError struct {
	Stage domain.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Orchestrator sequences one pipeline run: deduct points, upload the product
// photo, remove its background, compose against the model, publish the
// result. Stages run strictly in order and any failure is terminal for the
// run; a fresh Run call starts from scratch with its own deduction.
//
// Concurrent runs for the same session are the caller's problem to prevent.
// The orchestrator keeps no cross-run state, so two sequential runs are fully
// independent.
type Orchestrator struct {
	ledger   Ledger
	uploader Uploader
	jobs     JobService
	awaiter  JobAwaiter
	resolver ModelFileResolver
	recorder RunRecorder
	logger   infra.Logger
}

// NewOrchestrator wires the pipeline dependencies. recorder may be nil.
func NewOrchestrator(ledger Ledger, uploader Uploader, jobs JobService, awaiter JobAwaiter, resolver ModelFileResolver, recorder RunRecorder, logger infra.Logger) *Orchestrator {
	return &Orchestrator{
		ledger:   ledger,
		uploader: uploader,
		jobs:     jobs,
		awaiter:  awaiter,
		resolver: resolver,
		recorder: recorder,
		logger:   logger,
	}
}

// Run executes one full pipeline attempt. The point deduction happens before
// any upload or job submission; if it fails, no backend side effect has
// occurred. Everything after the deduction is irreversible.
func (o *Orchestrator) Run(ctx context.Context, req RunRequest) (*Result, error) {
	run := &domain.PipelineRun{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		Stage:        domain.StageIdle,
		PromptSuffix: req.PromptSuffix,
		StartedAt:    time.Now().UTC(),
	}
	o.recordBegin(ctx, run)

	logger := o.logger.With().Str("run_id", run.ID).Str("user_id", req.UserID).Logger()

	remaining, err := o.reservePoints(ctx, run, req.Model.Price)
	if err != nil {
		return nil, o.fail(ctx, run, domain.StageIdle, err, logger)
	}

	run.Stage = domain.StageUploading
	data, mime, err := imageprep.Normalize(req.ImageData)
	if err != nil {
		return nil, o.fail(ctx, run, domain.StageUploading, fmt.Errorf("%v: %w", err, domain.ErrUpload), logger)
	}
	productFileID, err := o.uploader.Upload(ctx, imageprep.FileName(req.ImageName, mime), data)
	if err != nil {
		return nil, o.fail(ctx, run, domain.StageUploading, err, logger)
	}
	run.ProductFileID = productFileID
	logger.Info().Int64("product_file_id", productFileID).Msg("pipeline: product image uploaded")

	run.Stage = domain.StageRemovingBackground
	jobID, err := o.jobs.SubmitBackgroundRemoval(ctx, productFileID)
	if err != nil {
		return nil, o.fail(ctx, run, domain.StageRemovingBackground, err, logger)
	}
	removed, err := o.awaiter.Await(ctx, jobID)
	if err != nil {
		return nil, o.fail(ctx, run, domain.StageRemovingBackground, err, logger)
	}
	logger.Info().Str("job_id", jobID).Int64("result_file_id", removed.ResultFileID).Msg("pipeline: background removed")

	run.Stage = domain.StageComposing
	modelFileID, err := o.resolver.Resolve(ctx, req.Model)
	if err != nil {
		return nil, o.fail(ctx, run, domain.StageComposing, err, logger)
	}
	run.ModelFileID = modelFileID
	composed, err := o.jobs.SubmitCompose(ctx, removed.ResultFileID, modelFileID, BuildComposePrompt(req.PromptSuffix))
	if err != nil {
		return nil, o.fail(ctx, run, domain.StageComposing, err, logger)
	}

	run.Stage = domain.StageCompleted
	run.FinalImageURL = composed.ResultFileURL
	run.FinalFileID = composed.ResultFileID
	run.FinishedAt = time.Now().UTC()
	o.recordFinish(ctx, run)
	logger.Info().Str("url", composed.ResultFileURL).Int64("result_file_id", composed.ResultFileID).Msg("pipeline: run completed")

	return &Result{
		RunID:             run.ID,
		OriginalFileID:    productFileID,
		GeneratedImageURL: composed.ResultFileURL,
		ResultFileID:      composed.ResultFileID,
		PromptSuffix:      req.PromptSuffix,
		PointsSpent:       run.PointsReserved,
		RemainingPoints:   remaining,
	}, nil
}

// reservePoints performs the check-then-deduct step. Free models skip the
// ledger entirely.
func (o *Orchestrator) reservePoints(ctx context.Context, run *domain.PipelineRun, price int) (int, error) {
	if price <= 0 {
		return 0, nil
	}
	sufficient, balance, err := o.ledger.CheckSufficient(ctx, price)
	if err != nil {
		return 0, err
	}
	if !sufficient {
		return 0, fmt.Errorf("need %d points, balance %d: %w", price, balance, domain.ErrInsufficientPoints)
	}
	remaining, err := o.ledger.Deduct(ctx, price, run.ID)
	if err != nil {
		return 0, err
	}
	run.PointsReserved = price
	return remaining, nil
}

func (o *Orchestrator) fail(ctx context.Context, run *domain.PipelineRun, at domain.Stage, err error, logger infra.Logger) error {
	run.Stage = domain.StageFailed
	run.FailureKind = FailureKind(err)
	run.FailureMessage = err.Error()
	run.FinishedAt = time.Now().UTC()
	o.recordFinish(ctx, run)
	logger.Error().Err(err).Str("stage", string(at)).Str("kind", run.FailureKind).Msg("pipeline: run failed")
	return &StageError{Stage: at, Err: err}
}

func (o *Orchestrator) recordBegin(ctx context.Context, run *domain.PipelineRun) {
	if o.recorder == nil {
		return
	}
	if err := o.recorder.Begin(ctx, run); err != nil {
		o.logger.Warn().Err(err).Str("run_id", run.ID).Msg("pipeline: record run start failed")
	}
}

func (o *Orchestrator) recordFinish(ctx context.Context, run *domain.PipelineRun) {
	if o.recorder == nil {
		return
	}
	if err := o.recorder.Finish(ctx, run); err != nil {
		o.logger.Warn().Err(err).Str("run_id", run.ID).Msg("pipeline: record run finish failed")
	}
}

// FailureKind maps a pipeline error onto the stable identifiers the frontend
// keys its messaging on.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientPoints):
		return "insufficient_points"
	case errors.Is(err, domain.ErrLedger):
		return "ledger"
	case errors.Is(err, domain.ErrUpload):
		return "upload"
	case errors.Is(err, domain.ErrJobFailed):
		return "job_failed"
	case errors.Is(err, domain.ErrPollTimeout):
		return "poll_timeout"
	case errors.Is(err, domain.ErrModelAssetNotFound):
		return "model_asset_not_found"
	case errors.Is(err, domain.ErrCompose):
		return "compose"
	case errors.Is(err, domain.ErrJobRequest):
		return "job_request"
	default:
		return "internal"
	}
}
