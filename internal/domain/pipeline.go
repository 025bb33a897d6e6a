package domain

import "time"

// Stage enumerates the pipeline state machine. COMPLETED and FAILED are
// terminal, everything else is transient.
type Stage string

const (
	StageIdle               Stage = "IDLE"
	StageUploading          Stage = "UPLOADING"
	StageRemovingBackground Stage = "REMOVING_BACKGROUND"
	StageComposing          Stage = "COMPOSING"
	StageCompleted          Stage = "COMPLETED"
	StageFailed             Stage = "FAILED"
)

// Terminal reports whether the stage ends a run.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageFailed
}

// PipelineRun is one end-to-end generation attempt. The orchestrator owns it
// exclusively for the duration of the run; a fresh run never inherits state
// from a previous one.
type PipelineRun struct {
	ID             string
	UserID         string
	Stage          Stage
	ProductFileID  int64
	ModelFileID    int64
	PointsReserved int
	PromptSuffix   string
	FinalImageURL  string
	FinalFileID    int64
	FailureKind    string
	FailureMessage string
	StartedAt      time.Time
	FinishedAt     time.Time
}
