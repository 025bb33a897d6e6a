package history

import (
	"context"
	"fmt"

	"adgen/internal/domain"
	"adgen/internal/infra"
	"adgen/internal/sqlinline"
)

// Store records pipeline runs so the profile "my generations" page can list
// them. The pipeline itself never reads this data back mid-run.
type Store struct {
	sql infra.SQLExecutor
}

// NewStore wraps a SQL executor. Callers pass nil pools upstream; a Store is
// only constructed when a database is configured.
func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

// Begin inserts the run in its initial stage.
func (s *Store) Begin(ctx context.Context, run *domain.PipelineRun) error {
	_, err := s.sql.Exec(ctx, sqlinline.QInsertRun,
		run.ID, run.UserID, string(run.Stage), run.PointsReserved, run.PromptSuffix, run.StartedAt)
	if err != nil {
		return fmt.Errorf("history: insert run: %w", err)
	}
	return nil
}

// Finish writes the terminal snapshot of the run.
func (s *Store) Finish(ctx context.Context, run *domain.PipelineRun) error {
	_, err := s.sql.Exec(ctx, sqlinline.QFinishRun,
		run.ID, string(run.Stage), run.ProductFileID, run.ModelFileID,
		run.FinalImageURL, run.FinalFileID, run.FailureKind, run.FailureMessage, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("history: finish run: %w", err)
	}
	return nil
}

// Get returns one run owned by the user.
func (s *Store) Get(ctx context.Context, runID, userID string) (*domain.PipelineRun, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectRun, runID, userID)
	run, err := scanRun(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("history: load run: %w", err)
	}
	return run, nil
}

// ListByUser returns the user's most recent runs, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]domain.PipelineRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.sql.Query(ctx, sqlinline.QSelectRunsByUser, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.PipelineRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("history: scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.PipelineRun, error) {
	var run domain.PipelineRun
	var stage string
	if err := row.Scan(
		&run.ID,
		&run.UserID,
		&stage,
		&run.ProductFileID,
		&run.ModelFileID,
		&run.PointsReserved,
		&run.PromptSuffix,
		&run.FinalImageURL,
		&run.FinalFileID,
		&run.FailureKind,
		&run.FailureMessage,
		&run.StartedAt,
		&run.FinishedAt,
	); err != nil {
		return nil, err
	}
	run.Stage = domain.Stage(stage)
	return &run, nil
}
