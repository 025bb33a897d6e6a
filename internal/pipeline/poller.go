package pipeline

import (
	"context"
	"fmt"
	"time"

	"adgen/internal/domain"
)

const (
	// DefaultPollInterval and DefaultPollMaxAttempts bound worst-case
	// user-visible latency to about a minute per job. They are product
	// policy, not tuning knobs to change casually.
	DefaultPollInterval    = 2 * time.Second
	DefaultPollMaxAttempts = 30
)

// StatusFetcher fetches the current state of a submitted job.
type StatusFetcher interface {
	JobStatus(ctx context.Context, jobID string) (domain.Job, error)
}

// Poller turns an asynchronous backend job into a synchronously awaited
// terminal result. It retries nothing except the status fetch cadence itself.
type Poller struct {
	fetcher     StatusFetcher
	interval    time.Duration
	maxAttempts int
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewPoller constructs a poller. Zero interval or attempts fall back to the
// package defaults.
func NewPoller(fetcher StatusFetcher, interval time.Duration, maxAttempts int) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultPollMaxAttempts
	}
	return &Poller{
		fetcher:     fetcher,
		interval:    interval,
		maxAttempts: maxAttempts,
		sleep:       sleepCtx,
	}
}

// Await polls the job until it reaches a terminal state or the attempt budget
// runs out. A backend-reported failure and an exhausted budget are distinct
// errors: the caller needs to tell "it broke" apart from "it is still running".
func (p *Poller) Await(ctx context.Context, jobID string) (domain.Job, error) {
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		job, err := p.fetcher.JobStatus(ctx, jobID)
		if err != nil {
			return domain.Job{}, err
		}
		switch job.Status {
		case domain.JobStatusSucceeded:
			return job, nil
		case domain.JobStatusFailed:
			msg := job.ErrorMessage
			if msg == "" {
				msg = "backend reported failure"
			}
			return job, fmt.Errorf("poll job %s: %s: %w", jobID, msg, domain.ErrJobFailed)
		}
		if attempt == p.maxAttempts {
			break
		}
		if err := p.sleep(ctx, p.interval); err != nil {
			return domain.Job{}, err
		}
	}
	return domain.Job{}, fmt.Errorf("poll job %s: no terminal state after %d attempts: %w", jobID, p.maxAttempts, domain.ErrPollTimeout)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
