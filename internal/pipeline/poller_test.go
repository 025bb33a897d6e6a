package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"adgen/internal/domain"
)

type scriptedFetcher struct {
	statuses []domain.JobStatus
	result   int64
	errMsg   string
	calls    int
}

func (f *scriptedFetcher) JobStatus(ctx context.Context, jobID string) (domain.Job, error) {
	idx := f.calls
	f.calls++
	if idx >= len(f.statuses) {
		idx = len(f.statuses) - 1
	}
	job := domain.Job{ID: jobID, Status: f.statuses[idx]}
	if job.Status == domain.JobStatusSucceeded {
		job.ResultFileID = f.result
	}
	if job.Status == domain.JobStatusFailed {
		job.ErrorMessage = f.errMsg
	}
	return job, nil
}

func newTestPoller(f StatusFetcher, maxAttempts int) (*Poller, *int) {
	p := NewPoller(f, time.Millisecond, maxAttempts)
	sleeps := 0
	p.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps++
		return nil
	}
	return p, &sleeps
}

func TestPollerReturnsOnSuccess(t *testing.T) {
	fetcher := &scriptedFetcher{
		statuses: []domain.JobStatus{domain.JobStatusPending, domain.JobStatusRunning, domain.JobStatusSucceeded},
		result:   10,
	}
	poller, sleeps := newTestPoller(fetcher, 30)

	job, err := poller.Await(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("Await returned error: %v", err)
	}
	if job.ResultFileID != 10 {
		t.Fatalf("ResultFileID mismatch: got %d want 10", job.ResultFileID)
	}
	if fetcher.calls != 3 {
		t.Fatalf("fetch count mismatch: got %d want 3", fetcher.calls)
	}
	if *sleeps != 2 {
		t.Fatalf("sleep count mismatch: got %d want 2", *sleeps)
	}
}

func TestPollerTimesOutAfterMaxAttempts(t *testing.T) {
	fetcher := &scriptedFetcher{statuses: []domain.JobStatus{domain.JobStatusPending}}
	poller, sleeps := newTestPoller(fetcher, 30)

	_, err := poller.Await(context.Background(), "job-1")
	if !errors.Is(err, domain.ErrPollTimeout) {
		t.Fatalf("expected ErrPollTimeout, got %v", err)
	}
	if fetcher.calls != 30 {
		t.Fatalf("fetch count mismatch: got %d want 30", fetcher.calls)
	}
	if *sleeps != 29 {
		t.Fatalf("sleep count mismatch: got %d want 29", *sleeps)
	}
}

func TestPollerReportsBackendFailure(t *testing.T) {
	fetcher := &scriptedFetcher{
		statuses: []domain.JobStatus{domain.JobStatusRunning, domain.JobStatusFailed},
		errMsg:   "mask generation broke",
	}
	poller, _ := newTestPoller(fetcher, 30)

	_, err := poller.Await(context.Background(), "job-1")
	if !errors.Is(err, domain.ErrJobFailed) {
		t.Fatalf("expected ErrJobFailed, got %v", err)
	}
	if errors.Is(err, domain.ErrPollTimeout) {
		t.Fatalf("backend failure must not look like a timeout: %v", err)
	}
	if want := "mask generation broke"; err == nil || !strings.Contains(err.Error(), want) {
		t.Fatalf("error missing backend message %q: %v", want, err)
	}
	if fetcher.calls != 2 {
		t.Fatalf("fetch count mismatch: got %d want 2", fetcher.calls)
	}
}

func TestPollerStopsWhenContextCancelled(t *testing.T) {
	fetcher := &scriptedFetcher{statuses: []domain.JobStatus{domain.JobStatusPending}}
	poller := NewPoller(fetcher, time.Minute, 30)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := poller.Await(ctx, "job-1")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("fetch count mismatch: got %d want 1", fetcher.calls)
	}
}

func TestPollerDefaults(t *testing.T) {
	poller := NewPoller(nil, 0, 0)
	if poller.interval != DefaultPollInterval {
		t.Fatalf("interval mismatch: got %s want %s", poller.interval, DefaultPollInterval)
	}
	if poller.maxAttempts != DefaultPollMaxAttempts {
		t.Fatalf("max attempts mismatch: got %d want %d", poller.maxAttempts, DefaultPollMaxAttempts)
	}
}
