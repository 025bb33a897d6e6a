package domain

// JobStatus enumerates backend job lifecycle states.
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusSucceeded JobStatus = "SUCCEEDED"
	JobStatusFailed    JobStatus = "FAILED"
)

// Terminal reports whether no further status transitions can occur.
func (s JobStatus) Terminal() bool {
	return s == JobStatusSucceeded || s == JobStatusFailed
}

// Job is one asynchronous backend unit of work. The backend owns the status,
// the client only observes it.
type Job struct {
	ID           string
	Status       JobStatus
	ResultFileID int64
	ErrorMessage string
}
