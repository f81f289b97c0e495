// Package notify implements asynchronous email notification delivery:
// a job queue, an SMTP sender, and a worker pool that drives the
// three-tier retry policy (drop, fail, retry with backoff).
package notify

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the current state of a notification job.
type Status string

// Job lifecycle: pending → executing → {succeeded | dropped | failed |
// retrying → executing …}. A job that exhausts its retries ends failed.
const (
	StatusPending   Status = "pending"
	StatusExecuting Status = "executing"
	StatusRetrying  Status = "retrying"
	StatusSucceeded Status = "succeeded"
	StatusDropped   Status = "dropped"
	StatusFailed    Status = "failed"
)

// Job is a single email delivery unit of work. Attempt counts deliveries
// already made; the worker increments it before each send.
type Job struct {
	ID         uuid.UUID `json:"id"`
	Recipient  string    `json:"recipient"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	Attempt    int       `json:"attempt"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewJob creates a pending job with a fresh ID.
func NewJob(recipient, subject, body string) Job {
	return Job{
		ID:         uuid.New(),
		Recipient:  recipient,
		Subject:    subject,
		Body:       body,
		EnqueuedAt: time.Now().UTC(),
	}
}

// Result is the recorded state of a job, terminal or in-flight.
type Result struct {
	Status    Status    `json:"status"`
	Attempts  int       `json:"attempts"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Terminal reports whether the result status is a final state.
func (r Result) Terminal() bool {
	switch r.Status {
	case StatusSucceeded, StatusDropped, StatusFailed:
		return true
	}
	return false
}
