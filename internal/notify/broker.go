package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Broker errors.
var (
	// ErrQueueClosed is returned when enqueueing to or dequeuing from a
	// closed broker.
	ErrQueueClosed = errors.New("notification queue is closed")

	// ErrResultNotFound is returned when no result has been recorded for
	// the given job ID.
	ErrResultNotFound = errors.New("job result not found")
)

// Broker is the work queue the notification jobs travel through, plus the
// result backend terminal and in-flight states are written to. Delayed
// enqueueing is how retries are scheduled cooperatively: the worker hands
// the job back with a delay instead of sleeping on it.
type Broker interface {
	// Enqueue makes the job immediately available to workers.
	Enqueue(ctx context.Context, job Job) error

	// EnqueueIn makes the job available after the given delay.
	EnqueueIn(ctx context.Context, job Job, delay time.Duration) error

	// Dequeue blocks until a job is available or ctx is done.
	Dequeue(ctx context.Context) (Job, error)

	// SetResult records the job's current state in the result backend.
	SetResult(ctx context.Context, id uuid.UUID, result Result) error

	// GetResult reads the job's recorded state.
	// Returns ErrResultNotFound if nothing has been recorded.
	GetResult(ctx context.Context, id uuid.UUID) (*Result, error)

	// Close shuts the broker down; pending delayed jobs are abandoned.
	Close() error
}

// Publisher adapts a Broker to the service layer's Notifier interface:
// fire-and-forget submission of welcome emails.
type Publisher struct {
	broker Broker
}

// NewPublisher creates a Publisher on top of the given broker.
func NewPublisher(broker Broker) *Publisher {
	return &Publisher{broker: broker}
}

// EnqueueEmail submits an email job for asynchronous delivery. The caller
// gets no handle on the outcome.
func (p *Publisher) EnqueueEmail(ctx context.Context, recipient, subject, body string) error {
	return p.broker.Enqueue(ctx, NewJob(recipient, subject, body))
}
