package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
)

// WorkerConfig holds configuration for the notification worker pool.
type WorkerConfig struct {
	// WorkerCount determines how many goroutines deliver jobs concurrently.
	WorkerCount int

	// MaxAttempts is the total number of delivery attempts per job,
	// counting the first execution. After this many transient failures
	// the job is marked failed.
	MaxAttempts int

	// BaseDelay is the first retry delay; subsequent delays grow
	// exponentially with jitter.
	BaseDelay time.Duration
}

// DefaultWorkerConfig returns a WorkerConfig with production defaults.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		WorkerCount: 2,
		MaxAttempts: 5,
		BaseDelay:   2 * time.Second,
	}
}

// Worker consumes notification jobs from a broker and drives each to a
// terminal state. The retry policy lives here, outside the sender: a
// transient outcome is re-enqueued with a backoff delay, so no worker
// goroutine ever sleeps on a retry. Jobs are independent; an in-flight
// job always runs to a terminal or retrying state, there is no
// cancellation primitive.
type Worker struct {
	broker     Broker
	sender     Sender
	config     WorkerConfig
	logger     *slog.Logger
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewWorker creates a notification worker pool.
func NewWorker(broker Broker, sender Sender, config WorkerConfig, logger *slog.Logger) *Worker {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 2
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 5
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = 2 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		broker:     broker,
		sender:     sender,
		config:     config,
		logger:     logger.With("component", "notify_worker"),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches the worker goroutines.
func (w *Worker) Start() {
	for i := 0; i < w.config.WorkerCount; i++ {
		w.wg.Add(1)
		go w.run(i)
	}
}

// Stop shuts the pool down and waits for in-flight jobs to reach a
// terminal or retrying state.
func (w *Worker) Stop() {
	w.cancelFunc()
	w.wg.Wait()
}

// run is one worker goroutine's consume loop.
func (w *Worker) run(id int) {
	defer w.wg.Done()

	w.logger.Debug("starting worker", "worker_id", id)

	for {
		job, err := w.broker.Dequeue(w.ctx)
		if err != nil {
			// A closed broker is as terminal as a canceled context;
			// spinning on it would only flood the log.
			if w.ctx.Err() != nil || errors.Is(err, ErrQueueClosed) {
				w.logger.Debug("stopping worker", "worker_id", id)
				return
			}
			w.logger.Error("failed to dequeue job",
				"worker_id", id,
				"error", err)
			continue
		}

		w.process(job, id)
	}
}

// process executes a single delivery attempt and applies the outcome.
// The job context is independent of the pool context so a started
// attempt is not cut short by shutdown.
func (w *Worker) process(job Job, workerID int) {
	ctx := context.Background()
	job.Attempt++

	logger := w.logger.With(
		"job_id", job.ID,
		"recipient_domain", recipientDomain(job.Recipient),
		"attempt", job.Attempt,
		"worker_id", workerID,
	)

	w.setResult(ctx, job, StatusExecuting, "")

	outcome := w.sender.Send(ctx, job)

	switch outcome.Kind {
	case OutcomeDelivered:
		logger.Info("notification delivered")
		w.setResult(ctx, job, StatusSucceeded, "")

	case OutcomeDrop:
		// Invalid recipient: nothing to retry, nobody to tell.
		logger.Warn("notification dropped", "error", outcome.Err)
		w.setResult(ctx, job, StatusDropped, outcome.Err.Error())

	case OutcomeFatal:
		logger.Error("notification failed permanently: relay authentication rejected",
			"error", outcome.Err)
		w.setResult(ctx, job, StatusFailed, outcome.Err.Error())

	case OutcomeRetry:
		if job.Attempt >= w.config.MaxAttempts {
			logger.Error("notification failed: retries exhausted",
				"error", outcome.Err,
				"max_attempts", w.config.MaxAttempts)
			w.setResult(ctx, job, StatusFailed, outcome.Err.Error())
			return
		}

		delay := w.retryDelay(job.Attempt)
		logger.Info("notification attempt failed, scheduling retry",
			"error", outcome.Err,
			"delay", delay)
		w.setResult(ctx, job, StatusRetrying, outcome.Err.Error())

		if err := w.broker.EnqueueIn(ctx, job, delay); err != nil {
			logger.Error("failed to re-enqueue job for retry", "error", err)
			w.setResult(ctx, job, StatusFailed, err.Error())
		}
	}
}

// retryDelay derives the delay before the given attempt's retry from an
// exponential backoff schedule with jitter. The schedule is rebuilt and
// stepped each time because the job, not the worker, carries the attempt
// count across re-enqueues.
func (w *Worker) retryDelay(attempt int) time.Duration {
	backoff := retry.WithJitter(w.config.BaseDelay/2, retry.NewExponential(w.config.BaseDelay))

	var delay time.Duration
	for i := 0; i < attempt; i++ {
		delay, _ = backoff.Next()
	}
	return delay
}

func (w *Worker) setResult(ctx context.Context, job Job, status Status, errMsg string) {
	err := w.broker.SetResult(ctx, job.ID, Result{
		Status:   status,
		Attempts: job.Attempt,
		Error:    errMsg,
	})
	if err != nil {
		w.logger.Error("failed to record job result",
			"job_id", job.ID,
			"status", status,
			"error", err)
	}
}

// recipientDomain returns the part after '@' for logging without exposing
// the full address.
func recipientDomain(recipient string) string {
	for i := len(recipient) - 1; i >= 0; i-- {
		if recipient[i] == '@' {
			return recipient[i+1:]
		}
	}
	return ""
}
