package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryBroker is an in-process Broker backed by a buffered channel. It
// serves tests and single-binary development mode; production deployments
// use the RedisBroker so the worker can run as its own process.
//
// The jobs channel is never closed: closure is signaled through the done
// channel, so a delayed timer firing during shutdown can never send on a
// closed channel.
type MemoryBroker struct {
	jobs    chan Job
	done    chan struct{}
	mu      sync.Mutex
	results map[uuid.UUID]Result
	timers  []*time.Timer
	closed  bool
}

// Ensure MemoryBroker implements the Broker interface
var _ Broker = (*MemoryBroker)(nil)

// NewMemoryBroker creates a MemoryBroker with the given queue capacity.
func NewMemoryBroker(queueSize int) *MemoryBroker {
	if queueSize <= 0 {
		queueSize = 100
	}
	return &MemoryBroker{
		jobs:    make(chan Job, queueSize),
		done:    make(chan struct{}),
		results: make(map[uuid.UUID]Result),
	}
}

// Enqueue implements Broker.Enqueue.
func (b *MemoryBroker) Enqueue(ctx context.Context, job Job) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrQueueClosed
	}
	b.mu.Unlock()

	select {
	case b.jobs <- job:
		return nil
	case <-b.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EnqueueIn implements Broker.EnqueueIn using a timer per delayed job.
func (b *MemoryBroker) EnqueueIn(ctx context.Context, job Job, delay time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrQueueClosed
	}

	timer := time.AfterFunc(delay, func() {
		// The closed check and the send happen under one lock acquisition,
		// so Close cannot slip in between. The send is non-blocking: a full
		// queue drops the delayed job rather than blocking the timer
		// goroutine.
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.closed {
			return
		}
		select {
		case b.jobs <- job:
		default:
		}
	})
	b.timers = append(b.timers, timer)

	return nil
}

// Dequeue implements Broker.Dequeue.
func (b *MemoryBroker) Dequeue(ctx context.Context) (Job, error) {
	select {
	case job := <-b.jobs:
		return job, nil
	case <-b.done:
		return Job{}, ErrQueueClosed
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}
}

// SetResult implements Broker.SetResult.
func (b *MemoryBroker) SetResult(ctx context.Context, id uuid.UUID, result Result) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	result.UpdatedAt = time.Now().UTC()
	b.results[id] = result
	return nil
}

// GetResult implements Broker.GetResult.
func (b *MemoryBroker) GetResult(ctx context.Context, id uuid.UUID) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	result, ok := b.results[id]
	if !ok {
		return nil, ErrResultNotFound
	}
	return &result, nil
}

// Close implements Broker.Close.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, t := range b.timers {
		t.Stop()
	}
	close(b.done)
	return nil
}
