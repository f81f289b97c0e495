package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBrokerEnqueueDequeue(t *testing.T) {
	broker := NewMemoryBroker(10)
	defer func() { _ = broker.Close() }()

	job := NewJob("a@example.com", "subject", "body")
	require.NoError(t, broker.Enqueue(context.Background(), job))

	got, err := broker.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, "a@example.com", got.Recipient)
	assert.Equal(t, 0, got.Attempt)
}

func TestMemoryBrokerDequeueHonorsContext(t *testing.T) {
	broker := NewMemoryBroker(10)
	defer func() { _ = broker.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := broker.Dequeue(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryBrokerEnqueueInDelaysDelivery(t *testing.T) {
	broker := NewMemoryBroker(10)
	defer func() { _ = broker.Close() }()

	job := NewJob("a@example.com", "subject", "body")
	require.NoError(t, broker.EnqueueIn(context.Background(), job, 20*time.Millisecond))

	// Not available before the delay elapses.
	shortCtx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, err := broker.Dequeue(shortCtx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	longCtx, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	got, err := broker.Dequeue(longCtx)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
}

func TestMemoryBrokerResults(t *testing.T) {
	broker := NewMemoryBroker(10)
	defer func() { _ = broker.Close() }()

	id := uuid.New()

	_, err := broker.GetResult(context.Background(), id)
	assert.ErrorIs(t, err, ErrResultNotFound)

	require.NoError(t, broker.SetResult(context.Background(), id, Result{
		Status:   StatusSucceeded,
		Attempts: 3,
	}))

	result, err := broker.GetResult(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, result.Status)
	assert.Equal(t, 3, result.Attempts)
	assert.False(t, result.UpdatedAt.IsZero())
}

func TestMemoryBrokerClose(t *testing.T) {
	broker := NewMemoryBroker(10)
	require.NoError(t, broker.Close())
	require.NoError(t, broker.Close(), "closing twice is a no-op")

	err := broker.Enqueue(context.Background(), NewJob("a@example.com", "s", "b"))
	assert.ErrorIs(t, err, ErrQueueClosed)

	err = broker.EnqueueIn(context.Background(), NewJob("a@example.com", "s", "b"), time.Millisecond)
	assert.ErrorIs(t, err, ErrQueueClosed)

	_, err = broker.Dequeue(context.Background())
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestMemoryBrokerCloseRacesDelayedDelivery(t *testing.T) {
	// Immediately-due timers firing while Close runs must neither panic
	// nor race; run with -race to verify.
	broker := NewMemoryBroker(4)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = broker.EnqueueIn(context.Background(), NewJob("a@example.com", "s", "b"), 0)
		}()
	}

	time.Sleep(time.Millisecond)
	require.NoError(t, broker.Close())
	wg.Wait()

	// Give any stray timer callbacks a chance to fire against the closed
	// broker before the test ends.
	time.Sleep(5 * time.Millisecond)
}

func TestPublisherEnqueuesJob(t *testing.T) {
	broker := NewMemoryBroker(10)
	defer func() { _ = broker.Close() }()

	publisher := NewPublisher(broker)
	require.NoError(t, publisher.EnqueueEmail(context.Background(), "a@example.com", "Welcome", "hi"))

	job, err := broker.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", job.Recipient)
	assert.Equal(t, "Welcome", job.Subject)
	assert.Equal(t, "hi", job.Body)
	assert.NotEqual(t, uuid.Nil, job.ID)
}
