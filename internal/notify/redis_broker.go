package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Redis key layout. Ready jobs travel through a list, delayed jobs wait in
// a sorted set scored by their due time, and results live under per-job
// keys with a TTL.
const (
	readyKey     = "notifications:ready"
	delayedKey   = "notifications:delayed"
	resultKeyFmt = "notifications:result:%s"

	// resultTTL bounds how long terminal job states are kept.
	resultTTL = 24 * time.Hour

	// popTimeout is the BRPOP block interval; between pops the broker
	// promotes due delayed jobs.
	popTimeout = time.Second
)

// RedisBroker is a Redis-backed Broker, letting the API server and the
// notification worker run as separate processes against a shared queue.
type RedisBroker struct {
	rdb     *redis.Client
	results *redis.Client
}

// Ensure RedisBroker implements the Broker interface
var _ Broker = (*RedisBroker)(nil)

// NewRedisBroker creates a broker on the given Redis URLs. resultURL may
// equal brokerURL; an empty resultURL reuses the broker connection.
func NewRedisBroker(brokerURL, resultURL string) (*RedisBroker, error) {
	opts, err := redis.ParseURL(brokerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid broker URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	results := rdb
	if resultURL != "" && resultURL != brokerURL {
		resultOpts, err := redis.ParseURL(resultURL)
		if err != nil {
			return nil, fmt.Errorf("invalid result backend URL: %w", err)
		}
		results = redis.NewClient(resultOpts)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping broker: %w", err)
	}

	return &RedisBroker{rdb: rdb, results: results}, nil
}

// Enqueue implements Broker.Enqueue.
func (b *RedisBroker) Enqueue(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := b.rdb.LPush(ctx, readyKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job: %w", err)
	}
	return nil
}

// EnqueueIn implements Broker.EnqueueIn via the delayed sorted set.
func (b *RedisBroker) EnqueueIn(ctx context.Context, job Job, delay time.Duration) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	due := float64(time.Now().Add(delay).UnixMilli())
	if err := b.rdb.ZAdd(ctx, delayedKey, redis.Z{Score: due, Member: payload}).Err(); err != nil {
		return fmt.Errorf("failed to schedule delayed job: %w", err)
	}
	return nil
}

// Dequeue implements Broker.Dequeue. Each iteration first promotes due
// delayed jobs onto the ready list, then blocks briefly on it.
func (b *RedisBroker) Dequeue(ctx context.Context) (Job, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Job{}, err
		}

		if err := b.promoteDue(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return Job{}, err
		}

		vals, err := b.rdb.BRPop(ctx, popTimeout, readyKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // timed out, promote again
			}
			return Job{}, fmt.Errorf("failed to pop job: %w", err)
		}

		// BRPop returns [key, value].
		var job Job
		if err := json.Unmarshal([]byte(vals[1]), &job); err != nil {
			return Job{}, fmt.Errorf("failed to unmarshal job: %w", err)
		}
		return job, nil
	}
}

// promoteDue moves every delayed job whose due time has passed onto the
// ready list.
func (b *RedisBroker) promoteDue(ctx context.Context) error {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	due, err := b.rdb.ZRangeByScore(ctx, delayedKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to read delayed jobs: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	pipe := b.rdb.TxPipeline()
	for _, payload := range due {
		pipe.LPush(ctx, readyKey, payload)
		pipe.ZRem(ctx, delayedKey, payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to promote delayed jobs: %w", err)
	}
	return nil
}

// SetResult implements Broker.SetResult.
func (b *RedisBroker) SetResult(ctx context.Context, id uuid.UUID, result Result) error {
	result.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	key := fmt.Sprintf(resultKeyFmt, id)
	if err := b.results.Set(ctx, key, payload, resultTTL).Err(); err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}
	return nil
}

// GetResult implements Broker.GetResult.
func (b *RedisBroker) GetResult(ctx context.Context, id uuid.UUID) (*Result, error) {
	key := fmt.Sprintf(resultKeyFmt, id)
	payload, err := b.results.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to read result: %w", err)
	}

	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}

// Close implements Broker.Close.
func (b *RedisBroker) Close() error {
	if b.results != b.rdb {
		if err := b.results.Close(); err != nil {
			return err
		}
	}
	return b.rdb.Close()
}
