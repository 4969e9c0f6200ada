package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/saga"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueReconcile = "jobs:reconcile"

	JobReconcile = "reconcile"

	maxAttempts = 3
)

// retryBaseDelay is the first backoff step; attempts wait 1x, 2x, 4x ...
var retryBaseDelay = time.Second

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Handler processes one job payload. A returned error triggers a retry.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// ReportFailure queues a failed saga for persistence, so the request path
// never blocks on the reconcile log.
func (d *Dispatcher) ReportFailure(ctx context.Context, r saga.Report) error {
	return d.enqueue(ctx, QueueReconcile, JobReconcile, r)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	wg       sync.WaitGroup
}

func NewPool(rdb *redis.Client, handlers map[string]Handler) *Pool {
	return &Pool{rdb: rdb, handlers: handlers}
}

// Start launches numWorkers goroutines. Each blocks on BRPOP, so idle
// workers cost no CPU. They exit once ctx is cancelled.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			p.run(ctx, id)
		}(i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

// Wait blocks until every worker has returned.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, QueueReconcile).Result()
			if err != nil || len(result) < 2 {
				continue
			}
			p.process(ctx, result[0], result[1])
		}
	}
}

// process runs the job's handler with backoff. Jobs that still fail, or
// cannot be decoded, go to the dead letter queue.
func (p *Pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		p.deadLetter(ctx, queue, "unknown", json.RawMessage(raw), "malformed envelope: "+err.Error(), 0)
		return
	}
	h, ok := p.handlers[job.Type]
	if !ok {
		p.deadLetter(ctx, queue, job.Type, job.Payload, "no handler registered", 0)
		return
	}

	attempts, err := withRetry(ctx, maxAttempts, func(attempt int) error {
		return h(ctx, job.Payload)
	})
	if err != nil {
		log.Error().Err(err).Str("type", job.Type).Int("attempts", attempts).Msg("job failed")
		p.deadLetter(ctx, queue, job.Type, job.Payload, err.Error(), attempts)
		return
	}
	log.Debug().Str("type", job.Type).Str("queue", queue).Msg("job processed")
}

func (p *Pool) deadLetter(ctx context.Context, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
	if p.rdb == nil {
		return
	}
	SendToDLQ(ctx, p.rdb, queue, jobType, payload, reason, attempts)
}

// withRetry returns how many attempts ran and the last error.
func withRetry(ctx context.Context, max int, fn func(attempt int) error) (int, error) {
	var lastErr error
	for i := 0; i < max; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return i, ctx.Err()
			case <-time.After(retryBaseDelay << uint(i-1)):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return i + 1, nil
	}
	return max, fmt.Errorf("after %d attempts: %w", max, lastErr)
}
