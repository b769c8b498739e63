//go:build integration

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"frozenshop/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	c, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	url, err := c.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(url)
	require.NoError(t, err)
	return rdb
}

type failingProcessor struct{ calls int }

func (p *failingProcessor) Process(context.Context, Job) error {
	p.calls++
	return errors.New("smtp: 421 try later")
}

func TestDispatcherEnqueuesOrderMail(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()

	require.NoError(t, NewDispatcher(rdb).EnqueueOrderConfirmation(ctx, 42))

	raw, err := rdb.RPop(ctx, QueueOrderMail).Result()
	require.NoError(t, err)
	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, JobOrderConfirmation, job.Type)
	assert.JSONEq(t, `{"order_id":42}`, string(job.Payload))
}

func TestFailedJobIsRetriedThenDeadLettered(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()
	p := &failingProcessor{}
	handlers := &WorkerHandlers{OrderMail: p}
	cfg := RetryCronConfig{RDB: rdb, Queues: []string{QueueOrderMail}}

	job := Job{ID: "job-1", Type: JobOrderStatus, Payload: json.RawMessage(`{"order_id":1}`)}
	raw, err := json.Marshal(job)
	require.NoError(t, err)
	processJob(ctx, rdb, handlers, QueueOrderMail, string(raw))

	parked, err := rdb.ZCard(ctx, RetryPrefix+QueueOrderMail).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), parked)

	// Not due yet.
	requeueDue(ctx, cfg, QueueOrderMail, time.Now())
	assert.Zero(t, rdb.LLen(ctx, QueueOrderMail).Val())

	for attempt := 2; attempt <= MaxJobAttempts; attempt++ {
		requeueDue(ctx, cfg, QueueOrderMail, time.Now().Add(time.Hour))
		raw, err := rdb.RPop(ctx, QueueOrderMail).Result()
		require.NoError(t, err, "attempt %d", attempt)
		processJob(ctx, rdb, handlers, QueueOrderMail, raw)
	}

	assert.Equal(t, MaxJobAttempts, p.calls)
	assert.Zero(t, rdb.ZCard(ctx, RetryPrefix+QueueOrderMail).Val())
	n, err := DLQLength(ctx, rdb, QueueOrderMail)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRequeueSkippedWhileBreakerOpen(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()

	breaker := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Hour})
	_ = breaker.Execute(func() error { return errors.New("down") })
	require.Equal(t, infra.CBOpen, breaker.State())

	scheduleRetry(ctx, rdb, QueueOrderMail, Job{ID: "j", Type: JobOrderStatus, Attempts: 1}, errors.New("down"))
	requeueDue(ctx, RetryCronConfig{RDB: rdb, Breaker: breaker, Queues: []string{QueueOrderMail}}, QueueOrderMail, time.Now().Add(time.Hour))

	assert.Equal(t, int64(1), rdb.ZCard(ctx, RetryPrefix+QueueOrderMail).Val())
	assert.Zero(t, rdb.LLen(ctx, QueueOrderMail).Val())
}

func TestUnknownJobTypeGoesToDLQ(t *testing.T) {
	rdb := newRedis(t)
	ctx := context.Background()

	raw, err := json.Marshal(Job{ID: "j", Type: "invoice"})
	require.NoError(t, err)
	processJob(ctx, rdb, &WorkerHandlers{}, QueueOrderMail, string(raw))

	n, err := DLQLength(ctx, rdb, QueueOrderMail)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
