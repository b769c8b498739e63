package worker

// retry_cron.go
// Failed jobs are parked in a Redis sorted set scored by their next attempt
// time. A background goroutine moves due jobs back onto their queue, but only
// while the mail circuit breaker lets calls through.

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"frozenshop/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	RetryPrefix = "retry:"

	// MaxJobAttempts includes the first attempt.
	MaxJobAttempts    = 4
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 20
)

// retryEntry is the sorted-set member: the job plus the queue it came from.
type retryEntry struct {
	Queue string `json:"queue"`
	Job   Job    `json:"job"`
}

// computeRetryBackoff returns the delay before the next attempt:
// 1m, 2m, 4m, ... capped at 30m.
func computeRetryBackoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := time.Minute << uint(attempts-1)
	if d > 30*time.Minute || d <= 0 {
		d = 30 * time.Minute
	}
	return d
}

// scheduleRetry parks job for a later attempt, or sends it to the DLQ once
// MaxJobAttempts is reached.
func scheduleRetry(ctx context.Context, rdb *redis.Client, queue string, job Job, cause error) {
	if job.Attempts >= MaxJobAttempts {
		SendToDLQ(ctx, rdb, queue, job, fmt.Sprintf("max attempts (%d) exceeded: %v", MaxJobAttempts, cause))
		return
	}
	member, err := json.Marshal(retryEntry{Queue: queue, Job: job})
	if err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Msg("retry: failed to marshal entry")
		return
	}
	next := time.Now().Add(computeRetryBackoff(job.Attempts))
	if err := rdb.ZAdd(ctx, RetryPrefix+queue, redis.Z{Score: float64(next.Unix()), Member: member}).Err(); err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Msg("retry: failed to schedule")
		return
	}
	log.Info().Str("job_id", job.ID).Int("attempts", job.Attempts).Time("next_attempt_at", next).Msg("retry: job scheduled")
}

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	RDB     *redis.Client
	Breaker *infra.CircuitBreaker
	Queues  []string
}

// StartRetryCron launches a goroutine that every 30s requeues due jobs.
// It stops when ctx is cancelled.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				for _, q := range cfg.Queues {
					requeueDue(ctx, cfg, q, time.Now())
				}
			}
		}
	}()
}

func requeueDue(ctx context.Context, cfg RetryCronConfig, queue string, now time.Time) {
	// The dependency is still down: leave the jobs parked.
	if cfg.Breaker != nil && cfg.Breaker.State() == infra.CBOpen {
		log.Debug().Str("queue", queue).Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	key := RetryPrefix + queue
	members, err := cfg.RDB.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.Unix(), 10),
		Count: retryBatchSize,
	}).Result()
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("retry_cron: failed to query due jobs")
		return
	}

	moved := 0
	for _, m := range members {
		// ZREM first: only the instance that removes the member requeues it.
		removed, err := cfg.RDB.ZRem(ctx, key, m).Result()
		if err != nil || removed == 0 {
			continue
		}
		var entry retryEntry
		if err := json.Unmarshal([]byte(m), &entry); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("retry_cron: dropping malformed entry")
			continue
		}
		if err := push(ctx, cfg.RDB, entry.Queue, entry.Job); err != nil {
			log.Error().Err(err).Str("job_id", entry.Job.ID).Msg("retry_cron: requeue failed")
			continue
		}
		moved++
	}
	if moved > 0 {
		log.Info().Str("queue", queue).Int("count", moved).Msg("retry_cron: jobs requeued")
	}
}
