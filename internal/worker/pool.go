package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueOrderMail = "jobs:order_mail"

	JobOrderConfirmation = "order_confirmation"
	JobOrderStatus       = "order_status"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// OrderJobPayload identifies the order a mail job is about.
type OrderJobPayload struct {
	OrderID uint `json:"order_id"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueOrderConfirmation queues the "order received" mail with the PDF receipt.
func (d *Dispatcher) EnqueueOrderConfirmation(ctx context.Context, orderID uint) error {
	return d.enqueue(ctx, QueueOrderMail, JobOrderConfirmation, OrderJobPayload{OrderID: orderID})
}

// EnqueueOrderStatusMail queues the "your order status changed" mail.
func (d *Dispatcher) EnqueueOrderStatusMail(ctx context.Context, orderID uint) error {
	return d.enqueue(ctx, QueueOrderMail, JobOrderStatus, OrderJobPayload{OrderID: orderID})
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{ID: uuid.NewString(), Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Processor handles one job type. A returned error schedules a retry.
type Processor interface {
	Process(ctx context.Context, job Job) error
}

// WorkerHandlers maps job types to their processors.
type WorkerHandlers struct {
	OrderMail Processor
}

func (h *WorkerHandlers) processorFor(jobType string) Processor {
	switch jobType {
	case JobOrderConfirmation, JobOrderStatus:
		return h.OrderMail
	}
	return nil
}

// StartWorkerPool launches numWorkers goroutines consuming the job queues.
// Each goroutine blocks on BRPOP, so idle workers cost no CPU.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueOrderMail).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	p := handlers.processorFor(job.Type)
	if p == nil {
		SendToDLQ(ctx, rdb, queue, job, "no processor for job type")
		return
	}

	job.Attempts++
	if err := runSafely(ctx, p, job); err != nil {
		log.Warn().
			Err(err).
			Str("job_id", job.ID).
			Str("type", job.Type).
			Int("attempt", job.Attempts).
			Msg("job failed")
		scheduleRetry(ctx, rdb, queue, job, err)
		return
	}
	log.Debug().Str("job_id", job.ID).Str("type", job.Type).Msg("job done")
}

// runSafely converts a processor panic into an error.
func runSafely(ctx context.Context, p Processor, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return p.Process(ctx, job)
}
