package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail = "jobs:email"

	JobBienvenida = "bienvenida"

	// MaxAttempts is how many times a job runs before it goes to the DLQ.
	MaxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Processor handles one job type. A returned error schedules a retry.
type Processor interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// ErrPermanent marks a job that must not be retried (bad payload and such).
var ErrPermanent = errors.New("worker: permanent failure")

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueBienvenida pushes a welcome email job for a new member.
func (d *Dispatcher) EnqueueBienvenida(ctx context.Context, payload BienvenidaPayload) error {
	return d.enqueue(ctx, QueueEmail, Job{Type: JobBienvenida}, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue string, job Job, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job.Payload = data
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb        *redis.Client
	processors map[string]Processor
	// backoff is the pause after a Redis error other than a pop timeout.
	backoff time.Duration
}

func NewPool(rdb *redis.Client) *Pool {
	return &Pool{rdb: rdb, processors: make(map[string]Processor), backoff: 2 * time.Second}
}

// Register binds a job type to its processor.
func (p *Pool) Register(jobType string, proc Processor) {
	p.processors[jobType] = proc
}

// Start launches numWorkers goroutines consuming the email queue.
// Each goroutine blocks on BRPOP, zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, QueueEmail).Result()
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue // timeout or context cancelled
			}
			if err != nil {
				log.Warn().Err(err).Int("worker", id).Dur("backoff", p.backoff).Msg("worker: queue unavailable")
				select {
				case <-ctx.Done():
				case <-time.After(p.backoff):
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.process(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	proc, ok := p.processors[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job, "no processor registered", job.Attempts)
		return
	}

	err := proc.Process(ctx, job.Payload)
	switch next := siguientePaso(job, err); next {
	case pasoListo:
		log.Info().Str("type", job.Type).Int("attempt", job.Attempts+1).Msg("job done")
	case pasoReintentar:
		job.Attempts++
		log.Warn().Err(err).Str("type", job.Type).Int("attempt", job.Attempts).Msg("job failed, retrying")
		encoded, mErr := json.Marshal(job)
		if mErr == nil {
			mErr = p.rdb.LPush(ctx, queue, encoded).Err()
		}
		if mErr != nil {
			SendToDLQ(ctx, p.rdb, queue, job, err.Error(), job.Attempts)
		}
	case pasoDLQ:
		SendToDLQ(ctx, p.rdb, queue, job, err.Error(), job.Attempts+1)
	}
}

type paso int

const (
	pasoListo paso = iota
	pasoReintentar
	pasoDLQ
)

// siguientePaso decides what happens to a job after one run.
func siguientePaso(job Job, err error) paso {
	switch {
	case err == nil:
		return pasoListo
	case errors.Is(err, ErrPermanent), job.Attempts+1 >= MaxAttempts:
		return pasoDLQ
	default:
		return pasoReintentar
	}
}
