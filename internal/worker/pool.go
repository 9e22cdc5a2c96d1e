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

	JobTypeEmail = "email"

	popTimeout = 5 * time.Second
)

// ErrPermanente marks a job failure that must not be retried (bad payload,
// unknown recipient...). The job goes straight to the DLQ.
var ErrPermanente = errors.New("fallo permanente")

// Job is the generic envelope for all async tasks. Intentos counts failed
// attempts so far.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Intentos int             `json:"intentos"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, job EmailJob) error {
	return d.enqueue(ctx, QueueEmail, JobTypeEmail, job)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return push(ctx, d.rdb, queue, Job{Type: jobType, Payload: data})
}

func push(ctx context.Context, rdb *redis.Client, queue string, job Job) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.LPush(ctx, queue, encoded).Err()
}

// Processor handles one job type. A nil error acknowledges the job.
type Processor interface {
	Process(ctx context.Context, payload json.RawMessage) error
}

// Pool consumes the job queues with a fixed number of goroutines and owns the
// retry policy: a failed job is rescheduled with exponential backoff until it
// has failed maxIntentos times, then it is moved to the DLQ.
type Pool struct {
	rdb         *redis.Client
	size        int
	maxIntentos int
	baseBackoff time.Duration
	processors  map[string]Processor
	queues      []string
	now         func() time.Time
}

func NewPool(rdb *redis.Client, size, maxIntentos int) *Pool {
	if size <= 0 {
		size = 1
	}
	if maxIntentos <= 0 {
		maxIntentos = 1
	}
	return &Pool{
		rdb:         rdb,
		size:        size,
		maxIntentos: maxIntentos,
		baseBackoff: 2 * time.Second,
		processors:  make(map[string]Processor),
		now:         time.Now,
	}
}

// Register binds a processor to a job type consumed from queue.
func (p *Pool) Register(queue, jobType string, proc Processor) {
	p.processors[jobType] = proc
	for _, q := range p.queues {
		if q == queue {
			return
		}
	}
	p.queues = append(p.queues, queue)
}

// Start launches the workers and the retry promoter. Everything stops when
// ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		go p.runWorker(ctx, i)
	}
	go p.runRetryLoop(ctx)
	log.Info().Int("workers", p.size).Strs("queues", p.queues).Msg("worker pool started")
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		default:
			// Blocking pop; waits up to popTimeout then loops to check ctx
			result, err := p.rdb.BRPop(ctx, popTimeout, p.queues...).Result()
			if err != nil || len(result) < 2 {
				continue
			}
			p.handle(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) handle(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, Job{Payload: json.RawMessage(raw)}, "json invalido")
		return
	}

	proc, ok := p.processors[job.Type]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job, "tipo de job desconocido")
		return
	}

	err := proc.Process(ctx, job.Payload)
	if err == nil {
		return
	}

	job.Intentos++
	logger := log.With().Str("queue", queue).Str("type", job.Type).Int("intentos", job.Intentos).Logger()
	if errors.Is(err, ErrPermanente) || job.Intentos >= p.maxIntentos {
		logger.Error().Err(err).Msg("job failed, giving up")
		SendToDLQ(ctx, p.rdb, queue, job, err.Error())
		return
	}

	at := p.now().Add(p.backoff(job.Intentos))
	if serr := scheduleRetry(ctx, p.rdb, queue, job, at); serr != nil {
		logger.Error().Err(serr).Msg("could not schedule retry, moving to dlq")
		SendToDLQ(ctx, p.rdb, queue, job, err.Error())
		return
	}
	logger.Warn().Err(err).Time("retry_at", at).Msg("job failed, retry scheduled")
}

// backoff doubles per attempt: base, 2*base, 4*base... capped at 5 minutes.
func (p *Pool) backoff(intentos int) time.Duration {
	d := p.baseBackoff
	for i := 1; i < intentos; i++ {
		d *= 2
		if d >= 5*time.Minute {
			return 5 * time.Minute
		}
	}
	return d
}
