package automation

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/leadrail/leadrail/internal/core/ports"
)

const (
	defaultWorkers     = 4
	defaultQueueSize   = 256
	defaultSendTimeout = 30 * time.Second
)

// SendJob is one queued notification send.
type SendJob struct {
	RuleID   string
	RuleName string
	FormID   string
	To       string
	Subject  string
	Body     string
}

// Sender accepts notification sends for asynchronous delivery.
type Sender interface {
	// Enqueue submits a job without blocking. It reports false when the
	// queue is full and the job was dropped.
	Enqueue(job SendJob) bool
}

// Pool delivers queued sends through a bounded set of workers. Send
// failures are logged by the supervising worker, never surfaced to the
// producer: a slow or failing transport cannot delay an event producer's
// response, and one failing rule cannot prevent others from firing.
type Pool struct {
	transport   ports.EmailTransport
	jobs        chan SendJob
	sendTimeout time.Duration
	logger      *slog.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// PoolConfig configures a Pool. Zero values fall back to defaults.
type PoolConfig struct {
	Workers     int
	QueueSize   int
	SendTimeout time.Duration
	Logger      *slog.Logger
}

// NewPool creates and starts the delivery pool.
func NewPool(transport ports.EmailTransport, cfg PoolConfig) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	p := &Pool{
		transport:   transport,
		jobs:        make(chan SendJob, cfg.QueueSize),
		sendTimeout: cfg.SendTimeout,
		logger:      cfg.Logger,
	}

	p.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go p.worker()
	}

	return p
}

// Enqueue submits a send without blocking. A full queue drops the job with
// a logged warning; the primary operation already succeeded and must not
// wait on delivery capacity.
func (p *Pool) Enqueue(job SendJob) bool {
	select {
	case p.jobs <- job:
		return true
	default:
		p.logger.Warn("notification queue full, dropping send",
			slog.String("rule_id", job.RuleID),
			slog.String("form_id", job.FormID),
			slog.String("to", job.To),
		)
		return false
	}
}

// Close stops accepting jobs and waits for in-flight sends to finish.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for job := range p.jobs {
		// Detached from any request context: the producer's response has
		// long been written by the time this runs.
		ctx, cancel := context.WithTimeout(context.Background(), p.sendTimeout)
		err := p.transport.Send(ctx, job.To, job.Subject, job.Body)
		cancel()

		if err != nil {
			p.logger.Warn("automation send failed",
				slog.String("rule_id", job.RuleID),
				slog.String("rule_name", job.RuleName),
				slog.String("form_id", job.FormID),
				slog.String("to", job.To),
				slog.String("error", err.Error()),
			)
			continue
		}

		p.logger.Debug("automation send delivered",
			slog.String("rule_id", job.RuleID),
			slog.String("form_id", job.FormID),
			slog.String("to", job.To),
		)
	}
}

var _ Sender = (*Pool)(nil)
