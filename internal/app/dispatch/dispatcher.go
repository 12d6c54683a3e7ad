package dispatch

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/academix/portal/internal/pkg/email"
)

// Job is one rendered notification waiting for delivery.
type Job struct {
	To      string
	Subject string
	Body    string
}

// Dispatcher accepts fully rendered notifications and delivers them out of
// band. Enqueue returns immediately; it reports false when the job was not
// accepted. Delivery failures are an operational concern, never the
// caller's: the role assignment that scheduled the job has already
// committed.
type Dispatcher interface {
	Enqueue(job Job) bool
}

// EmailDispatcher drains a bounded queue through an email.Sender on a single
// worker goroutine.
type EmailDispatcher struct {
	sender email.Sender
	jobs   chan Job
	logger zerolog.Logger

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

// NewEmailDispatcher creates a dispatcher with the given queue capacity.
func NewEmailDispatcher(sender email.Sender, queueSize int, logger zerolog.Logger) *EmailDispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &EmailDispatcher{
		sender: sender,
		jobs:   make(chan Job, queueSize),
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start launches the delivery worker.
func (d *EmailDispatcher) Start() {
	go d.run()
}

func (d *EmailDispatcher) run() {
	defer close(d.done)
	for job := range d.jobs {
		messageID, err := d.sender.Send(job.To, job.Subject, job.Body)
		if err != nil {
			d.logger.Error().Err(err).Str("to", job.To).Str("subject", job.Subject).Msg("Notification delivery failed")
			continue
		}
		d.logger.Info().Str("to", job.To).Str("messageId", messageID).Msg("Notification delivered")
	}
}

// Enqueue submits a job without blocking. A full queue drops the job: the
// contract is best-effort delivery.
func (d *EmailDispatcher) Enqueue(job Job) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		d.logger.Warn().Str("to", job.To).Msg("Dispatcher stopped, notification dropped")
		return false
	}

	select {
	case d.jobs <- job:
		return true
	default:
		d.logger.Error().Str("to", job.To).Str("subject", job.Subject).Msg("Notification queue full, job dropped")
		return false
	}
}

// Stop closes the queue and waits for the worker to drain it, or for ctx to
// expire.
func (d *EmailDispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.jobs)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
