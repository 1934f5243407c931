// Package dispatch runs bot events one at a time on a single worker so
// handlers never race on the shared document.
//
// Producers (the HTTP gateway, the console, config reloads) submit jobs and
// wait for them. A full queue rejects new work instead of blocking callers.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var defaultJobQueueSize uint = 64

var (
	// ErrQueueFull is returned by Submit when the job queue has no room.
	ErrQueueFull = errors.New("dispatch queue full")

	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("dispatch pool closed")
)

// Job is a unit of work run on the single worker.
type Job func(ctx context.Context) error

// Config is the configuration options for the pool.
type Config struct {
	// QueueSize is the capacity of the buffered job channel (defaults to 64).
	QueueSize uint

	// Logger is the provided slog logger.
	Logger *slog.Logger
}

type task struct {
	ctx  context.Context
	job  Job
	done chan error
}

// Pool serializes jobs through one worker goroutine.
type Pool struct {
	queue  chan task
	wg     sync.WaitGroup
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewPool creates a pool and starts its worker.
func NewPool(c *Config) *Pool {
	size := c.QueueSize
	if size == 0 {
		size = defaultJobQueueSize
	}

	logger := c.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	p := &Pool{
		queue:  make(chan task, size),
		logger: logger,
	}

	p.wg.Add(1)
	go p.worker()

	return p
}

// Submit enqueues job and waits until it has run or ctx is done. A job whose
// ctx ends while it is still queued is skipped.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	t := task{ctx: ctx, job: job, done: make(chan error, 1)}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrClosed
	}
	select {
	case p.queue <- t:
		p.mu.RUnlock()
	default:
		p.mu.RUnlock()
		p.logger.Warn("job not queued, queue full", "queue_size", cap(p.queue))
		return ErrQueueFull
	}

	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len reports how many jobs are waiting.
func (p *Pool) Len() int {
	return len(p.queue)
}

// Close stops accepting jobs and waits for queued ones to drain.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
}

// worker is the single goroutine that pulls jobs off the queue.
func (p *Pool) worker() {
	defer p.wg.Done()
	p.logger.Debug("dispatch worker started")

	for t := range p.queue {
		t.done <- p.run(t)
	}

	p.logger.Debug("dispatch worker stopped")
}

func (p *Pool) run(t task) (err error) {
	if err := t.ctx.Err(); err != nil {
		p.logger.Debug("skipping job, caller gone", "error", err)
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("job panicked", "panic", r)
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()

	return t.job(t.ctx)
}
