package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Job is one delivered payload plus the channel acknowledgement to fire once
// handling completes. Ack may be nil when the transport carries no acks.
type Job struct {
	Payload []byte
	Ack     func()
}

// Handler processes one payload to completion (store or drop).
type Handler func(ctx context.Context, payload []byte)

// Pool dispatches jobs to a fixed number of workers over a bounded queue.
// Submit blocks when the queue is full so a slow store applies backpressure
// to the receive path instead of growing memory without bound.
type Pool struct {
	handler Handler
	logger  *zap.Logger
	ctx     context.Context
	jobs    chan Job
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPool starts size workers handling jobs under ctx. Cancelling ctx cuts
// retry backoff sleeps short; it does not stop intake, Drain does.
func NewPool(ctx context.Context, size, queueSize int, handler Handler, logger *zap.Logger) *Pool {
	if size <= 0 {
		size = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	p := &Pool{
		handler: handler,
		logger:  logger,
		ctx:     ctx,
		jobs:    make(chan Job, queueSize),
	}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.run(i)
	}
	return p
}

func (p *Pool) run(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		p.handler(p.ctx, job.Payload)
		if job.Ack != nil {
			job.Ack()
		}
	}
	p.logger.Debug("worker stopped", zap.Int("worker", id))
}

// Submit queues one job, blocking while the queue is full. It reports false
// once the pool is draining.
func (p *Pool) Submit(job Job) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	p.jobs <- job
	return true
}

// Drain stops intake and waits until every queued job is handled.
func (p *Pool) Drain() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()
	p.wg.Wait()
}
