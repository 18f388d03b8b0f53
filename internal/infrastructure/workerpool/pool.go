package workerpool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrPoolClosed = errors.New("worker pool is closed")

// Job is a CPU-bound unit of work. Results travel through the closure.
type Job func()

// Config configures the pool. Zero values fall back to sane defaults.
type Config struct {
	PoolSize  int // number of worker goroutines (default: runtime.NumCPU())
	QueueSize int // pending job buffer (default: 64)
}

// Pool runs CPU-bound jobs on a fixed set of goroutines, keeping them off the
// goroutines that service HTTP connections. Do is a synchronous
// submit-and-await: the caller suspends until its job completes.
type Pool struct {
	tasks  chan task
	done   chan struct{}
	wg     sync.WaitGroup
	logger *zap.SugaredLogger

	mu     sync.RWMutex
	closed bool
}

type task struct {
	id       string
	fn       Job
	finished chan error
}

func New(cfg Config, logger *zap.SugaredLogger) *Pool {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = runtime.NumCPU()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}

	p := &Pool{
		tasks:  make(chan task, cfg.QueueSize),
		done:   make(chan struct{}),
		logger: logger,
	}

	p.wg.Add(cfg.PoolSize)
	for i := 0; i < cfg.PoolSize; i++ {
		go p.worker()
	}

	return p
}

// Do submits fn and waits for it to finish. The context only bounds the wait
// for a queue slot; once dispatched a job always runs to completion. After
// Close, Do returns ErrPoolClosed.
func (p *Pool) Do(ctx context.Context, fn Job) error {
	t := task{
		id:       uuid.NewString(),
		fn:       fn,
		finished: make(chan error, 1),
	}

	// The read lock is held across the enqueue so Close cannot begin shutdown
	// between the closed check and the send. Every task that reaches the
	// queue is therefore admitted before done closes, and the workers' drain
	// pass will complete it.
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPoolClosed
	}

	select {
	case p.tasks <- t:
		p.mu.RUnlock()
	case <-ctx.Done():
		p.mu.RUnlock()
		return ctx.Err()
	}

	return <-t.finished
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.done:
			p.drain()
			return
		case t := <-p.tasks:
			t.finished <- p.run(t)
		}
	}
}

// drain completes jobs that were admitted before Close so no submitter is
// left waiting forever.
func (p *Pool) drain() {
	for {
		select {
		case t := <-p.tasks:
			t.finished <- p.run(t)
		default:
			return
		}
	}
}

func (p *Pool) run(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Errorw("job panicked", "job", t.id, "panic", r)
			err = fmt.Errorf("job %s panicked: %v", t.id, r)
		}
	}()

	p.logger.Debugw("job started", "job", t.id)
	t.fn()
	return nil
}

// Close stops the workers after draining queued jobs. Safe to call more than
// once; subsequent Do calls return ErrPoolClosed.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.done)
	p.wg.Wait()

	// Sweep anything still queued so no submitter is left waiting.
	for {
		select {
		case t := <-p.tasks:
			t.finished <- ErrPoolClosed
		default:
			return
		}
	}
}
