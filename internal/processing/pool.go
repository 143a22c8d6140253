package processing

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolClosed is returned when submitting to a closed pool.
var ErrPoolClosed = errors.New("processing pool closed")

// Task is one unit of work.
type Task func(ctx context.Context) error

// Pool runs tasks on a fixed number of workers fed by a buffered queue.
type Pool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	onError func(error)
}

// NewPool returns a pool with the given worker count and queue size.
// onError, if set, receives every task error.
func NewPool(workers, buffer int, onError func(error)) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan Task, buffer),
		onError: onError,
	}
}

// Submit queues t, blocking while the queue is full.
func (p *Pool) Submit(ctx context.Context, t Task) error {
	if p == nil || t == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.tasks <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks. Workers drain the queue and exit.
func (p *Pool) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.tasks)
}

// Run starts the workers. They stop when ctx is done or the pool is closed
// and drained. Wait blocks until they have all returned.
func (p *Pool) Run(ctx context.Context) {
	if p == nil {
		return
	}
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					if err := t(ctx); err != nil && p.onError != nil {
						p.onError(err)
					}
				}
			}
		}()
	}
}

// Wait blocks until every worker has returned.
func (p *Pool) Wait() {
	if p == nil {
		return
	}
	p.wg.Wait()
}
