package dispatch

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pool runs functions concurrently, at most size at a time.
type Pool struct {
	size int64
	sem  *semaphore.Weighted
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPool returns a pool with size workers. size < 1 means 1.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{size: int64(size), sem: semaphore.NewWeighted(int64(size))}
}

// Size is the maximum number of concurrently running functions.
func (p *Pool) Size() int { return int(p.size) }

// Go runs fn on a new goroutine once a slot is free. It blocks until then or
// until ctx is done, in which case fn never runs and ctx.Err() is returned.
func (p *Pool) Go(ctx context.Context, fn func(ctx context.Context)) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrClosed
	}
	p.wg.Add(1)
	p.mu.RUnlock()

	if err := p.sem.Acquire(ctx, 1); err != nil {
		p.wg.Done()
		return err
	}

	go func() {
		defer p.wg.Done()
		defer p.sem.Release(1)
		fn(ctx)
	}()
	return nil
}

// Submit implements Executor with a background context.
func (p *Pool) Submit(fn func()) error {
	return p.Go(context.Background(), func(context.Context) { fn() })
}

// Close refuses new work and waits for running functions to finish.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
}
