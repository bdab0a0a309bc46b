// Package dispatch provides the two execution contexts used for asynchronous
// work: a serial Queue that callers hand results back on, and a bounded Pool
// that runs the work itself.
package dispatch

import (
	"errors"
	"sync"
)

// ErrClosed is returned when work is submitted after Close.
var ErrClosed = errors.New("dispatch: closed")

// Executor runs submitted functions on some goroutine of its choosing.
type Executor interface {
	Submit(fn func()) error
}

// Queue runs submitted functions one at a time, in submission order, on a
// single goroutine it owns.
type Queue struct {
	name  string
	tasks chan func()
	quit  chan struct{}
	done  chan struct{}

	mu      sync.RWMutex
	closed  bool
	pending sync.WaitGroup // Submit calls between the closed check and the send
}

// NewQueue starts a queue. buffer is the number of pending functions Submit
// accepts before it blocks.
func NewQueue(name string, buffer int) *Queue {
	if buffer < 0 {
		buffer = 0
	}
	q := &Queue{
		name:  name,
		tasks: make(chan func(), buffer),
		quit:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for fn := range q.tasks {
		fn()
	}
}

// Name returns the label given to NewQueue.
func (q *Queue) Name() string { return q.name }

// Submit enqueues fn. It blocks while the buffer is full, and returns
// ErrClosed if the queue is closed before fn could be enqueued. A task that
// submits to its own full queue blocks until Close.
func (q *Queue) Submit(fn func()) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrClosed
	}
	q.pending.Add(1)
	q.mu.RUnlock()
	defer q.pending.Done()

	select {
	case q.tasks <- fn:
		return nil
	case <-q.quit:
		return ErrClosed
	}
}

// Close stops accepting work, runs everything already queued, then returns.
// Submit calls blocked on a full buffer return ErrClosed. It is safe to call
// more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	close(q.quit)
	q.mu.Unlock()

	q.pending.Wait()
	close(q.tasks)
	<-q.done
}
