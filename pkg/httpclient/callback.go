package httpclient

import "sync"

// CallbackQueue runs posted functions one at a time, in post order, on a
// single goroutine. It plays the role of a caller-chosen delivery context.
// Post never blocks, so a callback may post to its own queue.
type CallbackQueue struct {
	mu      sync.Mutex
	closed  bool
	pending []func()
	wake    chan struct{}
	done    chan struct{}
}

// NewCallbackQueue starts the delivery goroutine. buffer is a capacity hint
// for the pending list; the list grows as needed.
func NewCallbackQueue(buffer int) *CallbackQueue {
	if buffer < 0 {
		buffer = 0
	}
	q := &CallbackQueue{
		pending: make([]func(), 0, buffer),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go q.loop()
	return q
}

func (q *CallbackQueue) loop() {
	defer close(q.done)
	for {
		q.mu.Lock()
		batch := q.pending
		q.pending = nil
		closed := q.closed
		q.mu.Unlock()

		for _, fn := range batch {
			fn()
		}
		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		<-q.wake
	}
}

func (q *CallbackQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Post enqueues fn. It returns false once the queue is closed.
func (q *CallbackQueue) Post(fn func()) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.pending = append(q.pending, fn)
	q.mu.Unlock()
	q.signal()
	return true
}

// Close stops accepting callbacks and waits for queued ones to run.
// Calling Close from inside a callback would wait on itself and is not allowed.
func (q *CallbackQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
	<-q.done
}
