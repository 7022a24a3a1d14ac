package dispatch

import "time"

// Queue is a Dispatcher backed by a single goroutine. It needs no native message loop.
type Queue struct {
	fifo
	wake chan struct{}
	done chan struct{}
}

// NewQueue starts a Queue.
func NewQueue() *Queue {
	q := &Queue{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for range q.wake {
		q.drain()
		if q.isClosed() {
			q.drain()
			return
		}
	}
}

func (q *Queue) ring() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Post implements Dispatcher.
func (q *Queue) Post(fn func()) bool {
	if !q.push(fn) {
		return false
	}
	q.ring()
	return true
}

// AfterFunc implements Dispatcher.
func (q *Queue) AfterFunc(d time.Duration, fn func()) Timer {
	return afterFunc(q.Post, d, fn)
}

// Sync implements Dispatcher.
func (q *Queue) Sync(fn func()) {
	syncVia(q.Post, fn)
}

// Close runs whatever is still queued and stops the goroutine. It is safe to call more than once.
func (q *Queue) Close() {
	if q.close() {
		q.ring()
	}
	<-q.done
}
