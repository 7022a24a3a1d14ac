// Package dispatch provides the UI thread event queue that hook callbacks and timers hand work to.
package dispatch

import (
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dixieflatline76/Fences/util/log"
)

// Dispatcher runs closures one at a time, in posting order, on a single UI thread.
type Dispatcher interface {
	// Post queues fn and returns immediately. It reports false once the dispatcher is closed.
	Post(fn func()) bool
	// AfterFunc runs fn on the UI thread once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
	// Sync runs fn on the UI thread and waits for it. It must not be called from the UI thread itself.
	Sync(fn func())
}

// Timer is a pending one-shot scheduled with AfterFunc.
type Timer interface {
	// Stop prevents the timer from running and reports whether it did so.
	Stop() bool
}

type postedTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
	fired   atomic.Bool
}

// afterFunc arms a wall clock timer that posts fn when it expires.
func afterFunc(post func(func()) bool, d time.Duration, fn func()) Timer {
	t := &postedTimer{}
	t.timer = time.AfterFunc(d, func() {
		post(func() {
			if t.stopped.Load() {
				return
			}
			t.fired.Store(true)
			fn()
		})
	})
	return t
}

func (t *postedTimer) Stop() bool {
	if t.stopped.Swap(true) {
		return false
	}
	t.timer.Stop()
	return !t.fired.Load()
}

// fifo is the unbounded closure queue shared by every Dispatcher implementation.
type fifo struct {
	mu     sync.Mutex
	items  []func()
	closed bool
}

func (q *fifo) push(fn func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, fn)
	return true
}

func (q *fifo) pop() func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	fn := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return fn
}

func (q *fifo) close() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	was := q.closed
	q.closed = true
	return !was
}

func (q *fifo) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// drain runs every queued closure. A panicking closure is logged and does not stop the queue.
func (q *fifo) drain() {
	for fn := q.pop(); fn != nil; fn = q.pop() {
		invoke(fn)
	}
}

func invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Dispatch] recovered from panic in UI callback: %v\n%s", r, debug.Stack())
		}
	}()
	fn()
}

// syncVia posts fn and blocks until it ran. When the queue is already closed fn runs inline.
func syncVia(post func(func()) bool, fn func()) {
	done := make(chan struct{})
	if !post(func() {
		defer close(done)
		fn()
	}) {
		invoke(fn)
		return
	}
	<-done
}
