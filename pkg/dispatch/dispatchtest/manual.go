// Package dispatchtest provides a deterministic Dispatcher for tests.
package dispatchtest

import (
	"sort"
	"sync"
	"time"

	"github.com/dixieflatline76/Fences/pkg/dispatch"
)

// Manual queues posted work until the test runs it and fires timers on a fake clock.
type Manual struct {
	mu     sync.Mutex
	queue  []func()
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	owner *Manual
	at    time.Duration
	seq   int
	fn    func()
	done  bool
}

func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// New returns an empty Manual dispatcher at time zero.
func New() *Manual {
	return &Manual{}
}

// Post implements dispatch.Dispatcher.
func (m *Manual) Post(fn func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, fn)
	return true
}

// AfterFunc implements dispatch.Dispatcher.
func (m *Manual) AfterFunc(d time.Duration, fn func()) dispatch.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{owner: m, at: m.now + d, seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Sync implements dispatch.Dispatcher. Work posted earlier runs first, then fn, all on the caller.
func (m *Manual) Sync(fn func()) {
	m.RunPending()
	fn()
}

// Pending reports how many posted closures have not run yet.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// PendingTimers reports how many timers are armed.
func (m *Manual) PendingTimers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.done {
			n++
		}
	}
	return n
}

// RunPending runs posted closures, including ones posted while running, until the queue is empty.
func (m *Manual) RunPending() int {
	ran := 0
	for {
		m.mu.Lock()
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return ran
		}
		fn := m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
		fn()
		ran++
	}
}

// Advance moves the clock forward by d, firing due timers in deadline order and running posted work.
func (m *Manual) Advance(d time.Duration) {
	m.RunPending()
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		next.done = true
		m.now = next.at
		m.mu.Unlock()

		next.fn()
		m.RunPending()
	}
}

func (m *Manual) nextDue(target time.Duration) *manualTimer {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	m.timers = live
	sort.Slice(live, func(i, j int) bool {
		if live[i].at == live[j].at {
			return live[i].seq < live[j].seq
		}
		return live[i].at < live[j].at
	})
	if len(live) == 0 || live[0].at > target {
		return nil
	}
	return live[0]
}
