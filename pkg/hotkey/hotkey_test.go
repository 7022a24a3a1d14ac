package hotkey

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKey struct {
	pressed      chan struct{}
	registerErr  error
	registered   atomic.Int32
	unregistered atomic.Int32
}

func newFakeKey() *fakeKey {
	return &fakeKey{pressed: make(chan struct{})}
}

func (k *fakeKey) Register() error {
	if k.registerErr != nil {
		return k.registerErr
	}
	k.registered.Add(1)
	return nil
}

func (k *fakeKey) Unregister() error {
	k.unregistered.Add(1)
	return nil
}

func (k *fakeKey) Pressed() <-chan struct{} { return k.pressed }

// fakeClock advances only when told to.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestListener(key Key, action func()) (*Listener, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	l := NewListener(key, "Test", action)
	l.now = clock.Now
	return l, clock
}

func TestListenerRunsAction(t *testing.T) {
	key := newFakeKey()
	var count atomic.Int32
	l, clock := newTestListener(key, func() { count.Add(1) })

	require.NoError(t, l.Start())
	require.NoError(t, l.Start())
	assert.True(t, l.Running())
	assert.EqualValues(t, 1, key.registered.Load())

	key.pressed <- struct{}{}
	key.pressed <- struct{}{} // auto-repeat
	clock.Advance(repeatGuard)
	key.pressed <- struct{}{}

	l.Stop()
	assert.EqualValues(t, 2, count.Load())
	assert.EqualValues(t, 1, key.unregistered.Load())
	assert.False(t, l.Running())

	l.Stop()
	assert.EqualValues(t, 1, key.unregistered.Load())
}

func TestListenerRegisterFailure(t *testing.T) {
	key := newFakeKey()
	key.registerErr = errors.New("hotkey taken")
	l, _ := newTestListener(key, func() {})

	err := l.Start()
	assert.ErrorIs(t, err, key.registerErr)
	assert.False(t, l.Running())
}

func TestListenerSurvivesPanic(t *testing.T) {
	key := newFakeKey()
	var count atomic.Int32
	l, clock := newTestListener(key, func() {
		count.Add(1)
		panic("boom")
	})
	require.NoError(t, l.Start())

	key.pressed <- struct{}{}
	clock.Advance(time.Second)
	key.pressed <- struct{}{}

	l.Stop()
	assert.EqualValues(t, 2, count.Load())
}

func TestListenerRestart(t *testing.T) {
	key := newFakeKey()
	var count atomic.Int32
	l, _ := newTestListener(key, func() { count.Add(1) })

	require.NoError(t, l.Start())
	l.Stop()
	require.NoError(t, l.Start())
	key.pressed <- struct{}{}
	l.Stop()

	assert.EqualValues(t, 1, count.Load())
	assert.EqualValues(t, 2, key.registered.Load())
}
