package util

import "sync/atomic"

// SafeFlag is a boolean that is safe to use concurrently.
type SafeFlag struct {
	value atomic.Bool
}

// NewSafeBool creates a new SafeFlag set to false.
func NewSafeBool() *SafeFlag {
	return &SafeFlag{}
}

// NewSafeBoolWithValue creates a new SafeFlag with an initial value.
func NewSafeBoolWithValue(initialValue bool) *SafeFlag {
	sb := &SafeFlag{}
	sb.value.Store(initialValue)
	return sb
}

// Set sets the value and returns it.
func (sb *SafeFlag) Set(newValue bool) bool {
	sb.value.Store(newValue)
	return newValue
}

// Swap sets the value and returns the previous one.
func (sb *SafeFlag) Swap(newValue bool) bool {
	return sb.value.Swap(newValue)
}

// Value returns the current value.
func (sb *SafeFlag) Value() bool {
	return sb.value.Load()
}

// Toggle flips the value and returns the new value.
func (sb *SafeFlag) Toggle() bool {
	for {
		old := sb.value.Load()
		if sb.value.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
