// Copyright (c) 2025 BVK Chaitanya

// Package watch implements reactive state containers over the backend
// client. Each container recomputes its value when one of its named inputs
// changes and publishes every new value on a topic.
package watch

import (
	"log/slog"
	"sync"

	"github.com/visvasity/topic"
)

// Value holds the latest result of a fetch. Every fetch takes a token from
// Begin and completes with Finish. Results carrying a token older than the
// most recently issued one are dropped, so overlapping fetches cannot
// overwrite newer state.
type Value[T any] struct {
	name string

	mu sync.Mutex

	value T

	lastErr error

	// issued is the most recently issued request token.
	issued uint64

	closed bool
	topic  *topic.Topic[T]
}

func NewValue[T any](name string, initial T) *Value[T] {
	v := &Value[T]{
		name:  name,
		value: initial,
		topic: topic.New[T](),
	}
	v.topic.Send(initial)
	return v
}

// Close closes the change notification topic. Later changes are kept but
// not published.
func (v *Value[T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.closed {
		v.closed = true
		v.topic.Close()
	}
}

func (v *Value[T]) publishLocked(x T) {
	if !v.closed {
		v.topic.Send(x)
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// Err returns the error from the most recent fetch that completed. It is
// reset by a successful fetch or Set.
func (v *Value[T]) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

// Set replaces the value locally. Fetches that are in flight are
// invalidated.
func (v *Value[T]) Set(x T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.issued++
	v.value = x
	v.lastErr = nil
	v.publishLocked(x)
}

// Update applies fn to the current value under the lock and publishes the
// result.
func (v *Value[T]) Update(fn func(T) T) T {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.issued++
	x := fn(v.value)
	v.value = x
	v.lastErr = nil
	v.publishLocked(x)
	return x
}

// Begin issues a new request token.
func (v *Value[T]) Begin() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.issued++
	return v.issued
}

// Finish completes the fetch identified by token. Stale results are dropped
// and reported with a false return value. On error the previous value is
// kept.
func (v *Value[T]) Finish(token uint64, x T, err error) bool {
	v.mu.Lock()
	if token != v.issued {
		v.mu.Unlock()
		slog.Debug("dropped stale response", "value", v.name, "token", token)
		return false
	}
	if err != nil {
		v.lastErr = err
		v.mu.Unlock()
		slog.Warn("could not refresh (keeping previous state)", "value", v.name, "err", err)
		return true
	}
	v.value = x
	v.lastErr = nil
	v.publishLocked(x)
	v.mu.Unlock()
	return true
}

// Subscribe returns a receiver for value changes. The current value is
// delivered first. Slow receivers only observe the latest value.
func (v *Value[T]) Subscribe() (*topic.Receiver[T], error) {
	return topic.Subscribe(v.topic, 1, true)
}
