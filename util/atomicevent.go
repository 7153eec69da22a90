// Package util holds small concurrency helpers shared across the engine.
package util

import "sync"

// AtomicEvent carries the latest value of some event from one goroutine to
// another without ever blocking the sender. Only the most recent value is
// retained; the notify channel holds at most one pending signal, so a slow
// consumer coalesces bursts instead of queueing them.
//
// The render loop polls remote-control state through these: an MQTT
// handler Sends on its own goroutine, the frame hook drains between
// frames.
type AtomicEvent[T any] struct {
	mu     sync.Mutex
	value  T
	notify chan struct{}
}

// NewAtomicEvent creates an empty event holder.
func NewAtomicEvent[T any]() *AtomicEvent[T] {
	return &AtomicEvent[T]{notify: make(chan struct{}, 1)}
}

// Send stores value as the latest event and flags the notify channel.
// Never blocks.
func (e *AtomicEvent[T]) Send(value T) {
	e.mu.Lock()
	e.value = value
	e.mu.Unlock()

	select {
	case e.notify <- struct{}{}:
	default:
	}
}

// Channel returns the notification channel for select loops.
func (e *AtomicEvent[T]) Channel() <-chan struct{} {
	return e.notify
}

// Value returns the latest sent value.
func (e *AtomicEvent[T]) Value() T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// Poll reports whether a notification was pending and consumes it,
// returning the latest value either way. This is the non-blocking read the
// frame loop uses between frames.
func (e *AtomicEvent[T]) Poll() (T, bool) {
	select {
	case <-e.notify:
		return e.Value(), true
	default:
		return e.Value(), false
	}
}
