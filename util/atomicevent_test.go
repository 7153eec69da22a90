package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtomicEventKeepsLatestValue(t *testing.T) {
	e := NewAtomicEvent[int]()
	e.Send(1)
	e.Send(2)
	e.Send(3)
	assert.Equal(t, 3, e.Value())
}

func TestAtomicEventSendNeverBlocks(t *testing.T) {
	e := NewAtomicEvent[string]()
	// No consumer; repeated sends must coalesce, not deadlock.
	for i := 0; i < 100; i++ {
		e.Send("x")
	}
	assert.Equal(t, "x", e.Value())
}

func TestAtomicEventPoll(t *testing.T) {
	e := NewAtomicEvent[int]()

	v, ok := e.Poll()
	assert.False(t, ok)
	assert.Zero(t, v)

	e.Send(7)
	e.Send(8)

	v, ok = e.Poll()
	assert.True(t, ok)
	assert.Equal(t, 8, v)

	// The burst coalesced into a single pending notification.
	_, ok = e.Poll()
	assert.False(t, ok)
}

func TestAtomicEventChannelSignalsOnce(t *testing.T) {
	e := NewAtomicEvent[int]()
	e.Send(1)
	e.Send(2)

	select {
	case <-e.Channel():
	default:
		t.Fatal("expected a pending notification")
	}
	select {
	case <-e.Channel():
		t.Fatal("burst must coalesce to one notification")
	default:
	}
}
