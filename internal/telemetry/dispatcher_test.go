package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_DeliversInOrder(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, 8)

	d.Emit(Event{Kind: KindWizardCompleted})
	d.Emit(Event{Kind: KindProjectGen})
	d.Close()

	events := sink.all()
	require.Len(t, events, 2)
	assert.Equal(t, KindWizardCompleted, events[0].Kind)
	assert.Equal(t, KindProjectGen, events[1].Kind)
}

func TestDispatcher_EmitNeverBlocks(t *testing.T) {
	// A sink that blocks forever; once the buffer fills, Emit must drop
	// instead of blocking the caller.
	block := make(chan struct{})
	defer close(block)
	d := NewDispatcher(blockingSink{ch: block}, 1)

	for i := 0; i < 100; i++ {
		d.Emit(Event{Kind: KindVerboseTrace})
	}
	// Reaching this line is the assertion.
}

type blockingSink struct{ ch chan struct{} }

func (s blockingSink) Emit(Event) { <-s.ch }

func TestDispatcher_EmitAfterCloseIsDropped(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, 8)
	d.Close()

	d.Emit(Event{Kind: KindError}) // must not panic
	assert.Empty(t, sink.all())
}

func TestDispatcher_CloseTwice(t *testing.T) {
	d := NewDispatcher(&recordingSink{}, 8)
	d.Close()
	d.Close() // must not panic
}
