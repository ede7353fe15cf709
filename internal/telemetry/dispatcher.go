package telemetry

import "sync"

// Dispatcher decouples event producers from the sink behind a buffered
// channel. Emit never blocks: when the buffer is full the event is dropped,
// because generation latency matters more than telemetry completeness.
type Dispatcher struct {
	events chan Event
	sink   Sink
	done   chan struct{}
	once   sync.Once
}

// NewDispatcher starts a dispatcher draining into sink.
func NewDispatcher(sink Sink, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	d := &Dispatcher{
		events: make(chan Event, buffer),
		sink:   sink,
		done:   make(chan struct{}),
	}
	go d.loop()
	return d
}

func (d *Dispatcher) loop() {
	defer close(d.done)
	for e := range d.events {
		d.sink.Emit(e)
	}
}

// Emit queues an event for delivery, dropping it if the buffer is full or
// the dispatcher is already closed.
func (d *Dispatcher) Emit(e Event) {
	defer func() {
		// Send on a closed channel after Close. Dropping the event is the
		// correct outcome there too.
		_ = recover()
	}()
	select {
	case d.events <- e:
	default:
	}
}

// Close flushes buffered events and stops the background goroutine. Safe to
// call more than once.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.events)
	})
	<-d.done
}
