package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/kestrelhq/kestrel/internal/catalog"
	"github.com/kestrelhq/kestrel/internal/generation"
)

// Tracker translates run outcomes into telemetry events. Every entry point
// is guarded: a tracking failure becomes one exception event and never
// escapes into the pipeline.
type Tracker struct {
	sink Sink
}

// NewTracker creates a tracker emitting into sink. A nil sink disables
// tracking.
func NewTracker(sink Sink) *Tracker {
	if sink == nil {
		sink = Nop{}
	}
	return &Tracker{sink: sink}
}

// Track emits one generation event per instantiated unit. Placeholder units
// carry no template identity and are skipped. A unit with no recorded result
// aborts tracking with an exception event; partial per-unit events may have
// been emitted by then.
func (t *Tracker) Track(ctx context.Context, units []generation.Unit, results map[string]generation.Result,
	elapsed time.Duration, framework string) {
	t.guard(func() {
		if err := t.track(units, results, elapsed, framework); err != nil {
			t.sink.Emit(Event{Kind: KindException, Message: err.Error()})
		}
	})
}

func (t *Tracker) track(units []generation.Unit, results map[string]generation.Result,
	elapsed time.Duration, framework string) error {
	pages := 0
	for _, unit := range units {
		if unit.Template != nil && unit.Template.Classification == catalog.ClassificationPage {
			pages++
		}
	}

	for _, unit := range units {
		if unit.Template == nil {
			continue
		}

		res, ok := results[unit.Key()]
		if !ok {
			return fmt.Errorf("no result recorded for unit %q", unit.Key())
		}

		if res.Failed() {
			t.sink.Emit(Event{
				Kind:      KindError,
				Template:  unit.Template.ID,
				Unit:      unit.Name,
				Framework: framework,
				Message:   res.Message,
			})
			continue
		}

		e := Event{
			Kind:           KindPageGen,
			Template:       unit.Template.ID,
			Unit:           unit.Name,
			Framework:      framework,
			ElapsedSeconds: elapsed.Seconds(),
		}
		if unit.Template.Classification == catalog.ClassificationProject {
			e.Kind = KindProjectGen
			e.PagesAdded = pages
		}
		t.sink.Emit(e)
	}

	return nil
}

// RunCompleted emits the wizard-completed event.
func (t *Tracker) RunCompleted(elapsed time.Duration, framework string) {
	t.guard(func() {
		t.sink.Emit(Event{
			Kind:           KindWizardCompleted,
			Framework:      framework,
			ElapsedSeconds: elapsed.Seconds(),
		})
	})
}

// RunCancelled emits the wizard-cancelled event plus an error event carrying
// the failure diagnostic.
func (t *Tracker) RunCancelled(err error) {
	t.guard(func() {
		t.sink.Emit(Event{Kind: KindWizardCancelled})
		if err != nil {
			t.sink.Emit(Event{Kind: KindError, Message: err.Error()})
		}
	})
}

// Trace emits a verbose diagnostic event.
func (t *Tracker) Trace(message string) {
	t.guard(func() {
		t.sink.Emit(Event{Kind: KindVerboseTrace, Message: message})
	})
}

// guard runs fn and converts a panic into a best-effort exception event.
func (t *Tracker) guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			// The sink itself may be the thing panicking; a second panic
			// here must still not escape.
			defer func() { _ = recover() }()
			t.sink.Emit(Event{Kind: KindException, Message: fmt.Sprintf("telemetry panic: %v", r)})
		}
	}()
	fn()
}
