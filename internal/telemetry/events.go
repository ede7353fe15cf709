// Package telemetry records what generation runs produce. Emission is
// fire-and-forget: nothing in this package may block or fail the
// generation pipeline.
package telemetry

// Kind names a telemetry event type.
type Kind string

const (
	KindWizardCompleted Kind = "wizard-completed"
	KindWizardCancelled Kind = "wizard-cancelled"
	KindProjectGen      Kind = "project-generated"
	KindPageGen         Kind = "page-or-feature-generated"
	KindVerboseTrace    Kind = "verbose-trace"
	KindError           Kind = "error"
	KindException       Kind = "exception"
)

// Event is one telemetry record.
type Event struct {
	Kind           Kind
	Template       string // template identity, for generation events
	Unit           string // instance name, for generation events
	Framework      string
	PagesAdded     int // total page units in the run, set on project-generated
	ElapsedSeconds float64
	Message        string
}

// Sink accepts events. Implementations must tolerate concurrent Emit calls.
type Sink interface {
	Emit(e Event)
}

// Nop is a sink that discards everything, used when telemetry is disabled.
type Nop struct{}

func (Nop) Emit(Event) {}
