// Package generation drives a single scaffolding run: it turns a composed
// unit list into generated artifacts, applies post-actions, and hands the
// outcome to telemetry. All collaborators are passed in explicitly; the
// package keeps no process-wide state.
package generation

import (
	"fmt"

	"github.com/kestrelhq/kestrel/internal/catalog"
)

// Unit is one template instance to materialize. A nil Template marks a
// placeholder entry: the orchestrator skips it entirely, with no
// instantiation, no result entry, and no telemetry.
type Unit struct {
	Template *catalog.TemplateDescriptor
	Name     string            // unique instance name, a path segment under the output directory
	Params   map[string]string // parameter name → value
}

// Key returns the correlation key tying this unit to its instantiation
// result. The (template identity, instance name) pair must be unique across
// a run's unit list.
func (u Unit) Key() string {
	id := ""
	if u.Template != nil {
		id = u.Template.ID
	}
	return fmt.Sprintf("%s_%s", id, u.Name)
}

// Status classifies an instantiation outcome.
type Status int

const (
	StatusSuccess Status = iota
	StatusTemplateNotFound
	StatusRenderFailed
	StatusWriteFailed
	StatusCancelled
)

var statusNames = map[Status]string{
	StatusSuccess:          "success",
	StatusTemplateNotFound: "template-not-found",
	StatusRenderFailed:     "render-failed",
	StatusWriteFailed:      "write-failed",
	StatusCancelled:        "cancelled",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Result is the immutable outcome of materializing one unit.
type Result struct {
	Status  Status
	Message string   // engine diagnostic, empty on success
	Files   []string // paths written for this unit, in write order
}

// Failed reports whether the unit did not materialize.
func (r Result) Failed() bool {
	return r.Status != StatusSuccess
}
