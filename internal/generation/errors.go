package generation

import "fmt"

// Error is a terminal generation failure: a unit whose instantiation did not
// report success. It carries what the user needs to see in the error dialog.
type Error struct {
	UnitName     string // instance name of the failed unit
	TemplateName string // display name of the template
	Diagnostic   string // engine diagnostic message
}

func (e *Error) Error() string {
	return fmt.Sprintf("generating %q from template %q: %s", e.UnitName, e.TemplateName, e.Diagnostic)
}

// PostActionError is a terminal failure raised while executing a post-action.
// It aborts the run exactly like a generation failure.
type PostActionError struct {
	Action   string // action description
	UnitName string // empty for global actions
	Err      error
}

func (e *PostActionError) Error() string {
	if e.UnitName == "" {
		return fmt.Sprintf("global post-action %q: %v", e.Action, e.Err)
	}
	return fmt.Sprintf("post-action %q for %q: %v", e.Action, e.UnitName, e.Err)
}

func (e *PostActionError) Unwrap() error {
	return e.Err
}
