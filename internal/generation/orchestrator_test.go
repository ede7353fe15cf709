package generation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelhq/kestrel/internal/catalog"
)

func projectTemplate(id string) *catalog.TemplateDescriptor {
	return &catalog.TemplateDescriptor{
		ID:             id,
		DisplayName:    id,
		Classification: catalog.ClassificationProject,
	}
}

// fakeEngine records instantiation order and returns scripted results.
type fakeEngine struct {
	results map[string]Result // key → result, default success
	calls   []string          // keys in instantiation order
}

func (e *fakeEngine) Instantiate(ctx context.Context, tmpl *catalog.TemplateDescriptor, name, outputPath string,
	params map[string]string, updateCheckDisabled, previewOnly bool) Result {
	key := fmt.Sprintf("%s_%s", tmpl.ID, name)
	e.calls = append(e.calls, key)
	if res, ok := e.results[key]; ok {
		return res
	}
	return Result{Status: StatusSuccess, Files: []string{name + ".go"}}
}

type fakeAction struct {
	name     string
	err      error
	executed *[]string // shared execution log
}

func (a *fakeAction) Execute(ctx context.Context) error {
	*a.executed = append(*a.executed, a.name)
	return a.err
}

func (a *fakeAction) Description() string { return a.name }

// fakeResolver hands out per-unit and global actions from scripts.
type fakeResolver struct {
	perUnit map[string][]Action // key → actions
	global  []Action
}

func (r *fakeResolver) ForUnit(unit Unit, result Result) []Action {
	return r.perUnit[unit.Key()]
}

func (r *fakeResolver) Global(units []Unit) []Action {
	return r.global
}

// fakeTracker captures what the orchestrator reported.
type fakeTracker struct {
	trackedUnits   []Unit
	trackedResults map[string]Result
	completed      bool
	cancelledWith  error
}

func (tr *fakeTracker) Track(ctx context.Context, units []Unit, results map[string]Result,
	elapsed time.Duration, framework string) {
	tr.trackedUnits = units
	tr.trackedResults = results
}

func (tr *fakeTracker) RunCompleted(elapsed time.Duration, framework string) { tr.completed = true }
func (tr *fakeTracker) RunCancelled(err error)                               { tr.cancelledWith = err }

// fakeShell records host interactions.
type fakeShell struct {
	progress    []string
	modalTitle  string
	modalBody   string
	closedCount int
	closedWith  []string
	closeErr    error
	cancelled   bool
}

func (s *fakeShell) ShowProgress(text string)     { s.progress = append(s.progress, text) }
func (s *fakeShell) ShowModal(title, body string) { s.modalTitle, s.modalBody = title, body }
func (s *fakeShell) CancelRun(showConfirm bool)   { s.cancelled = true }
func (s *fakeShell) ClosePartialOutput(written []string) error {
	s.closedCount++
	s.closedWith = written
	return s.closeErr
}

type staticComposer struct {
	units []Unit
	err   error
}

func (c staticComposer) Compose(ctx context.Context) ([]Unit, error) {
	return c.units, c.err
}

func newTestRig(engine *fakeEngine, resolver *fakeResolver) (*Orchestrator, *fakeTracker, *fakeShell) {
	tracker := &fakeTracker{}
	shell := &fakeShell{}
	if resolver == nil {
		resolver = &fakeResolver{}
	}
	orch := New(engine, resolver, tracker, shell, Options{OutputPath: "/tmp/out", Framework: "go"})
	return orch, tracker, shell
}

func TestGenerate_Success(t *testing.T) {
	units := []Unit{
		{Template: projectTemplate("go-cli"), Name: "myapp"},
		{Template: pageTemplate("page-basic"), Name: "home"},
	}
	engine := &fakeEngine{}
	var executed []string
	resolver := &fakeResolver{
		perUnit: map[string][]Action{
			"page-basic_home": {&fakeAction{name: "gofmt", executed: &executed}},
		},
		global: []Action{&fakeAction{name: "gomod", executed: &executed}},
	}
	orch, tracker, shell := newTestRig(engine, resolver)

	err := orch.Generate(context.Background(), staticComposer{units: units})
	require.NoError(t, err)

	assert.Equal(t, []string{"go-cli_myapp", "page-basic_home"}, engine.calls)
	assert.Equal(t, []string{"gofmt", "gomod"}, executed)

	require.Len(t, tracker.trackedResults, 2)
	assert.True(t, tracker.completed)
	assert.Nil(t, tracker.cancelledWith)

	assert.Equal(t, 0, shell.closedCount)
	assert.False(t, shell.cancelled)
	assert.Equal(t, []string{"Generating project myapp...", "Adding page home..."}, shell.progress)
}

func TestGenerate_PlaceholderIsSkippedEntirely(t *testing.T) {
	units := []Unit{
		{Template: pageTemplate("page-basic"), Name: "home"},
		{Name: "not-yet-available"},
		{Template: pageTemplate("page-basic"), Name: "about"},
	}
	engine := &fakeEngine{}
	orch, tracker, shell := newTestRig(engine, nil)

	err := orch.Generate(context.Background(), staticComposer{units: units})
	require.NoError(t, err)

	// Exactly one instantiation per real unit, none for the placeholder.
	assert.Equal(t, []string{"page-basic_home", "page-basic_about"}, engine.calls)
	assert.Len(t, shell.progress, 2)

	// The placeholder produces no result entry.
	require.Len(t, tracker.trackedUnits, 3)
	require.Len(t, tracker.trackedResults, 2)
	_, ok := tracker.trackedResults["_not-yet-available"]
	assert.False(t, ok)
}

func TestGenerate_FailureAbortsRemainingUnits(t *testing.T) {
	units := []Unit{
		{Template: pageTemplate("page-basic"), Name: "first"},
		{Template: pageTemplate("page-basic"), Name: "second"},
		{Template: pageTemplate("page-basic"), Name: "third"},
	}
	engine := &fakeEngine{results: map[string]Result{
		"page-basic_second": {Status: StatusRenderFailed, Message: "missing parameter"},
	}}
	var executed []string
	resolver := &fakeResolver{
		perUnit: map[string][]Action{
			"page-basic_first": {&fakeAction{name: "gofmt-first", executed: &executed}},
			"page-basic_third": {&fakeAction{name: "gofmt-third", executed: &executed}},
		},
		global: []Action{&fakeAction{name: "gomod", executed: &executed}},
	}
	orch, tracker, shell := newTestRig(engine, resolver)

	err := orch.Generate(context.Background(), staticComposer{units: units})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation cancelled")

	var genErr *Error
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "second", genErr.UnitName)
	assert.Equal(t, "missing parameter", genErr.Diagnostic)

	// Unit three never runs; neither do the global actions. Actions of the
	// unit that already succeeded have run and are not un-done.
	assert.Equal(t, []string{"page-basic_first", "page-basic_second"}, engine.calls)
	assert.Equal(t, []string{"gofmt-first"}, executed)

	// Rollback happens exactly once and receives exactly the files the
	// succeeded units wrote; the run is reported cancelled and the user
	// sees the failure dialog.
	assert.Equal(t, 1, shell.closedCount)
	assert.Equal(t, []string{"first.go"}, shell.closedWith)
	assert.True(t, shell.cancelled)
	assert.Equal(t, "Generation failed", shell.modalTitle)
	require.Error(t, tracker.cancelledWith)
	assert.False(t, tracker.completed)
}

func TestGenerate_PostActionFailureAborts(t *testing.T) {
	units := []Unit{{Template: pageTemplate("page-basic"), Name: "home"}}
	var executed []string
	resolver := &fakeResolver{
		perUnit: map[string][]Action{
			"page-basic_home": {&fakeAction{name: "gofmt", err: errors.New("gofmt exploded"), executed: &executed}},
		},
	}
	orch, tracker, shell := newTestRig(&fakeEngine{}, resolver)

	err := orch.Generate(context.Background(), staticComposer{units: units})
	require.Error(t, err)

	var paErr *PostActionError
	require.ErrorAs(t, err, &paErr)
	assert.Equal(t, "gofmt", paErr.Action)
	assert.Equal(t, "home", paErr.UnitName)

	assert.Equal(t, 1, shell.closedCount)
	require.Error(t, tracker.cancelledWith)
}

func TestGenerate_GlobalPostActionFailureAborts(t *testing.T) {
	units := []Unit{{Template: pageTemplate("page-basic"), Name: "home"}}
	var executed []string
	resolver := &fakeResolver{
		global: []Action{&fakeAction{name: "manifest-merge", err: errors.New("bad fragment"), executed: &executed}},
	}
	orch, _, shell := newTestRig(&fakeEngine{}, resolver)

	err := orch.Generate(context.Background(), staticComposer{units: units})
	require.Error(t, err)

	var paErr *PostActionError
	require.ErrorAs(t, err, &paErr)
	assert.Empty(t, paErr.UnitName)
	assert.Equal(t, 1, shell.closedCount)
}

func TestGenerate_ComposeErrorPropagatesWithoutRollback(t *testing.T) {
	engine := &fakeEngine{}
	orch, tracker, shell := newTestRig(engine, nil)

	err := orch.Generate(context.Background(), staticComposer{err: errors.New("unknown template")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown template")

	// Nothing ran, so there is nothing to roll back or report.
	assert.Empty(t, engine.calls)
	assert.Equal(t, 0, shell.closedCount)
	assert.Nil(t, tracker.cancelledWith)
	assert.False(t, tracker.completed)
}

func TestGenerate_DuplicateKeysRejectedBeforeInstantiation(t *testing.T) {
	tmpl := pageTemplate("page-basic")
	units := []Unit{
		{Template: tmpl, Name: "home"},
		{Template: tmpl, Name: "home"},
	}
	engine := &fakeEngine{}
	orch, _, shell := newTestRig(engine, nil)

	err := orch.Generate(context.Background(), staticComposer{units: units})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate correlation key")
	assert.Empty(t, engine.calls)
	assert.Equal(t, 0, shell.closedCount)
}

func TestGenerate_RollbackErrorIsReported(t *testing.T) {
	units := []Unit{{Template: pageTemplate("page-basic"), Name: "home"}}
	engine := &fakeEngine{results: map[string]Result{
		"page-basic_home": {Status: StatusWriteFailed, Message: "disk full"},
	}}
	orch, tracker, shell := newTestRig(engine, nil)
	shell.closeErr = errors.New("directory busy")

	err := orch.Generate(context.Background(), staticComposer{units: units})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rollback incomplete")
	assert.Contains(t, tracker.cancelledWith.Error(), "rollback incomplete")
}

func TestGenerate_UnclassifiedTemplateGetsNoProgressMessage(t *testing.T) {
	units := []Unit{{
		Template: &catalog.TemplateDescriptor{ID: "misc", DisplayName: "misc"},
		Name:     "thing",
	}}
	orch, _, shell := newTestRig(&fakeEngine{}, nil)

	err := orch.Generate(context.Background(), staticComposer{units: units})
	require.NoError(t, err)
	assert.Empty(t, shell.progress)
}
