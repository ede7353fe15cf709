package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/kestrelhq/kestrel/internal/catalog"
)

// Engine materializes one unit into the output tree. The outcome is always
// expressed through the Result; engines convert their internal errors into
// failure statuses with a diagnostic message.
type Engine interface {
	Instantiate(ctx context.Context, tmpl *catalog.TemplateDescriptor, name, outputPath string,
		params map[string]string, updateCheckDisabled, previewOnly bool) Result
}

// Action is a deferred file-system transformation applied after a unit (or
// the whole run) has materialized.
type Action interface {
	Execute(ctx context.Context) error
	Description() string
}

// Resolver discovers the post-actions applicable to a unit or to the run as
// a whole. Discovery has no side effects and returns actions pre-sorted in
// execution order. An empty list is a valid no-op.
type Resolver interface {
	ForUnit(unit Unit, result Result) []Action
	Global(units []Unit) []Action
}

// Tracker records what a run produced. All methods are best effort: they
// must never fail the pipeline.
type Tracker interface {
	Track(ctx context.Context, units []Unit, results map[string]Result, elapsed time.Duration, framework string)
	RunCompleted(elapsed time.Duration, framework string)
	RunCancelled(err error)
}

// Shell is the host boundary: progress notifications, error dialogs, and
// rollback of the files a failed run wrote. Rollback receives the written
// paths explicitly; anything already present before the run is not the
// shell's to remove.
type Shell interface {
	ShowProgress(text string)
	ShowModal(title, body string)
	ClosePartialOutput(written []string) error
	CancelRun(showConfirmation bool)
}

// Composer materializes the ordered unit list for a run.
type Composer interface {
	Compose(ctx context.Context) ([]Unit, error)
}

// progressMessages maps template classifications to their advisory status
// text. Classifications without an entry produce no message.
var progressMessages = map[catalog.Classification]string{
	catalog.ClassificationProject:         "Generating project %s...",
	catalog.ClassificationPage:            "Adding page %s...",
	catalog.ClassificationDevFeature:      "Adding feature %s...",
	catalog.ClassificationConsumerFeature: "Adding feature %s...",
}

// Options holds the run-scoped context for an orchestrator. Nothing here is
// ever read from process-wide state.
type Options struct {
	OutputPath string // run-scoped output directory
	Framework  string // selected framework identifier, recorded in telemetry
}

// Orchestrator drives one generation run: sequential instantiation, per-unit
// and global post-actions, rollback on failure, telemetry on the way out.
type Orchestrator struct {
	engine     Engine
	resolver   Resolver
	tracker    Tracker
	shell      Shell
	outputPath string
	framework  string
}

// New wires an orchestrator from its collaborators.
func New(engine Engine, resolver Resolver, tracker Tracker, shell Shell, opts Options) *Orchestrator {
	return &Orchestrator{
		engine:     engine,
		resolver:   resolver,
		tracker:    tracker,
		shell:      shell,
		outputPath: opts.OutputPath,
		framework:  opts.Framework,
	}
}

// Generate runs the full pipeline for one selection. Composition errors
// propagate as-is; they happen before any file is written, so there is
// nothing to roll back. Failures inside the instantiation or post-action
// phase roll back the partial output, surface an error dialog, and return
// the run as cancelled. Tracking failures are absorbed by the tracker and
// never change the reported outcome.
func (o *Orchestrator) Generate(ctx context.Context, composer Composer) error {
	units, err := composer.Compose(ctx)
	if err != nil {
		return fmt.Errorf("composing generation units: %w", err)
	}

	run, err := NewRun(units)
	if err != nil {
		return err
	}

	// The timer covers instantiation and post-actions only.
	start := time.Now()
	genErr := o.generate(ctx, run)
	run.elapsed = time.Since(start)

	if genErr != nil {
		o.abort(run, genErr)
		return fmt.Errorf("generation cancelled: %w", genErr)
	}

	o.tracker.Track(ctx, run.Units(), run.Results(), run.Elapsed(), o.framework)
	o.tracker.RunCompleted(run.Elapsed(), o.framework)
	return nil
}

// generate is the per-unit loop. It returns the first terminal failure
// instead of raising it, so the abort path is an explicit branch in
// Generate.
func (o *Orchestrator) generate(ctx context.Context, run *Run) error {
	for _, unit := range run.Units() {
		if unit.Template == nil {
			continue
		}

		if msg, ok := progressText(unit); ok {
			o.shell.ShowProgress(msg)
		}

		res := o.engine.Instantiate(ctx, unit.Template, unit.Name, o.outputPath, unit.Params, false, false)
		if err := run.Record(unit.Key(), res); err != nil {
			return err
		}

		if res.Failed() {
			return &Error{
				UnitName:     unit.Name,
				TemplateName: unit.Template.DisplayName,
				Diagnostic:   res.Message,
			}
		}

		for _, action := range o.resolver.ForUnit(unit, res) {
			if err := action.Execute(ctx); err != nil {
				return &PostActionError{Action: action.Description(), UnitName: unit.Name, Err: err}
			}
		}
	}

	for _, action := range o.resolver.Global(run.Units()) {
		if err := action.Execute(ctx); err != nil {
			return &PostActionError{Action: action.Description(), Err: err}
		}
	}

	return nil
}

// abort is the single failure boundary: discard what the run wrote, report
// to telemetry and the user, mark the run cancelled.
func (o *Orchestrator) abort(run *Run, genErr error) {
	if err := o.shell.ClosePartialOutput(writtenFiles(run)); err != nil {
		genErr = fmt.Errorf("%w (rollback incomplete: %v)", genErr, err)
	}

	o.tracker.RunCancelled(genErr)
	o.shell.ShowModal("Generation failed", genErr.Error())
	o.shell.CancelRun(false)
}

// writtenFiles collects every path the run's recorded results wrote, in
// write order. Failed units contribute nothing: the engine rolls back its
// own transaction before reporting a failure.
func writtenFiles(run *Run) []string {
	var files []string
	for _, key := range run.Keys() {
		if res, ok := run.Result(key); ok {
			files = append(files, res.Files...)
		}
	}
	return files
}

func progressText(unit Unit) (string, bool) {
	format, ok := progressMessages[unit.Template.Classification]
	if !ok {
		return "", false
	}
	return fmt.Sprintf(format, unit.Name), true
}
