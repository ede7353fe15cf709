// Package postaction discovers and implements the deferred file-system
// transformations that run after units materialize.
//
// Discovery is declarative: template descriptors name their actions
// (post_actions for per-unit work, global_post_actions for run-wide work)
// and the resolver maps those names to implementations. Discovery itself
// never touches the file system; side effects happen only when the
// orchestrator executes a returned action.
package postaction

import (
	"path/filepath"
	"strings"

	"github.com/kestrelhq/kestrel/internal/exec"
	"github.com/kestrelhq/kestrel/internal/generation"
)

// Action names recognized in template descriptors.
const (
	ActionGofmt         = "gofmt"
	ActionGoMod         = "gomod"
	ActionManifestMerge = "manifest-merge"
)

// Resolver maps descriptor metadata to executable actions. The same inputs
// always resolve to the same actions in the same order; relative ordering
// between actions is fixed here, not by the orchestrator.
type Resolver struct {
	outputPath string
	executor   *exec.Executor
}

// NewResolver creates a resolver for one run's output tree.
func NewResolver(outputPath string, executor *exec.Executor) *Resolver {
	if executor == nil {
		executor = exec.NewExecutor(nil)
	}
	return &Resolver{outputPath: outputPath, executor: executor}
}

// ForUnit returns the per-unit actions for a successfully materialized unit,
// in descriptor order. Names without an implementation resolve to nothing;
// an empty result is a valid no-op.
func (r *Resolver) ForUnit(unit generation.Unit, result generation.Result) []generation.Action {
	if unit.Template == nil {
		return nil
	}

	var actions []generation.Action
	for _, name := range unit.Template.PostActions {
		switch name {
		case ActionGofmt:
			if goFiles := filterGoFiles(result.Files); len(goFiles) > 0 {
				actions = append(actions, newGofmtAction(r.executor, goFiles))
			}
		}
	}
	return actions
}

// Global returns the run-wide actions contributed by the unit list. Each
// action name runs once no matter how many templates request it, in first-
// requested order. The one exception is gomod, which always sorts before
// manifest-merge so the manifest records a tree that already builds as a
// module.
func (r *Resolver) Global(units []generation.Unit) []generation.Action {
	seen := make(map[string]bool)
	var names []string
	for _, unit := range units {
		if unit.Template == nil {
			continue
		}
		for _, name := range unit.Template.GlobalActions {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	if seen[ActionGoMod] && seen[ActionManifestMerge] {
		names = moveBefore(names, ActionGoMod, ActionManifestMerge)
	}

	var actions []generation.Action
	for _, name := range names {
		switch name {
		case ActionGoMod:
			actions = append(actions, newGoModAction(r.outputPath, units))
		case ActionManifestMerge:
			actions = append(actions, newManifestMergeAction(r.outputPath, units))
		}
	}
	return actions
}

func filterGoFiles(files []string) []string {
	var out []string
	for _, f := range files {
		if strings.HasSuffix(f, ".go") {
			out = append(out, f)
		}
	}
	return out
}

// moveBefore reorders names so first precedes second, preserving the
// relative order of everything else.
func moveBefore(names []string, first, second string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == first {
			continue
		}
		if n == second {
			out = append(out, first)
		}
		out = append(out, n)
	}
	return out
}

func baseName(path string) string {
	return filepath.Base(path)
}
