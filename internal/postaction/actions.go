package postaction

import (
	"context"
	"fmt"

	"github.com/kestrelhq/kestrel/internal/exec"
	"github.com/kestrelhq/kestrel/internal/generation"
	"github.com/kestrelhq/kestrel/internal/project"
)

// gofmtAction reformats the Go files a unit wrote.
type gofmtAction struct {
	executor *exec.Executor
	files    []string
}

func newGofmtAction(executor *exec.Executor, files []string) *gofmtAction {
	return &gofmtAction{executor: executor, files: files}
}

func (a *gofmtAction) Execute(ctx context.Context) error {
	args := append([]string{"-w"}, a.files...)
	return a.executor.RunWithSpinner(ctx, a.Description(), "gofmt", args...)
}

func (a *gofmtAction) Description() string {
	if len(a.files) == 1 {
		return fmt.Sprintf("gofmt %s", baseName(a.files[0]))
	}
	return fmt.Sprintf("gofmt %d files", len(a.files))
}

// goModAction makes sure the generated tree is a Go module. An existing
// go.mod is validated and left alone; a missing one is initialized from the
// project unit's "module" parameter.
type goModAction struct {
	outputPath string
	modulePath string
	goVersion  string
}

func newGoModAction(outputPath string, units []generation.Unit) *goModAction {
	a := &goModAction{outputPath: outputPath, goVersion: "1.25"}
	for _, unit := range units {
		if unit.Template == nil {
			continue
		}
		if mod, ok := unit.Params["module"]; ok && mod != "" {
			a.modulePath = mod
			break
		}
	}
	return a
}

func (a *goModAction) Execute(ctx context.Context) error {
	if _, err := project.DetectModule(a.outputPath); err == nil {
		return nil
	}

	if a.modulePath == "" {
		return fmt.Errorf("no go.mod in %s and no module parameter to initialize one", a.outputPath)
	}
	return project.InitModule(a.outputPath, a.modulePath, a.goVersion)
}

func (a *goModAction) Description() string {
	return "Initialize Go module"
}
