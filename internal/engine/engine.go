// Package engine materializes generation units by rendering catalog
// templates into the output tree.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kestrelhq/kestrel/internal/catalog"
	"github.com/kestrelhq/kestrel/internal/generation"
	"github.com/kestrelhq/kestrel/internal/generator"
)

// templateData is the payload handed to every template file and target-path
// template.
type templateData struct {
	Name   string
	Params map[string]string
}

// TemplateEngine renders descriptor template files through a shared
// Renderer and commits each unit's files as one transaction, so a failing
// unit never leaves partial artifacts behind. It implements
// generation.Engine.
type TemplateEngine struct {
	renderer *generator.Renderer
}

// NewTemplateEngine creates an engine with a fresh template cache.
func NewTemplateEngine() *TemplateEngine {
	return &TemplateEngine{renderer: generator.NewRenderer()}
}

// Instantiate renders every file of tmpl for one instance name. Outcomes
// are reported through the result status:
//
//   - render problems → StatusRenderFailed
//   - an existing, differing file when the update check is enabled →
//     StatusWriteFailed (files identical to the rendered content are
//     skipped as already up to date)
//   - commit problems → StatusWriteFailed, with this unit's partial writes
//     rolled back
//
// previewOnly renders and validates without touching the disk.
func (e *TemplateEngine) Instantiate(ctx context.Context, tmpl *catalog.TemplateDescriptor, name, outputPath string,
	params map[string]string, updateCheckDisabled, previewOnly bool) generation.Result {

	if tmpl == nil {
		return generation.Result{Status: generation.StatusTemplateNotFound, Message: "no template descriptor"}
	}
	if err := ctx.Err(); err != nil {
		return generation.Result{Status: generation.StatusCancelled, Message: err.Error()}
	}

	data := templateData{Name: name, Params: params}
	tx := generator.NewTransaction()

	for _, file := range tmpl.Files {
		dest, content, res := e.renderFile(tmpl, file, data, outputPath)
		if res != nil {
			return *res
		}

		if !updateCheckDisabled {
			existing, err := os.ReadFile(dest)
			if err == nil {
				if bytes.Equal(existing, content) {
					continue // already up to date
				}
				return generation.Result{
					Status:  generation.StatusWriteFailed,
					Message: fmt.Sprintf("%s already exists and differs from the generated content", dest),
				}
			}
		}

		tx.Stage(dest, content, 0644)
	}

	if previewOnly {
		return generation.Result{Status: generation.StatusSuccess}
	}

	if err := tx.Commit(); err != nil {
		return generation.Result{Status: generation.StatusWriteFailed, Message: err.Error()}
	}

	return generation.Result{Status: generation.StatusSuccess, Files: tx.Written()}
}

// Preview renders a unit into pending operations without writing anything,
// for the --preview flow.
func (e *TemplateEngine) Preview(ctx context.Context, tmpl *catalog.TemplateDescriptor, name, outputPath string,
	params map[string]string) ([]generator.Operation, error) {

	if tmpl == nil {
		return nil, fmt.Errorf("no template descriptor")
	}

	data := templateData{Name: name, Params: params}
	ops := make([]generator.Operation, 0, len(tmpl.Files))

	for _, file := range tmpl.Files {
		dest, content, res := e.renderFile(tmpl, file, data, outputPath)
		if res != nil {
			return nil, fmt.Errorf("%s", res.Message)
		}
		ops = append(ops, &generator.WriteFileOp{Path: dest, Content: content, Mode: 0644})
	}

	return ops, nil
}

// renderFile renders one template file and its target path. On failure it
// returns a non-nil failure result.
func (e *TemplateEngine) renderFile(tmpl *catalog.TemplateDescriptor, file catalog.TemplateFile,
	data templateData, outputPath string) (dest string, content []byte, failure *generation.Result) {

	target, err := e.renderer.RenderString(tmpl.ID+":"+file.Target, file.Target, data)
	if err != nil {
		return "", nil, &generation.Result{
			Status:  generation.StatusRenderFailed,
			Message: fmt.Sprintf("rendering target path for %s: %v", file.Source, err),
		}
	}

	content, err = e.renderer.RenderFile(tmpl.SourcePath(file.Source), data)
	if err != nil {
		return "", nil, &generation.Result{
			Status:  generation.StatusRenderFailed,
			Message: fmt.Sprintf("rendering %s: %v", file.Source, err),
		}
	}

	return filepath.Join(outputPath, string(target)), content, nil
}
