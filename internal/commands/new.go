package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kestrelhq/kestrel/internal/catalog"
	"github.com/kestrelhq/kestrel/internal/config"
	"github.com/kestrelhq/kestrel/internal/engine"
	"github.com/kestrelhq/kestrel/internal/generation"
	"github.com/kestrelhq/kestrel/internal/generator"
	"github.com/kestrelhq/kestrel/internal/input"
	"github.com/kestrelhq/kestrel/internal/output"
	"github.com/kestrelhq/kestrel/internal/postaction"
	"github.com/kestrelhq/kestrel/internal/shell"
	"github.com/kestrelhq/kestrel/internal/telemetry"
	"github.com/kestrelhq/kestrel/internal/wizard"
)

// NewCmd creates and returns the 'new' command for scaffolding projects.
func NewCmd() *cobra.Command {
	var (
		projectType string
		framework   string
		outputDir   string
		templates   string
		pages       []string
		features    []string
		params      []string
		preview     bool
		noTelemetry bool
	)

	cmd := &cobra.Command{
		Use:   "new [project-name]",
		Short: "Scaffold a new project from the template catalog",
		Long: `Scaffolds a new project, with optional pages and features, in one run.

With --type the selection comes entirely from flags; without it kestrel
opens an interactive picker. Pages and features are given as
template=name pairs and are generated in the order listed.

Examples:
  kestrel new myapp
  kestrel new myapp --type go-cli --param module=github.com/acme/myapp
  kestrel new myapp --type go-cli --page page-basic=home --page page-basic=about
  kestrel new myapp --type go-cli --preview`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectName := args[0]
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			if templates == "" {
				templates = cfg.TemplatesDir
			}
			if outputDir == "" {
				outputDir = cfg.OutputDir
			}
			if framework == "" {
				framework = cfg.Framework
			}

			cat, err := catalog.Load(templates)
			if err != nil {
				return err
			}

			sel, err := buildSelection(cat, projectName, projectType, framework, pages, features, params)
			if err != nil {
				return err
			}
			if sel == nil {
				output.Info("Cancelled.")
				return nil
			}

			outputPath := filepath.Join(outputDir, projectName)
			composer := wizard.NewComposer(cat, *sel)

			if preview {
				return previewRun(ctx, composer, outputPath)
			}

			sink, closeSink := telemetrySink(cfg, noTelemetry)
			defer closeSink()

			orch := generation.New(
				engine.NewTemplateEngine(),
				postaction.NewResolver(outputPath, nil),
				telemetry.NewTracker(sink),
				shell.NewTerminal(outputPath),
				generation.Options{OutputPath: outputPath, Framework: framework},
			)

			if err := orch.Generate(ctx, composer); err != nil {
				return err
			}

			output.Success(fmt.Sprintf("Created project %s", projectName))
			output.Info("Next steps:")
			output.Step(fmt.Sprintf("cd %s", outputPath))
			output.Step("go mod tidy")
			return nil
		},
	}

	cmd.Flags().StringVar(&projectType, "type", "", "Project archetype template ID (interactive when omitted)")
	cmd.Flags().StringVar(&framework, "framework", "", "Target framework identifier")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory the project is created under")
	cmd.Flags().StringVar(&templates, "templates", "", "Template catalog directory")
	cmd.Flags().StringArrayVar(&pages, "page", nil, "Page to add, as template=name (repeatable)")
	cmd.Flags().StringArrayVar(&features, "feature", nil, "Feature to add, as template=name (repeatable)")
	cmd.Flags().StringArrayVar(&params, "param", nil, "Project parameter, as key=value (repeatable)")
	cmd.Flags().BoolVar(&preview, "preview", false, "Show what would be generated without writing files")
	cmd.Flags().BoolVar(&noTelemetry, "no-telemetry", false, "Disable telemetry for this run")

	return cmd
}

// buildSelection assembles the wizard selection from flags, falling back to
// interactive pickers when --type is omitted. A nil selection with nil error
// means the user cancelled.
func buildSelection(cat *catalog.Catalog, projectName, projectType, framework string,
	pages, features, params []string) (*wizard.Selection, error) {

	interactive := projectType == ""
	if interactive {
		picked, err := pickProjectType(cat)
		if err != nil {
			return nil, err
		}
		if picked == "" {
			return nil, nil
		}
		projectType = picked
	}

	sel := &wizard.Selection{
		ProjectType: projectType,
		Framework:   framework,
		ProjectName: projectName,
	}

	var err error
	if sel.Params, err = parsePairs(params); err != nil {
		return nil, err
	}

	items, err := parseItems(pages)
	if err != nil {
		return nil, err
	}
	sel.Items = items

	featureItems, err := parseItems(features)
	if err != nil {
		return nil, err
	}
	sel.Items = append(sel.Items, featureItems...)

	if interactive && len(sel.Items) == 0 {
		items, err := pickPages(cat)
		if err != nil {
			return nil, err
		}
		sel.Items = items
	}

	return sel, nil
}

func pickProjectType(cat *catalog.Catalog) (string, error) {
	projects := cat.ByClassification(catalog.ClassificationProject)
	if len(projects) == 0 {
		return "", fmt.Errorf("template catalog has no project templates")
	}

	choices := make([]input.Choice, 0, len(projects))
	for _, t := range projects {
		choices = append(choices, input.Choice{ID: t.ID, Label: t.DisplayName, Hint: t.Description})
	}
	return input.SelectOne("What kind of project?", choices)
}

// pickPages offers the page templates and prompts for an instance name per
// pick. Default names are numbered off the template ID.
func pickPages(cat *catalog.Catalog) ([]wizard.ItemRef, error) {
	pages := cat.ByClassification(catalog.ClassificationPage)
	if len(pages) == 0 {
		return nil, nil
	}

	choices := make([]input.Choice, 0, len(pages))
	for _, t := range pages {
		choices = append(choices, input.Choice{ID: t.ID, Label: t.DisplayName, Hint: t.Description})
	}

	picked, err := input.SelectMany("Add pages? (optional)", choices)
	if err != nil {
		return nil, err
	}

	items := make([]wizard.ItemRef, 0, len(picked))
	for i, id := range picked {
		name := input.Prompt(fmt.Sprintf("Name for %s", id), fmt.Sprintf("%s%d", id, i+1))
		items = append(items, wizard.ItemRef{TemplateID: id, Name: name})
	}
	return items, nil
}

// previewRun renders every unit without writing and prints a diff against
// whatever already exists on disk.
func previewRun(ctx context.Context, composer *wizard.Composer, outputPath string) error {
	units, err := composer.Compose(ctx)
	if err != nil {
		return err
	}

	eng := engine.NewTemplateEngine()
	for _, unit := range units {
		if unit.Template == nil {
			continue
		}

		ops, err := eng.Preview(ctx, unit.Template, unit.Name, outputPath, unit.Params)
		if err != nil {
			return fmt.Errorf("previewing %s: %w", unit.Name, err)
		}

		for _, op := range ops {
			w, ok := op.(*generator.WriteFileOp)
			if !ok {
				continue
			}
			existing, err := os.ReadFile(w.Path)
			if err != nil {
				existing = nil
			}
			fmt.Println(generator.Diff(w.Path, existing, w.Content))
		}
	}

	output.Info("Preview only; nothing was written.")
	return nil
}

func telemetrySink(cfg *config.Config, disabled bool) (telemetry.Sink, func()) {
	if disabled || !cfg.Telemetry.Enabled {
		return telemetry.Nop{}, func() {}
	}

	file, err := telemetry.NewFileSink(cfg.Telemetry.Path)
	if err != nil {
		output.Verbose(fmt.Sprintf("telemetry disabled: %v", err))
		return telemetry.Nop{}, func() {}
	}

	d := telemetry.NewDispatcher(file, 0)
	return d, func() {
		d.Close()
		file.Close()
	}
}

// parseItems parses repeated template=name flags in order.
func parseItems(specs []string) ([]wizard.ItemRef, error) {
	items := make([]wizard.ItemRef, 0, len(specs))
	for _, s := range specs {
		id, name, ok := strings.Cut(s, "=")
		if !ok || id == "" || name == "" {
			return nil, fmt.Errorf("invalid item %q, want template=name", s)
		}
		items = append(items, wizard.ItemRef{TemplateID: id, Name: name})
	}
	return items, nil
}

func parsePairs(specs []string) (map[string]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(specs))
	for _, s := range specs {
		k, v, ok := strings.Cut(s, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid parameter %q, want key=value", s)
		}
		out[k] = v
	}
	return out, nil
}
