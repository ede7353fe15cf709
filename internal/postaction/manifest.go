package postaction

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kestrelhq/kestrel/internal/filesystem"
	"github.com/kestrelhq/kestrel/internal/generation"
	"github.com/kestrelhq/kestrel/internal/generator"
)

// manifestFileName is the merged manifest at the output root.
const manifestFileName = "kestrel.manifest.yml"

// fragmentPattern matches per-unit manifest fragments emitted by templates.
const fragmentPattern = "*.fragment.yml"

// manifestEntry records one generated page or feature.
type manifestEntry struct {
	Name     string `yaml:"name"`
	Template string `yaml:"template"`
}

// manifest is the merged picture of everything generated into the tree.
type manifest struct {
	Project  string          `yaml:"project,omitempty"`
	Pages    []manifestEntry `yaml:"pages,omitempty"`
	Features []manifestEntry `yaml:"features,omitempty"`
}

// manifestMergeAction is a global action: it collects the manifest fragments
// templates wrote next to their artifacts, merges them with entries derived
// from the unit list, writes one manifest at the output root, and deletes
// the fragments. It inspects cross-unit relationships, so it can only run
// after every unit has materialized.
type manifestMergeAction struct {
	outputPath string
	units      []generation.Unit
}

func newManifestMergeAction(outputPath string, units []generation.Unit) *manifestMergeAction {
	return &manifestMergeAction{outputPath: outputPath, units: units}
}

func (a *manifestMergeAction) Execute(ctx context.Context) error {
	merged := manifest{}

	for _, unit := range a.units {
		if unit.Template == nil {
			continue
		}
		entry := manifestEntry{Name: unit.Name, Template: unit.Template.ID}
		switch unit.Template.Classification.String() {
		case "project":
			merged.Project = unit.Name
		case "page":
			merged.Pages = appendEntry(merged.Pages, entry)
		case "dev-feature", "consumer-feature":
			merged.Features = appendEntry(merged.Features, entry)
		}
	}

	fragments, err := filesystem.FindFiles(a.outputPath, fragmentPattern)
	if err != nil {
		return fmt.Errorf("scanning for manifest fragments: %w", err)
	}

	for _, path := range fragments {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading fragment %s: %w", path, err)
		}

		var frag manifest
		if err := yaml.Unmarshal(data, &frag); err != nil {
			return fmt.Errorf("parsing fragment %s: %w", path, err)
		}

		for _, e := range frag.Pages {
			merged.Pages = appendEntry(merged.Pages, e)
		}
		for _, e := range frag.Features {
			merged.Features = appendEntry(merged.Features, e)
		}
	}

	out, err := yaml.Marshal(&merged)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	// Write the manifest and consume the fragments as one operation batch.
	// Force allows overwriting the manifest from a previous run.
	ops := make([]generator.Operation, 0, len(fragments)+1)
	ops = append(ops, &generator.WriteFileOp{
		Path:    filepath.Join(a.outputPath, manifestFileName),
		Content: out,
		Mode:    0644,
	})
	for _, path := range fragments {
		ops = append(ops, &generator.DeleteFileOp{Path: path})
	}

	if err := generator.Execute(ctx, ops, generator.ExecuteOptions{Force: true, Writer: io.Discard}); err != nil {
		return fmt.Errorf("applying manifest merge: %w", err)
	}
	return nil
}

func (a *manifestMergeAction) Description() string {
	return "Merge generation manifests"
}

// appendEntry adds an entry unless an identical one is already present.
func appendEntry(entries []manifestEntry, entry manifestEntry) []manifestEntry {
	for _, e := range entries {
		if e == entry {
			return entries
		}
	}
	return append(entries, entry)
}
