package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kestrelhq/kestrel/internal/catalog"
	"github.com/kestrelhq/kestrel/internal/config"
	"github.com/kestrelhq/kestrel/internal/output"
)

// TemplatesCmd creates and returns the 'templates' command listing the
// catalog.
func TemplatesCmd() *cobra.Command {
	var templates string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the templates available in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return err
			}
			if templates == "" {
				templates = cfg.TemplatesDir
			}

			cat, err := catalog.Load(templates)
			if err != nil {
				return err
			}
			if cat.Len() == 0 {
				output.Warn(fmt.Sprintf("No templates found in %s", templates))
				return nil
			}

			groups := []struct {
				label string
				class catalog.Classification
			}{
				{"Projects", catalog.ClassificationProject},
				{"Pages", catalog.ClassificationPage},
				{"Dev features", catalog.ClassificationDevFeature},
				{"Consumer features", catalog.ClassificationConsumerFeature},
				{"Other", catalog.ClassificationOther},
			}

			for _, g := range groups {
				entries := cat.ByClassification(g.class)
				if len(entries) == 0 {
					continue
				}
				output.Info(g.label)
				for _, t := range entries {
					line := fmt.Sprintf("%-24s %s", t.ID, t.DisplayName)
					if t.Description != "" {
						line += " — " + t.Description
					}
					output.Step(line)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&templates, "templates", "", "Template catalog directory")

	return cmd
}
