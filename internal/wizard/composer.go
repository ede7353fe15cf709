package wizard

import (
	"context"
	"fmt"

	"github.com/kestrelhq/kestrel/internal/catalog"
	"github.com/kestrelhq/kestrel/internal/generation"
)

// Composer maps a selection onto catalog descriptors. Compose is pure and
// deterministic: equal selections over the same catalog always yield the
// same unit sequence.
type Composer struct {
	catalog   *catalog.Catalog
	selection Selection
}

// NewComposer creates a composer for one selection.
func NewComposer(cat *catalog.Catalog, sel Selection) *Composer {
	return &Composer{catalog: cat, selection: sel}
}

// Compose builds the ordered unit list: the project-scaffold unit first when
// the selection names one, then page/feature units in selection order.
// Placeholder items (empty template ID) become nil-template units. A
// non-empty template ID that is missing from the catalog is a composition
// error.
func (c *Composer) Compose(ctx context.Context) ([]generation.Unit, error) {
	units := make([]generation.Unit, 0, len(c.selection.Items)+1)

	if c.selection.ProjectType != "" {
		tmpl, ok := c.catalog.Get(c.selection.ProjectType)
		if !ok {
			return nil, fmt.Errorf("unknown project template %q", c.selection.ProjectType)
		}
		units = append(units, generation.Unit{
			Template: tmpl,
			Name:     c.selection.ProjectName,
			Params:   mergeParams(tmpl.Defaults, c.selection.Params),
		})
	}

	for _, item := range c.selection.Items {
		if item.TemplateID == "" {
			units = append(units, generation.Unit{Name: item.Name})
			continue
		}

		tmpl, ok := c.catalog.Get(item.TemplateID)
		if !ok {
			return nil, fmt.Errorf("unknown template %q for item %q", item.TemplateID, item.Name)
		}
		units = append(units, generation.Unit{
			Template: tmpl,
			Name:     item.Name,
			Params:   mergeParams(tmpl.Defaults, item.Params),
		})
	}

	return units, nil
}

// mergeParams layers item parameters over template defaults. Neither input
// map is mutated.
func mergeParams(defaults, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
