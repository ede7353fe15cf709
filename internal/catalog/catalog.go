// Package catalog loads template descriptors from an on-disk template
// catalog.
//
// A catalog is a directory of template directories. Each template directory
// contains a template.yml descriptor plus the .tmpl files it instantiates:
//
//	templates/
//	  go-cli/
//	    template.yml
//	    main.go.tmpl
//	  page-basic/
//	    template.yml
//	    page.go.tmpl
//
// Descriptors are read once at load time and are read-only afterwards.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Classification groups templates by what they scaffold.
type Classification int

const (
	ClassificationOther Classification = iota
	ClassificationProject
	ClassificationPage
	ClassificationDevFeature
	ClassificationConsumerFeature
)

var classificationNames = map[Classification]string{
	ClassificationProject:         "project",
	ClassificationPage:            "page",
	ClassificationDevFeature:      "dev-feature",
	ClassificationConsumerFeature: "consumer-feature",
	ClassificationOther:           "other",
}

var classificationValues = map[string]Classification{
	"project":          ClassificationProject,
	"page":             ClassificationPage,
	"dev-feature":      ClassificationDevFeature,
	"consumer-feature": ClassificationConsumerFeature,
	"other":            ClassificationOther,
}

func (c Classification) String() string {
	if name, ok := classificationNames[c]; ok {
		return name
	}
	return "other"
}

// UnmarshalYAML parses a classification from its descriptor string form.
// Unknown values map to Other rather than failing the whole catalog.
func (c *Classification) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*c = classificationValues[raw]
	return nil
}

// TemplateFile maps one template source file to its rendered target path.
// Target is itself a template, so instance names can appear in paths
// (e.g. "pages/{{snakeCase .Name}}.go").
type TemplateFile struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// TemplateDescriptor is one catalog entry. Identity is the template
// directory name; everything else comes from template.yml.
type TemplateDescriptor struct {
	ID             string            `yaml:"-"`
	DisplayName    string            `yaml:"name"`
	Classification Classification    `yaml:"classification"`
	Description    string            `yaml:"description"`
	Files          []TemplateFile    `yaml:"files"`
	Defaults       map[string]string `yaml:"defaults"`
	PostActions    []string          `yaml:"post_actions"`
	GlobalActions  []string          `yaml:"global_post_actions"`

	dir string // absolute template directory, for resolving Source paths
}

// Dir returns the template's directory on disk.
func (t *TemplateDescriptor) Dir() string {
	return t.dir
}

// SourcePath resolves a template source file against the template directory.
func (t *TemplateDescriptor) SourcePath(source string) string {
	return filepath.Join(t.dir, source)
}

// Catalog is an immutable set of loaded template descriptors.
type Catalog struct {
	templates map[string]*TemplateDescriptor
	ids       []string // sorted, for deterministic listing
}

// Load reads every template descriptor under dir. Subdirectories without a
// template.yml are ignored; a malformed descriptor fails the load.
func Load(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog directory %s: %w", dir, err)
	}

	c := &Catalog{templates: make(map[string]*TemplateDescriptor)}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		tmplDir := filepath.Join(dir, entry.Name())
		descPath := filepath.Join(tmplDir, "template.yml")
		data, err := os.ReadFile(descPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", descPath, err)
		}

		desc := &TemplateDescriptor{}
		if err := yaml.Unmarshal(data, desc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", descPath, err)
		}

		desc.ID = entry.Name()
		desc.dir = tmplDir
		if desc.DisplayName == "" {
			desc.DisplayName = desc.ID
		}
		if err := validateDescriptor(desc); err != nil {
			return nil, fmt.Errorf("template %s: %w", desc.ID, err)
		}

		c.templates[desc.ID] = desc
		c.ids = append(c.ids, desc.ID)
	}

	sort.Strings(c.ids)
	return c, nil
}

func validateDescriptor(desc *TemplateDescriptor) error {
	if len(desc.Files) == 0 {
		return fmt.Errorf("descriptor lists no files")
	}
	for _, f := range desc.Files {
		if f.Source == "" || f.Target == "" {
			return fmt.Errorf("file entry needs both source and target")
		}
		if _, err := os.Stat(desc.SourcePath(f.Source)); err != nil {
			return fmt.Errorf("missing template file %s: %w", f.Source, err)
		}
	}
	return nil
}

// Get returns the descriptor with the given ID.
func (c *Catalog) Get(id string) (*TemplateDescriptor, bool) {
	t, ok := c.templates[id]
	return t, ok
}

// Len returns the number of loaded templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// All returns every descriptor in sorted ID order.
func (c *Catalog) All() []*TemplateDescriptor {
	out := make([]*TemplateDescriptor, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.templates[id])
	}
	return out
}

// ByClassification returns descriptors of one classification in sorted ID
// order.
func (c *Catalog) ByClassification(class Classification) []*TemplateDescriptor {
	var out []*TemplateDescriptor
	for _, id := range c.ids {
		if t := c.templates[id]; t.Classification == class {
			out = append(out, t)
		}
	}
	return out
}
