// Package wizard turns a user's template selection into the ordered unit
// list the orchestrator consumes.
package wizard

// ItemRef names one chosen page or feature template. An empty TemplateID
// marks a placeholder entry (a separator or not-yet-available item from the
// selection UI); placeholders compose into units the orchestrator skips.
type ItemRef struct {
	TemplateID string
	Name       string
	Params     map[string]string
}

// Selection is everything the user chose: the project archetype, the target
// framework, and the ordered pages/features. It is immutable once handed to
// the composer and consumed exactly once.
type Selection struct {
	ProjectType string // project archetype template ID, "" when scaffolding into an existing tree
	Framework   string
	ProjectName string
	Items       []ItemRef
	Params      map[string]string // project-level parameters
}
