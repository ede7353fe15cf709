package postaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelhq/kestrel/internal/catalog"
	"github.com/kestrelhq/kestrel/internal/generation"
)

func unitWith(id string, class catalog.Classification, post, global []string) generation.Unit {
	return generation.Unit{
		Template: &catalog.TemplateDescriptor{
			ID:             id,
			DisplayName:    id,
			Classification: class,
			PostActions:    post,
			GlobalActions:  global,
		},
		Name: id + "-instance",
	}
}

func TestForUnit_GofmtOnlyWithGoFiles(t *testing.T) {
	r := NewResolver(t.TempDir(), nil)
	unit := unitWith("page-basic", catalog.ClassificationPage, []string{ActionGofmt}, nil)

	actions := r.ForUnit(unit, generation.Result{Files: []string{"pages/home.go", "pages/home.yml"}})
	require.Len(t, actions, 1)
	assert.Contains(t, actions[0].Description(), "gofmt")

	// No Go files, no gofmt.
	actions = r.ForUnit(unit, generation.Result{Files: []string{"pages/home.yml"}})
	assert.Empty(t, actions)
}

func TestForUnit_PlaceholderAndUnknownNames(t *testing.T) {
	r := NewResolver(t.TempDir(), nil)

	assert.Empty(t, r.ForUnit(generation.Unit{Name: "placeholder"}, generation.Result{}))

	unit := unitWith("odd", catalog.ClassificationPage, []string{"no-such-action"}, nil)
	assert.Empty(t, r.ForUnit(unit, generation.Result{Files: []string{"a.go"}}))
}

func TestForUnit_Deterministic(t *testing.T) {
	r := NewResolver(t.TempDir(), nil)
	unit := unitWith("page-basic", catalog.ClassificationPage, []string{ActionGofmt}, nil)
	res := generation.Result{Files: []string{"a.go"}}

	first := r.ForUnit(unit, res)
	second := r.ForUnit(unit, res)
	require.Len(t, first, len(second))
	for i := range first {
		assert.Equal(t, first[i].Description(), second[i].Description())
	}
}

func TestGlobal_DedupesAcrossUnits(t *testing.T) {
	r := NewResolver(t.TempDir(), nil)
	units := []generation.Unit{
		unitWith("go-cli", catalog.ClassificationProject, nil, []string{ActionManifestMerge}),
		unitWith("page-a", catalog.ClassificationPage, nil, []string{ActionManifestMerge}),
		unitWith("page-b", catalog.ClassificationPage, nil, []string{ActionManifestMerge}),
	}

	actions := r.Global(units)
	require.Len(t, actions, 1)
	assert.Equal(t, "Merge generation manifests", actions[0].Description())
}

func TestGlobal_GoModRunsBeforeManifestMerge(t *testing.T) {
	r := NewResolver(t.TempDir(), nil)

	// manifest-merge is requested first, gomod later; the resolver still
	// orders gomod ahead of it.
	units := []generation.Unit{
		unitWith("page-a", catalog.ClassificationPage, nil, []string{ActionManifestMerge}),
		unitWith("go-cli", catalog.ClassificationProject, nil, []string{ActionGoMod}),
	}

	actions := r.Global(units)
	require.Len(t, actions, 2)
	assert.Equal(t, "Initialize Go module", actions[0].Description())
	assert.Equal(t, "Merge generation manifests", actions[1].Description())
}

func TestGlobal_UnknownNamesResolveToNothing(t *testing.T) {
	r := NewResolver(t.TempDir(), nil)
	units := []generation.Unit{
		unitWith("odd", catalog.ClassificationPage, nil, []string{"telemetry-upload"}),
	}
	assert.Empty(t, r.Global(units))
}
