// Package shell is the host boundary between the generation core and the
// terminal: progress lines, failure dialogs, and rollback of partial output.
package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	kestrel "github.com/kestrelhq/kestrel"
	"github.com/kestrelhq/kestrel/internal/input"
	"github.com/kestrelhq/kestrel/internal/output"
)

var modalStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("red")).
	Padding(0, 1)

// Terminal renders shell interactions on the terminal. One Terminal is
// scoped to one run's output directory.
type Terminal struct {
	outputPath string
	cancelled  bool

	// confirm is swappable in tests; defaults to input.Confirm.
	confirm func(message string, defaultYes bool) bool
}

// NewTerminal creates a shell for a run writing into outputPath.
func NewTerminal(outputPath string) *Terminal {
	return &Terminal{
		outputPath: outputPath,
		confirm:    input.Confirm,
	}
}

// ShowProgress prints a transient status line.
func (t *Terminal) ShowProgress(text string) {
	output.Progress(text)
}

// ShowModal renders a bordered failure dialog. The version line lets bug
// reports identify the build that produced the failure.
func (t *Terminal) ShowModal(title, body string) {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("kestrel %s", kestrel.Version))
	output.Error(title)
	fmt.Fprintln(os.Stderr, modalStyle.Render(b.String()))
}

// ClosePartialOutput removes exactly the files a failed run wrote and prunes
// any directories the removals leave empty, up to and including the output
// directory. Files that existed before the run stay untouched, so generating
// into a populated tree never destroys user work. Called exactly once per
// failed run, before the run is marked cancelled.
func (t *Terminal) ClosePartialOutput(written []string) error {
	var failed []string
	for i := len(written) - 1; i >= 0; i-- {
		if err := os.Remove(written[i]); err != nil && !os.IsNotExist(err) {
			failed = append(failed, err.Error())
			continue
		}
		t.pruneEmptyDirs(filepath.Dir(written[i]))
	}

	if len(failed) > 0 {
		return fmt.Errorf("removing partial output: %s", strings.Join(failed, "; "))
	}
	if len(written) > 0 {
		output.Warn(fmt.Sprintf("Removed %d partially generated file(s)", len(written)))
	}
	return nil
}

// pruneEmptyDirs removes dir and its parents while they are empty and still
// inside the run's output directory.
func (t *Terminal) pruneEmptyDirs(dir string) {
	root := filepath.Clean(t.outputPath)
	if root == "" || root == "." {
		return
	}

	for {
		dir = filepath.Clean(dir)
		if dir != root && !strings.HasPrefix(dir, root+string(filepath.Separator)) {
			return
		}
		if err := os.Remove(dir); err != nil {
			return // non-empty, already gone, or not ours to remove
		}
		if dir == root {
			return
		}
		dir = filepath.Dir(dir)
	}
}

// CancelRun marks the run cancelled. With showConfirmation the user is asked
// first; declining leaves the run active.
func (t *Terminal) CancelRun(showConfirmation bool) {
	if showConfirmation && !t.confirm("Cancel the current run?", false) {
		return
	}
	t.cancelled = true
}

// Cancelled reports whether CancelRun took effect.
func (t *Terminal) Cancelled() bool {
	return t.cancelled
}
