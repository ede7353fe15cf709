// Package output provides styled terminal output for the kestrel CLI.
//
// All user-facing messages go through this package so the wizard keeps a
// consistent look. Styling is done with lipgloss but callers never touch
// styles directly.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("magenta"))
	stepStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	verboseMode bool
	writer      io.Writer = os.Stdout
)

// SetVerbose enables or disables verbose output. Wired to the --verbose flag
// by the root command.
func SetVerbose(v bool) {
	verboseMode = v
}

// SetWriter redirects all output, for capturing in tests.
func SetWriter(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	writer = w
}

// Success prints a completed-operation message in green.
func Success(msg string) {
	fmt.Fprintln(writer, successStyle.Render("✔ "+msg))
}

// Error prints a failure message in red.
func Error(msg string) {
	fmt.Fprintln(writer, errorStyle.Render("✖ "+msg))
}

// Warn prints a warning in yellow for recoverable problems.
func Warn(msg string) {
	fmt.Fprintln(writer, warnStyle.Render("⚠ "+msg))
}

// Info prints a status update or explanation in cyan.
func Info(msg string) {
	fmt.Fprintln(writer, infoStyle.Render("• "+msg))
}

// Progress prints a transient advisory line for long-running work.
// These messages never affect control flow.
func Progress(msg string) {
	fmt.Fprintln(writer, progressStyle.Render("… "+msg))
}

// Step prints an indented follow-up action in gray.
//
// Example:
//
//	output.Step("cd myapp")
//	output.Step("go mod tidy")
func Step(msg string) {
	fmt.Fprintln(writer, stepStyle.Render("   "+msg))
}

// Verbose prints a debug line only when verbose mode is on.
func Verbose(msg string) {
	if verboseMode {
		fmt.Fprintln(writer, stepStyle.Render("· "+msg))
	}
}
