// Package input provides interactive terminal prompts for the wizard.
//
// The generation core never prompts; everything interactive happens here,
// before a selection is handed to the composer.
package input

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Prompt asks for text input with an optional default. Pressing Enter with
// no input returns the default.
//
// Example:
//
//	name := input.Prompt("Project name", "myapp")
func Prompt(message, defaultValue string) string {
	reader := bufio.NewReader(os.Stdin)

	if defaultValue != "" {
		fmt.Print(promptStyle.Render(message) + " " +
			hintStyle.Render(fmt.Sprintf("(%s)", defaultValue)) + ": ")
	} else {
		fmt.Print(promptStyle.Render(message) + ": ")
	}

	line, err := reader.ReadString('\n')
	if err != nil {
		return defaultValue
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return defaultValue
	}
	return line
}

// Confirm asks a yes/no question. Empty input returns defaultYes.
func Confirm(message string, defaultYes bool) bool {
	reader := bufio.NewReader(os.Stdin)

	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Print(promptStyle.Render(message) + " " + hintStyle.Render(hint) + ": ")

	line, err := reader.ReadString('\n')
	if err != nil {
		return defaultYes
	}

	line = strings.TrimSpace(strings.ToLower(line))
	if line == "" {
		return defaultYes
	}
	return line == "y" || line == "yes"
}
