package input

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Choice is one selectable entry in a menu.
type Choice struct {
	ID    string // stable identifier returned to the caller
	Label string // display name
	Hint  string // dimmed description shown after the label
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("white")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	checkedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// SelectOne shows a single-choice menu and returns the chosen ID.
// Returns "" if the user cancels.
func SelectOne(title string, choices []Choice) (string, error) {
	m := newMenuModel(title, choices, false)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", fmt.Errorf("showing menu: %w", err)
	}

	result := final.(menuModel)
	if result.cancelled || len(result.picked) == 0 {
		return "", nil
	}
	return result.picked[0], nil
}

// SelectMany shows a multi-choice menu (space toggles, enter accepts) and
// returns the chosen IDs in display order. Returns nil if the user cancels.
func SelectMany(title string, choices []Choice) ([]string, error) {
	m := newMenuModel(title, choices, true)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return nil, fmt.Errorf("showing menu: %w", err)
	}

	result := final.(menuModel)
	if result.cancelled {
		return nil, nil
	}
	return result.picked, nil
}

type menuModel struct {
	title     string
	choices   []Choice
	multi     bool
	cursor    int
	checked   map[int]bool
	picked    []string
	cancelled bool
}

func newMenuModel(title string, choices []Choice, multi bool) menuModel {
	return menuModel{
		title:   title,
		choices: choices,
		multi:   multi,
		checked: make(map[int]bool),
	}
}

func (m menuModel) Init() tea.Cmd {
	return nil
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}

		case " ":
			if m.multi {
				m.checked[m.cursor] = !m.checked[m.cursor]
			}

		case "enter":
			if m.multi {
				for i, c := range m.choices {
					if m.checked[i] {
						m.picked = append(m.picked, c.ID)
					}
				}
			} else {
				m.picked = []string{m.choices[m.cursor].ID}
			}
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m menuModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title) + "\n\n")

	if m.multi {
		b.WriteString(mutedStyle.Render("    [↑/↓] Navigate    [Space] Toggle    [Enter] Accept    [q] Cancel") + "\n\n")
	} else {
		b.WriteString(mutedStyle.Render("    [↑/↓] Navigate    [Enter] Select    [q] Cancel") + "\n\n")
	}

	for i, choice := range m.choices {
		line := choice.Label
		if choice.Hint != "" {
			line += " " + mutedStyle.Render("— "+choice.Hint)
		}

		marker := "  "
		if m.multi {
			marker = "[ ] "
			if m.checked[i] {
				marker = checkedStyle.Render("[x] ")
			}
		}

		if m.cursor == i {
			b.WriteString("    " + selectedStyle.Render("> ") + marker + line + "\n")
		} else {
			b.WriteString("      " + marker + line + "\n")
		}
	}

	return b.String()
}
