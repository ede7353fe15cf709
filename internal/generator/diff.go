package generator

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Diff produces a unified diff between an existing file and its freshly
// rendered replacement, used by preview mode to show what an update-check
// conflict would change. Returns "" when the contents are identical.
func Diff(path string, existing, rendered []byte) string {
	if bytes.Equal(existing, rendered) {
		return ""
	}
	if isBinary(existing) || isBinary(rendered) {
		return "Binary files differ\n"
	}

	oldLines := splitLines(string(existing))
	newLines := splitLines(string(rendered))

	edits := editScript(oldLines, newLines)
	hunks := buildHunks(edits, 3)
	if len(hunks) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString(diffHeaderStyle.Render("--- "+path) + "\n")
	buf.WriteString(diffHeaderStyle.Render("+++ "+path+" (generated)") + "\n")

	width := terminalWidth()
	for _, h := range hunks {
		buf.WriteString(formatHunk(h, width))
	}
	return buf.String()
}

type editOp int

const (
	editKeep editOp = iota
	editAdd
	editDrop
)

type editLine struct {
	oldLine int
	newLine int
	text    string
	op      editOp
}

type hunk struct {
	oldStart, oldCount int
	newStart, newCount int
	lines              []editLine
}

var (
	diffHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	addStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	dropStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
)

// editScript computes the shortest edit script between two line slices using
// the Myers algorithm ("An O(ND) Difference Algorithm and Its Variations",
// Myers 1986).
func editScript(old, newer []string) []editLine {
	n, m := len(old), len(newer)
	maxD := n + m

	v := map[int]int{1: 0}
	var trace []map[int]int

	for d := 0; d <= maxD; d++ {
		snapshot := make(map[int]int, len(v))
		for k, x := range v {
			snapshot[k] = x
		}
		trace = append(trace, snapshot)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[k-1] < v[k+1]) {
				x = v[k+1]
			} else {
				x = v[k-1] + 1
			}
			y := x - k
			for x < n && y < m && old[x] == newer[y] {
				x++
				y++
			}
			v[k] = x
			if x >= n && y >= m {
				return backtrack(trace, old, newer, n, m)
			}
		}
	}
	return backtrack(trace, old, newer, n, m)
}

func backtrack(trace []map[int]int, old, newer []string, n, m int) []editLine {
	var result []editLine
	x, y := n, m

	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		k := x - y

		var prevK int
		if k == -d || (k != d && v[k-1] < v[k+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			result = append([]editLine{{oldLine: x + 1, newLine: y + 1, text: old[x], op: editKeep}}, result...)
		}

		if d > 0 {
			if x == prevX {
				y--
				result = append([]editLine{{newLine: y + 1, text: newer[y], op: editAdd}}, result...)
			} else {
				x--
				result = append([]editLine{{oldLine: x + 1, text: old[x], op: editDrop}}, result...)
			}
		}
	}
	return result
}

func buildHunks(lines []editLine, context int) []hunk {
	if len(lines) == 0 {
		return nil
	}

	var hunks []hunk
	var current *hunk

	for i, line := range lines {
		if line.op != editKeep {
			if current == nil {
				start := i - context
				if start < 0 {
					start = 0
				}
				current = &hunk{}
				current.lines = append(current.lines, lines[start:i]...)
			}
			current.lines = append(current.lines, line)
			continue
		}

		if current == nil {
			continue
		}
		current.lines = append(current.lines, line)

		trailing := 1
		for j := i + 1; j < len(lines) && lines[j].op == editKeep; j++ {
			trailing++
		}
		if trailing > context*2 && i < len(lines)-1 {
			trim := trailing - context
			if trim > 0 && trim <= len(current.lines) {
				current.lines = current.lines[:len(current.lines)-trim]
			}
			finalizeHunk(current)
			hunks = append(hunks, *current)
			current = nil
		}
	}

	if current != nil {
		finalizeHunk(current)
		hunks = append(hunks, *current)
	}
	return hunks
}

func finalizeHunk(h *hunk) {
	for _, line := range h.lines {
		if line.oldLine > 0 && (h.oldStart == 0 || line.oldLine < h.oldStart) {
			h.oldStart = line.oldLine
		}
		if line.newLine > 0 && (h.newStart == 0 || line.newLine < h.newStart) {
			h.newStart = line.newLine
		}
		if line.op != editAdd {
			h.oldCount++
		}
		if line.op != editDrop {
			h.newCount++
		}
	}
}

func formatHunk(h hunk, width int) string {
	var buf strings.Builder
	buf.WriteString(hunkStyle.Render(fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.oldStart, h.oldCount, h.newStart, h.newCount)) + "\n")

	for _, line := range h.lines {
		text := truncate(strings.ReplaceAll(line.text, "\t", "    "), width-4)
		switch line.op {
		case editAdd:
			buf.WriteString(addStyle.Render("+"+text) + "\n")
		case editDrop:
			buf.WriteString(dropStyle.Render("-"+text) + "\n")
		default:
			buf.WriteString(" " + text + "\n")
		}
	}
	return buf.String()
}

func isBinary(data []byte) bool {
	n := len(data)
	if n > 8192 {
		n = 8192
	}
	return bytes.IndexByte(data[:n], 0) != -1
}

func splitLines(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func truncate(s string, max int) string {
	if max <= 0 {
		max = 80
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max < 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}
