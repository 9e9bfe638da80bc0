// Package render draws the pieces of the list screen TUI.
package render

import (
	"fmt"
	"strings"

	"github.com/backoffice-suite/backoffice/internal/colors"
	errs "github.com/backoffice-suite/backoffice/internal/errors"
	"github.com/backoffice-suite/backoffice/internal/listview"
	"github.com/charmbracelet/lipgloss"
)

const (
	columnGap          = 2
	defaultColumnWidth = 12
	selectedMarker     = "›"
)

var (
	accent    = lipgloss.Color(ansiColorNumber(colors.Blue))
	muted     = lipgloss.Color("241")
	tabStyle  = lipgloss.NewStyle().Padding(0, 1).Foreground(muted)
	activeTab = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(lipgloss.Color("0")).Background(accent)
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	helpStyle     = lipgloss.NewStyle().Foreground(muted)
	selectedStyle = lipgloss.NewStyle().Background(accent).Foreground(lipgloss.Color("0"))
)

// severityStyles color table rows.
var severityStyles = map[string]lipgloss.Style{
	listview.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Red))),
	listview.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Yellow))),
	listview.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Green))),
}

// messageStyles color the status line by level.
var messageStyles = map[errs.Level]lipgloss.Style{
	errs.LevelError:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ansiColorNumber(colors.Red))),
	errs.LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Yellow))),
	errs.LevelInfo:    lipgloss.NewStyle().Foreground(accent),
	errs.LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Green))),
}

// Tabs renders the screen switcher.
func Tabs(titles []string, active, width int) string {
	parts := make([]string, len(titles))
	for i, t := range titles {
		if i == active {
			parts[i] = activeTab.Render(t)
		} else {
			parts[i] = tabStyle.Render(t)
		}
	}
	return truncate(lipgloss.JoinHorizontal(lipgloss.Top, parts...), width)
}

// Header renders the column titles.
func Header(headers []string, widths []int, width int) string {
	return headerStyle.Render(truncate("  "+cells(headers, widths), width))
}

// RowState defines the inputs needed to render a table row.
type RowState struct {
	Cells    []string
	Widths   []int
	Severity string
	Selected bool
	Width    int
}

// Row renders a single table row.
func Row(state RowState) string {
	marker := "  "
	if state.Selected {
		marker = selectedMarker + " "
	}
	line := truncate(marker+cells(state.Cells, state.Widths), state.Width)
	if state.Selected {
		return selectedStyle.Render(line)
	}
	if style, ok := severityStyles[state.Severity]; ok {
		return style.Render(line)
	}
	return line
}

// Placeholder renders what the table shows when it has no rows.
func Placeholder(p listview.Presentation, noun string) string {
	text := "No " + noun + " found"
	if p == listview.StateLoading {
		text = "Loading…"
	}
	return helpStyle.Render(text)
}

// Chip is one active filter or search term.
type Chip struct {
	Title string
	Value string
	// Fixed chips come from the admin's scope and cannot be cleared.
	Fixed bool
}

// Chips renders the active search and filters, or "" when there are none.
func Chips(chips []Chip, width int) string {
	if len(chips) == 0 {
		return ""
	}
	parts := make([]string, len(chips))
	for i, c := range chips {
		text := c.Title + ": " + c.Value
		if c.Fixed {
			text += " (fixed)"
		}
		parts[i] = "[" + text + "]"
	}
	return helpStyle.Render(truncate(strings.Join(parts, " "), width))
}

// Mode is the input mode shown in the footer.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeDialog
	ModeConfirm
	ModeParam
	ModeActions
)

// FooterState defines the inputs needed to render the footer.
type FooterState struct {
	Mode Mode
	// Input is the rendered text input in search and param modes.
	Input   string
	Prompt  string
	Summary string
	Message *errs.Message
	Width   int
}

// Footer renders the status line and key help.
func Footer(state FooterState) string {
	var lines []string
	if state.Message != nil {
		style, ok := messageStyles[state.Message.Level]
		if !ok {
			style = helpStyle
		}
		lines = append(lines, style.Render(truncate(state.Message.Text, state.Width)))
	}

	var help []string
	switch state.Mode {
	case ModeSearch:
		help = []string{"Search: " + state.Input, "Enter: apply", "ESC: cancel"}
	case ModeParam:
		help = []string{state.Prompt + " " + state.Input, "Enter: run", "ESC: cancel"}
	case ModeConfirm:
		help = []string{state.Prompt, "y/Enter: confirm", "n/ESC: cancel"}
	case ModeDialog:
		help = []string{"Tab/↑↓: field", "Ctrl+S: save", "ESC: close"}
	case ModeActions:
		help = []string{"1-9: run action", "ESC: back"}
	default:
		help = []string{state.Summary, "j/k: move", "h/l: page", "/: search", "f/F: filter", "a: add", "e: edit", "d: delete", "o: actions", "q: quit"}
	}
	lines = append(lines, helpStyle.Render(truncate(strings.Join(help, "  |  "), state.Width)))
	return strings.Join(lines, "\n")
}

// ActionMenu renders the numbered actions of the selected row.
func ActionMenu(titles []string) string {
	var b strings.Builder
	for i, t := range titles {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  %d  %s", i+1, t)
	}
	return b.String()
}

// cells lays out values in columns separated by columnGap spaces.
func cells(values []string, widths []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		w := defaultColumnWidth
		if i < len(widths) && widths[i] > 0 {
			w = widths[i]
		}
		parts[i] = pad(v, w)
	}
	return strings.TrimRight(strings.Join(parts, strings.Repeat(" ", columnGap)), " ")
}

// pad fits s into exactly width cells, ending with "…" if cut.
func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w <= width {
		return s + strings.Repeat(" ", width-w)
	}
	if width <= 1 {
		return cut(s, width)
	}
	out := cut(s, width-1) + "…"
	return out + strings.Repeat(" ", width-lipgloss.Width(out))
}

// truncate cuts s to width cells; zero or negative width leaves it alone.
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return cut(s, width)
}

func cut(s string, width int) string {
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if used+w > width {
			break
		}
		b.WriteRune(r)
		used += w
	}
	return b.String()
}

// ansiColorNumber extracts the color number from an ANSI escape sequence.
// Example: "\033[0;34m" -> "34"
func ansiColorNumber(ansi string) string {
	if len(ansi) < 2 {
		return ""
	}
	lastSemicolon := strings.LastIndex(ansi, ";")
	if lastSemicolon == -1 {
		return ""
	}
	return ansi[lastSemicolon+1 : len(ansi)-1]
}
