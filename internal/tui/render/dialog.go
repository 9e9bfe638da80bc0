package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	dialogBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1)
	labelStyle   = lipgloss.NewStyle().Foreground(muted)
	focusStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	dialogErrors = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// DialogField is one line of the form.
type DialogField struct {
	Label   string
	Value   string
	Options []string
	Focused bool
}

// DialogState defines the inputs needed to render the form.
type DialogState struct {
	Title      string
	Fields     []DialogField
	Err        string
	Submitting bool
	Width      int
}

// Dialog renders the create/edit form in a box.
func Dialog(state DialogState) string {
	labelWidth := 0
	for _, f := range state.Fields {
		labelWidth = max(labelWidth, lipgloss.Width(f.Label))
	}

	lines := []string{focusStyle.Render(state.Title), ""}
	for _, f := range state.Fields {
		label := labelStyle.Render(pad(f.Label, labelWidth))
		value := f.Value
		if f.Focused {
			label = focusStyle.Render(pad(f.Label, labelWidth))
		}
		line := label + "  " + value
		if f.Focused && len(f.Options) > 0 {
			line += "  " + labelStyle.Render("("+strings.Join(f.Options, ", ")+")")
		}
		lines = append(lines, line)
	}
	if state.Submitting {
		lines = append(lines, "", labelStyle.Render("Saving…"))
	}
	if state.Err != "" {
		lines = append(lines, "", dialogErrors.Render(state.Err))
	}

	box := dialogBox
	if state.Width > 4 {
		box = box.MaxWidth(state.Width)
	}
	return box.Render(strings.Join(lines, "\n"))
}
