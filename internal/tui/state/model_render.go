package state

import (
	"strings"

	"github.com/backoffice-suite/backoffice/internal/format"
	"github.com/backoffice-suite/backoffice/internal/listview"
	"github.com/backoffice-suite/backoffice/internal/screens"
	"github.com/backoffice-suite/backoffice/internal/tui/render"
	"github.com/charmbracelet/lipgloss"
)

// View renders the tabs, the table and the footer, with the form, the
// action menu or the confirm prompt on top when open.
func (m *Model) View() string {
	width := m.uiState.Width()
	if len(m.screens) == 0 {
		return "No screens available for your role.\n"
	}
	s := m.current()
	snap := s.Snapshot()

	titles := make([]string, len(m.screens))
	for i, sc := range m.screens {
		titles[i] = sc.Info().Title
	}

	sections := []string{render.Tabs(titles, m.active, width)}
	if chips := render.Chips(chipsOf(s, snap), width); chips != "" {
		sections = append(sections, chips)
	}
	sections = append(sections, render.Header(s.Headers(), s.Widths(), width))

	switch m.uiState.Mode() {
	case render.ModeDialog:
		sections = append(sections, m.dialogView(s, snap))
	case render.ModeActions:
		titles := make([]string, len(m.actions))
		for i, a := range m.actions {
			titles[i] = a.Title
		}
		sections = append(sections, render.ActionMenu(titles))
	default:
		sections = append(sections, m.tableView(s, snap))
	}

	footer := render.FooterState{
		Mode:    m.uiState.Mode(),
		Input:   m.input.View(),
		Summary: format.Summary(format.NewListing(s)),
		Width:   width,
	}
	if snap.Pending != nil {
		footer.Prompt = snap.Pending.Prompt
	}
	if m.uiState.Mode() == render.ModeParam {
		footer.Prompt = m.paramAction.Param + ":"
	}
	if msg, ok := m.host.Visible(m.messageTTL); ok {
		footer.Message = &msg
	}
	sections = append(sections, render.Footer(footer))
	return strings.Join(sections, "\n")
}

// tableView fills the viewport with the rows of the page and keeps the
// cursor in view.
func (m *Model) tableView(s screens.Screen, snap screens.Snapshot) string {
	vp := m.uiState.Viewport()
	if len(snap.Rows) == 0 {
		vp.SetContent(render.Placeholder(snap.Presentation, strings.ToLower(s.Info().Title)))
		return vp.View()
	}
	widths := s.Widths()
	lines := make([]string, len(snap.Rows))
	for i, r := range snap.Rows {
		lines[i] = render.Row(render.RowState{
			Cells:    r.Cells,
			Widths:   widths,
			Severity: r.Severity,
			Selected: i == m.uiState.Cursor(),
			Width:    m.uiState.Width(),
		})
	}
	vp.SetContent(strings.Join(lines, "\n"))
	m.uiState.EnsureCursorVisible()
	return vp.View()
}

func (m *Model) dialogView(s screens.Screen, snap screens.Snapshot) string {
	title := "New " + strings.ToLower(s.Info().Title)
	if snap.Dialog.Mode == listview.ModeEdit {
		title = "Edit " + snap.Dialog.ID
	}
	fields := make([]render.DialogField, len(snap.Dialog.Fields))
	for i, f := range snap.Dialog.Fields {
		value := f.Value
		if i == m.focus {
			value = m.input.View()
		}
		fields[i] = render.DialogField{Label: f.Label, Value: value, Options: f.Options, Focused: i == m.focus}
	}
	box := render.Dialog(render.DialogState{
		Title:      title,
		Fields:     fields,
		Err:        snap.Dialog.Err,
		Submitting: snap.Dialog.State == listview.DialogSubmitting,
		Width:      m.uiState.Width(),
	})
	return lipgloss.PlaceHorizontal(m.uiState.Width(), lipgloss.Center, box)
}

// chipsOf lists the search term, the scope and the active filters.
func chipsOf(s screens.Screen, snap screens.Snapshot) []render.Chip {
	var chips []render.Chip
	if snap.Search != "" {
		chips = append(chips, render.Chip{Title: "Search", Value: snap.Search})
	}
	for _, f := range s.Filters() {
		if v, ok := snap.Scope[f.Name]; ok {
			chips = append(chips, render.Chip{Title: f.Title, Value: optionLabel(f, v), Fixed: true})
			continue
		}
		if v := snap.Filters[f.Name]; v != "" {
			chips = append(chips, render.Chip{Title: f.Title, Value: optionLabel(f, v)})
		}
	}
	return chips
}

func optionLabel(f screens.Filter, value string) string {
	for _, o := range f.Options {
		if o.Value == value && o.Label != "" {
			return o.Label
		}
	}
	return value
}
