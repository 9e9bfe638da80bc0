package state

import (
	"bytes"
	"context"
	"strings"

	"github.com/backoffice-suite/backoffice/internal/api"
	"github.com/backoffice-suite/backoffice/internal/domain"
	"github.com/backoffice-suite/backoffice/internal/export"
	"github.com/backoffice-suite/backoffice/internal/screens"
	"github.com/backoffice-suite/backoffice/internal/tui/render"
	tea "github.com/charmbracelet/bubbletea"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// run executes op on the active screen off the update loop.
func (m *Model) run(op func(screens.Screen, context.Context) error) tea.Cmd {
	idx, s, ctx := m.active, m.current(), m.ctx
	return func() tea.Msg {
		return opDoneMsg{screen: idx, err: op(s, ctx)}
	}
}

// switchScreen shows screen i, wrapping around, and loads it the first time.
func (m *Model) switchScreen(i int) tea.Cmd {
	n := len(m.screens)
	i = (i%n + n) % n
	if i == m.active {
		return nil
	}
	m.active = i
	m.filterIdx = 0
	m.uiState.SetCursor(0, 0)
	m.uiState.Viewport().GotoTop()
	if m.prepared[i] {
		return nil
	}
	return m.prepare(i)
}

// prepare applies the saved page size and filters to screen i and loads it.
func (m *Model) prepare(i int) tea.Cmd {
	if len(m.screens) == 0 {
		return nil
	}
	s, ctx := m.screens[i], m.ctx
	pageSize := m.saved.PageSize
	filters := m.savedFilters(s)
	return func() tea.Msg {
		s.Restore(pageSize, filters)
		return preparedMsg{screen: i, err: s.Load(ctx)}
	}
}

// savedFilters returns the saved filters of s that it still offers and
// that the admin's scope does not fix.
func (m *Model) savedFilters(s screens.Screen) map[string]string {
	saved := m.saved.Filters[s.Info().Name]
	if len(saved) == 0 {
		return nil
	}
	scope := s.Snapshot().Scope
	out := make(map[string]string, len(saved))
	for _, f := range s.Filters() {
		if _, fixed := scope[f.Name]; fixed {
			continue
		}
		if v, ok := saved[f.Name]; ok && v != "" {
			out[f.Name] = v
		}
	}
	return out
}

// nextFilterCategory moves the f key to the next filter of s.
func (m *Model) nextFilterCategory(s screens.Screen) {
	filters := s.Filters()
	if len(filters) == 0 {
		m.host.Info("No filters on this screen")
		return
	}
	m.filterIdx = (m.filterIdx + 1) % len(filters)
	m.host.Info("Filter: " + filters[m.filterIdx].Title)
}

// cycleFilter sets the current filter to its next value, passing through
// "no filter" after the last option.
func (m *Model) cycleFilter(s screens.Screen, snap screens.Snapshot) tea.Cmd {
	filters := s.Filters()
	if len(filters) == 0 {
		m.host.Info("No filters on this screen")
		return m.expireStatus()
	}
	f := filters[m.filterIdx%len(filters)]
	values := make([]string, 0, len(f.Options)+1)
	values = append(values, "")
	for _, o := range f.Options {
		values = append(values, o.Value)
	}
	next := cycle(values, snap.Filters[f.Name], 1)
	m.uiState.SetCursor(0, 0)
	return m.run(func(s screens.Screen, ctx context.Context) error {
		return s.SetFilter(ctx, f.Name, next)
	})
}

func (m *Model) resizePage(n int) tea.Cmd {
	if n < 1 {
		return nil
	}
	m.uiState.SetCursor(0, 0)
	return m.run(func(s screens.Screen, ctx context.Context) error {
		return s.SetPageSize(ctx, n)
	})
}

// selectedID returns the id of the row under the cursor.
func (m *Model) selectedID() (string, bool) {
	rows := m.current().Snapshot().Rows
	c := m.uiState.Cursor()
	if c < 0 || c >= len(rows) {
		return "", false
	}
	return rows[c].ID, true
}

func (m *Model) openEdit(id string) tea.Cmd {
	return m.run(func(s screens.Screen, ctx context.Context) error {
		return s.OpenEdit(ctx, id)
	})
}

// trigger runs a non-destructive action or parks a destructive one for
// the confirm prompt.
func (m *Model) trigger(name, id, param string) tea.Cmd {
	return m.run(func(s screens.Screen, ctx context.Context) error {
		_, err := s.Trigger(ctx, name, id, param)
		return err
	})
}

// openActions lists the row actions other than delete, which has its own key.
func (m *Model) openActions() tea.Cmd {
	if _, ok := m.selectedID(); !ok {
		return nil
	}
	var actions []domain.Action
	for _, a := range m.current().Actions() {
		if a.Name != domain.Delete.Name {
			actions = append(actions, a)
		}
	}
	if len(actions) == 0 {
		m.host.Info("No actions on this screen")
		return m.expireStatus()
	}
	m.actions = actions
	m.uiState.SetMode(render.ModeActions)
	return nil
}

func (m *Model) runAction(a domain.Action) tea.Cmd {
	id, ok := m.selectedID()
	if !ok {
		return nil
	}
	switch {
	case a.Download:
		return m.download(a.Name, id)
	case a.Param != "":
		m.paramAction = a
		m.paramRow = id
		m.startInput(render.ModeParam, "")
		return nil
	}
	return m.trigger(a.Name, id, "")
}

func (m *Model) download(name, id string) tea.Cmd {
	idx, s, ctx, dir := m.active, m.current(), m.ctx, m.exportDir
	return func() tea.Msg {
		blob, err := s.Download(ctx, name, id)
		if err != nil {
			return opDoneMsg{screen: idx, err: err}
		}
		path, err := export.SaveBlob(dir, blob)
		return fileSavedMsg{path: path, err: err}
	}
}

// exportCmd writes every row matching the current search and filters to
// an XLSX file in the export directory.
func (m *Model) exportCmd() tea.Cmd {
	idx, s, ctx, dir := m.active, m.current(), m.ctx, m.exportDir
	return func() tea.Msg {
		sheet, err := s.Export(ctx)
		if err != nil {
			return opDoneMsg{screen: idx, err: err}
		}
		var buf bytes.Buffer
		if err := export.XLSX(&buf, sheet); err != nil {
			return fileSavedMsg{err: err}
		}
		blob := api.Blob{
			Name:        strings.ToLower(s.Info().Name) + ".xlsx",
			ContentType: xlsxContentType,
			Data:        buf.Bytes(),
		}
		path, err := export.SaveBlob(dir, blob)
		return fileSavedMsg{path: path, err: err}
	}
}
