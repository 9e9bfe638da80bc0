package state

import (
	"context"
	"strconv"

	"github.com/backoffice-suite/backoffice/internal/screens"
	"github.com/backoffice-suite/backoffice/internal/tui/render"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyMsg dispatches a key to the handler of the current input mode.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if len(m.screens) == 0 {
		if msg.String() == "q" || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.uiState.Mode() {
	case render.ModeSearch:
		return m.handleSearchKey(msg)
	case render.ModeParam:
		return m.handleParamKey(msg)
	case render.ModeDialog:
		return m.handleDialogKey(msg)
	case render.ModeConfirm:
		return m.handleConfirmKey(msg)
	case render.ModeActions:
		return m.handleActionKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.current()
	snap := s.Snapshot()

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "tab":
		return m, m.switchScreen(m.active + 1)
	case "shift+tab":
		return m, m.switchScreen(m.active - 1)
	case "j", "down":
		m.moveCursor(1, len(snap.Rows))
	case "k", "up":
		m.moveCursor(-1, len(snap.Rows))
	case "g", "home":
		m.moveCursor(-len(snap.Rows), len(snap.Rows))
	case "G", "end":
		m.moveCursor(len(snap.Rows), len(snap.Rows))
	case "l", "right", "n":
		m.uiState.SetCursor(0, 0)
		return m, m.run(screens.Screen.NextPage)
	case "h", "left", "p":
		m.uiState.SetCursor(0, 0)
		return m, m.run(screens.Screen.PrevPage)
	case "r":
		return m, m.run(screens.Screen.Load)
	case "/":
		m.startInput(render.ModeSearch, snap.Search)
	case "F":
		m.nextFilterCategory(s)
		return m, m.expireStatus()
	case "f":
		return m, m.cycleFilter(s, snap)
	case "c":
		m.uiState.SetCursor(0, 0)
		return m, m.run(screens.Screen.ClearFilters)
	case "+", "=":
		return m, m.resizePage(snap.PageSize + pageSizeStep)
	case "-":
		return m, m.resizePage(snap.PageSize - pageSizeStep)
	case "a":
		if err := s.OpenCreate(); err != nil {
			return m, m.expireStatus()
		}
		m.afterOp(m.active)
	case "e", "enter":
		if id, ok := m.selectedID(); ok {
			return m, m.openEdit(id)
		}
	case "d":
		if id, ok := m.selectedID(); ok {
			return m, m.trigger("delete", id, "")
		}
	case "o":
		return m, m.openActions()
	case "x":
		return m, m.exportCmd()
	case "w":
		return m, m.saveSettings()
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopInput()
		return m, nil
	case tea.KeyEnter:
		term := m.input.Value()
		m.stopInput()
		m.uiState.SetCursor(0, 0)
		return m, m.run(func(s screens.Screen, ctx context.Context) error {
			return s.SetSearch(ctx, term)
		})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleParamKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopInput()
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		m.stopInput()
		return m, m.trigger(m.paramAction.Name, m.paramRow, value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.current()
	fields := s.Snapshot().Dialog.Fields

	switch msg.String() {
	case "esc":
		s.CloseDialog()
		m.stopInput()
		return m, nil
	case "ctrl+s":
		m.commitField(fields)
		return m, m.run(screens.Screen.Submit)
	case "tab", "down":
		m.commitField(fields)
		m.moveFocus(1, fields)
		return m, nil
	case "shift+tab", "up":
		m.commitField(fields)
		m.moveFocus(-1, fields)
		return m, nil
	case "ctrl+u":
		m.input.SetValue("")
		return m, nil
	case "left", "right":
		if m.focus < len(fields) && len(fields[m.focus].Options) > 0 {
			step := 1
			if msg.String() == "left" {
				step = -1
			}
			m.input.SetValue(cycle(fields[m.focus].Options, m.input.Value(), step))
			m.input.CursorEnd()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.uiState.SetMode(render.ModeNormal)
		return m, m.run(screens.Screen.Confirm)
	case "n", "N", "esc":
		m.current().Cancel()
		m.uiState.SetMode(render.ModeNormal)
	}
	return m, nil
}

func (m *Model) handleActionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc || msg.String() == "q" {
		m.actions = nil
		m.uiState.SetMode(render.ModeNormal)
		return m, nil
	}
	n, err := strconv.Atoi(msg.String())
	if err != nil || n < 1 || n > len(m.actions) {
		return m, nil
	}
	action := m.actions[n-1]
	m.actions = nil
	m.uiState.SetMode(render.ModeNormal)
	return m, m.runAction(action)
}

func (m *Model) moveCursor(delta, rows int) {
	m.uiState.SetCursor(m.uiState.Cursor()+delta, rows)
}

// startInput focuses the text input for mode with an initial value.
func (m *Model) startInput(mode render.Mode, value string) {
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	m.uiState.SetMode(mode)
}

func (m *Model) stopInput() {
	m.input.Blur()
	m.input.SetValue("")
	m.uiState.SetMode(render.ModeNormal)
}

// loadField puts the focused form field into the text input.
func (m *Model) loadField(fields []screens.FieldValue) {
	value := ""
	if m.focus < len(fields) {
		value = fields[m.focus].Value
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

// commitField writes the text input back into the draft.
func (m *Model) commitField(fields []screens.FieldValue) {
	if m.focus >= len(fields) {
		return
	}
	f := fields[m.focus]
	if v := m.input.Value(); v != f.Value {
		_ = m.current().SetField(f.Name, v)
	}
}

func (m *Model) moveFocus(delta int, fields []screens.FieldValue) {
	if len(fields) == 0 {
		return
	}
	m.focus = (m.focus + delta + len(fields)) % len(fields)
	m.loadField(m.current().Snapshot().Dialog.Fields)
}

// cycle returns the option step places away from current.
func cycle(options []string, current string, step int) string {
	idx := -1
	for i, o := range options {
		if o == current {
			idx = i
		}
	}
	if idx < 0 {
		if step > 0 {
			return options[0]
		}
		return options[len(options)-1]
	}
	return options[(idx+step+len(options))%len(options)]
}
