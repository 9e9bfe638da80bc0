package state

import (
	"maps"

	"github.com/backoffice-suite/backoffice/internal/settings"
	tea "github.com/charmbracelet/bubbletea"
)

// ToState returns what the next session should restore. Screens never
// opened keep the filters they were saved with.
func (m *Model) ToState() settings.TUIState {
	state := settings.TUIState{PageSize: m.saved.PageSize}
	state.Filters = make(map[string]map[string]string, len(m.saved.Filters))
	for name, f := range m.saved.Filters {
		state.Filters[name] = maps.Clone(f)
	}
	if len(m.screens) == 0 {
		return state
	}

	state.Screen = m.Active()
	if m.prepared[m.active] {
		state.PageSize = m.current().Snapshot().PageSize
	}
	for i, s := range m.screens {
		if !m.prepared[i] {
			continue
		}
		snap := s.Snapshot()
		filters := make(map[string]string, len(snap.Filters))
		for name, v := range snap.Filters {
			if _, fixed := snap.Scope[name]; !fixed && v != "" {
				filters[name] = v
			}
		}
		if len(filters) == 0 {
			delete(state.Filters, s.Info().Name)
			continue
		}
		state.Filters[s.Info().Name] = filters
	}
	return state
}

// saveSettings persists the current state in the background.
func (m *Model) saveSettings() tea.Cmd {
	state, store := m.ToState(), m.store
	return SaveSettingsCmd(func() error {
		return store.Save(state)
	})
}
