package settings

import "maps"

// TUIState is the part of the TUI model that survives a restart. It keeps
// the TUI independent of the file format.
type TUIState struct {
	Screen   string
	PageSize int
	// Filters are keyed by screen name.
	Filters map[string]map[string]string
}

// FromSettings converts Settings to TUIState.
func FromSettings(s *Settings) TUIState {
	if s == nil {
		return TUIState{}
	}
	state := TUIState{Screen: s.LastScreen, PageSize: s.PageSize}
	if len(s.Filters) > 0 {
		state.Filters = make(map[string]map[string]string, len(s.Filters))
		for screen, f := range s.Filters {
			state.Filters[screen] = maps.Clone(f)
		}
	}
	return state
}

// ToSettings converts TUIState to Settings.
func (t TUIState) ToSettings() *Settings {
	s := &Settings{LastScreen: t.Screen, PageSize: t.PageSize, Filters: map[string]map[string]string{}}
	for screen, f := range t.Filters {
		s.SetScreenFilters(screen, f)
	}
	return s
}

// IsEmpty returns true if nothing would be persisted.
func (t TUIState) IsEmpty() bool {
	if t.Screen != "" || t.PageSize != 0 {
		return false
	}
	for _, f := range t.Filters {
		for _, v := range f {
			if v != "" {
				return false
			}
		}
	}
	return true
}
