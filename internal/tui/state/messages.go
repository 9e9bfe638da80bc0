package state

import tea "github.com/charmbracelet/bubbletea"

// opDoneMsg is sent when a screen operation started by a command finishes.
// The error has already been relayed by the screen.
type opDoneMsg struct {
	screen int
	err    error
}

// preparedMsg is sent when a screen finished its first load.
type preparedMsg struct {
	screen int
	err    error
}

// fileSavedMsg is sent after a download or export was written to disk.
type fileSavedMsg struct {
	path string
	err  error
}

// clearStatusMsg asks for a redraw once the status message expired.
type clearStatusMsg struct{}

// saveSettingsSuccessMsg is sent when settings are saved successfully.
type saveSettingsSuccessMsg struct{}

// saveSettingsFailedMsg is sent when settings save fails.
type saveSettingsFailedMsg struct {
	err error
}

// SaveSettingsCmd returns a command to save settings.
func SaveSettingsCmd(saveFn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := saveFn(); err != nil {
			return saveSettingsFailedMsg{err: err}
		}
		return saveSettingsSuccessMsg{}
	}
}
