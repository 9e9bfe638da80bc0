package state

import (
	"github.com/backoffice-suite/backoffice/internal/tui/render"
	"github.com/charmbracelet/bubbles/viewport"
)

// UIState holds what only the terminal cares about: size, cursor, input
// mode and the table viewport.
type UIState struct {
	viewport viewport.Model
	width    int
	height   int
	cursor   int
	mode     render.Mode
}

// NewUIState creates a new UIState instance with default values.
func NewUIState() *UIState {
	return &UIState{
		viewport: viewport.New(defaultViewportWidth, defaultViewportHeight-chromeLines),
		width:    defaultViewportWidth,
		height:   defaultViewportHeight,
	}
}

// Viewport returns the table viewport.
func (u *UIState) Viewport() *viewport.Model {
	return &u.viewport
}

// Width returns the current width of the UI.
func (u *UIState) Width() int {
	return u.width
}

// Height returns the current height of the UI.
func (u *UIState) Height() int {
	return u.height
}

// SetSize updates the terminal size and resizes the viewport.
func (u *UIState) SetSize(width, height int) {
	if width <= 0 {
		width = defaultViewportWidth
	}
	if height <= 0 {
		height = defaultViewportHeight
	}
	u.width = width
	u.height = height
	u.viewport.Width = width
	u.viewport.Height = max(height-chromeLines, 1)
}

// Cursor returns the selected row index on the current page.
func (u *UIState) Cursor() int {
	return u.cursor
}

// SetCursor moves the cursor, clamped to [0, rows).
func (u *UIState) SetCursor(pos, rows int) {
	if pos >= rows {
		pos = rows - 1
	}
	if pos < 0 {
		pos = 0
	}
	u.cursor = pos
}

// EnsureCursorVisible scrolls the viewport so the cursor row is shown.
func (u *UIState) EnsureCursorVisible() {
	h := u.viewport.Height
	if h <= 0 {
		return
	}
	switch {
	case u.cursor < u.viewport.YOffset:
		u.viewport.SetYOffset(u.cursor)
	case u.cursor >= u.viewport.YOffset+h:
		u.viewport.SetYOffset(u.cursor - h + 1)
	}
}

// Mode returns the input mode.
func (u *UIState) Mode() render.Mode {
	return u.mode
}

// SetMode changes the input mode.
func (u *UIState) SetMode(mode render.Mode) {
	u.mode = mode
}
