// Package state holds the bubbletea model of the list screen TUI.
package state

import (
	"context"
	"time"

	"github.com/backoffice-suite/backoffice/internal/domain"
	errs "github.com/backoffice-suite/backoffice/internal/errors"
	"github.com/backoffice-suite/backoffice/internal/listview"
	"github.com/backoffice-suite/backoffice/internal/logging"
	"github.com/backoffice-suite/backoffice/internal/screens"
	"github.com/backoffice-suite/backoffice/internal/settings"
	"github.com/backoffice-suite/backoffice/internal/tui/render"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	// chromeLines are the lines around the table: tabs, chips, header and
	// a two-line footer.
	chromeLines           = 5
	defaultViewportWidth  = 80
	defaultViewportHeight = 24
	pageSizeStep          = 5
	// DefaultMessageTTL is how long a status message stays visible.
	DefaultMessageTTL = 5 * time.Second
)

// SettingsStore persists the TUI state.
type SettingsStore interface {
	Save(state settings.TUIState) error
}

// FileSettingsStore saves to the settings file.
type FileSettingsStore struct{}

// Save writes state to the settings file.
func (FileSettingsStore) Save(state settings.TUIState) error {
	return settings.Save(state.ToSettings())
}

// Config holds what the model needs to run.
type Config struct {
	// Context bounds every screen operation.
	Context context.Context
	Screens []screens.Screen
	// Host must be the handler the screens relay to.
	Host *errs.TUIHandler
	// Saved is the state restored from the previous session.
	Saved settings.TUIState
	Store SettingsStore
	// ExportDir receives downloads and exports.
	ExportDir  string
	MessageTTL time.Duration
	Logger     logging.Logger
}

// Model represents the TUI model for bubbletea.
type Model struct {
	ctx        context.Context
	screens    []screens.Screen
	active     int
	prepared   map[int]bool
	uiState    *UIState
	host       *errs.TUIHandler
	saved      settings.TUIState
	store      SettingsStore
	exportDir  string
	messageTTL time.Duration
	logger     logging.Logger

	input     textinput.Model
	focus     int
	filterIdx int
	// actions lists the menu entries while the action menu is open.
	actions []domain.Action
	// paramAction is the action waiting for its parameter.
	paramAction domain.Action
	paramRow    string
}

// NewModel creates a new TUI model. The saved screen is opened first if it
// is among cfg.Screens.
func NewModel(cfg Config) *Model {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Host == nil {
		cfg.Host = errs.NewTUIHandler(nil)
	}
	if cfg.Store == nil {
		cfg.Store = FileSettingsStore{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}

	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = 256
	input.Cursor.SetMode(cursor.CursorStatic)

	m := &Model{
		ctx:        cfg.Context,
		screens:    cfg.Screens,
		prepared:   make(map[int]bool),
		uiState:    NewUIState(),
		host:       cfg.Host,
		saved:      cfg.Saved,
		store:      cfg.Store,
		exportDir:  cfg.ExportDir,
		messageTTL: cfg.MessageTTL,
		logger:     cfg.Logger.With("component", "tui"),
		input:      input,
	}

	names := make([]string, len(cfg.Screens))
	for i, s := range cfg.Screens {
		names[i] = s.Info().Name
	}
	want := settings.NormalizeScreen(cfg.Saved.Screen, names)
	for i, name := range names {
		if name == want {
			m.active = i
		}
	}
	return m
}

// Init loads the first screen.
func (m *Model) Init() tea.Cmd {
	return m.prepare(m.active)
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		m.uiState.SetSize(msg.Width, msg.Height)
		return m, nil
	case preparedMsg:
		m.prepared[msg.screen] = true
		m.afterOp(msg.screen)
		return m, m.expireStatus()
	case opDoneMsg:
		m.afterOp(msg.screen)
		return m, m.expireStatus()
	case fileSavedMsg:
		if msg.err != nil {
			m.host.Error("Could not save file: " + msg.err.Error())
		} else {
			m.host.Info("Saved " + msg.path)
		}
		return m, m.expireStatus()
	case saveSettingsSuccessMsg:
		m.host.Success("Settings saved")
		return m, m.expireStatus()
	case saveSettingsFailedMsg:
		m.logger.Error("saving settings failed", "error", msg.err)
		m.host.Error("Could not save settings: " + msg.err.Error())
		return m, m.expireStatus()
	case clearStatusMsg:
		return m, nil
	}
	return m, nil
}

// afterOp brings the input mode in line with the screen after an operation.
func (m *Model) afterOp(screen int) {
	if screen != m.active {
		return
	}
	snap := m.current().Snapshot()
	m.uiState.SetCursor(m.uiState.Cursor(), len(snap.Rows))
	mode := m.uiState.Mode()
	switch {
	case snap.Pending != nil:
		m.input.Blur()
		m.uiState.SetMode(render.ModeConfirm)
	case snap.Dialog.State != listview.DialogClosed:
		if mode != render.ModeDialog {
			m.focus = 0
			m.uiState.SetMode(render.ModeDialog)
			m.loadField(snap.Dialog.Fields)
		}
	case mode == render.ModeDialog || mode == render.ModeConfirm:
		m.input.Blur()
		m.uiState.SetMode(render.ModeNormal)
	}
}

// expireStatus schedules a redraw for when the latest message expires.
func (m *Model) expireStatus() tea.Cmd {
	if m.messageTTL <= 0 {
		return nil
	}
	return tea.Tick(m.messageTTL, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m *Model) current() screens.Screen {
	return m.screens[m.active]
}

// Active returns the name of the shown screen.
func (m *Model) Active() string {
	if len(m.screens) == 0 {
		return ""
	}
	return m.current().Info().Name
}
