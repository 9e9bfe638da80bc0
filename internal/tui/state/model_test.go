package state

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/backoffice-suite/backoffice/internal/api"
	"github.com/backoffice-suite/backoffice/internal/domain"
	errs "github.com/backoffice-suite/backoffice/internal/errors"
	"github.com/backoffice-suite/backoffice/internal/listview"
	"github.com/backoffice-suite/backoffice/internal/screens"
	"github.com/backoffice-suite/backoffice/internal/settings"
	"github.com/backoffice-suite/backoffice/internal/tui/render"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Save(state settings.TUIState) error {
	args := m.Called(state)
	return args.Error(0)
}

type fixture struct {
	model     *Model
	host      *errs.TUIHandler
	medicines screens.Screen
	payments  screens.Screen
}

func newFixture(t *testing.T, saved settings.TUIState, store SettingsStore) *fixture {
	t.Helper()
	host := errs.NewTUIHandler(nil)
	deps := screens.Deps{Host: host, Seed: 42, PageSize: 5}
	manager := domain.Admin{ID: 1, Role: domain.RoleManager}

	medicines, err := screens.Open(manager, "medicines", deps)
	require.NoError(t, err)
	payments, err := screens.Open(manager, "payments", deps)
	require.NoError(t, err)

	m := NewModel(Config{
		Screens:   []screens.Screen{medicines, payments},
		Host:      host,
		Saved:     saved,
		Store:     store,
		ExportDir: t.TempDir(),
	})
	drive(t, m, m.Init())
	return &fixture{model: m, host: host, medicines: medicines, payments: payments}
}

// drive runs cmd and feeds every message it produces back into m.
func drive(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil:
	case tea.QuitMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			drive(t, m, c)
		}
	default:
		_, next := m.Update(msg)
		drive(t, m, next)
	}
}

func keyMsg(k string) tea.KeyMsg {
	types := map[string]tea.KeyType{
		"enter":     tea.KeyEnter,
		"esc":       tea.KeyEsc,
		"tab":       tea.KeyTab,
		"shift+tab": tea.KeyShiftTab,
		"down":      tea.KeyDown,
		"up":        tea.KeyUp,
		"left":      tea.KeyLeft,
		"right":     tea.KeyRight,
		"ctrl+s":    tea.KeyCtrlS,
		"ctrl+u":    tea.KeyCtrlU,
		"ctrl+c":    tea.KeyCtrlC,
	}
	if typ, ok := types[k]; ok {
		return tea.KeyMsg{Type: typ}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends each key and runs the resulting commands to completion.
func press(t *testing.T, m *Model, keys ...string) {
	t.Helper()
	for _, k := range keys {
		_, cmd := m.Update(keyMsg(k))
		drive(t, m, cmd)
	}
}

func latest(t *testing.T, host *errs.TUIHandler) string {
	t.Helper()
	msg, ok := host.Latest()
	require.True(t, ok, "expected a status message")
	return msg.Text
}

func TestInitLoadsFirstScreen(t *testing.T) {
	f := newFixture(t, settings.TUIState{}, nil)

	assert.Equal(t, "medicines", f.model.Active())
	snap := f.medicines.Snapshot()
	require.Len(t, snap.Rows, 5)

	view := f.model.View()
	assert.Contains(t, view, "Pharmacy")
	assert.Contains(t, view, "Cashier")
	assert.Contains(t, view, snap.Rows[0].Cells[0])
	assert.Contains(t, view, "Page 1 of 10 (48 rows)")
	assert.False(t, f.payments.Snapshot().Loaded, "other screens load on first visit")
}

func TestSwitchScreensAndPage(t *testing.T) {
	f := newFixture(t, settings.TUIState{}, nil)

	press(t, f.model, "tab")
	assert.Equal(t, "payments", f.model.Active())
	assert.True(t, f.payments.Snapshot().Loaded)

	press(t, f.model, "l", "l")
	assert.Equal(t, 2, f.payments.Snapshot().Page)
	press(t, f.model, "h")
	assert.Equal(t, 1, f.payments.Snapshot().Page)

	press(t, f.model, "j", "j", "k")
	assert.Equal(t, 1, f.model.uiState.Cursor())
	press(t, f.model, "j", "j", "j", "j", "j")
	assert.Equal(t, 4, f.model.uiState.Cursor(), "cursor stays on the page")

	press(t, f.model, "shift+tab")
	assert.Equal(t, "medicines", f.model.Active())
	assert.Equal(t, 0, f.model.uiState.Cursor())
	press(t, f.model, "tab", "tab")
	assert.Equal(t, "medicines", f.model.Active(), "tabs wrap around")
}

func TestSearchShowsEmptyPlaceholder(t *testing.T) {
	f := newFixture(t, settings.TUIState{}, nil)

	press(t, f.model, "/")
	assert.Equal(t, render.ModeSearch, f.model.uiState.Mode())
	press(t, f.model, "zzzz", "enter")

	assert.Equal(t, render.ModeNormal, f.model.uiState.Mode())
	snap := f.medicines.Snapshot()
	assert.Equal(t, "zzzz", snap.Search)
	assert.Empty(t, snap.Rows)
	view := f.model.View()
	assert.Contains(t, view, "No pharmacy found")
	assert.Contains(t, view, "[Search: zzzz]")

	press(t, f.model, "c")
	assert.Empty(t, f.medicines.Snapshot().Search)
	assert.Len(t, f.medicines.Snapshot().Rows, 5)
}

func TestSearchEscapeKeepsTerm(t *testing.T) {
	f := newFixture(t, settings.TUIState{}, nil)

	press(t, f.model, "/", "amox", "esc")
	assert.Equal(t, render.ModeNormal, f.model.uiState.Mode())
	assert.Empty(t, f.medicines.Snapshot().Search)
}

func TestFilterKeysCycleValues(t *testing.T) {
	f := newFixture(t, settings.TUIState{}, nil)
	options := f.medicines.Filters()[0].Options
	require.NotEmpty(t, options)

	press(t, f.model, "f")
	assert.Equal(t, options[0].Value, f.medicines.Snapshot().Filters["category"])
	assert.Contains(t, f.model.View(), "[Category: "+options[0].Label+"]")

	press(t, f.model, "F")
	assert.Equal(t, "Filter: Category", latest(t, f.host), "a single filter stays selected")

	for range options {
		press(t, f.model, "f")
	}
	assert.Empty(t, f.medicines.Snapshot().Filters, "cycling past the last option clears the filter")
}

func TestRefundNeedsConfirmation(t *testing.T) {
	saved := settings.TUIState{
		Screen:  "payments",
		Filters: map[string]map[string]string{"payments": {"status": "paid"}},
	}
	f := newFixture(t, saved, nil)
	ctx := context.Background()
	require.Equal(t, "payments", f.model.Active())

	row := f.payments.Snapshot().Rows[0]
	require.Equal(t, "Paid", row.Cells[3])

	press(t, f.model, "o")
	assert.Equal(t, render.ModeActions, f.model.uiState.Mode())
	assert.Contains(t, f.model.View(), "1  Refund")

	press(t, f.model, "1")
	assert.Equal(t, render.ModeConfirm, f.model.uiState.Mode())
	assert.Contains(t, f.model.View(), `Refund payment "`+row.Cells[0]+`"?`)

	press(t, f.model, "n")
	assert.Equal(t, render.ModeNormal, f.model.uiState.Mode())
	_, pending := f.payments.Pending()
	assert.False(t, pending)
	rec, err := f.payments.Record(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paid", rec.Cells[3])

	press(t, f.model, "o", "1", "y")
	assert.Equal(t, render.ModeNormal, f.model.uiState.Mode())
	rec, err = f.payments.Record(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, "Refunded", rec.Cells[3])
}

func TestActionMenuEscape(t *testing.T) {
	f := newFixture(t, settings.TUIState{}, nil)

	press(t, f.model, "o")
	assert.Equal(t, render.ModeNormal, f.model.uiState.Mode(), "medicines only have delete")
	assert.Equal(t, "No actions on this screen", latest(t, f.host))

	press(t, f.model, "tab", "o", "esc")
	assert.Equal(t, render.ModeNormal, f.model.uiState.Mode())
	assert.Nil(t, f.model.actions)
}

func TestDeleteAsksFirst(t *testing.T) {
	f := newFixture(t, settings.TUIState{}, nil)
	before := f.medicines.Snapshot().Matched

	press(t, f.model, "d")
	require.Equal(t, render.ModeConfirm, f.model.uiState.Mode())
	press(t, f.model, "esc")
	assert.Equal(t, before, f.medicines.Snapshot().Matched)

	press(t, f.model, "d", "y")
	assert.Equal(t, before-1, f.medicines.Snapshot().Matched)
}

func TestCreateThroughDialog(t *testing.T) {
	f := newFixture(t, settings.TUIState{Screen: "payments"}, nil)
	before := f.payments.Snapshot().Matched

	press(t, f.model, "a")
	require.Equal(t, render.ModeDialog, f.model.uiState.Mode())
	assert.Contains(t, f.model.View(), "New cashier")

	press(t, f.model, "Awa Kaboré", "tab", "ctrl+u", "0", "ctrl+s")
	assert.Equal(t, render.ModeDialog, f.model.uiState.Mode(), "invalid drafts keep the form open")
	snap := f.payments.Snapshot()
	assert.Equal(t, "Awa Kaboré", snap.Dialog.Fields[0].Value)
	assert.Contains(t, snap.Dialog.Err, "amount must be positive")
	assert.Contains(t, latest(t, f.host), "amount must be positive")

	press(t, f.model, "ctrl+u", "1500", "ctrl+s")
	assert.Equal(t, render.ModeNormal, f.model.uiState.Mode())
	assert.Equal(t, before+1, f.payments.Snapshot().Matched)
}

func TestDialogOptionFieldsCycle(t *testing.T) {
	f := newFixture(t, settings.TUIState{}, nil)

	press(t, f.model, "a", "down")
	require.Equal(t, 1, f.model.focus)
	fields := f.medicines.Snapshot().Dialog.Fields
	require.NotEmpty(t, fields[1].Options)

	require.Equal(t, "analgesic", fields[1].Value)

	press(t, f.model, "right", "tab")
	assert.Equal(t, "antibiotic", f.medicines.Snapshot().Dialog.Fields[1].Value)
	assert.Equal(t, 2, f.model.focus)

	press(t, f.model, "esc")
	assert.Equal(t, render.ModeNormal, f.model.uiState.Mode())
	assert.Equal(t, listview.DialogClosed, f.medicines.Snapshot().Dialog.State)
}

func TestEditIsRejectedOnReadOnlyScreen(t *testing.T) {
	f := newFixture(t, settings.TUIState{Screen: "payments"}, nil)

	press(t, f.model, "e")
	assert.Equal(t, render.ModeNormal, f.model.uiState.Mode())
	assert.Contains(t, latest(t, f.host), "not allowed")
}

func TestPageSizeKeys(t *testing.T) {
	f := newFixture(t, settings.TUIState{}, nil)

	press(t, f.model, "+")
	assert.Equal(t, 10, f.medicines.Snapshot().PageSize)
	press(t, f.model, "-", "-")
	assert.Equal(t, 5, f.medicines.Snapshot().PageSize, "page size stays positive")
}

func TestSaveSettings(t *testing.T) {
	store := &mockStore{}
	store.On("Save", mock.MatchedBy(func(s settings.TUIState) bool {
		return s.Screen == "payments" &&
			s.PageSize == 5 &&
			s.Filters["payments"]["method"] == "cash" &&
			s.Filters["medicines"]["category"] == "vaccine"
	})).Return(nil).Once()

	saved := settings.TUIState{
		Screen: "payments",
		Filters: map[string]map[string]string{
			"payments":  {"method": "cash"},
			"medicines": {"category": "vaccine"},
		},
	}
	f := newFixture(t, saved, store)

	press(t, f.model, "w")
	assert.Equal(t, "Settings saved", latest(t, f.host))
	store.AssertExpectations(t)
}

func TestSaveSettingsFailure(t *testing.T) {
	store := &mockStore{}
	store.On("Save", mock.Anything).Return(errors.New("disk full"))
	f := newFixture(t, settings.TUIState{}, store)

	press(t, f.model, "w")
	assert.Equal(t, "Could not save settings: disk full", latest(t, f.host))
}

func TestRestoreSavedState(t *testing.T) {
	saved := settings.TUIState{
		Screen:   "PAYMENTS",
		PageSize: 10,
		Filters: map[string]map[string]string{
			"payments":  {"status": "refunded"},
			"medicines": {"shelf": "top"},
		},
	}
	f := newFixture(t, saved, nil)

	assert.Equal(t, "payments", f.model.Active())
	snap := f.payments.Snapshot()
	assert.Equal(t, 10, snap.PageSize)
	require.NotEmpty(t, snap.Rows)
	for _, r := range snap.Rows {
		assert.Equal(t, "Refunded", r.Cells[3])
	}

	press(t, f.model, "tab")
	assert.Empty(t, f.medicines.Snapshot().Filters, "unknown saved filters are skipped")
	for _, msg := range f.host.All() {
		assert.NotEqual(t, errs.LevelError, msg.Level, msg.Text)
	}

	state := f.model.ToState()
	assert.Equal(t, "medicines", state.Screen)
	assert.Equal(t, map[string]string{"status": "refunded"}, state.Filters["payments"])
	assert.NotContains(t, state.Filters, "medicines")
}

func TestRestoreLoadsOnce(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	host := errs.NewTUIHandler(nil)
	deps := screens.Deps{Client: api.NewClient(srv.URL + "/api"), Host: host, PageSize: 5, StaleGuard: true}
	clients, err := screens.Open(domain.Admin{ID: 1, Role: domain.RoleManager}, "clients", deps)
	require.NoError(t, err)

	m := NewModel(Config{
		Screens: []screens.Screen{clients},
		Host:    host,
		Saved: settings.TUIState{
			PageSize: 20,
			Filters:  map[string]map[string]string{"clients": {"status": "prospect", "service": "Hajj"}},
		},
		ExportDir: t.TempDir(),
	})
	drive(t, m, m.Init())

	assert.EqualValues(t, 1, requests.Load())
	failures := 0
	for _, msg := range host.All() {
		if msg.Level == errs.LevelError {
			failures++
		}
	}
	assert.Equal(t, 1, failures, "one failed load, one message")

	snap := clients.Snapshot()
	assert.Equal(t, 20, snap.PageSize)
	assert.Equal(t, map[string]string{"status": "prospect", "service": "Hajj"}, snap.Filters)
}

func TestExportWritesWorkbook(t *testing.T) {
	f := newFixture(t, settings.TUIState{}, nil)

	press(t, f.model, "x")
	assert.Equal(t, "Saved "+filepath.Join(f.model.exportDir, "medicines.xlsx"), latest(t, f.host))
	assert.FileExists(t, filepath.Join(f.model.exportDir, "medicines.xlsx"))

	press(t, f.model, "x")
	assert.FileExists(t, filepath.Join(f.model.exportDir, "medicines (1).xlsx"))
}

func TestQuitKeys(t *testing.T) {
	f := newFixture(t, settings.TUIState{}, nil)

	for _, k := range []string{"q", "ctrl+c"} {
		_, cmd := f.model.Update(keyMsg(k))
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd(), k)
	}

	press(t, f.model, "/", "q")
	assert.Equal(t, render.ModeSearch, f.model.uiState.Mode(), "q is typed while searching")
	assert.Equal(t, "q", f.model.input.Value())
}

func TestWindowResize(t *testing.T) {
	f := newFixture(t, settings.TUIState{}, nil)

	f.model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, f.model.uiState.Width())
	assert.Equal(t, 40-chromeLines, f.model.uiState.Viewport().Height)
}

func TestNoScreens(t *testing.T) {
	m := NewModel(Config{})
	assert.Nil(t, m.Init())
	assert.Equal(t, "", m.Active())
	assert.Contains(t, m.View(), "No screens available")
	assert.Empty(t, m.ToState().Screen)

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
