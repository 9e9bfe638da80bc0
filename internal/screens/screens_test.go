package screens

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/backoffice-suite/backoffice/internal/api"
	"github.com/backoffice-suite/backoffice/internal/domain"
	errs "github.com/backoffice-suite/backoffice/internal/errors"
	"github.com/backoffice-suite/backoffice/internal/listview"
	"github.com/backoffice-suite/backoffice/internal/storage/sqlite"
	"github.com/backoffice-suite/backoffice/internal/stub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var manager = domain.Admin{ID: 1, Name: "Aïcha", Role: domain.RoleManager}

func newDeps(t *testing.T) (Deps, *errs.TUIHandler) {
	t.Helper()
	store, err := sqlite.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, stub.Seed(context.Background(), store))
	srv := httptest.NewServer(stub.NewServer(store, nil).Handler())
	t.Cleanup(srv.Close)

	host := errs.NewTUIHandler(nil)
	return Deps{
		Client:     api.NewClient(srv.URL + "/api"),
		Host:       host,
		PageSize:   5,
		StaleGuard: true,
		Seed:       42,
	}, host
}

func open(t *testing.T, admin domain.Admin, name string, deps Deps) Screen {
	t.Helper()
	s, err := Open(admin, name, deps)
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background()))
	return s
}

func rowByFirstCell(t *testing.T, s Screen, cell string) Row {
	t.Helper()
	for _, r := range s.Snapshot().Rows {
		if r.Cells[0] == cell {
			return r
		}
	}
	t.Fatalf("no row %q", cell)
	return Row{}
}

func TestBuildFollowsRoles(t *testing.T) {
	deps, _ := newDeps(t)

	all, err := Build(manager, deps)
	require.NoError(t, err)
	names := []string{}
	for _, s := range all {
		names = append(names, s.Info().Name)
	}
	assert.Equal(t, []string{"stations", "pompistes", "clients", "invoices", "medicines", "payments"}, names)

	security, err := Build(domain.Admin{Role: domain.RoleSecurity}, Deps{})
	require.NoError(t, err, "mock screens need no client")
	require.Len(t, security, 1)
	assert.Equal(t, "accounts", security[0].Info().Name)

	_, err = Open(manager, "stations", Deps{})
	assert.ErrorIs(t, err, ErrNoClient)
	_, err = Open(domain.Admin{Role: domain.RoleCashier}, "stations", deps)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestStationsPagingAndSeverity(t *testing.T) {
	deps, _ := newDeps(t)
	ctx := context.Background()
	s := open(t, manager, "stations", deps)

	snap := s.Snapshot()
	assert.Len(t, snap.Rows, 5)
	assert.Equal(t, 6, snap.Total)
	assert.Equal(t, 2, snap.Pages)
	assert.Equal(t, listview.StateRows, snap.Presentation)

	require.NoError(t, s.NextPage(ctx))
	assert.Len(t, s.Snapshot().Rows, 1)
	assert.Error(t, s.NextPage(ctx), "no page past the last")

	require.NoError(t, s.SetFilter(ctx, "city", "Ouagadougou"))
	snap = s.Snapshot()
	assert.Equal(t, 0, snap.Page, "filter change resets the page")
	assert.Equal(t, 3, snap.Total)

	assert.Equal(t, listview.SeverityError, rowByFirstCell(t, s, "Total Ouaga 2000").Severity)
	assert.Equal(t, listview.SeverityWarning, rowByFirstCell(t, s, "Shell Gounghin").Severity)
	assert.Equal(t, listview.SeveritySuccess, rowByFirstCell(t, s, "Oryx Tampouy").Severity)
	assert.Equal(t, "85%", rowByFirstCell(t, s, "Total Ouaga 2000").Cells[3])

	assert.ErrorIs(t, s.SetFilter(ctx, "colour", "red"), ErrUnknownFilter)
}

func TestCreateThroughDialog(t *testing.T) {
	deps, host := newDeps(t)
	ctx := context.Background()
	s := open(t, manager, "stations", deps)

	require.NoError(t, s.OpenCreate())
	require.NoError(t, s.SetFields(map[string]string{"name": "", "city": "Banfora", "capacity": "12"}))

	before := len(host.All())
	err := s.Submit(ctx)
	require.ErrorIs(t, err, listview.ErrInvalidDraft)
	assert.Len(t, host.All(), before+1, "one message per failure")
	snap := s.Snapshot()
	assert.Equal(t, listview.DialogOpen, snap.Dialog.State, "dialog stays open")
	assert.Contains(t, snap.Dialog.Err, "name is required")

	require.NoError(t, s.SetField("name", "Total Banfora Est"))
	require.NoError(t, s.Submit(ctx))
	assert.Equal(t, listview.DialogClosed, s.Snapshot().Dialog.State)

	require.NoError(t, s.SetSearch(ctx, "banfora est"))
	rows := s.Snapshot().Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "Banfora", rows[0].Cells[1])

	latest, ok := host.Latest()
	require.True(t, ok)
	assert.Equal(t, errs.LevelSuccess, latest.Level)
	assert.True(t, strings.HasPrefix(latest.Text, "Created station"))
}

func TestEditKeepsDraftOnRejection(t *testing.T) {
	deps, _ := newDeps(t)
	ctx := context.Background()
	s := open(t, manager, "stations", deps)
	id := rowByFirstCell(t, s, "Oryx Tampouy").ID

	require.NoError(t, s.OpenEdit(ctx, id))
	require.NoError(t, s.SetField("name", "Shell Gounghin"))
	err := s.Submit(ctx)
	require.ErrorIs(t, err, listview.ErrRejected)

	snap := s.Snapshot()
	assert.Equal(t, listview.DialogOpen, snap.Dialog.State)
	assert.Equal(t, id, snap.Dialog.ID)
	assert.Equal(t, "Shell Gounghin", snap.Dialog.Fields[0].Value, "draft is preserved")
	assert.Contains(t, snap.Dialog.Err, "already exists")

	s.CloseDialog()
	s.CloseDialog()
	assert.Equal(t, listview.DialogClosed, s.Snapshot().Dialog.State)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	deps, _ := newDeps(t)
	ctx := context.Background()
	s := open(t, manager, "stations", deps)
	id := rowByFirstCell(t, s, "Petrofa Koudougou").ID

	pending, err := s.Trigger(ctx, "delete", id, "")
	require.NoError(t, err)
	require.True(t, pending)
	p, ok := s.Pending()
	require.True(t, ok)
	assert.Equal(t, `Delete station "Petrofa Koudougou"?`, p.Prompt)
	require.NotNil(t, s.Snapshot().Pending)

	_, err = s.Trigger(ctx, "delete", id, "")
	assert.ErrorIs(t, err, listview.ErrAlreadyPending)

	assert.True(t, s.Cancel())
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, 6, s.Snapshot().Total, "cancel leaves the row")

	_, err = s.Trigger(ctx, "delete", id, "")
	require.NoError(t, err)
	require.NoError(t, s.Confirm(ctx))
	assert.Equal(t, 5, s.Snapshot().Total, "confirm deletes and reloads")

	assert.ErrorIs(t, s.Confirm(ctx), listview.ErrNothingPending)
}

func TestActAsksConfirmer(t *testing.T) {
	deps, _ := newDeps(t)
	ctx := context.Background()
	s := open(t, manager, "stations", deps)
	id := rowByFirstCell(t, s, "Petrofa Koudougou").ID

	var asked string
	no := listview.ConfirmFunc(func(prompt string) (bool, error) {
		asked = prompt
		return false, nil
	})
	assert.ErrorIs(t, s.Act(ctx, "delete", id, "", no), listview.ErrCancelled)
	assert.Contains(t, asked, "Petrofa Koudougou")
	_, pending := s.Pending()
	assert.False(t, pending)

	assert.ErrorIs(t, s.Act(ctx, "delete", id, "", nil), ErrNoConfirmer)

	// Non-destructive actions run without asking.
	require.NoError(t, s.Act(ctx, "toggle", id, "", nil))
	assert.Equal(t, "Open", rowByFirstCell(t, s, "Petrofa Koudougou").Cells[4])
}

func TestPompistesFanOut(t *testing.T) {
	deps, _ := newDeps(t)
	ctx := context.Background()
	s := open(t, manager, "pompistes", deps)

	snap := s.Snapshot()
	assert.Equal(t, api.UnknownTotal, snap.Total)
	assert.Equal(t, 10, snap.Matched)
	assert.Equal(t, 2, snap.Pages)

	require.NoError(t, s.SetSearch(ctx, "TRAORÉ"))
	assert.Equal(t, 2, s.Snapshot().Matched, "client-side search ignores case")
	assert.Equal(t, "Total Ouaga 2000", rowByFirstCell(t, s, "Mariam Traoré").Cells[2])
	assert.Equal(t, "Shell Banfora", rowByFirstCell(t, s, "Fatimata Traoré").Cells[2])

	id := rowByFirstCell(t, s, "Mariam Traoré").ID
	_, err := s.Trigger(ctx, "reassign", id, "")
	assert.ErrorIs(t, err, ErrMissingParam)
}

func TestInvoicesClientNames(t *testing.T) {
	deps, _ := newDeps(t)
	s := open(t, manager, "invoices", deps)
	for _, r := range s.Snapshot().Rows {
		assert.NotContains(t, r.Cells[1], "-", "client column shows names, not ids")
	}
}

func TestInvoiceDownload(t *testing.T) {
	deps, host := newDeps(t)
	ctx := context.Background()
	s := open(t, manager, "invoices", deps)
	row := s.Snapshot().Rows[0]

	blob, err := s.Download(ctx, "pdf", row.ID)
	require.NoError(t, err)
	assert.Equal(t, "invoice-"+row.Cells[0]+".pdf", blob.Name)
	latest, _ := host.Latest()
	assert.Equal(t, "Downloaded: "+blob.Name, latest.Text)

	_, err = s.Download(ctx, "send", row.ID)
	assert.ErrorIs(t, err, ErrUnknownAction)
	_, err = s.Trigger(ctx, "pdf", row.ID, "")
	assert.Error(t, err)
}

func TestCommercialScope(t *testing.T) {
	deps, _ := newDeps(t)
	ctx := context.Background()
	commercial := domain.Admin{ID: 7, Role: domain.RoleCommercial, Service: "VisaCanada"}
	s := open(t, commercial, "clients", deps)

	snap := s.Snapshot()
	assert.Equal(t, 4, snap.Total)
	assert.Equal(t, map[string]string{"service": "VisaCanada"}, snap.Scope)
	assert.ErrorIs(t, s.SetFilter(ctx, "service", "Hajj"), ErrScoped)

	require.NoError(t, s.OpenCreate())
	fields := s.Snapshot().Dialog.Fields
	for _, f := range fields {
		if f.Name == "service" {
			assert.Equal(t, "VisaCanada", f.Value)
		}
	}
	assert.ErrorIs(t, s.SetField("service", "Hajj"), ErrScoped)

	sheet, err := s.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, sheet.Rows, 4)
	assert.Equal(t, "Clients", sheet.Name)
}

func TestExportFollowsFilters(t *testing.T) {
	deps, _ := newDeps(t)
	ctx := context.Background()
	s := open(t, manager, "clients", deps)
	require.NoError(t, s.SetSearch(ctx, "martin"))

	sheet, err := s.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, s.Headers(), sheet.Headers)
	assert.Len(t, sheet.Rows, 3)
}

func TestDeletingLastRowMovesBackAPage(t *testing.T) {
	ctx := context.Background()
	s, err := Open(manager, "medicines", Deps{Seed: 3})
	require.NoError(t, err)
	require.NoError(t, s.Load(ctx))
	require.NoError(t, s.SetPageSize(ctx, 47))
	require.NoError(t, s.SetPage(ctx, 1))
	rows := s.Snapshot().Rows
	require.Len(t, rows, 1)

	_, err = s.Trigger(ctx, "delete", rows[0].ID, "")
	require.NoError(t, err)
	require.NoError(t, s.Confirm(ctx))

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.Page)
	assert.Equal(t, 1, snap.Pages)
	assert.Equal(t, 47, snap.Matched)
	assert.Len(t, snap.Rows, 47)
	assert.Equal(t, listview.StateRows, snap.Presentation)
}

func TestMockAccounts(t *testing.T) {
	ctx := context.Background()
	host := errs.NewTUIHandler(nil)
	s, err := Open(domain.Admin{Role: domain.RoleSecurity}, "accounts", Deps{Host: host, Seed: 9})
	require.NoError(t, err)
	require.NoError(t, s.Load(ctx))

	require.NoError(t, s.SetFilter(ctx, "banned", "Allowed"))
	target := s.Snapshot().Rows[0]

	yes := listview.ConfirmFunc(func(string) (bool, error) { return true, nil })
	require.NoError(t, s.Act(ctx, "ban", target.ID, "", yes))
	rec, err := s.Record(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, "Banned", rec.Cells[2])
	assert.Equal(t, "0", rec.Cells[3])

	err = s.Act(ctx, "ban", target.ID, "", yes)
	assert.ErrorIs(t, err, listview.ErrRejected)
	latest, _ := host.Latest()
	assert.Contains(t, latest.Text, "already banned")

	require.NoError(t, s.Act(ctx, "unban", target.ID, "", nil))
	assert.False(t, s.CanCreate())
	assert.ErrorIs(t, s.OpenCreate(), ErrReadOnly)
}

func TestMockPaymentsReadOnlyForm(t *testing.T) {
	ctx := context.Background()
	s, err := Open(domain.Admin{Role: domain.RoleCashier}, "payments", Deps{Seed: 1})
	require.NoError(t, err)
	require.NoError(t, s.Load(ctx))

	id := s.Snapshot().Rows[0].ID
	assert.ErrorIs(t, s.OpenEdit(ctx, id), ErrReadOnly)
	assert.True(t, s.CanCreate())
	_, err = s.Download(ctx, "refund", id)
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = s.Record(ctx, "pay-9999")
	assert.ErrorIs(t, err, listview.ErrRejected)
}
