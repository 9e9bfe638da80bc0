// Package screens binds each domain descriptor to a list view, a dialog and
// a confirmation gate, and exposes the result through one untyped interface
// shared by the CLI and the TUI.
//
// Every error returned by a Screen has already been shown through the
// screen's relay, so callers never report it a second time.
package screens

import (
	"context"
	"errors"

	"github.com/backoffice-suite/backoffice/internal/api"
	"github.com/backoffice-suite/backoffice/internal/domain"
	"github.com/backoffice-suite/backoffice/internal/export"
	"github.com/backoffice-suite/backoffice/internal/listview"
)

var (
	// ErrReadOnly is returned when creating or editing on a screen that
	// does not allow it.
	ErrReadOnly = errors.New("not allowed on this screen")
	// ErrUnknownField is returned for a form field the screen does not have.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownFilter is returned for a filter the screen does not have.
	ErrUnknownFilter = errors.New("unknown filter")
	// ErrUnknownAction is returned for an action the screen does not have.
	ErrUnknownAction = errors.New("unknown action")
	// ErrScoped is returned when changing a value fixed by the admin's scope.
	ErrScoped = errors.New("fixed by your access scope")
	// ErrNotFound is returned when a row cannot be found.
	ErrNotFound = errors.New("row not found")
	// ErrUnsupported is returned for downloads on screens without a backend.
	ErrUnsupported = errors.New("not supported on this screen")
	// ErrMissingParam is returned when an action needs a value that was not given.
	ErrMissingParam = errors.New("missing action parameter")
	// ErrNoConfirmer is returned when a destructive action has nobody to ask.
	ErrNoConfirmer = errors.New("destructive action needs confirmation")
)

// Row is one rendered table row.
type Row struct {
	ID       string
	Cells    []string
	Severity string
}

// FieldValue is one form field with its current value.
type FieldValue struct {
	Name    string
	Label   string
	Value   string
	Options []string
}

// Record is a row with every form field.
type Record struct {
	Row
	Fields []FieldValue
}

// Option is one choice of a filter.
type Option struct {
	Value string
	Label string
}

// Filter describes a categorical filter.
type Filter struct {
	Name    string
	Title   string
	Options []Option
}

// DialogSnapshot is the state of the create/edit form.
type DialogSnapshot struct {
	State  listview.DialogState
	Mode   listview.DialogMode
	ID     string
	Fields []FieldValue
	Err    string
}

// Pending describes an action awaiting confirmation.
type Pending struct {
	Name   string
	ID     string
	Prompt string
}

// Snapshot is a consistent copy of a screen.
type Snapshot struct {
	Rows     []Row
	Page     int
	PageSize int
	Pages    int
	// Total is the backend total, or api.UnknownTotal.
	Total        int
	Matched      int
	Search       string
	Filters      map[string]string
	Scope        map[string]string
	Loading      bool
	Loaded       bool
	Presentation listview.Presentation
	Dialog       DialogSnapshot
	Pending      *Pending
}

// Screen is a list screen with its form and actions.
type Screen interface {
	Info() domain.ScreenInfo
	Mode() listview.Mode
	Headers() []string
	Widths() []int
	Filters() []Filter
	Fields() []FieldValue
	Actions() []domain.Action
	CanCreate() bool
	CanEdit() bool

	Load(ctx context.Context) error
	Snapshot() Snapshot
	SetSearch(ctx context.Context, term string) error
	SetFilter(ctx context.Context, name, value string) error
	ClearFilters(ctx context.Context) error
	SetPage(ctx context.Context, page int) error
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	SetPageSize(ctx context.Context, n int) error
	// Restore applies a page size and filters without loading. Unknown,
	// scoped and invalid values are skipped.
	Restore(pageSize int, filters map[string]string)
	Record(ctx context.Context, id string) (Record, error)

	OpenCreate() error
	OpenEdit(ctx context.Context, id string) error
	SetField(name, value string) error
	SetFields(values map[string]string) error
	Submit(ctx context.Context) error
	CloseDialog()

	// Trigger runs a non-destructive action now and parks a destructive
	// one until Confirm. It reports whether the action is pending.
	Trigger(ctx context.Context, name, id, param string) (pending bool, err error)
	// Act runs an action, asking c first when it is destructive.
	Act(ctx context.Context, name, id, param string, c listview.Confirmer) error
	Pending() (Pending, bool)
	Confirm(ctx context.Context) error
	Cancel() bool

	Download(ctx context.Context, name, id string) (api.Blob, error)
	Export(ctx context.Context) (export.Sheet, error)
}
