package screens

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/backoffice-suite/backoffice/internal/api"
	"github.com/backoffice-suite/backoffice/internal/domain"
	"github.com/backoffice-suite/backoffice/internal/export"
	"github.com/backoffice-suite/backoffice/internal/listview"
	"github.com/backoffice-suite/backoffice/internal/logging"
	"github.com/backoffice-suite/backoffice/internal/notify"
)

// Binding is everything needed to build a Screen over T.
type Binding[T any] struct {
	Descriptor domain.Descriptor[T]
	Source     listview.Source[T]
	Backend    Backend[T]
	// Client serves downloads; nil disables them.
	Client *api.Client
	// Scope holds filters imposed by the admin's identity.
	Scope      map[string]string
	Relay      *notify.Relay
	Logger     logging.Logger
	PageSize   int
	StaleGuard bool
}

type screen[T any] struct {
	d       domain.Descriptor[T]
	view    *listview.View[T]
	dialog  *listview.Dialog[T]
	gate    listview.Gate
	source  listview.Source[T]
	backend Backend[T]
	client  *api.Client
	scope   map[string]string
	relay   *notify.Relay
	logger  logging.Logger
}

// Bind builds a Screen from b.
func Bind[T any](b Binding[T]) Screen {
	if b.Logger == nil {
		b.Logger = logging.Nop()
	}
	d := b.Descriptor
	logger := b.Logger.With("screen", d.Name)
	source := b.Source
	if len(b.Scope) > 0 {
		source = scoped(source, b.Scope, d.Schema)
	}

	s := &screen[T]{
		d:       d,
		source:  source,
		backend: b.Backend,
		client:  b.Client,
		scope:   b.Scope,
		relay:   b.Relay,
		logger:  logger,
	}
	s.view = listview.New(source, d.Schema, listview.Options{
		Mode:       d.Mode,
		PageSize:   b.PageSize,
		StaleGuard: b.StaleGuard,
		Relay:      b.Relay,
		Logger:     logger,
		LoadTitle:  "Could not load " + strings.ToLower(d.Title),
	})
	s.dialog = listview.NewDialog(listview.DialogConfig[T]{
		Default:  s.defaultDraft,
		ID:       d.ID,
		Validate: d.Validate,
		Mutator:  b.Backend,
		Owner:    s.view,
		Relay:    b.Relay,
		Logger:   logger,
		CreateTitles: notify.Titles{
			Success: "Created " + d.Noun,
			Error:   "Could not create " + d.Noun,
		},
		EditTitles: notify.Titles{
			Success: "Saved " + d.Noun,
			Error:   "Could not save " + d.Noun,
		},
	})
	return s
}

func (s *screen[T]) defaultDraft() T {
	var draft T
	if s.d.Default != nil {
		draft = s.d.Default()
	}
	if len(s.scope) > 0 {
		if err := s.d.Apply(&draft, s.scope); err != nil {
			s.logger.Warn("scope does not apply to draft", "error", err)
		}
	}
	return draft
}

// fail relays a local error and returns it.
func (s *screen[T]) fail(title string, err error) error {
	s.relay.ShowError(title, err.Error())
	return err
}

func (s *screen[T]) Info() domain.ScreenInfo { return s.d.Info() }
func (s *screen[T]) Mode() listview.Mode     { return s.d.Mode }
func (s *screen[T]) Headers() []string       { return s.d.Headers() }
func (s *screen[T]) CanCreate() bool         { return !s.d.NoCreate && s.backend != nil }
func (s *screen[T]) CanEdit() bool           { return !s.d.NoEdit && s.backend != nil }

func (s *screen[T]) Actions() []domain.Action {
	return append([]domain.Action(nil), s.d.Actions...)
}

func (s *screen[T]) Widths() []int {
	out := make([]int, len(s.d.Columns))
	for i, c := range s.d.Columns {
		out[i] = c.Width
	}
	return out
}

func (s *screen[T]) Filters() []Filter {
	out := make([]Filter, 0, len(s.d.Schema.Categories))
	for _, c := range s.d.Schema.Categories {
		f := Filter{Name: c.Name, Title: c.Title}
		for _, v := range c.Options() {
			f.Options = append(f.Options, Option{Value: v, Label: c.Label(v)})
		}
		out = append(out, f)
	}
	return out
}

func (s *screen[T]) Fields() []FieldValue {
	return s.fieldValues(s.defaultDraft())
}

func (s *screen[T]) fieldValues(item T) []FieldValue {
	out := make([]FieldValue, len(s.d.Fields))
	for i, f := range s.d.Fields {
		out[i] = FieldValue{Name: f.Name, Label: f.Label, Value: f.Get(item), Options: f.Options}
	}
	return out
}

func (s *screen[T]) row(item T) Row {
	r := Row{ID: s.d.ID(item), Cells: s.d.Row(item)}
	if s.d.Severity != nil {
		r.Severity = s.d.Severity(item)
	}
	return r
}

func (s *screen[T]) Load(ctx context.Context) error {
	return s.view.Load(ctx)
}

func (s *screen[T]) Snapshot() Snapshot {
	vs := s.view.Snapshot()
	rows := make([]Row, len(vs.Rows))
	for i, item := range vs.Rows {
		rows[i] = s.row(item)
	}
	snap := Snapshot{
		Rows:         rows,
		Page:         vs.Page,
		PageSize:     vs.PageSize,
		Pages:        vs.Pages,
		Total:        vs.Total,
		Matched:      vs.Matched,
		Search:       vs.Search,
		Filters:      vs.Filters,
		Scope:        s.scope,
		Loading:      vs.Loading,
		Loaded:       vs.Loaded,
		Presentation: vs.Presentation,
		Dialog: DialogSnapshot{
			State: s.dialog.State(),
			Mode:  s.dialog.Mode(),
			ID:    s.dialog.EditingID(),
			Err:   s.dialog.Err(),
		},
	}
	if snap.Dialog.State != listview.DialogClosed {
		snap.Dialog.Fields = s.fieldValues(s.dialog.Draft())
	}
	if p, ok := s.Pending(); ok {
		snap.Pending = &p
	}
	return snap
}

func (s *screen[T]) reload(ctx context.Context, reload bool, err error) error {
	if err != nil {
		return s.fail("Invalid page", err)
	}
	if reload {
		return s.view.Load(ctx)
	}
	return nil
}

func (s *screen[T]) SetSearch(ctx context.Context, term string) error {
	return s.reload(ctx, s.view.SetSearch(strings.TrimSpace(term)), nil)
}

func (s *screen[T]) SetFilter(ctx context.Context, name, value string) error {
	if _, ok := s.d.Schema.Category(name); !ok {
		return s.fail("Invalid filter", fmt.Errorf("%w: %s", ErrUnknownFilter, name))
	}
	if _, ok := s.scope[name]; ok {
		return s.fail("Invalid filter", fmt.Errorf("%s: %w", name, ErrScoped))
	}
	return s.reload(ctx, s.view.SetFilter(name, strings.TrimSpace(value)), nil)
}

func (s *screen[T]) ClearFilters(ctx context.Context) error {
	return s.reload(ctx, s.view.ClearFilters(), nil)
}

func (s *screen[T]) SetPage(ctx context.Context, page int) error {
	reload, err := s.view.SetPage(page)
	return s.reload(ctx, reload, err)
}

func (s *screen[T]) NextPage(ctx context.Context) error {
	reload, err := s.view.NextPage()
	return s.reload(ctx, reload, err)
}

func (s *screen[T]) PrevPage(ctx context.Context) error {
	reload, err := s.view.PrevPage()
	return s.reload(ctx, reload, err)
}

func (s *screen[T]) SetPageSize(ctx context.Context, n int) error {
	reload, err := s.view.SetPageSize(n)
	return s.reload(ctx, reload, err)
}

func (s *screen[T]) Restore(pageSize int, filters map[string]string) {
	if pageSize > 0 {
		_, _ = s.view.SetPageSize(pageSize)
	}
	for name, value := range filters {
		if _, ok := s.d.Schema.Category(name); !ok {
			continue
		}
		if _, ok := s.scope[name]; ok {
			continue
		}
		s.view.SetFilter(name, strings.TrimSpace(value))
	}
}

// find returns the row with id, looking at loaded rows first.
func (s *screen[T]) find(ctx context.Context, id string) (T, error) {
	for _, item := range s.view.Items() {
		if s.d.ID(item) == id {
			return item, nil
		}
	}
	var zero T
	if s.backend == nil {
		return zero, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	res, err := s.backend.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	item, ok := res.Unwrap()
	if !ok {
		return zero, listview.Rejected(res.Message())
	}
	return item, nil
}

func (s *screen[T]) Record(ctx context.Context, id string) (Record, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return Record{}, s.fail("Could not open "+s.d.Noun, err)
	}
	return Record{Row: s.row(item), Fields: s.fieldValues(item)}, nil
}

func (s *screen[T]) OpenCreate() error {
	if !s.CanCreate() {
		return s.fail("Could not create "+s.d.Noun, ErrReadOnly)
	}
	if err := s.dialog.OpenCreate(); err != nil {
		return s.fail("Could not create "+s.d.Noun, err)
	}
	return nil
}

func (s *screen[T]) OpenEdit(ctx context.Context, id string) error {
	title := "Could not edit " + s.d.Noun
	if !s.CanEdit() {
		return s.fail(title, ErrReadOnly)
	}
	item, err := s.find(ctx, id)
	if err != nil {
		return s.fail(title, err)
	}
	if err := s.dialog.OpenEdit(item); err != nil {
		return s.fail(title, err)
	}
	return nil
}

func (s *screen[T]) SetField(name, value string) error {
	f, ok := s.d.Field(name)
	if !ok {
		return s.fail("Invalid field", fmt.Errorf("%w: %s", ErrUnknownField, name))
	}
	if fixed, ok := s.scope[name]; ok && value != fixed {
		return s.fail("Invalid field", fmt.Errorf("%s: %w", name, ErrScoped))
	}
	err := s.dialog.Edit(func(t *T) error { return f.Set(t, value) })
	if err != nil {
		return s.fail("Invalid field", fmt.Errorf("%s: %w", f.Label, err))
	}
	return nil
}

// SetFields sets several fields in name order and stops at the first error.
func (s *screen[T]) SetFields(values map[string]string) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.SetField(name, values[name]); err != nil {
			return err
		}
	}
	return nil
}

func (s *screen[T]) Submit(ctx context.Context) error {
	err := s.dialog.Submit(ctx)
	if errors.Is(err, listview.ErrDialogClosed) || errors.Is(err, listview.ErrSubmitInFlight) {
		return s.fail("Could not submit", err)
	}
	return err
}

func (s *screen[T]) CloseDialog() {
	s.dialog.Close()
}

func (s *screen[T]) action(name, id, param string) (domain.Action, listview.PendingAction, error) {
	a, ok := s.d.Action(name)
	if !ok {
		return a, listview.PendingAction{}, fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	if a.Download {
		return a, listview.PendingAction{}, fmt.Errorf("%s is a download", name)
	}
	param = strings.TrimSpace(param)
	if a.Param != "" && param == "" {
		return a, listview.PendingAction{}, fmt.Errorf("%w: %s needs %s", ErrMissingParam, name, a.Param)
	}
	if s.backend == nil {
		return a, listview.PendingAction{}, ErrUnsupported
	}
	return a, listview.PendingAction{
		Name:   a.Name,
		ID:     id,
		Prompt: s.prompt(a, id, param),
		Run:    s.runner(a, id, param),
	}, nil
}

func (s *screen[T]) prompt(a domain.Action, id, param string) string {
	target := id
	for _, item := range s.view.Items() {
		if s.d.ID(item) == id {
			if cells := s.d.Row(item); len(cells) > 0 && cells[0] != "" {
				target = cells[0]
			}
			break
		}
	}
	if param != "" {
		return fmt.Sprintf("%s: %s %q (%s %s)?", a.Title, s.d.Noun, target, a.Param, param)
	}
	return fmt.Sprintf("%s %s %q?", a.Title, s.d.Noun, target)
}

func (s *screen[T]) runner(a domain.Action, id, param string) func(ctx context.Context) error {
	titles := notify.Titles{Success: a.Title + " done", Error: a.Title + " failed"}
	if a.Name == domain.Delete.Name {
		titles = notify.Titles{Success: "Deleted " + s.d.Noun, Error: "Could not delete " + s.d.Noun}
	}
	return func(ctx context.Context) error {
		return s.view.Mutate(ctx, titles, func(ctx context.Context) (notify.Outcome, error) {
			if a.Name == domain.Delete.Name {
				return s.backend.Delete(ctx, id)
			}
			return s.backend.Action(ctx, id, a.Name, param)
		})
	}
}

func (s *screen[T]) Trigger(ctx context.Context, name, id, param string) (bool, error) {
	a, pending, err := s.action(name, id, param)
	if err != nil {
		return false, s.fail("Could not run "+name, err)
	}
	if !a.Destructive {
		return false, pending.Run(ctx)
	}
	if err := s.gate.Request(pending); err != nil {
		return false, s.fail("Could not run "+name, err)
	}
	return true, nil
}

func (s *screen[T]) Act(ctx context.Context, name, id, param string, c listview.Confirmer) error {
	a, pending, err := s.action(name, id, param)
	if err != nil {
		return s.fail("Could not run "+name, err)
	}
	if !a.Destructive {
		return pending.Run(ctx)
	}
	if c == nil {
		return s.fail("Could not run "+name, ErrNoConfirmer)
	}
	var ran bool
	run := pending.Run
	pending.Run = func(ctx context.Context) error {
		ran = true
		return run(ctx)
	}
	err = s.gate.Ask(ctx, pending, c)
	if err != nil && !ran && !errors.Is(err, listview.ErrCancelled) {
		return s.fail("Could not run "+name, err)
	}
	return err
}

func (s *screen[T]) Pending() (Pending, bool) {
	p, ok := s.gate.Pending()
	if !ok {
		return Pending{}, false
	}
	return Pending{Name: p.Name, ID: p.ID, Prompt: p.Prompt}, true
}

func (s *screen[T]) Confirm(ctx context.Context) error {
	err := s.gate.Confirm(ctx)
	if errors.Is(err, listview.ErrNothingPending) {
		return s.fail("Nothing to confirm", err)
	}
	return err
}

func (s *screen[T]) Cancel() bool {
	return s.gate.Cancel()
}

func (s *screen[T]) Download(ctx context.Context, name, id string) (api.Blob, error) {
	title := "Could not download"
	a, ok := s.d.Action(name)
	if !ok || !a.Download {
		return api.Blob{}, s.fail(title, fmt.Errorf("%w: %s", ErrUnknownAction, name))
	}
	if s.client == nil {
		return api.Blob{}, s.fail(title, ErrUnsupported)
	}
	p := path.Join(s.d.Resource, url.PathEscape(id), a.Name)
	res, err := api.Download(ctx, s.client, p)
	if err != nil {
		s.logger.Error("download failed", "path", p, "error", err)
		return api.Blob{}, s.fail(title, err)
	}
	blob, ok := res.Unwrap()
	if !ok {
		s.relay.ShowError(title, res.Message())
		return api.Blob{}, listview.Rejected(res.Message())
	}
	s.relay.ShowSuccess("Downloaded", blob.Name)
	return blob, nil
}

// Export fetches every row matching the current search and filters.
func (s *screen[T]) Export(ctx context.Context) (export.Sheet, error) {
	title := "Could not export " + strings.ToLower(s.d.Title)
	q := listview.Query{Unpaged: true, Search: s.view.Search(), Filters: s.view.Filters()}
	res, err := s.source.List(ctx, q)
	if err != nil {
		s.logger.Error("export failed", "error", err)
		return export.Sheet{}, s.fail(title, err)
	}
	page, ok := res.Unwrap()
	if !ok {
		s.relay.ShowError(title, res.Message())
		return export.Sheet{}, listview.Rejected(res.Message())
	}
	items := page.Items
	if s.d.Mode == listview.ClientPaged {
		items = listview.Apply(items, q.Search, q.Filters, s.d.Schema)
	}
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = s.d.Row(item)
	}
	return export.Sheet{Name: s.d.Title, Headers: s.d.Headers(), Widths: s.Widths(), Rows: rows}, nil
}
