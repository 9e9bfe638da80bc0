// Package listview is the generic list screen: fetch a collection, filter it,
// page it, and run mutations against it.
package listview

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/backoffice-suite/backoffice/internal/api"
	"github.com/backoffice-suite/backoffice/internal/logging"
	"github.com/backoffice-suite/backoffice/internal/notify"
)

// Mode selects where pagination happens.
type Mode int

const (
	// ServerPaged views hold the page returned by the last load.
	ServerPaged Mode = iota
	// ClientPaged views load the whole collection and filter and page it locally.
	ClientPaged
)

func (m Mode) String() string {
	if m == ClientPaged {
		return "client"
	}
	return "server"
}

// DefaultPageSize is used when Options.PageSize is not positive.
const DefaultPageSize = 10

// Options configure a View.
type Options struct {
	Mode     Mode
	PageSize int
	// StaleGuard discards responses to superseded loads. Without it the
	// last response to arrive wins.
	StaleGuard bool
	Relay      *notify.Relay
	Logger     logging.Logger
	// LoadTitle heads load failure messages.
	LoadTitle string
}

// Snapshot is a consistent copy of the view state.
type Snapshot[T any] struct {
	Rows     []T
	Page     int
	PageSize int
	Pages    int
	// Total is the backend total, or api.UnknownTotal for client-paged views.
	Total int
	// Matched counts rows passing search and filters.
	Matched      int
	Search       string
	Filters      map[string]string
	Loading      bool
	Busy         bool
	Loaded       bool
	Presentation Presentation
}

// View is the state of one list screen. It is safe for concurrent use.
type View[T any] struct {
	source     Source[T]
	schema     Schema[T]
	mode       Mode
	staleGuard bool
	relay      *notify.Relay
	logger     logging.Logger
	loadTitle  string

	mu       sync.Mutex
	items    []T
	total    int
	page     int
	pageSize int
	search   string
	filters  map[string]string
	inflight int
	mutating int
	seq      uint64
	loaded   bool
}

// New returns a View over source.
func New[T any](source Source[T], schema Schema[T], opts Options) *View[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.LoadTitle == "" {
		opts.LoadTitle = "Could not load"
	}
	v := &View[T]{
		source:     source,
		schema:     schema,
		mode:       opts.Mode,
		staleGuard: opts.StaleGuard,
		relay:      opts.Relay,
		logger:     opts.Logger,
		loadTitle:  opts.LoadTitle,
		pageSize:   opts.PageSize,
		filters:    map[string]string{},
		items:      []T{},
	}
	if v.mode == ClientPaged {
		v.total = api.UnknownTotal
	}
	return v
}

// Mode returns the pagination mode.
func (v *View[T]) Mode() Mode { return v.mode }

// Schema returns the search and filter schema.
func (v *View[T]) Schema() Schema[T] { return v.schema }

// Relay returns the notification relay of the view.
func (v *View[T]) Relay() *notify.Relay { return v.relay }

func (v *View[T]) queryLocked() Query {
	if v.mode == ClientPaged {
		return Query{Unpaged: true}
	}
	return Query{
		Page:     v.page,
		PageSize: v.pageSize,
		Search:   v.search,
		Filters:  maps.Clone(v.filters),
	}
}

// Query returns the request the next Load will issue.
func (v *View[T]) Query() Query {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.queryLocked().clone()
}

// Load fetches the current query and replaces items and total on success.
// On failure items are kept and one error is relayed. Loading is released on
// every path, including a panicking source.
func (v *View[T]) Load(ctx context.Context) error {
	v.mu.Lock()
	q := v.queryLocked()
	v.seq++
	seq := v.seq
	v.inflight++
	v.mu.Unlock()

	res, err := v.fetch(ctx, q)

	v.mu.Lock()
	v.inflight--
	if v.staleGuard && seq != v.seq {
		v.mu.Unlock()
		v.logger.Debug("discarding stale response", "seq", seq, "latest", v.latestSeq(), "error", err)
		return nil
	}
	if err == nil {
		if page, ok := res.Unwrap(); ok {
			v.items = page.Items
			if v.items == nil {
				v.items = []T{}
			}
			if v.mode == ServerPaged {
				v.total = page.Total
			}
			v.loaded = true
			if last, known := v.lastPageLocked(); v.mode == ClientPaged && known && v.page > last {
				v.page = last
			}
			v.mu.Unlock()
			v.logger.Debug("loaded", "rows", len(page.Items), "total", page.Total, "page", q.Page)
			return nil
		}
		err = Rejected(res.Message())
	}
	v.mu.Unlock()

	v.logger.Error("load failed", "page", q.Page, "error", err)
	v.relay.ShowError(v.loadTitle, userMessage(err))
	return err
}

func (v *View[T]) latestSeq() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.seq
}

func (v *View[T]) fetch(ctx context.Context, q Query) (res api.ListResult[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError("source", r)
		}
	}()
	if err := q.Validate(); err != nil {
		return res, err
	}
	if v.source == nil {
		return res, fmt.Errorf("listview: no source")
	}
	return v.source.List(ctx, q)
}

// SetSearch changes the search term and resets the page. It reports whether
// the view must be reloaded.
func (v *View[T]) SetSearch(term string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if term == v.search {
		return false
	}
	v.search = term
	v.page = 0
	return v.mode == ServerPaged
}

// SetFilter sets one categorical filter; an empty value removes it. The page
// is reset. It reports whether the view must be reloaded.
func (v *View[T]) SetFilter(name, value string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.filters[name] == value {
		return false
	}
	if value == "" {
		delete(v.filters, name)
	} else {
		v.filters[name] = value
	}
	v.page = 0
	return v.mode == ServerPaged
}

// ClearFilters removes the search term and every filter.
func (v *View[T]) ClearFilters() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.search == "" && len(v.filters) == 0 {
		return false
	}
	v.search = ""
	v.filters = map[string]string{}
	v.page = 0
	return v.mode == ServerPaged
}

// SetPage moves to page p. Pages past the last known page are refused.
func (v *View[T]) SetPage(p int) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if p < 0 {
		return false, fmt.Errorf("%w: page %d < 0", ErrInvalidQuery, p)
	}
	if last, known := v.lastPageLocked(); known && p > last {
		return false, fmt.Errorf("%w: page %d of %d", ErrInvalidQuery, p, last+1)
	}
	if p == v.page {
		return false, nil
	}
	v.page = p
	return v.mode == ServerPaged, nil
}

// NextPage moves forward one page.
func (v *View[T]) NextPage() (bool, error) {
	return v.SetPage(v.Page() + 1)
}

// PrevPage moves back one page.
func (v *View[T]) PrevPage() (bool, error) {
	return v.SetPage(v.Page() - 1)
}

// SetPageSize changes the page size and resets the page.
func (v *View[T]) SetPageSize(n int) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if n <= 0 {
		return false, fmt.Errorf("%w: page size %d <= 0", ErrInvalidQuery, n)
	}
	if n == v.pageSize {
		return false, nil
	}
	v.pageSize = n
	v.page = 0
	return v.mode == ServerPaged, nil
}

// Page returns the zero-based page.
func (v *View[T]) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

// PageSize returns the page size.
func (v *View[T]) PageSize() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pageSize
}

// Search returns the search term.
func (v *View[T]) Search() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.search
}

// Filters returns a copy of the active filters.
func (v *View[T]) Filters() map[string]string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return maps.Clone(v.filters)
}

// Total returns the backend total, or api.UnknownTotal for client-paged views.
func (v *View[T]) Total() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.total
}

// Items returns the loaded items before filtering and paging.
func (v *View[T]) Items() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]T(nil), v.items...)
}

// Matching returns every loaded item passing search and filters. For
// server-paged views this is the loaded page.
func (v *View[T]) Matching() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.matchingLocked()
}

// FilteredCount counts the rows passing search and filters.
func (v *View[T]) FilteredCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.matchedLocked()
}

// Rows returns the rows of the current page.
func (v *View[T]) Rows() []T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rowsLocked()
}

// Loading reports whether a load or mutation is in flight.
func (v *View[T]) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.inflight > 0 || v.mutating > 0
}

// Busy reports whether row actions must be refused.
func (v *View[T]) Busy() bool {
	return v.Loading()
}

// Presentation returns what the table shows.
func (v *View[T]) Presentation() Presentation {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Present(v.inflight > 0 || v.mutating > 0, len(v.rowsLocked()))
}

// Snapshot returns the whole state under one lock.
func (v *View[T]) Snapshot() Snapshot[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	rows := v.rowsLocked()
	busy := v.inflight > 0 || v.mutating > 0
	return Snapshot[T]{
		Rows:         append([]T(nil), rows...),
		Page:         v.page,
		PageSize:     v.pageSize,
		Pages:        v.pagesLocked(),
		Total:        v.total,
		Matched:      v.matchedLocked(),
		Search:       v.search,
		Filters:      maps.Clone(v.filters),
		Loading:      busy,
		Busy:         busy,
		Loaded:       v.loaded,
		Presentation: Present(busy, len(rows)),
	}
}

func (v *View[T]) matchingLocked() []T {
	if v.mode == ServerPaged {
		return append([]T(nil), v.items...)
	}
	return Apply(v.items, v.search, v.filters, v.schema)
}

func (v *View[T]) matchedLocked() int {
	if v.mode == ServerPaged {
		if v.total == api.UnknownTotal {
			return len(v.items)
		}
		return v.total
	}
	return len(v.matchingLocked())
}

func (v *View[T]) rowsLocked() []T {
	if v.mode == ServerPaged {
		return v.items
	}
	return Paginate(v.matchingLocked(), v.page, v.pageSize)
}

// lastPageLocked returns the last valid page when it is known. A server
// page without a total is the last one only when it is short.
func (v *View[T]) lastPageLocked() (int, bool) {
	if !v.loaded {
		return 0, false
	}
	if v.mode == ServerPaged && v.total == api.UnknownTotal {
		if len(v.items) < v.pageSize {
			return v.page, true
		}
		return 0, false
	}
	pages := v.pagesLocked()
	if pages == 0 {
		return 0, true
	}
	return pages - 1, true
}

func (v *View[T]) pagesLocked() int {
	return PageCount(v.matchedLocked(), v.pageSize)
}

// BeginMutation marks a mutation in flight. The returned release must be
// called exactly once; further calls are no-ops.
func (v *View[T]) BeginMutation() (release func(), err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.inflight > 0 || v.mutating > 0 {
		return func() {}, ErrBusy
	}
	v.mutating++
	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			v.mutating--
			v.mu.Unlock()
		})
	}, nil
}

// Mutate runs a row action. It refuses while the view is busy, relays the
// outcome and reloads the view after a success.
func (v *View[T]) Mutate(ctx context.Context, titles notify.Titles, fn func(ctx context.Context) (notify.Outcome, error)) error {
	release, err := v.BeginMutation()
	if err != nil {
		v.relay.ShowError(titles.Error, err.Error())
		return err
	}
	outcome, err := runMutation(ctx, fn)
	release()

	if err != nil {
		v.logger.Error("mutation failed", "error", err)
		v.relay.ShowError(titles.Error, userMessage(err))
		return err
	}
	v.relay.ShowAPIResponse(outcome, titles)
	if outcome == nil || !outcome.IsOk() {
		msg := ""
		if outcome != nil {
			msg = outcome.Message()
		}
		return Rejected(msg)
	}
	_ = v.Load(ctx)
	return nil
}

func runMutation(ctx context.Context, fn func(ctx context.Context) (notify.Outcome, error)) (outcome notify.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError("mutation", r)
		}
	}()
	return fn(ctx)
}
