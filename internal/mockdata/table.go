// Package mockdata provides synthetic backends for screens that have no API.
// Rows have the same shape as the API rows and are generated from a seed,
// so the same seed always yields the same data.
package mockdata

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/backoffice-suite/backoffice/internal/api"
	"github.com/backoffice-suite/backoffice/internal/listview"
)

// Table is an in-memory collection that satisfies the list, mutation and
// action contracts of a backend resource.
type Table[T any] struct {
	mu     sync.Mutex
	rows   []T
	id     func(T) string
	setID  func(*T, string)
	prefix string
	next   int
	schema listview.Schema[T]
}

// NewTable returns a table holding rows. New rows get ids prefix-N.
func NewTable[T any](rows []T, prefix string, id func(T) string, setID func(*T, string)) *Table[T] {
	return &Table[T]{
		rows:   slices.Clone(rows),
		id:     id,
		setID:  setID,
		prefix: prefix,
		next:   len(rows) + 1,
	}
}

// WithSchema lets paged queries search and filter like the backend does.
func (t *Table[T]) WithSchema(schema listview.Schema[T]) *Table[T] {
	t.schema = schema
	return t
}

// List returns every row for unpaged queries, otherwise the requested page
// of the rows matching the query.
func (t *Table[T]) List(ctx context.Context, q listview.Query) (api.ListResult[T], error) {
	if err := ctx.Err(); err != nil {
		return api.ListResult[T]{}, err
	}
	t.mu.Lock()
	rows := slices.Clone(t.rows)
	t.mu.Unlock()

	if q.Unpaged {
		return api.Ok(api.Page[T]{Items: rows, Total: api.UnknownTotal}), nil
	}
	if err := q.Validate(); err != nil {
		return api.Fail[api.Page[T]](err.Error()), nil
	}
	matched := listview.Apply(rows, q.Search, q.Filters, t.schema)
	return api.Ok(api.Page[T]{
		Items: listview.Paginate(matched, q.Page, q.PageSize),
		Total: len(matched),
	}), nil
}

// Get returns one row.
func (t *Table[T]) Get(ctx context.Context, id string) (api.Result[T], error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.index(id)
	if i < 0 {
		return api.Fail[T](notFound(id)), nil
	}
	return api.Ok(t.rows[i]), nil
}

// Create appends draft with a fresh id.
func (t *Table[T]) Create(ctx context.Context, draft T) (api.Result[T], error) {
	if err := ctx.Err(); err != nil {
		return api.Result[T]{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setID(&draft, t.prefix+"-"+strconv.Itoa(t.next))
	t.next++
	t.rows = append([]T{draft}, t.rows...)
	return api.OkWithMessage(draft, t.id(draft)), nil
}

// Update replaces the row with the given id.
func (t *Table[T]) Update(ctx context.Context, id string, draft T) (api.Result[T], error) {
	if err := ctx.Err(); err != nil {
		return api.Result[T]{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.index(id)
	if i < 0 {
		return api.Fail[T](notFound(id)), nil
	}
	t.setID(&draft, id)
	t.rows[i] = draft
	return api.Ok(draft), nil
}

// Delete removes the row with the given id.
func (t *Table[T]) Delete(ctx context.Context, id string) (api.Result[api.Empty], error) {
	if err := ctx.Err(); err != nil {
		return api.Result[api.Empty]{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.index(id)
	if i < 0 {
		return api.Fail[api.Empty](notFound(id)), nil
	}
	t.rows = slices.Delete(t.rows, i, i+1)
	return api.Ok(api.Empty{}), nil
}

// Modify changes one row in place. An error from fn is reported as a
// handled failure and leaves the row untouched.
func (t *Table[T]) Modify(ctx context.Context, id string, fn func(*T) error) (api.Result[api.Empty], error) {
	if err := ctx.Err(); err != nil {
		return api.Result[api.Empty]{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.index(id)
	if i < 0 {
		return api.Fail[api.Empty](notFound(id)), nil
	}
	row := t.rows[i]
	if err := fn(&row); err != nil {
		return api.Fail[api.Empty](err.Error()), nil
	}
	t.rows[i] = row
	return api.Ok(api.Empty{}), nil
}

// Len returns the number of rows.
func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

func (t *Table[T]) index(id string) int {
	for i, r := range t.rows {
		if t.id(r) == id {
			return i
		}
	}
	return -1
}

func notFound(id string) string {
	return fmt.Sprintf("no record with id %q", id)
}
