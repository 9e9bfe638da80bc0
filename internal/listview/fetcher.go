package listview

import (
	"context"
	"fmt"

	"github.com/backoffice-suite/backoffice/internal/api"
	"github.com/backoffice-suite/backoffice/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Source produces list pages. A handled failure is an api.Result failure
// with a nil error; transport problems are returned as errors.
type Source[T any] interface {
	List(ctx context.Context, q Query) (api.ListResult[T], error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[T any] func(ctx context.Context, q Query) (api.ListResult[T], error)

// List calls f.
func (f SourceFunc[T]) List(ctx context.Context, q Query) (api.ListResult[T], error) {
	return f(ctx, q)
}

// APISource lists a backend resource.
type APISource[T any] struct {
	Client   *api.Client
	Resource string
}

// List fetches q from the resource.
func (s APISource[T]) List(ctx context.Context, q Query) (api.ListResult[T], error) {
	if err := q.Validate(); err != nil {
		return api.ListResult[T]{}, err
	}
	return api.List[T](ctx, s.Client, s.Resource, q.Params())
}

// Fetched is the outcome of one dependent request in a fan-out.
type Fetched[D any] struct {
	Value D
	Err   error
}

// OK reports whether the request succeeded.
func (f Fetched[D]) OK() bool {
	return f.Err == nil
}

// DefaultFanOutLimit bounds concurrent dependent requests when no limit is given.
const DefaultFanOutLimit = 8

// FanOut runs fn once per item in parallel, at most limit at a time, and
// waits for all of them. Results keep the order of items. A failing item
// only sets its own Err; the others are unaffected.
func FanOut[S, D any](ctx context.Context, items []S, limit int, logger logging.Logger, fn func(ctx context.Context, item S) (D, error)) []Fetched[D] {
	if logger == nil {
		logger = logging.Nop()
	}
	if limit <= 0 {
		limit = DefaultFanOutLimit
	}
	results := make([]Fetched[D], len(items))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, item := range items {
		g.Go(func() error {
			value, err := call(ctx, item, fn)
			if err != nil {
				logger.Warn("fan-out request failed", "index", i, "error", err)
			}
			results[i] = Fetched[D]{Value: value, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func call[S, D any](ctx context.Context, item S, fn func(context.Context, S) (D, error)) (value D, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError("fan-out request", r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return value, fmt.Errorf("listview: fan-out: %w", err)
	}
	return fn(ctx, item)
}

// ResultErr converts a handled failure into a RejectedError so fan-out
// callbacks can return api results directly.
func ResultErr[T any](res api.Result[T], err error) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	value, ok := res.Unwrap()
	if !ok {
		return value, Rejected(res.Message())
	}
	return value, nil
}
