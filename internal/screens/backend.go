package screens

import (
	"context"
	"fmt"

	"github.com/backoffice-suite/backoffice/internal/api"
	"github.com/backoffice-suite/backoffice/internal/domain"
	"github.com/backoffice-suite/backoffice/internal/mockdata"
)

// Backend performs the writes of a screen.
type Backend[T any] interface {
	Create(ctx context.Context, draft T) (api.Result[T], error)
	Update(ctx context.Context, id string, draft T) (api.Result[T], error)
	Get(ctx context.Context, id string) (api.Result[T], error)
	Delete(ctx context.Context, id string) (api.Result[api.Empty], error)
	Action(ctx context.Context, id, name, param string) (api.Result[api.Empty], error)
}

// APIBackend writes through the backend API.
type APIBackend[T any] struct {
	client   *api.Client
	resource string
	// params maps an action to the payload key of its parameter.
	params map[string]string
}

// NewAPIBackend returns a backend for the resource of d.
func NewAPIBackend[T any](client *api.Client, d domain.Descriptor[T]) *APIBackend[T] {
	params := map[string]string{}
	for _, a := range d.Actions {
		if a.Param != "" {
			params[a.Name] = a.Param
		}
	}
	return &APIBackend[T]{client: client, resource: d.Resource, params: params}
}

func (b *APIBackend[T]) Create(ctx context.Context, draft T) (api.Result[T], error) {
	return api.Create[T](ctx, b.client, b.resource, draft)
}

func (b *APIBackend[T]) Update(ctx context.Context, id string, draft T) (api.Result[T], error) {
	return api.Update[T](ctx, b.client, b.resource, id, draft)
}

func (b *APIBackend[T]) Get(ctx context.Context, id string) (api.Result[T], error) {
	return api.Get[T](ctx, b.client, b.resource, id)
}

func (b *APIBackend[T]) Delete(ctx context.Context, id string) (api.Result[api.Empty], error) {
	return api.Delete(ctx, b.client, b.resource, id)
}

func (b *APIBackend[T]) Action(ctx context.Context, id, name, param string) (api.Result[api.Empty], error) {
	// An untyped nil keeps the request body empty.
	var payload any
	if key := b.params[name]; key != "" {
		payload = map[string]string{key: param}
	}
	return api.Action(ctx, b.client, b.resource, id, name, payload)
}

// MockBackend writes to an in-memory table.
type MockBackend[T any] struct {
	table   *mockdata.Table[T]
	actions map[string]func(*T, string) error
}

// NewMockBackend returns a backend over table with the given row actions.
func NewMockBackend[T any](table *mockdata.Table[T], actions map[string]func(*T, string) error) *MockBackend[T] {
	return &MockBackend[T]{table: table, actions: actions}
}

func (b *MockBackend[T]) Create(ctx context.Context, draft T) (api.Result[T], error) {
	return b.table.Create(ctx, draft)
}

func (b *MockBackend[T]) Update(ctx context.Context, id string, draft T) (api.Result[T], error) {
	return b.table.Update(ctx, id, draft)
}

func (b *MockBackend[T]) Get(ctx context.Context, id string) (api.Result[T], error) {
	return b.table.Get(ctx, id)
}

func (b *MockBackend[T]) Delete(ctx context.Context, id string) (api.Result[api.Empty], error) {
	return b.table.Delete(ctx, id)
}

func (b *MockBackend[T]) Action(ctx context.Context, id, name, param string) (api.Result[api.Empty], error) {
	fn, ok := b.actions[name]
	if !ok {
		return api.Fail[api.Empty](fmt.Sprintf("action %s is not available", name)), nil
	}
	return b.table.Modify(ctx, id, func(t *T) error { return fn(t, param) })
}
