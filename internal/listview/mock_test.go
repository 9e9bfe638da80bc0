package listview

import (
	"context"

	"github.com/backoffice-suite/backoffice/internal/api"
	"github.com/stretchr/testify/mock"
)

type mockSource[T any] struct {
	mock.Mock
}

func (m *mockSource[T]) List(ctx context.Context, q Query) (api.ListResult[T], error) {
	args := m.Called(ctx, q)
	res, _ := args.Get(0).(api.ListResult[T])
	return res, args.Error(1)
}

type mockMutator[T any] struct {
	mock.Mock
}

func (m *mockMutator[T]) Create(ctx context.Context, draft T) (api.Result[T], error) {
	args := m.Called(ctx, draft)
	res, _ := args.Get(0).(api.Result[T])
	return res, args.Error(1)
}

func (m *mockMutator[T]) Update(ctx context.Context, id string, draft T) (api.Result[T], error) {
	args := m.Called(ctx, id, draft)
	res, _ := args.Get(0).(api.Result[T])
	return res, args.Error(1)
}

func page[T any](total int, items ...T) api.ListResult[T] {
	if items == nil {
		items = []T{}
	}
	return api.Ok(api.Page[T]{Items: items, Total: total})
}
