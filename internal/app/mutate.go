package app

import (
	"context"
	"fmt"
)

// MutateInput holds the form values of a create or update.
type MutateInput struct {
	Screen string
	// ID is the row to update; empty for create.
	ID     string
	Values map[string]string
}

// MutateUseCase fills and submits the form of a screen.
type MutateUseCase struct {
	client ScreenClient
}

// NewMutateUseCase creates a mutate use-case.
func NewMutateUseCase(client ScreenClient) *MutateUseCase {
	if client == nil {
		panic("NewMutateUseCase: client dependency cannot be nil")
	}
	return &MutateUseCase{client: client}
}

// Create submits a new row built from the form defaults and input.Values.
func (u *MutateUseCase) Create(ctx context.Context, input MutateInput) error {
	if len(input.Values) == 0 {
		return fmt.Errorf("create: no field values given")
	}
	s, err := open(u.client, input.Screen)
	if err != nil {
		return err
	}
	if err := s.OpenCreate(); err != nil {
		return err
	}
	defer s.CloseDialog()
	if err := s.SetFields(input.Values); err != nil {
		return err
	}
	return s.Submit(ctx)
}

// Update changes the given fields of row input.ID.
func (u *MutateUseCase) Update(ctx context.Context, input MutateInput) error {
	if input.ID == "" {
		return fmt.Errorf("update: missing row id")
	}
	if len(input.Values) == 0 {
		return fmt.Errorf("update: no field values given")
	}
	s, err := open(u.client, input.Screen)
	if err != nil {
		return err
	}
	if err := s.OpenEdit(ctx, input.ID); err != nil {
		return err
	}
	defer s.CloseDialog()
	if err := s.SetFields(input.Values); err != nil {
		return err
	}
	return s.Submit(ctx)
}
