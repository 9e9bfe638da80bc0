package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/backoffice-suite/backoffice/internal/colors"
	"github.com/backoffice-suite/backoffice/internal/listview"
)

// ActionInput represents action command inputs after flag parsing.
type ActionInput struct {
	Screen string
	Action string
	ID     string
	Param  string
	// Yes skips the confirmation of destructive actions.
	Yes bool
	// Confirm asks the user; it is not consulted when Yes is set.
	Confirm listview.Confirmer
}

// ActionUseCase runs a row action, delete included.
type ActionUseCase struct {
	client ScreenClient
}

// NewActionUseCase creates an action use-case.
func NewActionUseCase(client ScreenClient) *ActionUseCase {
	if client == nil {
		panic("NewActionUseCase: client dependency cannot be nil")
	}
	return &ActionUseCase{client: client}
}

// Execute runs input.Action on row input.ID.
func (u *ActionUseCase) Execute(ctx context.Context, input ActionInput) error {
	if input.ID == "" {
		return fmt.Errorf("%s: missing row id", input.Action)
	}
	s, err := open(u.client, input.Screen)
	if err != nil {
		return err
	}
	confirm := input.Confirm
	if input.Yes {
		confirm = listview.ConfirmFunc(func(string) (bool, error) { return true, nil })
	}
	err = s.Act(ctx, input.Action, input.ID, input.Param, confirm)
	if errors.Is(err, listview.ErrCancelled) {
		colors.Info("Operation cancelled")
		return nil
	}
	return err
}
