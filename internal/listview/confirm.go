package listview

import (
	"context"
	"fmt"
	"sync"
)

// PendingAction is a destructive action awaiting confirmation.
type PendingAction struct {
	// Name is the action, e.g. "delete" or "ban".
	Name string
	// ID identifies the target row.
	ID string
	// Prompt is shown to the user.
	Prompt string
	Run    func(ctx context.Context) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) (bool, error) { return f(prompt) }

// Gate holds at most one pending destructive action. The action only runs
// from Confirm.
type Gate struct {
	mu      sync.Mutex
	pending *PendingAction
}

// Request parks a. It fails if another action is already pending.
func (g *Gate) Request(a PendingAction) error {
	if a.Run == nil {
		return fmt.Errorf("listview: action %q has nothing to run", a.Name)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending != nil {
		return ErrAlreadyPending
	}
	g.pending = &a
	return nil
}

// Pending returns the parked action.
func (g *Gate) Pending() (PendingAction, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending == nil {
		return PendingAction{}, false
	}
	return *g.pending, true
}

// Confirm runs the parked action and clears it.
func (g *Gate) Confirm(ctx context.Context) error {
	g.mu.Lock()
	a := g.pending
	g.pending = nil
	g.mu.Unlock()
	if a == nil {
		return ErrNothingPending
	}
	return a.Run(ctx)
}

// Cancel drops the parked action. It reports whether one was pending.
func (g *Gate) Cancel() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	had := g.pending != nil
	g.pending = nil
	return had
}

// Ask parks a, asks c, and runs or drops it accordingly. A declined
// confirmation returns ErrCancelled.
func (g *Gate) Ask(ctx context.Context, a PendingAction, c Confirmer) error {
	if err := g.Request(a); err != nil {
		return err
	}
	ok, err := c.Confirm(a.Prompt)
	if err != nil {
		g.Cancel()
		return fmt.Errorf("listview: confirm %s: %w", a.Name, err)
	}
	if !ok {
		g.Cancel()
		return ErrCancelled
	}
	return g.Confirm(ctx)
}
