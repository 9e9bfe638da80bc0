// Package app holds the use cases behind the CLI commands. Each use case
// opens a screen through a ScreenClient and drives it like the TUI would.
//
// Errors from screen operations have already been shown by the screen's
// relay; errors raised here before a screen is involved have not.
package app

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/backoffice-suite/backoffice/internal/screens"
)

// ScreenClient opens the screens the signed-in admin may see.
type ScreenClient interface {
	Open(name string) (screens.Screen, error)
}

// Query narrows a screen before it is loaded.
type Query struct {
	Search  string
	Filters map[string]string
	// PageSize of 0 keeps the screen's default.
	PageSize int
}

// open opens name or explains why it cannot be opened.
func open(client ScreenClient, name string) (screens.Screen, error) {
	if name == "" {
		return nil, fmt.Errorf("missing screen name")
	}
	s, err := client.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	return s, nil
}

// apply sets q on s without loading it; the first Load picks it up.
func apply(ctx context.Context, s screens.Screen, q Query) error {
	if q.PageSize > 0 {
		if err := s.SetPageSize(ctx, q.PageSize); err != nil {
			return err
		}
	}
	// Sorted so that a bad filter is always reported the same way.
	for _, name := range slices.Sorted(maps.Keys(q.Filters)) {
		if err := s.SetFilter(ctx, name, q.Filters[name]); err != nil {
			return err
		}
	}
	if q.Search != "" {
		return s.SetSearch(ctx, q.Search)
	}
	return nil
}
