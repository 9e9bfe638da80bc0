package app

import (
	"context"
	"io"

	"github.com/backoffice-suite/backoffice/internal/format"
)

// ListInput represents list command inputs after flag parsing.
type ListInput struct {
	Screen string
	Query  Query
	// Page is one-based; 0 shows the first page.
	Page int
	// All prints every page as one listing.
	All    bool
	Format format.FormatterType
}

// ListUseCase prints a page of a screen.
type ListUseCase struct {
	client ScreenClient
}

// NewListUseCase creates a new list use-case.
func NewListUseCase(client ScreenClient) *ListUseCase {
	if client == nil {
		panic("NewListUseCase: client dependency cannot be nil")
	}
	return &ListUseCase{client: client}
}

// Execute loads the screen and writes the requested page to w.
func (u *ListUseCase) Execute(ctx context.Context, input ListInput, w io.Writer) error {
	s, err := open(u.client, input.Screen)
	if err != nil {
		return err
	}
	if err := apply(ctx, s, input.Query); err != nil {
		return err
	}
	if err := s.Load(ctx); err != nil {
		return err
	}
	if input.Page > 1 && !input.All {
		if err := s.SetPage(ctx, input.Page-1); err != nil {
			return err
		}
	}

	listing := format.NewListing(s)
	if input.All {
		for snap := s.Snapshot(); snap.Page+1 < snap.Pages; snap = s.Snapshot() {
			if err := s.NextPage(ctx); err != nil {
				return err
			}
			listing.Rows = append(listing.Rows, s.Snapshot().Rows...)
		}
		listing.Page, listing.Pages = 0, 1
	}
	return format.NewFormatter(input.Format).FormatListing(listing, w)
}
