package app

import (
	"context"
	"io"

	"github.com/backoffice-suite/backoffice/internal/format"
)

// ShowUseCase prints every field of one row.
type ShowUseCase struct {
	client ScreenClient
}

// NewShowUseCase creates a show use-case.
func NewShowUseCase(client ScreenClient) *ShowUseCase {
	if client == nil {
		panic("NewShowUseCase: client dependency cannot be nil")
	}
	return &ShowUseCase{client: client}
}

// Execute writes the row id of screen to w.
func (u *ShowUseCase) Execute(ctx context.Context, screen, id string, f format.FormatterType, w io.Writer) error {
	s, err := open(u.client, screen)
	if err != nil {
		return err
	}
	rec, err := s.Record(ctx, id)
	if err != nil {
		return err
	}
	return format.NewFormatter(f).FormatRecord(rec, w)
}
