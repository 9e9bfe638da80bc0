package app

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/backoffice-suite/backoffice/internal/api"
	"github.com/backoffice-suite/backoffice/internal/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportUseCase writes screens to spreadsheets and saves row downloads.
type ExportUseCase struct {
	client ScreenClient
}

// NewExportUseCase creates an export use-case.
func NewExportUseCase(client ScreenClient) *ExportUseCase {
	if client == nil {
		panic("NewExportUseCase: client dependency cannot be nil")
	}
	return &ExportUseCase{client: client}
}

// Export writes every row of screen matching q to an XLSX file in dir and
// returns its path. Paging in q is ignored.
func (u *ExportUseCase) Export(ctx context.Context, screen string, q Query, dir string) (string, error) {
	s, err := open(u.client, screen)
	if err != nil {
		return "", err
	}
	q.PageSize = 0
	if err := apply(ctx, s, q); err != nil {
		return "", err
	}
	sheet, err := s.Export(ctx)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := export.XLSX(&buf, sheet); err != nil {
		return "", fmt.Errorf("export %s: %w", screen, err)
	}
	blob := api.Blob{
		Name:        strings.ToLower(s.Info().Name) + ".xlsx",
		ContentType: xlsxContentType,
		Data:        buf.Bytes(),
	}
	return export.SaveBlob(dir, blob)
}

// Download fetches the file behind a download action of row id and saves
// it in dir.
func (u *ExportUseCase) Download(ctx context.Context, screen, action, id, dir string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("download: missing row id")
	}
	s, err := open(u.client, screen)
	if err != nil {
		return "", err
	}
	blob, err := s.Download(ctx, action, id)
	if err != nil {
		return "", err
	}
	return export.SaveBlob(dir, blob)
}
