// Package export writes screens to spreadsheets and saves downloaded files.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/backoffice-suite/backoffice/internal/api"
	"github.com/xuri/excelize/v2"
)

// ErrInvalidName is returned for a blob without a usable file name.
var ErrInvalidName = errors.New("invalid file name")

const maxSheetName = 31

// Sheet is a table to export.
type Sheet struct {
	Name    string
	Headers []string
	// Widths are column widths in characters; missing entries use the default.
	Widths []int
	Rows   [][]string
}

// XLSX writes sheet as a workbook with a bold, frozen header row.
func XLSX(w io.Writer, sheet Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	name := sheetName(sheet.Name)
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	if len(sheet.Headers) > 0 {
		header := make([]any, len(sheet.Headers))
		for i, h := range sheet.Headers {
			header[i] = h
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return fmt.Errorf("export: write header: %w", err)
		}
	}
	for i, row := range sheet.Rows {
		if len(row) == 0 {
			continue
		}
		cells := make([]any, len(row))
		for j, c := range row {
			cells[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export: row %d: %w", i, err)
		}
		if err := f.SetSheetRow(name, cell, &cells); err != nil {
			return fmt.Errorf("export: write row %d: %w", i, err)
		}
	}

	if len(sheet.Headers) > 0 {
		if err := styleHeader(f, name, sheet); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func styleHeader(f *excelize.File, name string, sheet Sheet) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(sheet.Headers), 1)
	if err != nil {
		return fmt.Errorf("export: header range: %w", err)
	}
	if err := f.SetCellStyle(name, "A1", last, style); err != nil {
		return fmt.Errorf("export: style header: %w", err)
	}
	for i, width := range sheet.Widths {
		if i >= len(sheet.Headers) || width <= 0 {
			continue
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("export: column %d: %w", i, err)
		}
		if err := f.SetColWidth(name, col, col, float64(width)+2); err != nil {
			return fmt.Errorf("export: column width: %w", err)
		}
	}
	return f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// sheetName strips the characters Excel refuses in sheet names.
func sheetName(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if s == "" {
		return "Sheet1"
	}
	if r := []rune(s); len(r) > maxSheetName {
		s = string(r[:maxSheetName])
	}
	return s
}

// SaveBlob writes blob into dir without overwriting existing files and
// returns the path written.
func SaveBlob(dir string, blob api.Blob) (string, error) {
	name := filepath.Base(filepath.Clean("/" + blob.Name))
	if name == "/" || name == "." || name == ".." || strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("export: %w: %q", ErrInvalidName, blob.Name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create dir: %w", err)
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 0; ; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		path := filepath.Join(dir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("export: create %s: %w", candidate, err)
		}
		if _, err := f.Write(blob.Data); err != nil {
			f.Close()
			return "", fmt.Errorf("export: write %s: %w", candidate, err)
		}
		return path, f.Close()
	}
}
