package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/backoffice-suite/backoffice/internal/api"
	"github.com/backoffice-suite/backoffice/internal/colors"
	"github.com/backoffice-suite/backoffice/internal/listview"
	"github.com/backoffice-suite/backoffice/internal/screens"
	"github.com/charmbracelet/lipgloss"
)

// TableConfig holds configuration for table formatting.
type TableConfig struct {
	// ShowHeaders determines whether to show column headers.
	ShowHeaders bool

	// HeaderColor is the color to use for headers.
	HeaderColor string

	// Color paints rows by severity.
	Color bool

	// ShowIDs adds a leading id column.
	ShowIDs bool

	// Footer adds a "page x of y" line.
	Footer bool
}

// DefaultTableConfig returns a default table configuration.
func DefaultTableConfig() *TableConfig {
	return &TableConfig{
		ShowHeaders: true,
		HeaderColor: colors.Blue,
		Color:       true,
		Footer:      true,
	}
}

const idWidth = 36

// TableFormatter prints aligned columns sized by the screen's widths.
type TableFormatter struct {
	config *TableConfig
}

// NewTableFormatter creates a new TableFormatter with the default config.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{config: DefaultTableConfig()}
}

// WithConfig replaces the formatter config.
func (f *TableFormatter) WithConfig(cfg *TableConfig) *TableFormatter {
	f.config = cfg
	return f
}

// FormatListing formats a page in table format.
func (f *TableFormatter) FormatListing(l Listing, writer io.Writer) error {
	if len(l.Rows) == 0 {
		_, err := fmt.Fprintln(writer, "No rows.")
		return err
	}

	widths := f.widths(l)
	if f.config.ShowHeaders {
		headers := l.Headers
		if f.config.ShowIDs {
			headers = append([]string{"ID"}, headers...)
		}
		if err := f.writeLine(writer, headers, widths, f.config.HeaderColor); err != nil {
			return err
		}
		seps := make([]string, len(widths))
		for i, w := range widths {
			seps[i] = makeSeparator(w)
		}
		if err := f.writeLine(writer, seps, widths, f.config.HeaderColor); err != nil {
			return err
		}
	}

	for _, row := range l.Rows {
		cells := row.Cells
		if f.config.ShowIDs {
			cells = append([]string{row.ID}, cells...)
		}
		color := ""
		if f.config.Color {
			color = SeverityColor(row.Severity)
		}
		if err := f.writeLine(writer, cells, widths, color); err != nil {
			return err
		}
	}

	if f.config.Footer {
		_, err := fmt.Fprintln(writer, Summary(l))
		return err
	}
	return nil
}

func (f *TableFormatter) widths(l Listing) []int {
	out := make([]int, 0, len(l.Headers)+1)
	if f.config.ShowIDs {
		out = append(out, idWidth)
	}
	for i := range l.Headers {
		w := 12
		if i < len(l.Widths) && l.Widths[i] > 0 {
			w = l.Widths[i]
		}
		out = append(out, w)
	}
	return out
}

func (f *TableFormatter) writeLine(writer io.Writer, cells []string, widths []int, color string) error {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = truncateString(cell, w)
	}
	line := strings.TrimRight(strings.Join(parts, "  "), " ")
	if color != "" {
		line = color + line + colors.Reset
	}
	_, err := fmt.Fprintln(writer, line)
	return err
}

// FormatRecord prints one "Label: value" line per field.
func (f *TableFormatter) FormatRecord(r screens.Record, writer io.Writer) error {
	width := len("ID")
	for _, field := range r.Fields {
		width = max(width, lipgloss.Width(field.Label))
	}
	if _, err := fmt.Fprintf(writer, "%s  %s\n", formatString("ID", width, "left"), r.ID); err != nil {
		return err
	}
	for _, field := range r.Fields {
		if _, err := fmt.Fprintf(writer, "%s  %s\n", formatString(field.Label, width, "left"), field.Value); err != nil {
			return err
		}
	}
	return nil
}

// SeverityColor maps a row severity to a console color.
func SeverityColor(severity string) string {
	switch severity {
	case listview.SeverityError:
		return colors.Red
	case listview.SeverityWarning:
		return colors.Yellow
	case listview.SeveritySuccess:
		return colors.Green
	default:
		return ""
	}
}

// Summary describes the page position, e.g. "Page 1 of 3 (24 rows)".
func Summary(l Listing) string {
	pages := max(l.Pages, 1)
	switch {
	case l.Total != api.UnknownTotal:
		return fmt.Sprintf("Page %d of %d (%d rows)", l.Page+1, pages, l.Total)
	case l.Matched > 0:
		return fmt.Sprintf("Page %d of %d (%d rows)", l.Page+1, pages, l.Matched)
	default:
		return fmt.Sprintf("Page %d", l.Page+1)
	}
}

// Helper functions

// formatString pads or cuts s to width display cells.
func formatString(s string, width int, alignment string) string {
	w := lipgloss.Width(s)
	if w >= width {
		return cut(s, width)
	}
	pad := width - w
	switch alignment {
	case "right":
		return strings.Repeat(" ", pad) + s
	case "center":
		left := pad / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
	default: // left
		return s + strings.Repeat(" ", pad)
	}
}

// truncateString fits s into width cells, ending with "..." if cut.
func truncateString(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return formatString(s, width, "left")
	}
	if width < 3 {
		return cut(s, width)
	}
	return cut(s, width-3) + "..."
}

func cut(s string, width int) string {
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if used+w > width {
			break
		}
		b.WriteRune(r)
		used += w
	}
	return b.String()
}

// makeSeparator creates a separator line of the specified width.
func makeSeparator(width int) string {
	return strings.Repeat("-", width)
}
