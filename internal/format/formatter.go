// Package format renders screen listings and records for CLI commands.
package format

import (
	"io"

	"github.com/backoffice-suite/backoffice/internal/screens"
)

// Listing is one page of a screen, ready to print.
type Listing struct {
	Headers []string
	Widths  []int
	Rows    []screens.Row
	Page    int
	Pages   int
	// Total is api.UnknownTotal when the backend does not report it.
	Total   int
	Matched int
}

// NewListing builds a Listing from a screen snapshot.
func NewListing(s screens.Screen) Listing {
	snap := s.Snapshot()
	return Listing{
		Headers: s.Headers(),
		Widths:  s.Widths(),
		Rows:    snap.Rows,
		Page:    snap.Page,
		Pages:   snap.Pages,
		Total:   snap.Total,
		Matched: snap.Matched,
	}
}

// Formatter defines the interface for output formatters.
type Formatter interface {
	// FormatListing writes one page of rows.
	FormatListing(l Listing, writer io.Writer) error

	// FormatRecord writes every field of one row.
	FormatRecord(r screens.Record, writer io.Writer) error
}

// FormatterType represents the type of formatter to use.
type FormatterType string

const (
	// FormatterTypeTable displays rows in aligned columns with headers.
	FormatterTypeTable FormatterType = "table"

	// FormatterTypeSimple displays rows as tab-separated values, id first.
	FormatterTypeSimple FormatterType = "simple"

	// FormatterTypeCompact displays only the id and the first column.
	FormatterTypeCompact FormatterType = "compact"

	// FormatterTypeJSON displays rows as JSON objects keyed by header.
	FormatterTypeJSON FormatterType = "json"
)

// FormatterTypes lists the accepted --format values.
var FormatterTypes = []FormatterType{FormatterTypeTable, FormatterTypeSimple, FormatterTypeCompact, FormatterTypeJSON}

// NewFormatter creates a new formatter of the specified type.
func NewFormatter(formatterType FormatterType) Formatter {
	switch formatterType {
	case FormatterTypeSimple:
		return NewSimpleFormatter()
	case FormatterTypeCompact:
		return NewCompactFormatter()
	case FormatterTypeJSON:
		return NewJSONFormatter()
	default:
		return NewTableFormatter()
	}
}
