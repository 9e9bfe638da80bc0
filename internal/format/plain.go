package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/backoffice-suite/backoffice/internal/screens"
)

// SimpleFormatter prints tab-separated rows with the id first, for scripts.
type SimpleFormatter struct{}

// NewSimpleFormatter creates a new SimpleFormatter.
func NewSimpleFormatter() *SimpleFormatter {
	return &SimpleFormatter{}
}

// FormatListing formats rows as TSV without headers.
func (f *SimpleFormatter) FormatListing(l Listing, writer io.Writer) error {
	for _, row := range l.Rows {
		fields := append([]string{row.ID}, row.Cells...)
		for i, v := range fields {
			fields[i] = tsvEscape(v)
		}
		if _, err := fmt.Fprintln(writer, strings.Join(fields, "\t")); err != nil {
			return err
		}
	}
	return nil
}

// FormatRecord formats fields as name<TAB>value lines.
func (f *SimpleFormatter) FormatRecord(r screens.Record, writer io.Writer) error {
	if _, err := fmt.Fprintf(writer, "id\t%s\n", tsvEscape(r.ID)); err != nil {
		return err
	}
	for _, field := range r.Fields {
		if _, err := fmt.Fprintf(writer, "%s\t%s\n", field.Name, tsvEscape(field.Value)); err != nil {
			return err
		}
	}
	return nil
}

var tsvReplacer = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

func tsvEscape(s string) string {
	return tsvReplacer.Replace(s)
}

// CompactFormatter prints the id and the first column only.
type CompactFormatter struct{}

// NewCompactFormatter creates a new CompactFormatter.
func NewCompactFormatter() *CompactFormatter {
	return &CompactFormatter{}
}

// FormatListing formats rows in compact format.
func (f *CompactFormatter) FormatListing(l Listing, writer io.Writer) error {
	for _, row := range l.Rows {
		first := ""
		if len(row.Cells) > 0 {
			first = row.Cells[0]
		}
		if _, err := fmt.Fprintf(writer, "%s  %s\n", row.ID, first); err != nil {
			return err
		}
	}
	return nil
}

// FormatRecord prints the id and the first field.
func (f *CompactFormatter) FormatRecord(r screens.Record, writer io.Writer) error {
	first := ""
	if len(r.Fields) > 0 {
		first = r.Fields[0].Value
	}
	_, err := fmt.Fprintf(writer, "%s  %s\n", r.ID, first)
	return err
}

// JSONFormatter prints rows as JSON keyed by column header.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonRow struct {
	ID       string            `json:"id"`
	Severity string            `json:"severity,omitempty"`
	Columns  map[string]string `json:"columns"`
}

type jsonListing struct {
	Page    int       `json:"page"`
	Pages   int       `json:"pages"`
	Total   int       `json:"total"`
	Matched int       `json:"matched"`
	Rows    []jsonRow `json:"rows"`
}

// FormatListing formats a page as one JSON document.
func (f *JSONFormatter) FormatListing(l Listing, writer io.Writer) error {
	out := jsonListing{Page: l.Page + 1, Pages: l.Pages, Total: l.Total, Matched: l.Matched, Rows: []jsonRow{}}
	for _, row := range l.Rows {
		cols := make(map[string]string, len(l.Headers))
		for i, h := range l.Headers {
			if i < len(row.Cells) {
				cols[h] = row.Cells[i]
			}
		}
		out.Rows = append(out.Rows, jsonRow{ID: row.ID, Severity: row.Severity, Columns: cols})
	}
	return encode(writer, out)
}

// FormatRecord formats the raw field values keyed by field name.
func (f *JSONFormatter) FormatRecord(r screens.Record, writer io.Writer) error {
	fields := make(map[string]string, len(r.Fields)+1)
	for _, field := range r.Fields {
		fields[field.Name] = field.Value
	}
	fields["id"] = r.ID
	return encode(writer, fields)
}

func encode(writer io.Writer, v any) error {
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
