package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/backoffice-suite/backoffice/internal/listview"
	"github.com/shopspring/decimal"
)

// Product groups screens by product line.
type Product string

const (
	ProductCarbuGo Product = "carbugo"
	ProductAnnour  Product = "annour"
	ProductClinic  Product = "clinic"
)

// Column is one table column.
type Column[T any] struct {
	Title string
	Width int
	Value func(T) string
}

// Field is one form field. Values travel as strings so the CLI and the TUI
// can edit any entity.
type Field[T any] struct {
	Name    string
	Label   string
	Options []string
	Get     func(T) string
	Set     func(*T, string) error
}

// Action is a row action besides edit.
type Action struct {
	Name        string
	Title       string
	Destructive bool
	// Param names the value asked from the user and sent as payload, if any.
	Param string
	// Download actions fetch {resource}/{id}/{name} as a file.
	Download bool
}

// Delete is the destructive delete action shared by editable screens.
var Delete = Action{Name: "delete", Title: "Delete", Destructive: true}

// Descriptor declares everything a list screen needs about T.
type Descriptor[T any] struct {
	Name     string
	Title    string
	Product  Product
	Resource string
	Mode     listview.Mode
	// Mock screens have no backend and run on synthetic data.
	Mock     bool
	Roles    []Role
	Columns  []Column[T]
	Schema   listview.Schema[T]
	Fields   []Field[T]
	Default  func() T
	ID       func(T) string
	Validate func(T) error
	Actions  []Action
	NoCreate bool
	NoEdit   bool
	// Severity colors a row; nil means no coloring.
	Severity func(T) string
	Noun     string
}

// Action returns the named action.
func (d Descriptor[T]) Action(name string) (Action, bool) {
	for _, a := range d.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}

// Field returns the named field.
func (d Descriptor[T]) Field(name string) (Field[T], bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// Row renders item as column values.
func (d Descriptor[T]) Row(item T) []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Value(item)
	}
	return out
}

// Headers returns the column titles.
func (d Descriptor[T]) Headers() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Title
	}
	return out
}

// Allowed reports whether role may open the screen.
func (d Descriptor[T]) Allowed(role Role) bool {
	return d.Info().Allowed(role)
}

// Apply sets the named fields on item. Unknown names are an error.
func (d Descriptor[T]) Apply(item *T, values map[string]string) error {
	for name, value := range values {
		f, ok := d.Field(name)
		if !ok {
			return fmt.Errorf("unknown field %q for %s", name, d.Name)
		}
		if err := f.Set(item, value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func textField[T any](name, label string, ref func(*T) *string) Field[T] {
	return Field[T]{
		Name:  name,
		Label: label,
		Get:   func(t T) string { return *ref(&t) },
		Set: func(t *T, v string) error {
			*ref(t) = strings.TrimSpace(v)
			return nil
		},
	}
}

// choiceField accepts a raw value or its label and stores the raw value.
func choiceField[T any](name, label string, labels map[string]string, ref func(*T) *string) Field[T] {
	f := textField(name, label, ref)
	f.Options = sortedKeys(labels)
	f.Set = func(t *T, v string) error {
		v = strings.TrimSpace(v)
		if v == "" {
			*ref(t) = ""
			return nil
		}
		for _, opt := range f.Options {
			if rule := listview.MatchCategory(v, opt, labels); rule == listview.MatchValue || rule == listview.MatchLabel {
				*ref(t) = opt
				return nil
			}
		}
		return fmt.Errorf("must be one of %s", strings.Join(f.Options, ", "))
	}
	return f
}

func intField[T any](name, label string, ref func(*T) *int) Field[T] {
	return Field[T]{
		Name:  name,
		Label: label,
		Get:   func(t T) string { return strconv.Itoa(*ref(&t)) },
		Set: func(t *T, v string) error {
			n, err := parseInt(v)
			if err != nil {
				return err
			}
			*ref(t) = n
			return nil
		},
	}
}

func boolField[T any](name, label string, ref func(*T) *bool) Field[T] {
	return Field[T]{
		Name:    name,
		Label:   label,
		Options: []string{"true", "false"},
		Get:     func(t T) string { return strconv.FormatBool(*ref(&t)) },
		Set: func(t *T, v string) error {
			b, err := parseBool(v)
			if err != nil {
				return err
			}
			*ref(t) = b
			return nil
		},
	}
}

func moneyField[T any](name, label string, ref func(*T) *decimal.Decimal) Field[T] {
	return Field[T]{
		Name:  name,
		Label: label,
		Get:   func(t T) string { return ref(&t).StringFixed(2) },
		Set: func(t *T, v string) error {
			d, err := parseMoney(v)
			if err != nil {
				return err
			}
			*ref(t) = d
			return nil
		},
	}
}

func dateField[T any](name, label string, ref func(*T) *time.Time) Field[T] {
	return Field[T]{
		Name:  name,
		Label: label,
		Get:   func(t T) string { return formatDate(*ref(&t)) },
		Set: func(t *T, v string) error {
			d, err := parseDate(v)
			if err != nil {
				return err
			}
			*ref(t) = d
			return nil
		},
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func category[T any](name, title string, labels map[string]string, value func(T) string) listview.CategoryFilter[T] {
	return listview.CategoryFilter[T]{Name: name, Title: title, Labels: labels, Value: value}
}

func parseInt(v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", v)
	}
	return n, nil
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "y", "on":
		return true, nil
	case "false", "0", "no", "n", "off", "":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", v)
}

func parseMoney(v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return decimal.Zero, fmt.Errorf("not an amount: %q", v)
	}
	return d.Round(2), nil
}

func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("not a date: %q", v)
}

// Currency is appended to formatted amounts.
const Currency = "XOF"

// FormatMoney renders an amount with two decimals and the currency.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2) + " " + Currency
}

func formatBool(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}
