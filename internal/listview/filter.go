package listview

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// MatchRule is the rule by which a categorical filter matched.
type MatchRule int

const (
	NoMatch MatchRule = iota
	MatchValue
	MatchLabel
	MatchContains
)

func (r MatchRule) String() string {
	switch r {
	case MatchValue:
		return "value"
	case MatchLabel:
		return "label"
	case MatchContains:
		return "contains"
	default:
		return "none"
	}
}

// CategoryFilter is a categorical selector over rows of T.
type CategoryFilter[T any] struct {
	Name  string
	Title string
	// Labels maps raw values to human-readable labels.
	Labels map[string]string
	Value  func(T) string
}

// Options returns the raw values of the filter, sorted by label.
func (f CategoryFilter[T]) Options() []string {
	out := make([]string, 0, len(f.Labels))
	for v := range f.Labels {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := f.Label(out[i]), f.Label(out[j])
		if li != lj {
			return li < lj
		}
		return out[i] < out[j]
	})
	return out
}

// Label returns the label for value, or value itself.
func (f CategoryFilter[T]) Label(value string) string {
	if l, ok := f.Labels[value]; ok {
		return l
	}
	return value
}

// Schema describes how rows of T are searched and filtered.
type Schema[T any] struct {
	// SearchFields returns the fields matched by free-text search.
	SearchFields func(T) []string
	Categories   []CategoryFilter[T]
}

// Category returns the filter named name.
func (s Schema[T]) Category(name string) (CategoryFilter[T], bool) {
	for _, c := range s.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return CategoryFilter[T]{}, false
}

// MatchSearch reports whether any field contains term, ignoring case.
// A blank term matches everything.
func MatchSearch(term string, fields ...string) bool {
	return newMatcher().search(term, fields)
}

// MatchCategory matches a row value against a filter value. Rules are tried
// in order: exact value, exact label, then containment between value and
// label. Label comparison ignores case and spaces.
func MatchCategory(rowValue, filterValue string, labels map[string]string) MatchRule {
	return newMatcher().category(rowValue, filterValue, labels)
}

// Apply returns the items matching search and every non-empty filter.
// Filters with no matching category in schema are ignored.
func Apply[T any](items []T, search string, filters map[string]string, schema Schema[T]) []T {
	m := newMatcher()
	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchRow(m, item, search, filters, schema) {
			out = append(out, item)
		}
	}
	return out
}

// folder is stateless and safe for concurrent use.
var folder = cases.Fold()

type matcher struct {
	fold cases.Caser
}

func newMatcher() *matcher {
	return &matcher{fold: folder}
}

func matchRow[T any](m *matcher, item T, search string, filters map[string]string, schema Schema[T]) bool {
	if strings.TrimSpace(search) != "" {
		if schema.SearchFields == nil || !m.search(search, schema.SearchFields(item)) {
			return false
		}
	}
	for name, want := range filters {
		if want == "" {
			continue
		}
		cat, ok := schema.Category(name)
		if !ok || cat.Value == nil {
			continue
		}
		if m.category(cat.Value(item), want, cat.Labels) == NoMatch {
			return false
		}
	}
	return true
}

func (m *matcher) search(term string, fields []string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	needle := m.fold.String(term)
	for _, f := range fields {
		if strings.Contains(m.fold.String(f), needle) {
			return true
		}
	}
	return false
}

func (m *matcher) category(rowValue, filterValue string, labels map[string]string) MatchRule {
	if filterValue == "" {
		return NoMatch
	}
	if rowValue == filterValue {
		return MatchValue
	}

	row := m.compact(rowValue)
	want := m.compact(filterValue)
	rowLabel := m.compact(labelOf(labels, rowValue))
	wantLabel := m.compact(labelOf(labels, filterValue))
	if row == "" {
		return NoMatch
	}
	if row == want || row == wantLabel || rowLabel == want || rowLabel == wantLabel {
		return MatchLabel
	}
	if want == "" && wantLabel == "" {
		return NoMatch
	}
	for _, a := range []string{row, rowLabel} {
		for _, b := range []string{want, wantLabel} {
			if a == "" || b == "" {
				continue
			}
			if strings.Contains(a, b) || strings.Contains(b, a) {
				return MatchContains
			}
		}
	}
	return NoMatch
}

// compact folds case and removes white space.
func (m *matcher) compact(s string) string {
	s = m.fold.String(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func labelOf(labels map[string]string, value string) string {
	if l, ok := labels[value]; ok {
		return l
	}
	return value
}
