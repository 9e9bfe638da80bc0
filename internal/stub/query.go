package stub

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/backoffice-suite/backoffice/internal/listview"
	"github.com/backoffice-suite/backoffice/internal/storage/sqlite"
)

// listQuery is a parsed list request. page is zero-based; a zero limit
// returns the whole collection as a bare array.
type listQuery struct {
	page    int
	limit   int
	search  string
	filters map[string]string
}

func parseListQuery(values url.Values) (listQuery, error) {
	q := listQuery{search: values.Get("search"), filters: map[string]string{}}
	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return q, reject(http.StatusBadRequest, "invalid limit %q", raw)
		}
		q.limit = n
	}
	if raw := values.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return q, reject(http.StatusBadRequest, "invalid page %q", raw)
		}
		q.page = n - 1
	}
	for key := range values {
		switch key {
		case "page", "limit", "search":
			continue
		}
		if v := values.Get(key); v != "" {
			q.filters[key] = v
		}
	}
	return q, nil
}

// matches applies the search term to every string field and each filter to
// its field. Filters on a categorical field also accept its labels.
func (q listQuery) matches(doc sqlite.Document, facets map[string]map[string]string) bool {
	if q.search != "" {
		fields := make([]string, 0, len(doc))
		for _, v := range doc {
			if s, ok := v.(string); ok {
				fields = append(fields, s)
			}
		}
		if !listview.MatchSearch(q.search, fields...) {
			return false
		}
	}
	for key, want := range q.filters {
		got := str(doc[key])
		if labels, ok := facets[key]; ok {
			if listview.MatchCategory(got, want, labels) == listview.NoMatch {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}

// str renders a JSON value the way it appears in a query string.
func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
