package listview

import (
	"fmt"
	"maps"

	"github.com/backoffice-suite/backoffice/internal/api"
)

// Query is one list request.
type Query struct {
	Page     int
	PageSize int
	Search   string
	Filters  map[string]string
	// Unpaged asks for the whole collection. Page and PageSize are ignored.
	Unpaged bool
}

// Validate checks the pagination cursor.
func (q Query) Validate() error {
	if q.Unpaged {
		return nil
	}
	if q.Page < 0 {
		return fmt.Errorf("%w: page %d < 0", ErrInvalidQuery, q.Page)
	}
	if q.PageSize <= 0 {
		return fmt.Errorf("%w: page size %d <= 0", ErrInvalidQuery, q.PageSize)
	}
	return nil
}

// Offset is page*pageSize.
func (q Query) Offset() int {
	if q.Unpaged {
		return 0
	}
	return q.Page * q.PageSize
}

// Params converts the query to API parameters. Empty filter values are dropped.
func (q Query) Params() api.ListParams {
	p := api.ListParams{Search: q.Search}
	if !q.Unpaged {
		p.Page = q.Page
		p.Limit = q.PageSize
	}
	for k, v := range q.Filters {
		if v == "" {
			continue
		}
		if p.Filters == nil {
			p.Filters = make(map[string]string, len(q.Filters))
		}
		p.Filters[k] = v
	}
	return p
}

func (q Query) clone() Query {
	q.Filters = maps.Clone(q.Filters)
	return q
}
