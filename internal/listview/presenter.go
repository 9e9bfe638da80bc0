package listview

// Presentation is what the table shows. Exactly one state applies.
type Presentation int

const (
	StateLoading Presentation = iota
	StateEmpty
	StateRows
)

func (p Presentation) String() string {
	switch p {
	case StateLoading:
		return "loading"
	case StateEmpty:
		return "empty"
	default:
		return "rows"
	}
}

// Present picks the presentation for a table with rows visible rows.
func Present(loading bool, rows int) Presentation {
	switch {
	case loading:
		return StateLoading
	case rows == 0:
		return StateEmpty
	default:
		return StateRows
	}
}

// Paginate returns items[page*size : page*size+size], clamped to the slice.
// It returns nil for a negative page or a non-positive size.
func Paginate[T any](items []T, page, size int) []T {
	if page < 0 || size <= 0 {
		return nil
	}
	start := page * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end:end]
}

// PageCount is the number of pages needed for total rows. An unknown or
// empty total has zero pages.
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
