package repository

// DefaultPageLimit applies when a caller asks for zero or fewer items.
const DefaultPageLimit = 50

// Page represents a limit/offset window for listing operations.
type Page struct {
	Limit  int
	Offset int
}

// Sanitize clamps the window to usable values.
func (p Page) Sanitize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PageResult carries a slice of items and the total count matching the query.
type PageResult[T any] struct {
	Items []T
	Total int
}

// Slice cuts one page out of an already ordered list.
func Slice[T any](all []T, p Page) PageResult[T] {
	p = p.Sanitize()
	res := PageResult[T]{Items: []T{}, Total: len(all)}
	if p.Offset >= len(all) {
		return res
	}
	end := p.Offset + p.Limit
	if end > len(all) {
		end = len(all)
	}
	res.Items = append(res.Items, all[p.Offset:end]...)
	return res
}
