package console

// Row is implemented by list rows that carry a stable string identifier.
type Row interface {
	RowID() string
}

// Page is one page of a listing. It is replaced wholesale on every fetch;
// nothing is ever merged into an existing page.
type Page[T Row] struct {
	Items      []T
	Page       int
	TotalPages int
	TotalCount int
	HasNext    bool
	HasPrev    bool
}

// NewPage builds a page from the wire pagination envelope.
func NewPage[T Row](items []T, page, totalPages, totalCount int) Page[T] {
	if page < 1 {
		page = 1
	}
	return Page[T]{
		Items:      items,
		Page:       page,
		TotalPages: totalPages,
		TotalCount: totalCount,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// IDs returns the row identifiers of the page in display order.
func (p Page[T]) IDs() []string {
	ids := make([]string, len(p.Items))
	for i, it := range p.Items {
		ids[i] = it.RowID()
	}
	return ids
}

// Column describes how one table column is produced from a row. Column sets
// are defined per resource and plugged into both the CLI table writer and
// the TUI list renderer.
type Column[T Row] struct {
	Title string
	Width int
	Value func(T) string
}
