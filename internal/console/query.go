// Package console implements the resource console core: query descriptors,
// paginated fetching with stale-response suppression, page-scoped selection,
// bulk action dispatch with per-item outcomes, guarded wallet mutations, and
// the modal stack shared by the TUI and the CLI.
package console

import (
	"net/url"
	"sort"
	"strconv"
)

// SortOrder is the direction of a sorted listing.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Reverse returns the opposite sort order.
func (o SortOrder) Reverse() SortOrder {
	if o == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// DefaultPageSize is used when a query is built without an explicit page size.
const DefaultPageSize = 20

// Query describes one filtered, sorted, paginated listing request.
// It is an immutable value: the With* methods return a modified copy.
// Any change other than the page number snaps the page back to 1 so a
// narrower result set never silently shows an out-of-range page.
type Query struct {
	Search    string
	Filters   map[string]string
	Page      int
	PageSize  int
	SortField string
	SortOrder SortOrder
}

// NewQuery returns a query with the given default sort and page size.
func NewQuery(sortField string, order SortOrder, pageSize int) Query {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return Query{
		Page:      1,
		PageSize:  pageSize,
		SortField: sortField,
		SortOrder: order,
	}
}

// clone copies q including its filter map so mutations never alias.
func (q Query) clone() Query {
	c := q
	if q.Filters != nil {
		c.Filters = make(map[string]string, len(q.Filters))
		for k, v := range q.Filters {
			c.Filters[k] = v
		}
	}
	return c
}

// WithSearch sets the free-text search term and resets to page 1.
func (q Query) WithSearch(term string) Query {
	c := q.clone()
	c.Search = term
	c.Page = 1
	return c
}

// WithFilter sets one filter key and resets to page 1.
// An empty value removes the key.
func (q Query) WithFilter(key, value string) Query {
	c := q.clone()
	if value == "" {
		delete(c.Filters, key)
	} else {
		if c.Filters == nil {
			c.Filters = make(map[string]string, 1)
		}
		c.Filters[key] = value
	}
	c.Page = 1
	return c
}

// WithSort sets the sort field and order and resets to page 1.
func (q Query) WithSort(field string, order SortOrder) Query {
	c := q.clone()
	c.SortField = field
	c.SortOrder = order
	c.Page = 1
	return c
}

// WithPage moves to page n (clamped to 1) leaving everything else untouched.
func (q Query) WithPage(n int) Query {
	c := q.clone()
	if n < 1 {
		n = 1
	}
	c.Page = n
	return c
}

// WithPageSize changes the page size and resets to page 1.
func (q Query) WithPageSize(n int) Query {
	c := q.clone()
	if n < 1 {
		n = DefaultPageSize
	}
	c.PageSize = n
	c.Page = 1
	return c
}

// Reset drops search and filters and returns to page 1, keeping the
// current sort and page size.
func (q Query) Reset() Query {
	return NewQuery(q.SortField, q.SortOrder, q.PageSize)
}

// Values renders the canonical URL query understood by the admin API.
// Filter keys are emitted in sorted order so equal descriptors always
// serialize identically.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.Set(k, q.Filters[k])
	}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.PageSize))
	if q.SortField != "" {
		v.Set("sortBy", q.SortField)
		v.Set("sortOrder", string(q.SortOrder))
	}
	return v
}

// String returns the encoded form of Values, used for logging and for
// comparing descriptors.
func (q Query) String() string {
	return q.Values().Encode()
}
