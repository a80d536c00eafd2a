package console

import (
	"sort"
	"sync"
)

// Selection tracks which rows of the current page are selected. It is
// scoped to one page of one query: the owning panel prunes or clears it
// whenever a fetched page replaces the old one, so a selected ID always
// refers to a row the user can currently see. Page replacements commit on
// whatever goroutine ran the load, so every method is mutex-guarded.
type Selection struct {
	mu  sync.Mutex
	ids map[string]bool
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]bool)}
}

// Toggle flips membership of id.
func (s *Selection) Toggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids[id] {
		delete(s.ids, id)
	} else {
		s.ids[id] = true
	}
}

// SelectAll selects every id in ids. If all of them are already selected
// it clears instead, so repeated invocations toggle between the full set
// and the empty set.
func (s *Selection) SelectAll(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := len(ids) > 0
	for _, id := range ids {
		if !s.ids[id] {
			all = false
			break
		}
	}
	if all {
		s.ids = make(map[string]bool)
		return
	}
	for _, id := range ids {
		s.ids[id] = true
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]bool)
}

// Prune drops every member not present in ids. Used when a refresh of an
// unchanged query replaces the page: rows the server still returns stay
// selected, rows it no longer returns are dropped.
func (s *Selection) Prune(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		if s.ids[id] {
			keep[id] = true
		}
	}
	s.ids = keep
}

// IsSelected reports whether id is selected.
func (s *Selection) IsSelected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[id]
}

// Len returns the number of selected rows.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// IDs returns the selected ids in sorted order.
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
