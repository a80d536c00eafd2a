package console

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSelectionToggle(t *testing.T) {
	s := NewSelection()

	s.Toggle("u1")
	if !s.IsSelected("u1") {
		t.Error("u1 should be selected after toggle")
	}
	s.Toggle("u1")
	if s.IsSelected("u1") {
		t.Error("u1 should be deselected after second toggle")
	}
	if s.Len() != 0 {
		t.Errorf("expected empty selection, got %d", s.Len())
	}
}

func TestSelectAllToggles(t *testing.T) {
	s := NewSelection()
	ids := []string{"u1", "u2", "u3"}

	s.SelectAll(ids)
	if s.Len() != 3 {
		t.Fatalf("expected 3 selected, got %d", s.Len())
	}

	// All already selected: second call clears instead.
	s.SelectAll(ids)
	if s.Len() != 0 {
		t.Errorf("expected selection cleared, got %d", s.Len())
	}
}

func TestSelectAllCompletesPartialSelection(t *testing.T) {
	s := NewSelection()
	s.Toggle("u2")

	s.SelectAll([]string{"u1", "u2", "u3"})
	if diff := cmp.Diff([]string{"u1", "u2", "u3"}, s.IDs()); diff != "" {
		t.Errorf("unexpected selection (-want +got):\n%s", diff)
	}
}

func TestSelectAllEmpty(t *testing.T) {
	s := NewSelection()
	s.SelectAll(nil)
	if s.Len() != 0 {
		t.Errorf("expected empty selection, got %d", s.Len())
	}
}

func TestSelectionIDsSorted(t *testing.T) {
	s := NewSelection()
	for _, id := range []string{"tx-9", "tx-1", "tx-5"} {
		s.Toggle(id)
	}
	if diff := cmp.Diff([]string{"tx-1", "tx-5", "tx-9"}, s.IDs()); diff != "" {
		t.Errorf("IDs not sorted (-want +got):\n%s", diff)
	}
}

func TestSelectionPrune(t *testing.T) {
	s := NewSelection()
	s.Toggle("u1")
	s.Toggle("u2")
	s.Toggle("u3")

	s.Prune([]string{"u2", "u3", "u4"})
	if diff := cmp.Diff([]string{"u2", "u3"}, s.IDs()); diff != "" {
		t.Errorf("unexpected survivors (-want +got):\n%s", diff)
	}

	// Pruning against an empty page empties the selection.
	s.Prune(nil)
	if s.Len() != 0 {
		t.Errorf("expected empty selection, got %d", s.Len())
	}
}

func TestSelectionClear(t *testing.T) {
	s := NewSelection()
	s.Toggle("u1")
	s.Toggle("u2")
	s.Clear()
	if s.Len() != 0 || s.IsSelected("u1") {
		t.Error("Clear left members behind")
	}
}
