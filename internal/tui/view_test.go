package tui

import (
	"strings"
	"testing"
)

func TestRenderShowsTableAndFooter(t *testing.T) {
	forceColorProfile(t)
	m := newTestModel(t)

	view := stripANSI(m.View())
	if !strings.Contains(view, "payops") {
		t.Error("title bar missing")
	}
	for _, tab := range []string{"Users", "Transactions", "Services", "Settlements"} {
		if !strings.Contains(view, tab) {
			t.Errorf("tab %q missing", tab)
		}
	}
	if !strings.Contains(view, "page 1/5 (45 total)") {
		t.Error("footer pagination missing")
	}
	// Default sort is newest first, so the highest-numbered user leads.
	if !strings.Contains(view, "usr-0045") {
		t.Error("first user row missing")
	}
}

func TestRenderSelectionMarkerAndTabCount(t *testing.T) {
	forceColorProfile(t)
	m := newTestModel(t)
	p := usersPanel(t, m)
	p.ctl.Selection.Toggle(p.rows()[0].id)

	view := stripANSI(m.View())
	if !strings.Contains(view, "✓") {
		t.Error("selection marker missing")
	}
	if !strings.Contains(view, "Users (1)") {
		t.Error("tab selection count missing")
	}
}

func TestRenderSessionExpiredBanner(t *testing.T) {
	forceColorProfile(t)
	m := newTestModel(t)
	m.sessionExpired = true

	if !strings.Contains(stripANSI(m.View()), "SESSION EXPIRED") {
		t.Error("session expired banner missing")
	}
}

func TestRenderSearchLine(t *testing.T) {
	forceColorProfile(t)
	m := newTestModel(t)
	m = press(t, m, "/")
	for _, r := range "ada" {
		m = press(t, m, string(r))
	}

	view := stripANSI(m.View())
	if !strings.Contains(view, "/") || !strings.Contains(view, "ada") {
		t.Error("active search line missing")
	}
}

func TestRenderModalOverlay(t *testing.T) {
	forceColorProfile(t)
	m := newTestModel(t)
	m = openUserDetail(t, m)

	view := stripANSI(m.View())
	if !strings.Contains(view, "Users usr-") {
		t.Error("detail modal title missing")
	}
	if !strings.Contains(view, "Balance") {
		t.Error("detail modal body missing")
	}
}

func TestRenderEmptyResult(t *testing.T) {
	forceColorProfile(t)
	m := newTestModel(t)
	m = press(t, m, "/")
	for _, r := range "zzzznothing" {
		m = press(t, m, string(r))
	}
	m, cmd := pressCmd(t, m, "enter")
	m = runCmd(t, m, cmd)

	if !strings.Contains(stripANSI(m.View()), "no results") {
		t.Error("empty result placeholder missing")
	}
}
