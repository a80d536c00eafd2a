package poll

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/veloxpay/payops/internal/admin"
)

func TestAdd(t *testing.T) {
	m := New(func(ctx context.Context, r admin.Resource) error {
		return nil
	})

	if err := m.Add(admin.ResourceUsers, 30*time.Second); err != nil {
		t.Errorf("Add() = %v, want nil", err)
	}
	if !m.IsScheduled(admin.ResourceUsers) {
		t.Error("resource was not scheduled")
	}
}

func TestAddZeroIntervalDisables(t *testing.T) {
	m := New(func(ctx context.Context, r admin.Resource) error {
		return nil
	})

	if err := m.Add(admin.ResourceUsers, 30*time.Second); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := m.Add(admin.ResourceUsers, 0); err != nil {
		t.Errorf("Add(0) = %v, want nil", err)
	}
	if m.IsScheduled(admin.ResourceUsers) {
		t.Error("zero interval should remove the schedule")
	}
}

func TestAddTooShort(t *testing.T) {
	m := New(func(ctx context.Context, r admin.Resource) error {
		return nil
	})

	if err := m.Add(admin.ResourceUsers, 100*time.Millisecond); err == nil {
		t.Error("Add() with sub-second interval = nil, want error")
	}
}

func TestAddReplacesExisting(t *testing.T) {
	m := New(func(ctx context.Context, r admin.Resource) error {
		return nil
	})

	if err := m.Add(admin.ResourceUsers, 30*time.Second); err != nil {
		t.Fatalf("Add: %v", err)
	}
	m.mu.RLock()
	firstID := m.jobs[admin.ResourceUsers]
	m.mu.RUnlock()

	if err := m.Add(admin.ResourceUsers, time.Minute); err != nil {
		t.Fatalf("Add replacement: %v", err)
	}
	m.mu.RLock()
	secondID := m.jobs[admin.ResourceUsers]
	m.mu.RUnlock()

	if firstID == secondID {
		t.Error("entry ID was not updated after replacement")
	}
}

func TestTriggerSkipsWhileRunning(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	m := New(func(ctx context.Context, r admin.Resource) error {
		calls.Add(1)
		close(started)
		<-release
		return nil
	})

	if err := m.Add(admin.ResourceTransactions, time.Hour); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := m.Trigger(admin.ResourceTransactions); err != nil {
		t.Fatalf("Trigger: %v", err)
	}

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("refresh did not start")
	}

	// A second trigger while the first is in flight must be refused.
	if err := m.Trigger(admin.ResourceTransactions); err == nil {
		t.Error("Trigger() during running refresh = nil, want error")
	}

	close(release)
	ctx := m.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("Stop() did not complete")
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("refresh calls = %d, want 1", got)
	}
}

func TestTriggerUnscheduled(t *testing.T) {
	m := New(func(ctx context.Context, r admin.Resource) error {
		return nil
	})

	if err := m.Trigger(admin.ResourceUsers); err == nil {
		t.Error("Trigger() on unscheduled resource = nil, want error")
	}
}

func TestStopCancelsRunningRefresh(t *testing.T) {
	started := make(chan struct{})
	m := New(func(ctx context.Context, r admin.Resource) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})

	if err := m.Add(admin.ResourceUsers, time.Hour); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := m.Trigger(admin.ResourceUsers); err != nil {
		t.Fatalf("Trigger: %v", err)
	}

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("refresh did not start")
	}

	ctx := m.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Error("Stop() did not complete after cancelling refresh")
	}

	m.mu.RLock()
	err := m.lastErr[admin.ResourceUsers]
	m.mu.RUnlock()
	if !errors.Is(err, context.Canceled) {
		t.Errorf("last error = %v, want context.Canceled", err)
	}
}

func TestStatus(t *testing.T) {
	m := New(func(ctx context.Context, r admin.Resource) error {
		return nil
	})

	if err := m.Add(admin.ResourceTransactions, 30*time.Second); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := m.Add(admin.ResourceUsers, 2*time.Minute); err != nil {
		t.Fatalf("Add: %v", err)
	}

	statuses := m.Status()
	if len(statuses) != 2 {
		t.Fatalf("len(statuses) = %d, want 2", len(statuses))
	}
	// Panel order, not insertion order.
	if statuses[0].Resource != admin.ResourceUsers {
		t.Errorf("statuses[0] = %s, want users", statuses[0].Resource)
	}
	if statuses[1].Interval != 30*time.Second {
		t.Errorf("interval = %s, want 30s", statuses[1].Interval)
	}
}

func TestIsRunning(t *testing.T) {
	m := New(func(ctx context.Context, r admin.Resource) error {
		return nil
	})

	if m.IsRunning() {
		t.Error("IsRunning() = true before Start()")
	}
	m.Start()
	if !m.IsRunning() {
		t.Error("IsRunning() = false after Start()")
	}
	ctx := m.Stop()
	if m.IsRunning() {
		t.Error("IsRunning() = true after Stop()")
	}
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Error("Stop() did not complete in time")
	}
}
