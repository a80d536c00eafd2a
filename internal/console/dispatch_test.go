package console

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeBulk records dispatches and fails a configured subset of IDs.
type fakeBulk struct {
	mu      sync.Mutex
	calls   int
	lastIDs []string
	failIDs map[string]string
	err     error
}

func (b *fakeBulk) do(_ context.Context, action string, ids []string, reason string) (BulkResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	b.lastIDs = append([]string(nil), ids...)
	if b.err != nil {
		return BulkResult{}, b.err
	}
	res := BulkResult{PerItemErrors: make(map[string]string)}
	for _, id := range ids {
		if msg, bad := b.failIDs[id]; bad {
			res.ErrorCount++
			res.PerItemErrors[id] = msg
		} else {
			res.SuccessCount++
		}
	}
	return res, nil
}

func (b *fakeBulk) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

var actSuspend = Action{Name: "suspend", Label: "Suspend", Destructive: true}
var actVerify = Action{Name: "verify", Label: "Verify"}

func TestDispatchEmptySelectionFailsFast(t *testing.T) {
	bulk := &fakeBulk{}
	d := NewDispatcher(bulk.do)

	_, err := d.Dispatch(context.Background(), actVerify, nil, "", false)
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if bulk.callCount() != 0 {
		t.Errorf("expected no network call, got %d", bulk.callCount())
	}
}

func TestDispatchDestructiveRequiresConfirmation(t *testing.T) {
	bulk := &fakeBulk{}
	d := NewDispatcher(bulk.do)

	_, err := d.Dispatch(context.Background(), actSuspend, []string{"u1"}, "", false)
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if bulk.callCount() != 0 {
		t.Error("unconfirmed destructive action reached the network")
	}

	if _, err := d.Dispatch(context.Background(), actSuspend, []string{"u1"}, "", true); err != nil {
		t.Fatalf("confirmed dispatch failed: %v", err)
	}
}

func TestDispatchNonDestructiveNeedsNoConfirmation(t *testing.T) {
	bulk := &fakeBulk{}
	d := NewDispatcher(bulk.do)

	if _, err := d.Dispatch(context.Background(), actVerify, []string{"u1"}, "", false); err != nil {
		t.Fatalf("expected dispatch to proceed, got %v", err)
	}
}

func TestDispatchPartialFailure(t *testing.T) {
	bulk := &fakeBulk{failIDs: map[string]string{"u2": "kyc review pending"}}
	d := NewDispatcher(bulk.do)

	res, err := d.Dispatch(context.Background(), actSuspend, []string{"u1", "u2", "u3"}, "", true)
	if err != nil {
		t.Fatalf("partial failure must not be an error: %v", err)
	}
	want := BulkResult{
		SuccessCount:  2,
		ErrorCount:    1,
		PerItemErrors: map[string]string{"u2": "kyc review pending"},
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("unexpected result (-want +got):\n%s", diff)
	}
	if !res.Partial() {
		t.Error("Partial() should be true for a mixed outcome")
	}
	if res.SuccessCount+res.ErrorCount != 3 {
		t.Error("per-item accounting does not cover all targets")
	}
}

func TestDispatchReasonRequired(t *testing.T) {
	bulk := &fakeBulk{}
	d := NewDispatcher(bulk.do)
	flag := Action{Name: "flag", NeedsReason: true}

	_, err := d.Dispatch(context.Background(), flag, []string{"tx-1"}, "", false)
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError for missing reason, got %v", err)
	}
	if _, err := d.Dispatch(context.Background(), flag, []string{"tx-1"}, "suspected fraud", false); err != nil {
		t.Fatalf("dispatch with reason failed: %v", err)
	}
}

func TestDispatchPropagatesTransportError(t *testing.T) {
	wantErr := errors.New("connection refused")
	bulk := &fakeBulk{err: wantErr}
	d := NewDispatcher(bulk.do)

	_, err := d.Dispatch(context.Background(), actVerify, []string{"u1"}, "", false)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected transport error, got %v", err)
	}
	if d.Submitting() {
		t.Error("submitting latch stuck after error")
	}
}

func TestFindAction(t *testing.T) {
	actions := []Action{actSuspend, actVerify}
	if a, ok := FindAction(actions, "verify"); !ok || a.Name != "verify" {
		t.Errorf("FindAction(verify) = %+v, %v", a, ok)
	}
	if _, ok := FindAction(actions, "explode"); ok {
		t.Error("unknown action reported as found")
	}
}
