package console

import (
	"context"
	"sync"
)

// Action is one bulk operation a resource supports. Destructive actions
// must pass through an explicit confirmation step before dispatch; the
// dispatcher enforces that the step happened, the UI owns how it looks.
type Action struct {
	Name        string
	Label       string
	Destructive bool
	NeedsReason bool
}

// BulkResult is the per-item outcome of one bulk dispatch. The server
// applies items independently, so a mix of successes and failures is a
// normal result, not an error: SuccessCount+ErrorCount always equals the
// number of targeted IDs, and every failure keeps its own message.
type BulkResult struct {
	SuccessCount  int
	ErrorCount    int
	PerItemErrors map[string]string
}

// Partial reports whether the dispatch succeeded for some items and
// failed for others.
func (r BulkResult) Partial() bool {
	return r.SuccessCount > 0 && r.ErrorCount > 0
}

// BulkFunc issues one bulk request against the backend.
type BulkFunc func(ctx context.Context, action string, ids []string, reason string) (BulkResult, error)

// Dispatcher applies an action to a set of row IDs.
type Dispatcher struct {
	do BulkFunc

	mu         sync.Mutex
	submitting bool
}

// NewDispatcher returns a dispatcher backed by do.
func NewDispatcher(do BulkFunc) *Dispatcher {
	return &Dispatcher{do: do}
}

// Submitting reports whether a dispatch is currently in flight.
func (d *Dispatcher) Submitting() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submitting
}

// Dispatch applies action to ids. An empty selection and an unconfirmed
// destructive action both fail fast with a ValidationError before any
// network traffic. Once submitted the request is not cancellable; a
// second dispatch while one is in flight is rejected rather than queued.
func (d *Dispatcher) Dispatch(ctx context.Context, action Action, ids []string, reason string, confirmed bool) (BulkResult, error) {
	if len(ids) == 0 {
		return BulkResult{}, &ValidationError{Field: "selection", Reason: "nothing selected"}
	}
	if action.Destructive && !confirmed {
		return BulkResult{}, &ValidationError{Field: "confirm", Reason: action.Name + " requires confirmation"}
	}
	if action.NeedsReason && reason == "" {
		return BulkResult{}, &ValidationError{Field: "reason", Reason: "is required for " + action.Name}
	}

	d.mu.Lock()
	if d.submitting {
		d.mu.Unlock()
		return BulkResult{}, &ValidationError{Field: "submit", Reason: "a bulk action is already in flight"}
	}
	d.submitting = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.submitting = false
		d.mu.Unlock()
	}()

	return d.do(ctx, action.Name, ids, reason)
}

// FindAction looks up an action by name in a resource's action set.
func FindAction(actions []Action, name string) (Action, bool) {
	for _, a := range actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action{}, false
}
