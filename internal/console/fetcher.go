package console

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// LoadFunc executes one listing query against the backend.
type LoadFunc[T Row] func(ctx context.Context, q Query) (Page[T], error)

// ReplaceFunc runs after a fetched page replaces the current one.
// sameQuery reports whether the applied descriptor matches the previously
// applied one; ids are the row IDs of the new page.
type ReplaceFunc func(sameQuery bool, ids []string)

// Fetcher owns the listing state of one resource panel: the current query
// descriptor, the last page, the loading flag, and the error surface.
//
// Requests are tagged with a monotonically increasing token at issue time.
// A response is applied only if its token is still the newest one issued,
// so responses arriving out of order can never overwrite the page of a
// newer descriptor (last request wins, stale responses are discarded on
// arrival). After Close nothing is applied at all: a poller or an
// in-flight request that resolves after teardown touches no state.
type Fetcher[T Row] struct {
	resource string
	load     LoadFunc[T]
	bus      *Bus
	logger   *slog.Logger

	mu         sync.Mutex
	query      Query
	page       Page[T]
	err        error
	loading    bool
	seq        uint64
	closed     bool
	applied    string // canonical form of the last applied descriptor
	hasApplied bool
	onReplace  []ReplaceFunc
}

// NewFetcher returns a fetcher for resource starting at query q.
func NewFetcher[T Row](resource string, q Query, load LoadFunc[T]) *Fetcher[T] {
	return &Fetcher[T]{
		resource: resource,
		load:     load,
		logger:   slog.Default(),
		query:    q,
	}
}

// WithBus sets the event bus used to surface session expiry.
func (f *Fetcher[T]) WithBus(bus *Bus) *Fetcher[T] {
	f.bus = bus
	return f
}

// WithLogger sets the logger.
func (f *Fetcher[T]) WithLogger(logger *slog.Logger) *Fetcher[T] {
	f.logger = logger
	return f
}

// OnReplace registers fn to run every time a fetched page replaces the
// current one. The owning panel uses this to reconcile its selection,
// keeping selected IDs a subset of the rows actually on screen.
func (f *Fetcher[T]) OnReplace(fn ReplaceFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onReplace = append(f.onReplace, fn)
}

// Query returns the current descriptor.
func (f *Fetcher[T]) Query() Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

// Page returns the last applied page.
func (f *Fetcher[T]) Page() Page[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page
}

// Err returns the error of the last applied response, nil after success.
func (f *Fetcher[T]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Loading reports whether a request is in flight.
func (f *Fetcher[T]) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Begin makes q the current descriptor and issues a new request token,
// superseding any request still in flight. ok is false once the fetcher
// is closed.
func (f *Fetcher[T]) Begin(q Query) (token uint64, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, false
	}
	f.query = q
	f.loading = true
	f.seq++
	return f.seq, true
}

// Do executes the request identified by token and applies the result if
// the token is still current. It is safe to call from any goroutine.
func (f *Fetcher[T]) Do(ctx context.Context, token uint64) {
	f.mu.Lock()
	if f.closed || token != f.seq {
		f.mu.Unlock()
		return
	}
	q := f.query
	f.mu.Unlock()

	page, err := f.load(ctx, q)
	f.commit(token, q, page, err)
}

// Fetch issues and executes q synchronously, returning the applied page.
func (f *Fetcher[T]) Fetch(ctx context.Context, q Query) (Page[T], error) {
	token, ok := f.Begin(q)
	if !ok {
		return Page[T]{}, errors.New("fetcher closed")
	}
	f.Do(ctx, token)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page, f.err
}

// Refresh re-executes the current descriptor. It is the polling entry
// point: when a request is already in flight the tick is skipped instead
// of piling up a second request for the same resource.
func (f *Fetcher[T]) Refresh(ctx context.Context) error {
	f.mu.Lock()
	if f.closed || f.loading {
		f.mu.Unlock()
		return nil
	}
	q := f.query
	f.loading = true
	f.seq++
	token := f.seq
	f.mu.Unlock()

	page, err := f.load(ctx, q)
	f.commit(token, q, page, err)
	return err
}

// Close tears the fetcher down. Responses still in flight are discarded
// when they arrive and no state is touched afterwards.
func (f *Fetcher[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.loading = false
}

// commit applies one response, unless it has been superseded.
func (f *Fetcher[T]) commit(token uint64, q Query, page Page[T], err error) {
	f.mu.Lock()
	if f.closed || token != f.seq {
		f.mu.Unlock()
		f.logger.Debug("discarding stale response", "resource", f.resource, "query", q.String())
		return
	}
	f.loading = false
	sameQuery := f.hasApplied && q.String() == f.applied
	var ids []string
	if err != nil {
		// Fall back to an empty page so stale rows are never displayed
		// as if they were current.
		f.err = err
		f.page = Page[T]{Page: 1}
	} else {
		f.err = nil
		f.page = page
		ids = page.IDs()
	}
	f.applied = q.String()
	f.hasApplied = true
	hooks := append([]ReplaceFunc(nil), f.onReplace...)
	bus := f.bus
	f.mu.Unlock()

	for _, fn := range hooks {
		fn(sameQuery, ids)
	}
	if err != nil {
		if errors.Is(err, ErrSessionExpired) && bus != nil {
			bus.Publish(EventSessionExpired{})
		}
		f.logger.Warn("fetch failed", "resource", f.resource, "error", err)
	}
}
