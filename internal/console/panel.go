package console

import "context"

// Panel is the generic resource console controller: one fetcher, one
// page-scoped selection, and one bulk dispatcher for a single resource.
// Every management screen (users, transactions, services, settlements) is
// an instance of this type rather than its own reimplementation.
type Panel[T Row] struct {
	Resource  string
	Fetcher   *Fetcher[T]
	Selection *Selection
	Actions   []Action

	dispatcher *Dispatcher
	bus        *Bus
}

// NewPanel wires a panel. The selection is reconciled automatically
// whenever the fetcher replaces its page: a refresh of the unchanged
// query keeps surviving IDs selected, while any query change clears the
// selection outright, even if some IDs would coincidentally reappear
// under the new query.
func NewPanel[T Row](resource string, q Query, load LoadFunc[T], bulk BulkFunc, actions []Action, bus *Bus) *Panel[T] {
	p := &Panel[T]{
		Resource:   resource,
		Fetcher:    NewFetcher(resource, q, load).WithBus(bus),
		Selection:  NewSelection(),
		Actions:    actions,
		dispatcher: NewDispatcher(bulk),
		bus:        bus,
	}
	p.Fetcher.OnReplace(func(sameQuery bool, ids []string) {
		if sameQuery {
			p.Selection.Prune(ids)
			return
		}
		p.Selection.Clear()
	})
	return p
}

// Dispatch runs action against the current selection and reconciles:
// whatever the outcome, the selection is cleared and the current page is
// re-fetched so the list reflects server-side truth rather than the
// console's optimistic view.
func (p *Panel[T]) Dispatch(ctx context.Context, action Action, reason string, confirmed bool) (BulkResult, error) {
	ids := p.Selection.IDs()
	res, err := p.dispatcher.Dispatch(ctx, action, ids, reason, confirmed)
	if err != nil {
		if IsValidation(err) {
			return res, err
		}
		p.Selection.Clear()
		p.refreshAfterMutation(ctx, ids)
		return res, err
	}
	p.Selection.Clear()
	p.refreshAfterMutation(ctx, ids)
	return res, nil
}

// Dispatching reports whether a bulk action is in flight.
func (p *Panel[T]) Dispatching() bool {
	return p.dispatcher.Submitting()
}

// Close tears down the panel's fetcher.
func (p *Panel[T]) Close() {
	p.Fetcher.Close()
}

func (p *Panel[T]) refreshAfterMutation(ctx context.Context, ids []string) {
	if p.bus != nil {
		p.bus.Publish(EventResourceMutated{Resource: p.Resource, IDs: ids})
	}
	_ = p.Fetcher.Refresh(ctx)
}
