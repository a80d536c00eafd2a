package demo

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/veloxpay/payops/internal/admin"
	"github.com/veloxpay/payops/internal/console"
)

// LocalClient serves the admin client contract straight from a Store,
// with no HTTP in between. It backs `payops tui --demo` and tests that
// want realistic data without a server.
type LocalClient struct {
	store *Store
}

var _ admin.Client = (*LocalClient)(nil)

// NewLocalClient wraps store as an in-process admin client.
func NewLocalClient(store *Store) *LocalClient {
	return &LocalClient{store: store}
}

func (c *LocalClient) ListUsers(ctx context.Context, q console.Query) (console.Page[admin.User], error) {
	rows, totalPages, total := c.store.ListUsers(q)
	return console.NewPage(rows, q.Page, totalPages, total), nil
}

func (c *LocalClient) ListTransactions(ctx context.Context, q console.Query) (console.Page[admin.Transaction], error) {
	rows, totalPages, total := c.store.ListTransactions(q)
	return console.NewPage(rows, q.Page, totalPages, total), nil
}

func (c *LocalClient) ListServices(ctx context.Context, q console.Query) (console.Page[admin.Service], error) {
	rows, totalPages, total := c.store.ListServices(q)
	return console.NewPage(rows, q.Page, totalPages, total), nil
}

func (c *LocalClient) ListSettlements(ctx context.Context, q console.Query) (console.Page[admin.Settlement], error) {
	rows, totalPages, total := c.store.ListSettlements(q)
	return console.NewPage(rows, q.Page, totalPages, total), nil
}

func (c *LocalClient) GetUser(ctx context.Context, id string) (*admin.UserDetail, error) {
	if d := c.store.GetUser(id); d != nil {
		return d, nil
	}
	return nil, &console.RequestError{Status: 404, Message: "user not found"}
}

func (c *LocalClient) GetTransaction(ctx context.Context, id string) (*admin.TransactionDetail, error) {
	if d := c.store.GetTransaction(id); d != nil {
		return d, nil
	}
	return nil, &console.RequestError{Status: 404, Message: "transaction not found"}
}

func (c *LocalClient) GetService(ctx context.Context, id string) (*admin.ServiceDetail, error) {
	if d := c.store.GetService(id); d != nil {
		return d, nil
	}
	return nil, &console.RequestError{Status: 404, Message: "service not found"}
}

func (c *LocalClient) GetSettlement(ctx context.Context, id string) (*admin.SettlementDetail, error) {
	if d := c.store.GetSettlement(id); d != nil {
		return d, nil
	}
	return nil, &console.RequestError{Status: 404, Message: "settlement not found"}
}

func (c *LocalClient) Bulk(ctx context.Context, r admin.Resource, action string, ids []string, reason string) (console.BulkResult, error) {
	if _, ok := console.FindAction(r.Actions(), action); !ok {
		return console.BulkResult{}, &console.RequestError{Status: 400, Message: "unknown action " + action}
	}
	success, perItem := c.store.Bulk(r, action, ids)
	return console.BulkResult{
		SuccessCount:  success,
		ErrorCount:    len(perItem),
		PerItemErrors: perItem,
	}, nil
}

func (c *LocalClient) Credit(ctx context.Context, m console.Mutation) (decimal.Decimal, error) {
	return c.mutate(console.Credit, m)
}

func (c *LocalClient) Debit(ctx context.Context, m console.Mutation) (decimal.Decimal, error) {
	return c.mutate(console.Debit, m)
}

func (c *LocalClient) mutate(dir console.Direction, m console.Mutation) (decimal.Decimal, error) {
	balance, err := c.store.Mutate(m.AccountID, dir, m.Amount)
	switch err {
	case nil:
		return balance, nil
	case errAccountNotFound:
		return decimal.Zero, &console.RequestError{Status: 404, Message: "account not found"}
	case errInsufficientFunds:
		return decimal.Zero, &console.RequestError{Status: 422, Message: "debit exceeds available balance"}
	default:
		return decimal.Zero, err
	}
}

func (c *LocalClient) Overview(ctx context.Context) (*admin.Overview, error) {
	ov := c.store.Overview()
	return &ov, nil
}
