package admin

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/veloxpay/payops/internal/console"
)

// Client is the admin backend as consumed by the console. The production
// implementation lives in internal/remote; internal/demo serves the same
// contract in-process for development and tests.
type Client interface {
	ListUsers(ctx context.Context, q console.Query) (console.Page[User], error)
	ListTransactions(ctx context.Context, q console.Query) (console.Page[Transaction], error)
	ListServices(ctx context.Context, q console.Query) (console.Page[Service], error)
	ListSettlements(ctx context.Context, q console.Query) (console.Page[Settlement], error)

	GetUser(ctx context.Context, id string) (*UserDetail, error)
	GetTransaction(ctx context.Context, id string) (*TransactionDetail, error)
	GetService(ctx context.Context, id string) (*ServiceDetail, error)
	GetSettlement(ctx context.Context, id string) (*SettlementDetail, error)

	// Bulk applies action to ids non-atomically; per-item outcomes come
	// back in the result even when every item failed.
	Bulk(ctx context.Context, r Resource, action string, ids []string, reason string) (console.BulkResult, error)

	// Credit and Debit mutate a user's wallet and return the server's
	// post-mutation balance.
	Credit(ctx context.Context, m console.Mutation) (decimal.Decimal, error)
	Debit(ctx context.Context, m console.Mutation) (decimal.Decimal, error)

	Overview(ctx context.Context) (*Overview, error)
}

// BulkFunc adapts a client to the console dispatcher for one resource.
func BulkFunc(c Client, r Resource) console.BulkFunc {
	return func(ctx context.Context, action string, ids []string, reason string) (console.BulkResult, error) {
		return c.Bulk(ctx, r, action, ids, reason)
	}
}
