package remote

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/veloxpay/payops/internal/admin"
	"github.com/veloxpay/payops/internal/console"
)

// userJSON matches the API user row format.
type userJSON struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Email     string          `json:"email"`
	Status    string          `json:"status"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt string          `json:"created_at"`
}

func toUser(w userJSON) admin.User {
	return admin.User{
		ID:        w.ID,
		Name:      w.Name,
		Phone:     w.Phone,
		Email:     w.Email,
		Status:    w.Status,
		Balance:   w.Balance,
		CreatedAt: parseTime(w.CreatedAt),
	}
}

// userDetailJSON includes activity figures on top of the row fields.
type userDetailJSON struct {
	userJSON
	KYCLevel         string          `json:"kyc_level"`
	LastLoginAt      string          `json:"last_login_at"`
	TransactionCount int             `json:"transaction_count"`
	TotalSpent       decimal.Decimal `json:"total_spent"`
}

// transactionJSON matches the API transaction row format.
type transactionJSON struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Service   string          `json:"service"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	Reference string          `json:"reference"`
	CreatedAt string          `json:"created_at"`
}

func toTransaction(w transactionJSON) admin.Transaction {
	return admin.Transaction{
		ID:        w.ID,
		UserID:    w.UserID,
		Service:   w.Service,
		Amount:    w.Amount,
		Status:    w.Status,
		Reference: w.Reference,
		CreatedAt: parseTime(w.CreatedAt),
	}
}

// transactionDetailJSON adds processing fields.
type transactionDetailJSON struct {
	transactionJSON
	Channel       string `json:"channel"`
	Provider      string `json:"provider"`
	FailureReason string `json:"failure_reason"`
	CompletedAt   string `json:"completed_at"`
}

// serviceJSON matches the API service row format.
type serviceJSON struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Provider string          `json:"provider"`
	Fee      decimal.Decimal `json:"fee"`
	Status   string          `json:"status"`
}

func toService(w serviceJSON) admin.Service {
	return admin.Service{
		ID:       w.ID,
		Name:     w.Name,
		Category: w.Category,
		Provider: w.Provider,
		Fee:      w.Fee,
		Status:   w.Status,
	}
}

// serviceDetailJSON adds commercial terms.
type serviceDetailJSON struct {
	serviceJSON
	Commission  decimal.Decimal `json:"commission"`
	MinAmount   decimal.Decimal `json:"min_amount"`
	MaxAmount   decimal.Decimal `json:"max_amount"`
	UpdatedAt   string          `json:"updated_at"`
	Description string          `json:"description"`
}

// settlementJSON matches the API settlement row format.
type settlementJSON struct {
	ID          string          `json:"id"`
	Provider    string          `json:"provider"`
	Gross       decimal.Decimal `json:"gross"`
	Fees        decimal.Decimal `json:"fees"`
	Net         decimal.Decimal `json:"net"`
	Status      string          `json:"status"`
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
}

func toSettlement(w settlementJSON) admin.Settlement {
	return admin.Settlement{
		ID:          w.ID,
		Provider:    w.Provider,
		Gross:       w.Gross,
		Fees:        w.Fees,
		Net:         w.Net,
		Status:      w.Status,
		PeriodStart: parseTime(w.PeriodStart),
		PeriodEnd:   parseTime(w.PeriodEnd),
	}
}

// settlementDetailJSON adds reconciliation figures.
type settlementDetailJSON struct {
	settlementJSON
	TransactionCount int    `json:"transaction_count"`
	DisputedCount    int    `json:"disputed_count"`
	ApprovedBy       string `json:"approved_by"`
	ApprovedAt       string `json:"approved_at"`
}

// ListUsers fetches one page of users.
func (c *Client) ListUsers(ctx context.Context, q console.Query) (console.Page[admin.User], error) {
	return fetchList(ctx, c, "/api/v1/users", q, toUser)
}

// ListTransactions fetches one page of transactions.
func (c *Client) ListTransactions(ctx context.Context, q console.Query) (console.Page[admin.Transaction], error) {
	return fetchList(ctx, c, "/api/v1/transactions", q, toTransaction)
}

// ListServices fetches one page of services.
func (c *Client) ListServices(ctx context.Context, q console.Query) (console.Page[admin.Service], error) {
	return fetchList(ctx, c, "/api/v1/services", q, toService)
}

// ListSettlements fetches one page of settlements.
func (c *Client) ListSettlements(ctx context.Context, q console.Query) (console.Page[admin.Settlement], error) {
	return fetchList(ctx, c, "/api/v1/settlements", q, toSettlement)
}

// GetUser fetches a single user with activity figures.
func (c *Client) GetUser(ctx context.Context, id string) (*admin.UserDetail, error) {
	var w userDetailJSON
	if err := c.get(ctx, "/api/v1/users/"+id, nil, &w); err != nil {
		return nil, err
	}
	return &admin.UserDetail{
		User:             toUser(w.userJSON),
		KYCLevel:         w.KYCLevel,
		LastLoginAt:      parseTime(w.LastLoginAt),
		TransactionCount: w.TransactionCount,
		TotalSpent:       w.TotalSpent,
	}, nil
}

// GetTransaction fetches a single transaction with processing detail.
func (c *Client) GetTransaction(ctx context.Context, id string) (*admin.TransactionDetail, error) {
	var w transactionDetailJSON
	if err := c.get(ctx, "/api/v1/transactions/"+id, nil, &w); err != nil {
		return nil, err
	}
	return &admin.TransactionDetail{
		Transaction:   toTransaction(w.transactionJSON),
		Channel:       w.Channel,
		Provider:      w.Provider,
		FailureReason: w.FailureReason,
		CompletedAt:   parseTime(w.CompletedAt),
	}, nil
}

// GetService fetches a single service with commercial terms.
func (c *Client) GetService(ctx context.Context, id string) (*admin.ServiceDetail, error) {
	var w serviceDetailJSON
	if err := c.get(ctx, "/api/v1/services/"+id, nil, &w); err != nil {
		return nil, err
	}
	return &admin.ServiceDetail{
		Service:     toService(w.serviceJSON),
		Commission:  w.Commission,
		MinAmount:   w.MinAmount,
		MaxAmount:   w.MaxAmount,
		UpdatedAt:   parseTime(w.UpdatedAt),
		Description: w.Description,
	}, nil
}

// GetSettlement fetches a single settlement with reconciliation figures.
func (c *Client) GetSettlement(ctx context.Context, id string) (*admin.SettlementDetail, error) {
	var w settlementDetailJSON
	if err := c.get(ctx, "/api/v1/settlements/"+id, nil, &w); err != nil {
		return nil, err
	}
	return &admin.SettlementDetail{
		Settlement:       toSettlement(w.settlementJSON),
		TransactionCount: w.TransactionCount,
		DisputedCount:    w.DisputedCount,
		ApprovedBy:       w.ApprovedBy,
		ApprovedAt:       parseTime(w.ApprovedAt),
	}, nil
}
