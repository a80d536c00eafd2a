// Package remote provides the HTTP client for the platform's admin API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/veloxpay/payops/internal/admin"
	"github.com/veloxpay/payops/internal/console"
)

// Config holds configuration for creating a client.
type Config struct {
	URL           string
	Token         string
	AllowInsecure bool
	Timeout       time.Duration
	RateLimitQPS  int
}

// Client implements admin.Client against the admin REST API. Every call
// carries the bearer token; a 401-class response surfaces as
// console.ErrSessionExpired rather than a generic failure so the session
// layer can react.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Compile-time check that Client implements admin.Client.
var _ admin.Client = (*Client)(nil)

// New creates a new admin API client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("remote URL is required")
	}

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	// Enforce HTTPS unless AllowInsecure is set
	if parsedURL.Scheme == "http" && !cfg.AllowInsecure {
		return nil, fmt.Errorf("HTTPS required for remote connections\n\n" +
			"Options:\n" +
			"  1. Use HTTPS: [remote] url = \"https://admin.example.com\"\n" +
			"  2. For trusted networks: add 'allow_insecure = true' to [remote] in config.toml")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("URL scheme must be http or https, got: %s", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return nil, fmt.Errorf("remote URL must include a host (e.g., https://admin.example.com)")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	qps := cfg.RateLimitQPS
	if qps <= 0 {
		qps = 5
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.URL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(qps), qps),
	}, nil
}

// doRequest performs an authenticated HTTP request.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// apiError represents an error response from the API.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// handleErrorResponse reads an error response and returns an appropriate error.
func handleErrorResponse(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("authentication rejected: %w", console.ErrSessionExpired)
	}

	body, _ := io.ReadAll(resp.Body)
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return &console.RequestError{Status: resp.StatusCode, Message: apiErr.Message}
	}
	return &console.RequestError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}

// get performs a GET and decodes a 200 response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return handleErrorResponse(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// post performs a POST and decodes a 2xx response into out.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	resp, err := c.doRequest(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return handleErrorResponse(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return nil
}

// parseTime parses an RFC3339 time string, tolerating absence.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// paginationJSON is the wire pagination envelope.
type paginationJSON struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
	TotalCount int `json:"total_count"`
}

// listEnvelope is the wire shape of every listing response.
type listEnvelope[W any] struct {
	Items      []W            `json:"items"`
	Pagination paginationJSON `json:"pagination"`
}

// fetchList performs a listing request and converts rows via conv.
func fetchList[W any, T console.Row](ctx context.Context, c *Client, path string, q console.Query, conv func(W) T) (console.Page[T], error) {
	var env listEnvelope[W]
	if err := c.get(ctx, path, q.Values(), &env); err != nil {
		return console.Page[T]{}, err
	}
	items := make([]T, len(env.Items))
	for i, w := range env.Items {
		items[i] = conv(w)
	}
	return console.NewPage(items, env.Pagination.Page, env.Pagination.TotalPages, env.Pagination.TotalCount), nil
}

// bulkRequest is the wire shape of a bulk action request.
type bulkRequest struct {
	Action string   `json:"action"`
	IDs    []string `json:"ids"`
	Reason string   `json:"reason,omitempty"`
}

// bulkResponse is the wire shape of a bulk action outcome.
type bulkResponse struct {
	SuccessCount  int               `json:"success_count"`
	ErrorCount    int               `json:"error_count"`
	PerItemErrors map[string]string `json:"per_item_errors"`
}

// Bulk applies action to ids on the given resource.
func (c *Client) Bulk(ctx context.Context, r admin.Resource, action string, ids []string, reason string) (console.BulkResult, error) {
	var br bulkResponse
	err := c.post(ctx, "/api/v1/"+string(r)+"/bulk", bulkRequest{Action: action, IDs: ids, Reason: reason}, &br)
	if err != nil {
		return console.BulkResult{}, err
	}
	res := console.BulkResult{
		SuccessCount:  br.SuccessCount,
		ErrorCount:    br.ErrorCount,
		PerItemErrors: br.PerItemErrors,
	}
	if res.PerItemErrors == nil {
		res.PerItemErrors = map[string]string{}
	}
	return res, nil
}

// ledgerRequest is the wire shape of a wallet mutation.
type ledgerRequest struct {
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	Reference string          `json:"reference,omitempty"`
}

// ledgerResponse carries the server's post-mutation balance.
type ledgerResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

func (c *Client) ledger(ctx context.Context, path string, m console.Mutation) (decimal.Decimal, error) {
	req := ledgerRequest{
		AccountID: m.AccountID,
		Amount:    m.Amount,
		Reason:    m.Reason,
		Reference: m.Reference,
	}
	var lr ledgerResponse
	if err := c.post(ctx, path, req, &lr); err != nil {
		return decimal.Zero, err
	}
	return lr.Balance, nil
}

// Credit applies a wallet credit and returns the new balance.
func (c *Client) Credit(ctx context.Context, m console.Mutation) (decimal.Decimal, error) {
	return c.ledger(ctx, "/api/v1/ledger/credit", m)
}

// Debit applies a wallet debit and returns the new balance.
func (c *Client) Debit(ctx context.Context, m console.Mutation) (decimal.Decimal, error) {
	return c.ledger(ctx, "/api/v1/ledger/debit", m)
}

// overviewResponse is the wire shape of the overview summary.
type overviewResponse struct {
	UserCount           int             `json:"user_count"`
	ActiveUserCount     int             `json:"active_user_count"`
	TransactionCount    int             `json:"transaction_count"`
	PendingTransactions int             `json:"pending_transactions"`
	ServiceCount        int             `json:"service_count"`
	SettlementCount     int             `json:"settlement_count"`
	WalletTotal         decimal.Decimal `json:"wallet_total"`
}

// Overview fetches the cross-resource summary.
func (c *Client) Overview(ctx context.Context) (*admin.Overview, error) {
	var or overviewResponse
	if err := c.get(ctx, "/api/v1/overview", nil, &or); err != nil {
		return nil, err
	}
	return &admin.Overview{
		UserCount:           or.UserCount,
		ActiveUserCount:     or.ActiveUserCount,
		TransactionCount:    or.TransactionCount,
		PendingTransactions: or.PendingTransactions,
		ServiceCount:        or.ServiceCount,
		SettlementCount:     or.SettlementCount,
		WalletTotal:         or.WalletTotal,
	}, nil
}
