package demo

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"golang.org/x/time/rate"

	"github.com/veloxpay/payops/internal/console"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer("demo-token", NewStore(), testLogger())
}

func doRequest(t *testing.T, srv *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", "Bearer demo-token")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/api/v1/users", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest("GET", "/api/v1/users", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status with bad token = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestHealthNoAuth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestThrottleRejectsWhenLimiterDry(t *testing.T) {
	srv := newTestServer(t)
	// A zero refill rate makes the burst the total allowance.
	srv.limiter = rate.NewLimiter(0, 1)

	w := doRequest(t, srv, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want %d", w.Code, http.StatusOK)
	}

	w = doRequest(t, srv, "GET", "/health", "")
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if w.Header().Get("Retry-After") != "1" {
		t.Errorf("Retry-After = %q, want 1", w.Header().Get("Retry-After"))
	}
}

func TestListUsersPagination(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, "GET", "/api/v1/users?page=2&limit=10", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Items      []map[string]any `json:"items"`
		Pagination struct {
			Page       int `json:"page"`
			TotalPages int `json:"total_pages"`
			TotalCount int `json:"total_count"`
		} `json:"pagination"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Items) != 10 {
		t.Errorf("items = %d, want 10", len(resp.Items))
	}
	if resp.Pagination.Page != 2 {
		t.Errorf("page = %d, want 2", resp.Pagination.Page)
	}
	if resp.Pagination.TotalCount != 45 {
		t.Errorf("total_count = %d, want 45", resp.Pagination.TotalCount)
	}
	if resp.Pagination.TotalPages != 5 {
		t.Errorf("total_pages = %d, want 5", resp.Pagination.TotalPages)
	}
}

func TestListUsersStatusFilter(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, "GET", "/api/v1/users?status=suspended&limit=50", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Items []struct {
			Status string `json:"status"`
		} `json:"items"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) == 0 {
		t.Fatal("expected suspended users in fixtures")
	}
	for _, it := range resp.Items {
		if it.Status != "suspended" {
			t.Errorf("status = %q, want suspended", it.Status)
		}
	}
}

func TestGetUserNotFound(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, "GET", "/api/v1/users/usr-9999", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestBulkPartialFailure(t *testing.T) {
	srv := newTestServer(t)

	// usr-0007 is under compliance hold and must fail item-by-item.
	w := doRequest(t, srv, "POST", "/api/v1/users/bulk",
		`{"action":"suspend","ids":["usr-0001","usr-0007","usr-0002"],"reason":"fraud review"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		SuccessCount  int               `json:"success_count"`
		ErrorCount    int               `json:"error_count"`
		PerItemErrors map[string]string `json:"per_item_errors"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.SuccessCount != 2 {
		t.Errorf("success_count = %d, want 2", resp.SuccessCount)
	}
	if resp.ErrorCount != 1 {
		t.Errorf("error_count = %d, want 1", resp.ErrorCount)
	}
	if _, ok := resp.PerItemErrors["usr-0007"]; !ok {
		t.Errorf("per_item_errors missing usr-0007: %v", resp.PerItemErrors)
	}
}

func TestBulkUnknownAction(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, "POST", "/api/v1/users/bulk",
		`{"action":"explode","ids":["usr-0001"]}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestBulkChangesStatus(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, "POST", "/api/v1/users/bulk",
		`{"action":"suspend","ids":["usr-0001"],"reason":"chargeback"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("bulk status = %d: %s", w.Code, w.Body.String())
	}

	w = doRequest(t, srv, "GET", "/api/v1/users/usr-0001", "")
	var u struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(w.Body).Decode(&u); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if u.Status != "suspended" {
		t.Errorf("status after suspend = %q, want suspended", u.Status)
	}
}

func TestLedgerDebitInsufficient(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, "POST", "/api/v1/ledger/debit",
		`{"account_id":"usr-0001","amount":"99999999","reason":"adjustment"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d: %s", w.Code, http.StatusUnprocessableEntity, w.Body.String())
	}
}

func TestLedgerCreditThenDebit(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, "POST", "/api/v1/ledger/credit",
		`{"account_id":"usr-0003","amount":"250.00","reason":"promo refund"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("credit status = %d: %s", w.Code, w.Body.String())
	}
	var after struct {
		Balance string `json:"balance"`
	}
	if err := json.NewDecoder(w.Body).Decode(&after); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	w = doRequest(t, srv, "POST", "/api/v1/ledger/debit",
		`{"account_id":"usr-0003","amount":"250.00","reason":"promo reversal"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("debit status = %d: %s", w.Code, w.Body.String())
	}
}

func TestLedgerValidation(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing account", `{"amount":"10","reason":"x"}`},
		{"zero amount", `{"account_id":"usr-0001","amount":"0","reason":"x"}`},
		{"missing reason", `{"account_id":"usr-0001","amount":"10"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, srv, "POST", "/api/v1/ledger/credit", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestOverview(t *testing.T) {
	srv := newTestServer(t)

	w := doRequest(t, srv, "GET", "/api/v1/overview", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		UserCount        int `json:"user_count"`
		TransactionCount int `json:"transaction_count"`
		ServiceCount     int `json:"service_count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.UserCount != 45 {
		t.Errorf("user_count = %d, want 45", resp.UserCount)
	}
	if resp.TransactionCount != 140 {
		t.Errorf("transaction_count = %d, want 140", resp.TransactionCount)
	}
	if resp.ServiceCount != 8 {
		t.Errorf("service_count = %d, want 8", resp.ServiceCount)
	}
}

func TestStoreSortAndSearch(t *testing.T) {
	st := NewStore()

	q := console.NewQuery("name", console.SortAsc, 50)
	rows, _, _ := st.ListUsers(q)
	for i := 1; i < len(rows); i++ {
		if rows[i-1].Name > rows[i].Name {
			t.Fatalf("names not ascending: %q before %q", rows[i-1].Name, rows[i].Name)
		}
	}

	q = q.WithSearch("usr-0005")
	rows, _, total := st.ListUsers(q)
	if total != 1 || len(rows) != 1 || rows[0].ID != "usr-0005" {
		t.Errorf("search by ID: rows = %v, total = %d", rows, total)
	}
}
