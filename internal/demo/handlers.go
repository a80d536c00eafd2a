package demo

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/veloxpay/payops/internal/admin"
	"github.com/veloxpay/payops/internal/console"
)

var (
	errInsufficientFunds = errors.New("insufficient funds")
	errAccountNotFound   = errors.New("account not found")
)

// errorResponse represents an API error.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, err string, message string) {
	writeJSON(w, status, errorResponse{Error: err, Message: message})
}

// fmtTime renders t as RFC3339, or empty for the zero time.
func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// parseQuery reconstructs a query descriptor from URL parameters,
// keeping only the filter keys the resource accepts.
func parseQuery(r *http.Request, res admin.Resource) console.Query {
	v := r.URL.Query()
	q := res.DefaultQuery(console.DefaultPageSize)

	if s := v.Get("search"); s != "" {
		q = q.WithSearch(s)
	}
	for _, key := range res.FilterKeys() {
		if fv := v.Get(key); fv != "" {
			q = q.WithFilter(key, fv)
		}
	}
	if sb := v.Get("sortBy"); sb != "" {
		ord := console.SortOrder(v.Get("sortOrder"))
		if ord != console.SortAsc && ord != console.SortDesc {
			ord = console.SortAsc
		}
		q = q.WithSort(sb, ord)
	}
	if n, err := strconv.Atoi(v.Get("limit")); err == nil && n > 0 {
		q = q.WithPageSize(n)
	}
	if n, err := strconv.Atoi(v.Get("page")); err == nil {
		q = q.WithPage(n)
	}
	return q
}

// paginationOut is the wire pagination envelope.
type paginationOut struct {
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
	TotalCount int `json:"total_count"`
}

// listOut is the wire shape of every listing response.
type listOut struct {
	Items      any           `json:"items"`
	Pagination paginationOut `json:"pagination"`
}

func writeList(w http.ResponseWriter, items any, page, totalPages, total int) {
	writeJSON(w, http.StatusOK, listOut{
		Items:      items,
		Pagination: paginationOut{Page: page, TotalPages: totalPages, TotalCount: total},
	})
}

type userOut struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Email     string          `json:"email"`
	Status    string          `json:"status"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt string          `json:"created_at"`
}

func encodeUser(u admin.User) userOut {
	return userOut{
		ID:        u.ID,
		Name:      u.Name,
		Phone:     u.Phone,
		Email:     u.Email,
		Status:    u.Status,
		Balance:   u.Balance,
		CreatedAt: fmtTime(u.CreatedAt),
	}
}

type userDetailOut struct {
	userOut
	KYCLevel         string          `json:"kyc_level"`
	LastLoginAt      string          `json:"last_login_at"`
	TransactionCount int             `json:"transaction_count"`
	TotalSpent       decimal.Decimal `json:"total_spent"`
}

type transactionOut struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Service   string          `json:"service"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	Reference string          `json:"reference"`
	CreatedAt string          `json:"created_at"`
}

func encodeTransaction(t admin.Transaction) transactionOut {
	return transactionOut{
		ID:        t.ID,
		UserID:    t.UserID,
		Service:   t.Service,
		Amount:    t.Amount,
		Status:    t.Status,
		Reference: t.Reference,
		CreatedAt: fmtTime(t.CreatedAt),
	}
}

type transactionDetailOut struct {
	transactionOut
	Channel       string `json:"channel"`
	Provider      string `json:"provider"`
	FailureReason string `json:"failure_reason"`
	CompletedAt   string `json:"completed_at"`
}

type serviceOut struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Provider string          `json:"provider"`
	Fee      decimal.Decimal `json:"fee"`
	Status   string          `json:"status"`
}

func encodeService(sv admin.Service) serviceOut {
	return serviceOut{
		ID:       sv.ID,
		Name:     sv.Name,
		Category: sv.Category,
		Provider: sv.Provider,
		Fee:      sv.Fee,
		Status:   sv.Status,
	}
}

type serviceDetailOut struct {
	serviceOut
	Commission  decimal.Decimal `json:"commission"`
	MinAmount   decimal.Decimal `json:"min_amount"`
	MaxAmount   decimal.Decimal `json:"max_amount"`
	UpdatedAt   string          `json:"updated_at"`
	Description string          `json:"description"`
}

type settlementOut struct {
	ID          string          `json:"id"`
	Provider    string          `json:"provider"`
	Gross       decimal.Decimal `json:"gross"`
	Fees        decimal.Decimal `json:"fees"`
	Net         decimal.Decimal `json:"net"`
	Status      string          `json:"status"`
	PeriodStart string          `json:"period_start"`
	PeriodEnd   string          `json:"period_end"`
}

func encodeSettlement(st admin.Settlement) settlementOut {
	return settlementOut{
		ID:          st.ID,
		Provider:    st.Provider,
		Gross:       st.Gross,
		Fees:        st.Fees,
		Net:         st.Net,
		Status:      st.Status,
		PeriodStart: fmtTime(st.PeriodStart),
		PeriodEnd:   fmtTime(st.PeriodEnd),
	}
}

// handleHealth returns a liveness response.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r, admin.ResourceUsers)
	rows, totalPages, total := s.store.ListUsers(q)
	items := make([]userOut, len(rows))
	for i, u := range rows {
		items[i] = encodeUser(u)
	}
	writeList(w, items, q.Page, totalPages, total)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u := s.store.GetUser(chi.URLParam(r, "id"))
	if u == nil {
		writeError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	writeJSON(w, http.StatusOK, userDetailOut{
		userOut:          encodeUser(u.User),
		KYCLevel:         u.KYCLevel,
		LastLoginAt:      fmtTime(u.LastLoginAt),
		TransactionCount: u.TransactionCount,
		TotalSpent:       u.TotalSpent,
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r, admin.ResourceTransactions)
	rows, totalPages, total := s.store.ListTransactions(q)
	items := make([]transactionOut, len(rows))
	for i, t := range rows {
		items[i] = encodeTransaction(t)
	}
	writeList(w, items, q.Page, totalPages, total)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t := s.store.GetTransaction(chi.URLParam(r, "id"))
	if t == nil {
		writeError(w, http.StatusNotFound, "not_found", "transaction not found")
		return
	}
	writeJSON(w, http.StatusOK, transactionDetailOut{
		transactionOut: encodeTransaction(t.Transaction),
		Channel:        t.Channel,
		Provider:       t.Provider,
		FailureReason:  t.FailureReason,
		CompletedAt:    fmtTime(t.CompletedAt),
	})
}

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r, admin.ResourceServices)
	rows, totalPages, total := s.store.ListServices(q)
	items := make([]serviceOut, len(rows))
	for i, sv := range rows {
		items[i] = encodeService(sv)
	}
	writeList(w, items, q.Page, totalPages, total)
}

func (s *Server) handleGetService(w http.ResponseWriter, r *http.Request) {
	sv := s.store.GetService(chi.URLParam(r, "id"))
	if sv == nil {
		writeError(w, http.StatusNotFound, "not_found", "service not found")
		return
	}
	writeJSON(w, http.StatusOK, serviceDetailOut{
		serviceOut:  encodeService(sv.Service),
		Commission:  sv.Commission,
		MinAmount:   sv.MinAmount,
		MaxAmount:   sv.MaxAmount,
		UpdatedAt:   fmtTime(sv.UpdatedAt),
		Description: sv.Description,
	})
}

func (s *Server) handleListSettlements(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r, admin.ResourceSettlements)
	rows, totalPages, total := s.store.ListSettlements(q)
	items := make([]settlementOut, len(rows))
	for i, st := range rows {
		items[i] = encodeSettlement(st)
	}
	writeList(w, items, q.Page, totalPages, total)
}

func (s *Server) handleGetSettlement(w http.ResponseWriter, r *http.Request) {
	st := s.store.GetSettlement(chi.URLParam(r, "id"))
	if st == nil {
		writeError(w, http.StatusNotFound, "not_found", "settlement not found")
		return
	}
	writeJSON(w, http.StatusOK, settlementDetailOut{
		settlementOut:    encodeSettlement(st.Settlement),
		TransactionCount: st.TransactionCount,
		DisputedCount:    st.DisputedCount,
		ApprovedBy:       st.ApprovedBy,
		ApprovedAt:       fmtTime(st.ApprovedAt),
	})
}

type settlementDetailOut struct {
	settlementOut
	TransactionCount int    `json:"transaction_count"`
	DisputedCount    int    `json:"disputed_count"`
	ApprovedBy       string `json:"approved_by"`
	ApprovedAt       string `json:"approved_at"`
}

type bulkIn struct {
	Action string   `json:"action"`
	IDs    []string `json:"ids"`
	Reason string   `json:"reason"`
}

type bulkOut struct {
	SuccessCount  int               `json:"success_count"`
	ErrorCount    int               `json:"error_count"`
	PerItemErrors map[string]string `json:"per_item_errors"`
}

// handleBulk applies one action to a set of IDs on the given resource.
// Item failures are reported per ID; the request itself succeeds as long
// as it is well formed.
func (s *Server) handleBulk(res admin.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkIn
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
			return
		}
		if req.Action == "" || len(req.IDs) == 0 {
			writeError(w, http.StatusBadRequest, "bad_request", "action and ids are required")
			return
		}
		if _, ok := console.FindAction(res.Actions(), req.Action); !ok {
			writeError(w, http.StatusBadRequest, "bad_request", "unknown action "+req.Action)
			return
		}

		success, perItem := s.store.Bulk(res, req.Action, req.IDs)
		writeJSON(w, http.StatusOK, bulkOut{
			SuccessCount:  success,
			ErrorCount:    len(perItem),
			PerItemErrors: perItem,
		})
	}
}

type ledgerIn struct {
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Reason    string          `json:"reason"`
	Reference string          `json:"reference"`
}

type ledgerOut struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// handleLedger credits or debits a wallet. Debits exceeding the balance
// are rejected with 422 so over-drafts can never originate here.
func (s *Server) handleLedger(credit bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ledgerIn
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
			return
		}
		if req.AccountID == "" || !req.Amount.IsPositive() || req.Reason == "" {
			writeError(w, http.StatusBadRequest, "bad_request", "account_id, positive amount, and reason are required")
			return
		}

		dir := console.Debit
		if credit {
			dir = console.Credit
		}
		balance, err := s.store.Mutate(req.AccountID, dir, req.Amount)
		switch {
		case errors.Is(err, errAccountNotFound):
			writeError(w, http.StatusNotFound, "not_found", "account not found")
			return
		case errors.Is(err, errInsufficientFunds):
			writeError(w, http.StatusUnprocessableEntity, "insufficient_funds", "debit exceeds available balance")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal", err.Error())
			return
		}

		s.logger.Info("wallet mutation",
			"account", req.AccountID,
			"direction", string(dir),
			"amount", req.Amount.String(),
		)
		writeJSON(w, http.StatusOK, ledgerOut{AccountID: req.AccountID, Balance: balance})
	}
}

// handleOverview returns the cross-resource summary.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ov := s.store.Overview()
	writeJSON(w, http.StatusOK, map[string]any{
		"user_count":           ov.UserCount,
		"active_user_count":    ov.ActiveUserCount,
		"transaction_count":    ov.TransactionCount,
		"pending_transactions": ov.PendingTransactions,
		"service_count":        ov.ServiceCount,
		"settlement_count":     ov.SettlementCount,
		"wallet_total":         ov.WalletTotal,
	})
}
