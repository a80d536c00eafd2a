// Package demo provides an in-memory admin backend implementing the same
// wire contract as the production API. It backs the `payops demo` command
// and the HTTP client tests.
package demo

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/veloxpay/payops/internal/admin"
	"github.com/veloxpay/payops/internal/console"
)

// Store holds the seeded fixtures behind the demo server.
type Store struct {
	mu          sync.Mutex
	users       []admin.UserDetail
	txns        []admin.TransactionDetail
	services    []admin.ServiceDetail
	settlements []admin.SettlementDetail

	// locked IDs fail every bulk action, giving the console a
	// deterministic way to exercise partial failures.
	locked map[string]string
}

// seedBase keeps fixture timestamps stable across runs.
var seedBase = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

var firstNames = []string{
	"Amina", "Kofi", "Ngozi", "Tunde", "Fatima", "Chidi", "Zainab", "Emeka",
	"Halima", "Sule", "Adaeze", "Ibrahim", "Funmi", "Yusuf", "Chiamaka",
}
var lastNames = []string{
	"Okafor", "Mensah", "Abubakar", "Adeyemi", "Diallo", "Eze", "Bello", "Owusu", "Keita",
}
var userStatuses = []string{"active", "active", "active", "pending", "suspended"}
var txnStatuses = []string{"completed", "completed", "completed", "pending", "failed"}
var txnChannels = []string{"app", "ussd", "web"}

// NewStore seeds a deterministic fixture set.
func NewStore() *Store {
	s := &Store{locked: make(map[string]string)}
	s.seedServices()
	s.seedUsers(45)
	s.seedTransactions(140)
	s.seedSettlements(12)

	// A couple of accounts under compliance hold: bulk actions against
	// them fail item-by-item.
	s.locked["usr-0007"] = "account under compliance hold"
	s.locked["usr-0019"] = "account under compliance hold"
	s.locked["txn-0023"] = "transaction in dispute"
	return s
}

func (s *Store) seedServices() {
	specs := []struct {
		name, category, provider string
		fee                      string
	}{
		{"MTN Airtime", "airtime", "mtn", "0.00"},
		{"Airtel Airtime", "airtime", "airtel", "0.00"},
		{"MTN Data 5GB", "data", "mtn", "25.00"},
		{"Glo Data 10GB", "data", "glo", "40.00"},
		{"PHCN Prepaid", "electricity", "phcn", "100.00"},
		{"DSTV Compact", "tv", "multichoice", "150.00"},
		{"GOtv Max", "tv", "multichoice", "90.00"},
		{"Water Board", "utility", "lswb", "50.00"},
	}
	for i, sp := range specs {
		status := "active"
		if i == 7 {
			status = "inactive"
		}
		s.services = append(s.services, admin.ServiceDetail{
			Service: admin.Service{
				ID:       fmt.Sprintf("svc-%04d", i+1),
				Name:     sp.name,
				Category: sp.category,
				Provider: sp.provider,
				Fee:      dec(sp.fee),
				Status:   status,
			},
			Commission:  dec("0.015").Mul(decimal.NewFromInt(int64(i + 1))),
			MinAmount:   dec("50"),
			MaxAmount:   dec("50000"),
			UpdatedAt:   seedBase.AddDate(0, 0, -i),
			Description: sp.name + " via " + sp.provider,
		})
	}
}

func (s *Store) seedUsers(n int) {
	for i := 0; i < n; i++ {
		name := firstNames[i%len(firstNames)] + " " + lastNames[i%len(lastNames)]
		id := fmt.Sprintf("usr-%04d", i+1)
		balance := decimal.NewFromInt(int64((i * 137) % 9000)).Add(dec("0.50"))
		kyc := "tier1"
		if i%3 == 0 {
			kyc = "tier2"
		}
		if i%7 == 0 {
			kyc = "tier3"
		}
		s.users = append(s.users, admin.UserDetail{
			User: admin.User{
				ID:        id,
				Name:      name,
				Phone:     fmt.Sprintf("+23480%07d", 1000000+i*4391),
				Email:     strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
				Status:    userStatuses[i%len(userStatuses)],
				Balance:   balance,
				CreatedAt: seedBase.AddDate(0, 0, -(n - i)),
			},
			KYCLevel:         kyc,
			LastLoginAt:      seedBase.Add(-time.Duration(i) * 7 * time.Hour),
			TransactionCount: (i * 13) % 400,
			TotalSpent:       decimal.NewFromInt(int64((i * 977) % 120000)),
		})
	}
}

func (s *Store) seedTransactions(n int) {
	for i := 0; i < n; i++ {
		svc := s.services[i%len(s.services)]
		user := s.users[(i*5)%len(s.users)]
		status := txnStatuses[i%len(txnStatuses)]
		created := seedBase.Add(-time.Duration(i) * 23 * time.Minute)
		td := admin.TransactionDetail{
			Transaction: admin.Transaction{
				ID:        fmt.Sprintf("txn-%04d", i+1),
				UserID:    user.ID,
				Service:   svc.Name,
				Amount:    decimal.NewFromInt(int64(100 + (i*83)%14900)),
				Status:    status,
				Reference: fmt.Sprintf("ref-%08d", 31722000+i),
				CreatedAt: created,
			},
			Channel:  txnChannels[i%len(txnChannels)],
			Provider: svc.Provider,
		}
		switch status {
		case "completed":
			td.CompletedAt = created.Add(45 * time.Second)
		case "failed":
			td.FailureReason = "provider timeout"
		}
		s.txns = append(s.txns, td)
	}
}

func (s *Store) seedSettlements(n int) {
	providers := []string{"mtn", "airtel", "glo", "multichoice", "phcn", "lswb"}
	for i := 0; i < n; i++ {
		gross := decimal.NewFromInt(int64(250000 + i*73500))
		fees := gross.Mul(dec("0.018")).Round(2)
		status := "pending"
		if i%3 != 0 {
			status = "approved"
		}
		end := seedBase.AddDate(0, 0, -7*i)
		sd := admin.SettlementDetail{
			Settlement: admin.Settlement{
				ID:          fmt.Sprintf("stl-%04d", i+1),
				Provider:    providers[i%len(providers)],
				Gross:       gross,
				Fees:        fees,
				Net:         gross.Sub(fees),
				Status:      status,
				PeriodStart: end.AddDate(0, 0, -7),
				PeriodEnd:   end,
			},
			TransactionCount: 1200 + i*311,
			DisputedCount:    i % 4,
		}
		if status == "approved" {
			sd.ApprovedBy = "ops@veloxpay.example"
			sd.ApprovedAt = end.AddDate(0, 0, 1)
		}
		s.settlements = append(s.settlements, sd)
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// matches reports whether needle appears in any of the haystacks,
// case-insensitively.
func matches(needle string, haystacks ...string) bool {
	if needle == "" {
		return true
	}
	needle = strings.ToLower(needle)
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// paginate slices rows to the requested page and reports total pages/count.
func paginate[T any](rows []T, q console.Query) ([]T, int, int) {
	total := len(rows)
	totalPages := (total + q.PageSize - 1) / q.PageSize
	start := (q.Page - 1) * q.PageSize
	if start >= total {
		return nil, totalPages, total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}
	return rows[start:end], totalPages, total
}

func sortOrder(q console.Query, less bool) bool {
	if q.SortOrder == console.SortDesc {
		return !less
	}
	return less
}

// ListUsers filters, sorts, and paginates the user fixtures.
func (s *Store) ListUsers(q console.Query) ([]admin.User, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []admin.User
	for _, u := range s.users {
		if st := q.Filters["status"]; st != "" && u.Status != st {
			continue
		}
		if kyc := q.Filters["kycLevel"]; kyc != "" && u.KYCLevel != kyc {
			continue
		}
		if !matches(q.Search, u.ID, u.Name, u.Phone, u.Email) {
			continue
		}
		rows = append(rows, u.User)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch q.SortField {
		case "name":
			return sortOrder(q, a.Name < b.Name)
		case "balance":
			return sortOrder(q, a.Balance.LessThan(b.Balance))
		case "status":
			return sortOrder(q, a.Status < b.Status)
		default:
			return sortOrder(q, a.CreatedAt.Before(b.CreatedAt))
		}
	})
	page, totalPages, total := paginate(rows, q)
	return page, totalPages, total
}

// ListTransactions filters, sorts, and paginates the transaction fixtures.
func (s *Store) ListTransactions(q console.Query) ([]admin.Transaction, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []admin.Transaction
	for _, t := range s.txns {
		if st := q.Filters["status"]; st != "" && t.Status != st {
			continue
		}
		if svc := q.Filters["service"]; svc != "" && !matches(svc, t.Service) {
			continue
		}
		if ch := q.Filters["channel"]; ch != "" && t.Channel != ch {
			continue
		}
		if !matches(q.Search, t.ID, t.UserID, t.Service, t.Reference) {
			continue
		}
		rows = append(rows, t.Transaction)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch q.SortField {
		case "amount":
			return sortOrder(q, a.Amount.LessThan(b.Amount))
		case "status":
			return sortOrder(q, a.Status < b.Status)
		default:
			return sortOrder(q, a.CreatedAt.Before(b.CreatedAt))
		}
	})
	page, totalPages, total := paginate(rows, q)
	return page, totalPages, total
}

// ListServices filters, sorts, and paginates the service fixtures.
func (s *Store) ListServices(q console.Query) ([]admin.Service, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []admin.Service
	for _, sv := range s.services {
		if st := q.Filters["status"]; st != "" && sv.Status != st {
			continue
		}
		if cat := q.Filters["category"]; cat != "" && sv.Category != cat {
			continue
		}
		if p := q.Filters["provider"]; p != "" && sv.Provider != p {
			continue
		}
		if !matches(q.Search, sv.ID, sv.Name, sv.Provider) {
			continue
		}
		rows = append(rows, sv.Service)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch q.SortField {
		case "category":
			return sortOrder(q, a.Category < b.Category)
		case "fee":
			return sortOrder(q, a.Fee.LessThan(b.Fee))
		default:
			return sortOrder(q, a.Name < b.Name)
		}
	})
	page, totalPages, total := paginate(rows, q)
	return page, totalPages, total
}

// ListSettlements filters, sorts, and paginates the settlement fixtures.
func (s *Store) ListSettlements(q console.Query) ([]admin.Settlement, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []admin.Settlement
	for _, st := range s.settlements {
		if f := q.Filters["status"]; f != "" && st.Status != f {
			continue
		}
		if p := q.Filters["provider"]; p != "" && st.Provider != p {
			continue
		}
		if !matches(q.Search, st.ID, st.Provider) {
			continue
		}
		rows = append(rows, st.Settlement)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch q.SortField {
		case "net":
			return sortOrder(q, a.Net.LessThan(b.Net))
		case "provider":
			return sortOrder(q, a.Provider < b.Provider)
		default:
			return sortOrder(q, a.PeriodEnd.Before(b.PeriodEnd))
		}
	})
	page, totalPages, total := paginate(rows, q)
	return page, totalPages, total
}

// GetUser returns a user detail or nil.
func (s *Store) GetUser(id string) *admin.UserDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u
		}
	}
	return nil
}

// GetTransaction returns a transaction detail or nil.
func (s *Store) GetTransaction(id string) *admin.TransactionDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.txns {
		if s.txns[i].ID == id {
			t := s.txns[i]
			return &t
		}
	}
	return nil
}

// GetService returns a service detail or nil.
func (s *Store) GetService(id string) *admin.ServiceDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.services {
		if s.services[i].ID == id {
			sv := s.services[i]
			return &sv
		}
	}
	return nil
}

// GetSettlement returns a settlement detail or nil.
func (s *Store) GetSettlement(id string) *admin.SettlementDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.settlements {
		if s.settlements[i].ID == id {
			st := s.settlements[i]
			return &st
		}
	}
	return nil
}

// Bulk applies an action item by item. Locked IDs and unknown IDs fail;
// the rest succeed by flipping status where the action implies one.
func (s *Store) Bulk(r admin.Resource, action string, ids []string) (success int, perItem map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	perItem = make(map[string]string)
	for _, id := range ids {
		if reason, held := s.locked[id]; held {
			perItem[id] = reason
			continue
		}
		if !s.apply(r, action, id) {
			perItem[id] = "not found"
			continue
		}
		success++
	}
	return success, perItem
}

// apply flips one row's status for the given action. Must hold s.mu.
func (s *Store) apply(r admin.Resource, action, id string) bool {
	statusFor := map[string]string{
		"activate":   "active",
		"suspend":    "suspended",
		"deactivate": "inactive",
		"verify":     "active",
		"approve":    "approved",
		"retry":      "pending",
		"flag":       "flagged",
	}
	next := statusFor[action]

	switch r {
	case admin.ResourceUsers:
		for i := range s.users {
			if s.users[i].ID != id {
				continue
			}
			if action == "delete" {
				s.users = append(s.users[:i], s.users[i+1:]...)
			} else if next != "" {
				s.users[i].Status = next
			}
			return true
		}
	case admin.ResourceTransactions:
		for i := range s.txns {
			if s.txns[i].ID != id {
				continue
			}
			if next != "" {
				s.txns[i].Status = next
			}
			return true
		}
	case admin.ResourceServices:
		for i := range s.services {
			if s.services[i].ID != id {
				continue
			}
			if action == "delete" {
				s.services = append(s.services[:i], s.services[i+1:]...)
			} else if next != "" {
				s.services[i].Status = next
			}
			return true
		}
	case admin.ResourceSettlements:
		for i := range s.settlements {
			if s.settlements[i].ID != id {
				continue
			}
			if next != "" {
				s.settlements[i].Status = next
			}
			return true
		}
	}
	return false
}

// Mutate applies a wallet credit or debit and returns the new balance.
func (s *Store) Mutate(accountID string, dir console.Direction, amount decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID != accountID {
			continue
		}
		switch dir {
		case console.Credit:
			s.users[i].Balance = s.users[i].Balance.Add(amount)
		case console.Debit:
			if amount.GreaterThan(s.users[i].Balance) {
				return decimal.Zero, errInsufficientFunds
			}
			s.users[i].Balance = s.users[i].Balance.Sub(amount)
		}
		return s.users[i].Balance, nil
	}
	return decimal.Zero, errAccountNotFound
}

// Overview computes the cross-resource summary.
func (s *Store) Overview() admin.Overview {
	s.mu.Lock()
	defer s.mu.Unlock()

	ov := admin.Overview{
		UserCount:        len(s.users),
		TransactionCount: len(s.txns),
		ServiceCount:     len(s.services),
		SettlementCount:  len(s.settlements),
	}
	for _, u := range s.users {
		if u.Status == "active" {
			ov.ActiveUserCount++
		}
		ov.WalletTotal = ov.WalletTotal.Add(u.Balance)
	}
	for _, t := range s.txns {
		if t.Status == "pending" {
			ov.PendingTransactions++
		}
	}
	return ov
}
