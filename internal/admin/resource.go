package admin

import (
	"fmt"

	"github.com/veloxpay/payops/internal/console"
)

// Resource identifies one managed entity type.
type Resource string

const (
	ResourceUsers        Resource = "users"
	ResourceTransactions Resource = "transactions"
	ResourceServices     Resource = "services"
	ResourceSettlements  Resource = "settlements"
)

// Resources lists all managed resources in panel order.
var Resources = []Resource{
	ResourceUsers,
	ResourceTransactions,
	ResourceServices,
	ResourceSettlements,
}

// ParseResource validates a user-supplied resource name.
func ParseResource(s string) (Resource, error) {
	for _, r := range Resources {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown resource %q (expected users, transactions, services, or settlements)", s)
}

// Title returns the display name used in headers.
func (r Resource) Title() string {
	switch r {
	case ResourceUsers:
		return "Users"
	case ResourceTransactions:
		return "Transactions"
	case ResourceServices:
		return "Services"
	case ResourceSettlements:
		return "Settlements"
	default:
		return string(r)
	}
}

// schema captures the per-resource query surface: which filter keys the
// backend accepts, which fields it can sort by, and the default sort.
type schema struct {
	filterKeys  []string
	sortFields  []string
	defaultSort string
	defaultOrd  console.SortOrder
	actions     []console.Action
}

var schemas = map[Resource]schema{
	ResourceUsers: {
		filterKeys:  []string{"status", "kycLevel"},
		sortFields:  []string{"createdAt", "name", "balance", "status"},
		defaultSort: "createdAt",
		defaultOrd:  console.SortDesc,
		actions: []console.Action{
			{Name: "activate", Label: "Activate"},
			{Name: "verify", Label: "Mark verified"},
			{Name: "suspend", Label: "Suspend", Destructive: true, NeedsReason: true},
			{Name: "delete", Label: "Delete", Destructive: true, NeedsReason: true},
		},
	},
	ResourceTransactions: {
		filterKeys:  []string{"status", "service", "channel"},
		sortFields:  []string{"createdAt", "amount", "status"},
		defaultSort: "createdAt",
		defaultOrd:  console.SortDesc,
		actions: []console.Action{
			{Name: "retry", Label: "Retry"},
			{Name: "flag", Label: "Flag for review", NeedsReason: true},
		},
	},
	ResourceServices: {
		filterKeys:  []string{"status", "category", "provider"},
		sortFields:  []string{"name", "category", "fee"},
		defaultSort: "name",
		defaultOrd:  console.SortAsc,
		actions: []console.Action{
			{Name: "activate", Label: "Activate"},
			{Name: "deactivate", Label: "Deactivate", Destructive: true},
			{Name: "delete", Label: "Delete", Destructive: true, NeedsReason: true},
		},
	},
	ResourceSettlements: {
		filterKeys:  []string{"status", "provider"},
		sortFields:  []string{"periodEnd", "net", "provider"},
		defaultSort: "periodEnd",
		defaultOrd:  console.SortDesc,
		actions: []console.Action{
			{Name: "approve", Label: "Approve"},
			{Name: "flag", Label: "Flag discrepancy", NeedsReason: true},
		},
	},
}

// FilterKeys returns the filter keys r accepts.
func (r Resource) FilterKeys() []string {
	return schemas[r].filterKeys
}

// SortFields returns the sortable fields of r.
func (r Resource) SortFields() []string {
	return schemas[r].sortFields
}

// Actions returns the bulk actions available on r.
func (r Resource) Actions() []console.Action {
	return schemas[r].actions
}

// DefaultQuery returns r's initial query descriptor.
func (r Resource) DefaultQuery(pageSize int) console.Query {
	s := schemas[r]
	return console.NewQuery(s.defaultSort, s.defaultOrd, pageSize)
}

// ValidFilterKey reports whether key is accepted by r.
func (r Resource) ValidFilterKey(key string) bool {
	for _, k := range schemas[r].filterKeys {
		if k == key {
			return true
		}
	}
	return false
}
