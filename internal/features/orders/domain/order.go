package domain

import (
	"strings"

	"github.com/CFITire/nexus-sub001/internal/core/dynamics"
)

// OrderKind distinguishes the two upstream document types served by the
// search endpoints.
type OrderKind string

const (
	// OrderKindPurchase is a purchase order (counterparty is a vendor).
	OrderKindPurchase OrderKind = "purchase"
	// OrderKindSales is a sales order (counterparty is a customer).
	OrderKindSales OrderKind = "sales"
)

// Order represents a purchase or sales order as exposed to the dashboard.
type Order struct {
	// Number is the document number and the business key; result sets are
	// deduplicated on it.
	Number string `json:"number"`
	// CounterpartyName is the vendor or customer name.
	CounterpartyName string `json:"counterpartyName"`
	// Date is the document date.
	Date dynamics.Date `json:"date"`
	// Status is the upstream document status, passed through verbatim.
	Status string `json:"status"`
	// SalespersonCode identifies the responsible salesperson, when assigned.
	SalespersonCode string `json:"salespersonCode,omitempty"`
}

// Matches reports whether the order matches a search term by case-insensitive
// substring on the number or the counterparty name. Used by the degraded-mode
// dataset so it honors the same filter contract as live search.
func (o Order) Matches(term string) bool {
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(o.Number), t) ||
		strings.Contains(strings.ToLower(o.CounterpartyName), t)
}

// Dedupe drops later occurrences of an order number, keeping the first.
// Duplicates are not merged field-by-field.
func Dedupe(orders []Order) []Order {
	seen := make(map[string]bool, len(orders))
	out := orders[:0:0]
	for _, o := range orders {
		if seen[o.Number] {
			continue
		}
		seen[o.Number] = true
		out = append(out, o)
	}
	return out
}
