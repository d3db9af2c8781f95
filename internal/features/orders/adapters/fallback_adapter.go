package adapter

import (
	"context"

	"github.com/CFITire/nexus-sub001/internal/core/dynamics"
	"github.com/CFITire/nexus-sub001/internal/features/orders/domain"
)

// FallbackAdapter serves a static substitute dataset of sales orders when the
// live upstream is disabled or unreachable. It honors the same filter
// contract as live search so callers cannot distinguish the modes by shape.
// Purchase orders define no substitute dataset.
type FallbackAdapter struct {
	salesOrders []domain.Order
}

// NewFallbackAdapter creates a fallback with the built-in dataset.
func NewFallbackAdapter() *FallbackAdapter {
	return &FallbackAdapter{salesOrders: fallbackSalesOrders}
}

// SearchSalesOrders filters the substitute dataset case-insensitively on
// number and customer name.
func (a *FallbackAdapter) SearchSalesOrders(_ context.Context, term string, limit int) ([]domain.Order, error) {
	matched := make([]domain.Order, 0, limit)
	for _, o := range a.salesOrders {
		if !o.Matches(term) {
			continue
		}
		matched = append(matched, o)
		if len(matched) == limit {
			break
		}
	}
	return matched, nil
}

// fallbackSalesOrders is the substitute dataset served in degraded mode.
var fallbackSalesOrders = []domain.Order{
	{Number: "SO-24-10418", CounterpartyName: "Prairie Harvest Co-op", Date: dynamics.NewDate(2024, 5, 28), Status: "Released", SalespersonCode: "JMILLER"},
	{Number: "SO-24-10407", CounterpartyName: "Big Sky Ag Services", Date: dynamics.NewDate(2024, 5, 24), Status: "Released", SalespersonCode: "TGRANT"},
	{Number: "SO-24-10391", CounterpartyName: "Redline Transport LLC", Date: dynamics.NewDate(2024, 5, 21), Status: "Open", SalespersonCode: "JMILLER"},
	{Number: "SO-24-10370", CounterpartyName: "Cascade Equipment Rentals", Date: dynamics.NewDate(2024, 5, 16), Status: "Released", SalespersonCode: "KBOWEN"},
	{Number: "SO-24-10344", CounterpartyName: "Northfork Construction", Date: dynamics.NewDate(2024, 5, 9), Status: "Released", SalespersonCode: "TGRANT"},
	{Number: "SO-24-10312", CounterpartyName: "Lakeside Dairy Farms", Date: dynamics.NewDate(2024, 5, 2), Status: "Open", SalespersonCode: "KBOWEN"},
}
