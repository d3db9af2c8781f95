package ports

import (
	"context"

	"github.com/CFITire/nexus-sub001/internal/features/orders/domain"
)

// SalesSearcher is the secondary port for sales order search. The degraded
// fallback implements only this half: purchase orders have no substitute
// dataset.
type SalesSearcher interface {
	// SearchSalesOrders returns sales orders matching the term, capped at limit.
	SearchSalesOrders(ctx context.Context, term string, limit int) ([]domain.Order, error)
}

// Searcher is the secondary port for order search backends.
type Searcher interface {
	SalesSearcher
	// SearchPurchaseOrders returns purchase orders matching the term, capped at limit.
	SearchPurchaseOrders(ctx context.Context, term string, limit int) ([]domain.Order, error)
}
