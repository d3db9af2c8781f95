package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/CFITire/nexus-sub001/internal/core/logger"
	"github.com/CFITire/nexus-sub001/internal/features/orders/domain"
	"github.com/CFITire/nexus-sub001/internal/features/orders/ports"

	"go.uber.org/zap"
)

// ErrLiveDisabled is returned for operations that require the live upstream
// when it is disabled and no substitute dataset exists.
var ErrLiveDisabled = errors.New("live ERP access is disabled and no substitute dataset exists")

// MinTermLength is the minimum search term length before any upstream call is
// made. Shorter terms would degenerate into full-table scans upstream.
const MinTermLength = 2

// DefaultLimit caps result sets when callers do not specify one.
const DefaultLimit = 50

// OrderService merges and ranks federated order search results and selects
// between the live backend and the degraded substitute dataset.
type OrderService struct {
	live     ports.Searcher
	fallback ports.SalesSearcher
	// degraded forces the substitute dataset for endpoints that define one,
	// regardless of upstream health.
	degraded bool
}

// NewOrderService creates a new OrderService. fallback may serve sales order
// searches when the live backend fails or degraded mode is forced.
func NewOrderService(live ports.Searcher, fallback ports.SalesSearcher, degraded bool) *OrderService {
	return &OrderService{
		live:     live,
		fallback: fallback,
		degraded: degraded,
	}
}

// SearchPurchaseOrders searches purchase orders. Purchase orders have no
// substitute dataset, so live failures propagate to the caller.
func (s *OrderService) SearchPurchaseOrders(ctx context.Context, term string) ([]domain.Order, error) {
	term = strings.TrimSpace(term)
	if len(term) < MinTermLength {
		return []domain.Order{}, nil
	}

	if s.degraded || s.live == nil {
		return nil, ErrLiveDisabled
	}

	hits, err := s.live.SearchPurchaseOrders(ctx, term, DefaultLimit)
	if err != nil {
		return nil, err
	}

	return rank(domain.Dedupe(hits), term), nil
}

// SearchSalesOrders searches sales orders, substituting the degraded dataset
// when live mode is disabled or the live search fails outright.
func (s *OrderService) SearchSalesOrders(ctx context.Context, term string) ([]domain.Order, error) {
	term = strings.TrimSpace(term)
	if len(term) < MinTermLength {
		return []domain.Order{}, nil
	}

	if s.degraded {
		hits, err := s.fallback.SearchSalesOrders(ctx, term, DefaultLimit)
		if err != nil {
			return nil, err
		}
		return rank(domain.Dedupe(hits), term), nil
	}

	hits, err := s.live.SearchSalesOrders(ctx, term, DefaultLimit)
	if err != nil {
		if s.fallback == nil {
			return nil, err
		}
		logger.Get().Warn("Live sales order search failed, serving substitute dataset",
			zap.Error(err),
		)
		hits, err = s.fallback.SearchSalesOrders(ctx, term, DefaultLimit)
		if err != nil {
			return nil, err
		}
	}

	return rank(domain.Dedupe(hits), term), nil
}

// rank orders results for relevance: orders whose number equals the term
// case-insensitively sort first, the remainder by date descending. Ties keep
// their existing relative order.
func rank(orders []domain.Order, term string) []domain.Order {
	sort.SliceStable(orders, func(i, j int) bool {
		iExact := strings.EqualFold(orders[i].Number, term)
		jExact := strings.EqualFold(orders[j].Number, term)
		if iExact != jExact {
			return iExact
		}
		return orders[i].Date.After(orders[j].Date.Time)
	})

	if len(orders) > DefaultLimit {
		orders = orders[:DefaultLimit]
	}
	return orders
}
