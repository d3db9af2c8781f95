package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/CFITire/nexus-sub001/internal/core/dynamics"
	"github.com/CFITire/nexus-sub001/internal/core/logger"
	"github.com/CFITire/nexus-sub001/internal/features/orders/domain"

	"go.uber.org/zap"
)

// Upstream page web services and the fields each search scopes to.
const (
	purchaseOrderResource = "Purchase_Orders"
	salesOrderResource    = "Sales_Orders"
)

// BusinessCentralAdapter implements the Searcher port against the ERP's
// OData surface. The upstream query language cannot express "field A
// contains X OR field B contains X" in one request, so each search fans out
// one field-scoped sub-query per searchable field and concatenates the
// partial results for the service layer to merge.
type BusinessCentralAdapter struct {
	client *dynamics.Client
	logger *zap.Logger
}

// NewBusinessCentralAdapter creates a new adapter over the given ERP client.
func NewBusinessCentralAdapter(client *dynamics.Client) *BusinessCentralAdapter {
	return &BusinessCentralAdapter{
		client: client,
		logger: logger.Get(),
	}
}

// subQuery is one field-scoped filter in a federated search.
type subQuery struct {
	field  string
	filter string
}

// SearchPurchaseOrders searches purchase orders by document number prefix and
// vendor name substring.
func (a *BusinessCentralAdapter) SearchPurchaseOrders(ctx context.Context, term string, limit int) ([]domain.Order, error) {
	escaped := dynamics.EscapeFilterValue(term)
	subs := []subQuery{
		{field: "No", filter: fmt.Sprintf("startswith(No,'%s')", escaped)},
		{field: "Buy_from_Vendor_Name", filter: fmt.Sprintf("contains(Buy_from_Vendor_Name,'%s')", escaped)},
	}
	return a.federate(ctx, purchaseOrderResource, subs, limit, mapPurchaseOrder)
}

// SearchSalesOrders searches sales orders by document number prefix and
// customer name substring.
func (a *BusinessCentralAdapter) SearchSalesOrders(ctx context.Context, term string, limit int) ([]domain.Order, error) {
	escaped := dynamics.EscapeFilterValue(term)
	subs := []subQuery{
		{field: "No", filter: fmt.Sprintf("startswith(No,'%s')", escaped)},
		{field: "Sell_to_Customer_Name", filter: fmt.Sprintf("contains(Sell_to_Customer_Name,'%s')", escaped)},
	}
	return a.federate(ctx, salesOrderResource, subs, limit, mapSalesOrder)
}

// federate issues all sub-queries concurrently and concatenates their results
// in sub-query declaration order, so output content does not depend on which
// network call settled first. A failed sub-query contributes nothing and is
// logged; only when every sub-query fails does the search surface an error,
// letting callers fall back to a substitute dataset.
func (a *BusinessCentralAdapter) federate(
	ctx context.Context,
	resource string,
	subs []subQuery,
	limit int,
	mapRow func(json.RawMessage) (domain.Order, error),
) ([]domain.Order, error) {
	partials := make([][]domain.Order, len(subs))
	errs := make([]error, len(subs))

	var wg sync.WaitGroup
	for i, sub := range subs {
		wg.Add(1)
		go func(i int, sub subQuery) {
			defer wg.Done()

			rows, err := a.client.Query(ctx, resource, dynamics.QueryOptions{
				Filter:  sub.filter,
				OrderBy: "Document_Date desc",
				Top:     limit,
			})
			if err != nil {
				errs[i] = err
				a.logger.Warn("Sub-query failed, excluding its results",
					zap.String("resource", resource),
					zap.String("field", sub.field),
					zap.Error(err),
				)
				return
			}

			orders := make([]domain.Order, 0, len(rows))
			for _, row := range rows {
				order, err := mapRow(row)
				if err != nil {
					a.logger.Warn("Skipping unmappable row",
						zap.String("resource", resource),
						zap.Error(err),
					)
					continue
				}
				orders = append(orders, order)
			}
			partials[i] = orders
		}(i, sub)
	}
	wg.Wait()

	var combined []domain.Order
	anySucceeded := false
	for i := range subs {
		if errs[i] == nil {
			anySucceeded = true
			combined = append(combined, partials[i]...)
		}
	}

	if !anySucceeded {
		for _, err := range errs {
			if err != nil {
				return nil, fmt.Errorf("all sub-queries failed: %w", err)
			}
		}
	}

	return combined, nil
}

// bcPurchaseOrder is the raw upstream purchase order row.
type bcPurchaseOrder struct {
	No                string        `json:"No"`
	BuyFromVendorName string        `json:"Buy_from_Vendor_Name"`
	DocumentDate      dynamics.Date `json:"Document_Date"`
	Status            string        `json:"Status"`
	PurchaserCode     string        `json:"Purchaser_Code"`
}

// bcSalesOrder is the raw upstream sales order row.
type bcSalesOrder struct {
	No                 string        `json:"No"`
	SellToCustomerName string        `json:"Sell_to_Customer_Name"`
	DocumentDate       dynamics.Date `json:"Document_Date"`
	Status             string        `json:"Status"`
	SalespersonCode    string        `json:"Salesperson_Code"`
}

// mapPurchaseOrder renames the upstream vocabulary to the domain one.
// Missing fields default to empty values; mapping never fails on content.
func mapPurchaseOrder(row json.RawMessage) (domain.Order, error) {
	var po bcPurchaseOrder
	if err := json.Unmarshal(row, &po); err != nil {
		return domain.Order{}, fmt.Errorf("failed to decode purchase order row: %w", err)
	}
	return domain.Order{
		Number:           po.No,
		CounterpartyName: po.BuyFromVendorName,
		Date:             po.DocumentDate,
		Status:           po.Status,
		SalespersonCode:  po.PurchaserCode,
	}, nil
}

// mapSalesOrder renames the upstream vocabulary to the domain one.
func mapSalesOrder(row json.RawMessage) (domain.Order, error) {
	var so bcSalesOrder
	if err := json.Unmarshal(row, &so); err != nil {
		return domain.Order{}, fmt.Errorf("failed to decode sales order row: %w", err)
	}
	return domain.Order{
		Number:           so.No,
		CounterpartyName: so.SellToCustomerName,
		Date:             so.DocumentDate,
		Status:           so.Status,
		SalespersonCode:  so.SalespersonCode,
	}, nil
}
