package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/CFITire/nexus-sub001/internal/core/dynamics"
	"github.com/CFITire/nexus-sub001/internal/core/logger"
	"github.com/CFITire/nexus-sub001/internal/features/shipments/domain"

	"go.uber.org/zap"
)

// shipmentResource is the sales order page carrying the shipping fields.
const shipmentResource = "Sales_Orders"

// BusinessCentralAdapter implements the Source port against the ERP. A query
// that unions an order-date range with shipment-dated records needs an OR
// across different fields, which the upstream cannot express, so it runs as
// two sub-queries fanned out concurrently.
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

// FetchShipments executes the sub-queries for the given selection and
// concatenates their results in declaration order. Partial sub-query
// failures are logged and excluded; only a total failure surfaces an error.
func (a *BusinessCentralAdapter) FetchShipments(ctx context.Context, q domain.Query) ([]domain.Shipment, error) {
	filters := buildFilters(q)

	partials := make([][]domain.Shipment, len(filters))
	errs := make([]error, len(filters))

	var wg sync.WaitGroup
	for i, filter := range filters {
		wg.Add(1)
		go func(i int, filter string) {
			defer wg.Done()

			rows, err := a.client.Query(ctx, shipmentResource, dynamics.QueryOptions{
				Filter:  filter,
				OrderBy: "Order_Date desc",
			})
			if err != nil {
				errs[i] = err
				a.logger.Warn("Shipment sub-query failed, excluding its results",
					zap.String("filter", filter),
					zap.Error(err),
				)
				return
			}

			shipments := make([]domain.Shipment, 0, len(rows))
			for _, row := range rows {
				shipment, err := mapShipment(row)
				if err != nil {
					a.logger.Warn("Skipping unmappable shipment row", zap.Error(err))
					continue
				}
				shipments = append(shipments, shipment)
			}
			partials[i] = shipments
		}(i, filter)
	}
	wg.Wait()

	var combined []domain.Shipment
	anySucceeded := false
	for i := range filters {
		if errs[i] == nil {
			anySucceeded = true
			combined = append(combined, partials[i]...)
		}
	}

	if !anySucceeded {
		for _, err := range errs {
			if err != nil {
				return nil, fmt.Errorf("all shipment sub-queries failed: %w", err)
			}
		}
	}

	return combined, nil
}

// buildFilters translates a Query into one or two OData filters.
func buildFilters(q domain.Query) []string {
	if q.All {
		return []string{""}
	}

	var clauses []string
	if q.From.Valid() {
		clauses = append(clauses, fmt.Sprintf("Order_Date ge %s", q.From))
	}
	if q.To.Valid() {
		clauses = append(clauses, fmt.Sprintf("Order_Date le %s", q.To))
	}

	filters := []string{strings.Join(clauses, " and ")}
	if q.IncludeShipmentDated {
		filters = append(filters, "Shipment_Date ne 0001-01-01")
	}
	return filters
}

// mapShipment renames the upstream vocabulary to the domain one, derives the
// status from the shipping flags and joins the ship-to address. Missing
// fields default to empty values; mapping never fails on content.
func mapShipment(row json.RawMessage) (domain.Shipment, error) {
	var bs bcShipment
	if err := json.Unmarshal(row, &bs); err != nil {
		return domain.Shipment{}, fmt.Errorf("failed to decode shipment row: %w", err)
	}

	return domain.Shipment{
		ShipmentNo:   bs.No,
		ShipmentDate: bs.ShipmentDate,
		CustomerName: bs.SellToCustomerName,
		DestinationAddress: domain.JoinAddress(
			bs.ShipToAddress,
			bs.ShipToAddress2,
			bs.ShipToCity,
			bs.ShipToCounty,
		),
		Status:                domain.DeriveStatus(bs.CompletelyShipped, bs.WarehouseShipmentNo),
		CarrierCode:           bs.ShippingAgentCode,
		TrackingNumber:        bs.PackageTrackingNo,
		OrderDate:             bs.OrderDate,
		DueDate:               bs.DueDate,
		RequestedDeliveryDate: bs.RequestedDeliveryDate,
		PromisedDeliveryDate:  bs.PromisedDeliveryDate,
		Value:                 float64(bs.AmountIncludingVAT),
		Weight:                float64(bs.NetWeight),
	}, nil
}

// bcShipment is the raw upstream sales order row with shipping fields.
type bcShipment struct {
	No                    string        `json:"No"`
	SellToCustomerName    string        `json:"Sell_to_Customer_Name"`
	ShipToAddress         string        `json:"Ship_to_Address"`
	ShipToAddress2        string        `json:"Ship_to_Address_2"`
	ShipToCity            string        `json:"Ship_to_City"`
	ShipToCounty          string        `json:"Ship_to_County"`
	CompletelyShipped     bool          `json:"Completely_Shipped"`
	WarehouseShipmentNo   string        `json:"Warehouse_Shipment_No"`
	ShipmentDate          dynamics.Date `json:"Shipment_Date"`
	OrderDate             dynamics.Date `json:"Order_Date"`
	DueDate               dynamics.Date `json:"Due_Date"`
	RequestedDeliveryDate dynamics.Date `json:"Requested_Delivery_Date"`
	PromisedDeliveryDate  dynamics.Date `json:"Promised_Delivery_Date"`
	ShippingAgentCode     string        `json:"Shipping_Agent_Code"`
	PackageTrackingNo     string        `json:"Package_Tracking_No"`
	AmountIncludingVAT    lenientFloat  `json:"Amount_Including_VAT"`
	NetWeight             lenientFloat  `json:"Net_Weight"`
}

// lenientFloat parses a numeric field defensively: JSON numbers, quoted
// numbers, and anything unparseable all decode without error, the latter to 0.
type lenientFloat float64

// UnmarshalJSON implements lenient numeric decoding.
func (f *lenientFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = lenientFloat(parsed)
	return nil
}
