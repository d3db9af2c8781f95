package domain

import (
	"strings"

	"github.com/CFITire/nexus-sub001/internal/core/dynamics"
)

// Status represents the derived delivery state of a shipment. The upstream
// stores no status field; it is derived from shipping flags.
type Status string

const (
	// StatusPending indicates no warehouse activity has started.
	StatusPending Status = "Pending"
	// StatusInTransit indicates a warehouse shipment exists but delivery is incomplete.
	StatusInTransit Status = "InTransit"
	// StatusDelivered indicates the order is completely shipped.
	StatusDelivered Status = "Delivered"
)

// Shipment represents an outbound shipment derived from an upstream sales
// order plus its shipping fields. Unset dates are zero and serialize to null.
type Shipment struct {
	// ShipmentNo is the business key; result sets are deduplicated on it.
	ShipmentNo string `json:"shipmentNo"`
	// ShipmentDate is the date goods left the warehouse, when known.
	ShipmentDate dynamics.Date `json:"shipmentDate"`
	// CustomerName is the receiving customer.
	CustomerName string `json:"customerName"`
	// DestinationAddress is the joined ship-to address.
	DestinationAddress string `json:"destinationAddress"`
	// Status is the derived delivery state.
	Status Status `json:"status"`
	// CarrierCode identifies the shipping agent, when assigned.
	CarrierCode string `json:"carrierCode"`
	// TrackingNumber is the carrier tracking reference, when assigned.
	TrackingNumber string `json:"trackingNumber"`
	// OrderDate is the originating order date.
	OrderDate dynamics.Date `json:"orderDate"`
	// DueDate is the date the delivery was due.
	DueDate dynamics.Date `json:"dueDate"`
	// RequestedDeliveryDate is the customer-requested delivery date.
	RequestedDeliveryDate dynamics.Date `json:"requestedDeliveryDate"`
	// PromisedDeliveryDate is the delivery date promised to the customer.
	PromisedDeliveryDate dynamics.Date `json:"promisedDeliveryDate"`
	// Value is the order amount, parsed defensively (non-numeric becomes 0).
	Value float64 `json:"value"`
	// Weight is the net weight, parsed defensively (non-numeric becomes 0).
	Weight float64 `json:"weight"`
}

// DeriveStatus maps upstream shipping flags to a Status: completely shipped
// wins, then an existing warehouse shipment, then pending.
func DeriveStatus(completelyShipped bool, warehouseShipmentNo string) Status {
	if completelyShipped {
		return StatusDelivered
	}
	if warehouseShipmentNo != "" {
		return StatusInTransit
	}
	return StatusPending
}

// JoinAddress joins optional address parts with ", ", skipping empties so no
// stray separators are emitted.
func JoinAddress(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// Dated reports whether the shipment has both a shipment date and a due
// date. Only dated shipments participate in on-time computations.
func (s Shipment) Dated() bool {
	return s.ShipmentDate.Valid() && s.DueDate.Valid()
}

// OnTime reports whether a dated shipment shipped on or before its due date.
// Undated shipments are never on time.
func (s Shipment) OnTime() bool {
	return s.Dated() && s.ShipmentDate.OnOrBefore(s.DueDate)
}

// Dedupe drops later occurrences of a shipment number, keeping the first.
func Dedupe(shipments []Shipment) []Shipment {
	seen := make(map[string]bool, len(shipments))
	out := shipments[:0:0]
	for _, s := range shipments {
		if seen[s.ShipmentNo] {
			continue
		}
		seen[s.ShipmentNo] = true
		out = append(out, s)
	}
	return out
}

// Query describes which shipment records to fetch from the upstream.
type Query struct {
	// From and To bound order dates inclusively. Zero dates leave that bound open.
	From dynamics.Date
	To   dynamics.Date
	// IncludeShipmentDated additionally unions records carrying a real
	// shipment date regardless of order date.
	IncludeShipmentDated bool
	// All fetches every record, ignoring the other fields.
	All bool
}
