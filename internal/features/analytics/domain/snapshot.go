package domain

import "github.com/CFITire/nexus-sub001/internal/core/dynamics"

// Window bounds an analytics computation by order date, inclusive on both
// ends. A zero bound leaves that side open.
type Window struct {
	Start dynamics.Date
	End   dynamics.Date
}

// Contains reports whether an order date falls inside the window.
func (w Window) Contains(d dynamics.Date) bool {
	if w.Start.Valid() && !d.OnOrAfter(w.Start) {
		return false
	}
	if w.End.Valid() && !d.OnOrBefore(w.End) {
		return false
	}
	return true
}

// CarrierPerformance aggregates delivery performance for one carrier.
type CarrierPerformance struct {
	// Carrier is the carrier code, or "Unknown" when unassigned.
	Carrier string `json:"carrier"`
	// Shipments is the total shipment count for the carrier.
	Shipments int `json:"shipments"`
	// OnTime is the count of dated shipments delivered on or before their due date.
	OnTime int `json:"onTime"`
	// OnTimePercentage is OnTime over the carrier's dated count, rounded to 1 decimal.
	OnTimePercentage float64 `json:"onTimePercentage"`
}

// MonthlyTrend aggregates one calendar month of the trailing trend.
type MonthlyTrend struct {
	// Month is the bucket in YYYY-MM form.
	Month string `json:"month"`
	// Shipments is the count of shipments ordered in the month.
	Shipments int `json:"shipments"`
	// Completed is the count of those delivered.
	Completed int `json:"completed"`
	// OnTimePercentage is the month's on-time rate, rounded to 1 decimal.
	OnTimePercentage float64 `json:"onTimePercentage"`
}

// Snapshot holds the derived shipment performance metrics for one request.
// It is immutable once produced; recomputing over identical input yields a
// byte-identical snapshot because every fraction is rounded to a fixed number
// of decimals as the final step.
type Snapshot struct {
	// TotalShipments is the number of shipments in the window.
	TotalShipments int `json:"totalShipments"`
	// CompletedShipments counts shipments with status Delivered.
	CompletedShipments int `json:"completedShipments"`
	// PendingShipments is TotalShipments minus CompletedShipments.
	PendingShipments int `json:"pendingShipments"`
	// OnTimeDeliveries counts dated shipments shipped on or before the due date.
	OnTimeDeliveries int `json:"onTimeDeliveries"`
	// LateDeliveries counts dated shipments shipped after the due date.
	LateDeliveries int `json:"lateDeliveries"`
	// OnTimePercentage is OnTimeDeliveries over the dated count, rounded to 1
	// decimal; exactly 0 when no dated shipments exist.
	OnTimePercentage float64 `json:"onTimePercentage"`
	// AverageDeliveryDays is the mean days from order to shipment over dated
	// shipments, rounded to 1 decimal. Negative spans are data artifacts and
	// are dropped from the average.
	AverageDeliveryDays float64 `json:"averageDeliveryDays"`
	// TotalValue is the summed order value, rounded to 2 decimals.
	TotalValue float64 `json:"totalValue"`
	// TotalWeight is the summed net weight, rounded to 2 decimals.
	TotalWeight float64 `json:"totalWeight"`
	// CarrierPerformance holds per-carrier buckets, sorted by carrier code.
	CarrierPerformance []CarrierPerformance `json:"carrierPerformance"`
	// MonthlyTrend holds exactly the trailing six calendar months ending at
	// the current month, oldest first.
	MonthlyTrend []MonthlyTrend `json:"monthlyTrend"`
}
