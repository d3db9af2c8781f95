package service

import (
	"testing"
	"time"

	"github.com/CFITire/nexus-sub001/internal/core/dynamics"
	"github.com/CFITire/nexus-sub001/internal/features/analytics/domain"
	shipdomain "github.com/CFITire/nexus-sub001/internal/features/shipments/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// computeNow pins the clock so trend buckets are stable.
var computeNow = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

func shipment(no string, ordered, shipped, due dynamics.Date, status shipdomain.Status) shipdomain.Shipment {
	return shipdomain.Shipment{
		ShipmentNo:   no,
		OrderDate:    ordered,
		ShipmentDate: shipped,
		DueDate:      due,
		Status:       status,
	}
}

// TestCompute_Counts verifies the headline counters and on-time split.
func TestCompute_Counts(t *testing.T) {
	records := []shipdomain.Shipment{
		// On time: shipped the day before due.
		shipment("SO-1", dynamics.NewDate(2024, time.May, 1), dynamics.NewDate(2024, time.May, 3), dynamics.NewDate(2024, time.May, 4), shipdomain.StatusDelivered),
		// Late: shipped after due.
		shipment("SO-2", dynamics.NewDate(2024, time.May, 2), dynamics.NewDate(2024, time.May, 8), dynamics.NewDate(2024, time.May, 6), shipdomain.StatusDelivered),
		// Undated: no shipment date, never counted on time or late.
		shipment("SO-3", dynamics.NewDate(2024, time.May, 3), dynamics.Date{}, dynamics.NewDate(2024, time.May, 10), shipdomain.StatusPending),
	}

	snapshot := Compute(records, nil, computeNow)

	assert.Equal(t, 3, snapshot.TotalShipments)
	assert.Equal(t, 2, snapshot.CompletedShipments)
	assert.Equal(t, 1, snapshot.PendingShipments)
	assert.Equal(t, 1, snapshot.OnTimeDeliveries)
	assert.Equal(t, 1, snapshot.LateDeliveries)
	assert.Equal(t, 50.0, snapshot.OnTimePercentage)
}

// TestCompute_SingleLateShipment verifies a fully late dated set reports
// exactly zero percent, not a NaN or a negative.
func TestCompute_SingleLateShipment(t *testing.T) {
	records := []shipdomain.Shipment{
		shipment("SO-1", dynamics.NewDate(2024, time.May, 1), dynamics.NewDate(2024, time.May, 9), dynamics.NewDate(2024, time.May, 6), shipdomain.StatusDelivered),
	}

	snapshot := Compute(records, nil, computeNow)

	assert.Equal(t, 0, snapshot.OnTimeDeliveries)
	assert.Equal(t, 1, snapshot.LateDeliveries)
	assert.Equal(t, 0.0, snapshot.OnTimePercentage)
}

// TestCompute_EmptyInput verifies every fraction is exactly zero on an empty set.
func TestCompute_EmptyInput(t *testing.T) {
	snapshot := Compute(nil, nil, computeNow)

	assert.Zero(t, snapshot.TotalShipments)
	assert.Equal(t, 0.0, snapshot.OnTimePercentage)
	assert.Equal(t, 0.0, snapshot.AverageDeliveryDays)
	assert.Equal(t, 0.0, snapshot.TotalValue)
	assert.Empty(t, snapshot.CarrierPerformance)
	assert.Len(t, snapshot.MonthlyTrend, trendMonths)
}

// TestCompute_AverageDeliveryDays verifies the mean over dated records and
// that negative spans are dropped, not clamped.
func TestCompute_AverageDeliveryDays(t *testing.T) {
	records := []shipdomain.Shipment{
		// 2 days order to ship.
		shipment("SO-1", dynamics.NewDate(2024, time.May, 1), dynamics.NewDate(2024, time.May, 3), dynamics.NewDate(2024, time.May, 4), shipdomain.StatusDelivered),
		// 5 days order to ship.
		shipment("SO-2", dynamics.NewDate(2024, time.May, 1), dynamics.NewDate(2024, time.May, 6), dynamics.NewDate(2024, time.May, 7), shipdomain.StatusDelivered),
		// Negative span: ship date precedes order date, dropped.
		shipment("SO-3", dynamics.NewDate(2024, time.May, 10), dynamics.NewDate(2024, time.May, 5), dynamics.NewDate(2024, time.May, 12), shipdomain.StatusDelivered),
	}

	snapshot := Compute(records, nil, computeNow)

	assert.Equal(t, 3.5, snapshot.AverageDeliveryDays)
}

// TestCompute_RoundedTotals verifies value and weight sums round to 2 decimals
// as the final step.
func TestCompute_RoundedTotals(t *testing.T) {
	records := []shipdomain.Shipment{
		{ShipmentNo: "SO-1", Value: 0.105, Weight: 10.004},
		{ShipmentNo: "SO-2", Value: 0.105, Weight: 10.004},
		{ShipmentNo: "SO-3", Value: 0.105, Weight: 10.004},
	}

	snapshot := Compute(records, nil, computeNow)

	// Summed at full precision (0.315, 30.012) then rounded once.
	assert.Equal(t, 0.32, snapshot.TotalValue)
	assert.Equal(t, 30.01, snapshot.TotalWeight)
}

// TestCompute_Deterministic verifies identical input produces an identical snapshot.
func TestCompute_Deterministic(t *testing.T) {
	records := []shipdomain.Shipment{
		shipment("SO-1", dynamics.NewDate(2024, time.May, 1), dynamics.NewDate(2024, time.May, 3), dynamics.NewDate(2024, time.May, 4), shipdomain.StatusDelivered),
		shipment("SO-2", dynamics.NewDate(2024, time.May, 2), dynamics.NewDate(2024, time.May, 8), dynamics.NewDate(2024, time.May, 6), shipdomain.StatusDelivered),
		{ShipmentNo: "SO-3", CarrierCode: "FEDEX", Value: 1523.75},
	}

	first := Compute(records, nil, computeNow)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compute(records, nil, computeNow))
	}
}

// TestCompute_WindowFiltersByOrderDate verifies window bounds are inclusive
// and undated records are excluded while a window is active.
func TestCompute_WindowFiltersByOrderDate(t *testing.T) {
	records := []shipdomain.Shipment{
		shipment("SO-IN-START", dynamics.NewDate(2024, time.May, 1), dynamics.Date{}, dynamics.Date{}, shipdomain.StatusPending),
		shipment("SO-IN-END", dynamics.NewDate(2024, time.May, 31), dynamics.Date{}, dynamics.Date{}, shipdomain.StatusPending),
		shipment("SO-BEFORE", dynamics.NewDate(2024, time.April, 30), dynamics.Date{}, dynamics.Date{}, shipdomain.StatusPending),
		shipment("SO-AFTER", dynamics.NewDate(2024, time.June, 1), dynamics.Date{}, dynamics.Date{}, shipdomain.StatusPending),
		// No order date at all.
		{ShipmentNo: "SO-UNDATED"},
	}

	window := &domain.Window{
		Start: dynamics.NewDate(2024, time.May, 1),
		End:   dynamics.NewDate(2024, time.May, 31),
	}
	snapshot := Compute(records, window, computeNow)

	assert.Equal(t, 2, snapshot.TotalShipments)
}

// TestCompute_OpenEndedWindow verifies a window with only one bound.
func TestCompute_OpenEndedWindow(t *testing.T) {
	records := []shipdomain.Shipment{
		shipment("SO-1", dynamics.NewDate(2024, time.April, 30), dynamics.Date{}, dynamics.Date{}, shipdomain.StatusPending),
		shipment("SO-2", dynamics.NewDate(2024, time.May, 15), dynamics.Date{}, dynamics.Date{}, shipdomain.StatusPending),
	}

	window := &domain.Window{Start: dynamics.NewDate(2024, time.May, 1)}
	snapshot := Compute(records, window, computeNow)

	assert.Equal(t, 1, snapshot.TotalShipments)
}

// TestCompute_CarrierPerformance verifies carrier bucketing, the Unknown
// bucket and deterministic sort order.
func TestCompute_CarrierPerformance(t *testing.T) {
	onTime := shipment("SO-1", dynamics.NewDate(2024, time.May, 1), dynamics.NewDate(2024, time.May, 3), dynamics.NewDate(2024, time.May, 4), shipdomain.StatusDelivered)
	onTime.CarrierCode = "UPS"
	late := shipment("SO-2", dynamics.NewDate(2024, time.May, 2), dynamics.NewDate(2024, time.May, 9), dynamics.NewDate(2024, time.May, 6), shipdomain.StatusDelivered)
	late.CarrierCode = "UPS"
	fedex := shipment("SO-3", dynamics.NewDate(2024, time.May, 3), dynamics.NewDate(2024, time.May, 5), dynamics.NewDate(2024, time.May, 6), shipdomain.StatusDelivered)
	fedex.CarrierCode = "FEDEX"
	unassigned := shipdomain.Shipment{ShipmentNo: "SO-4"}

	snapshot := Compute([]shipdomain.Shipment{onTime, late, fedex, unassigned}, nil, computeNow)

	require.Len(t, snapshot.CarrierPerformance, 3)
	assert.Equal(t, "FEDEX", snapshot.CarrierPerformance[0].Carrier)
	assert.Equal(t, "UPS", snapshot.CarrierPerformance[1].Carrier)
	assert.Equal(t, "Unknown", snapshot.CarrierPerformance[2].Carrier)

	ups := snapshot.CarrierPerformance[1]
	assert.Equal(t, 2, ups.Shipments)
	assert.Equal(t, 1, ups.OnTime)
	assert.Equal(t, 50.0, ups.OnTimePercentage)

	unknown := snapshot.CarrierPerformance[2]
	assert.Equal(t, 1, unknown.Shipments)
	assert.Equal(t, 0.0, unknown.OnTimePercentage)
}

// TestCompute_MonthlyTrend verifies the trailing six calendar months ending at
// now's month, oldest first, computed over the full record set.
func TestCompute_MonthlyTrend(t *testing.T) {
	records := []shipdomain.Shipment{
		shipment("SO-JAN", dynamics.NewDate(2024, time.January, 15), dynamics.NewDate(2024, time.January, 17), dynamics.NewDate(2024, time.January, 20), shipdomain.StatusDelivered),
		shipment("SO-MAY-1", dynamics.NewDate(2024, time.May, 2), dynamics.NewDate(2024, time.May, 10), dynamics.NewDate(2024, time.May, 6), shipdomain.StatusDelivered),
		shipment("SO-MAY-2", dynamics.NewDate(2024, time.May, 20), dynamics.Date{}, dynamics.Date{}, shipdomain.StatusPending),
		// Before the trend horizon entirely.
		shipment("SO-2023", dynamics.NewDate(2023, time.November, 1), dynamics.Date{}, dynamics.Date{}, shipdomain.StatusDelivered),
	}

	snapshot := Compute(records, nil, computeNow)

	require.Len(t, snapshot.MonthlyTrend, 6)
	assert.Equal(t, "2024-01", snapshot.MonthlyTrend[0].Month)
	assert.Equal(t, "2024-06", snapshot.MonthlyTrend[5].Month)

	jan := snapshot.MonthlyTrend[0]
	assert.Equal(t, 1, jan.Shipments)
	assert.Equal(t, 1, jan.Completed)
	assert.Equal(t, 100.0, jan.OnTimePercentage)

	may := snapshot.MonthlyTrend[4]
	assert.Equal(t, "2024-05", may.Month)
	assert.Equal(t, 2, may.Shipments)
	assert.Equal(t, 1, may.Completed)
	assert.Equal(t, 0.0, may.OnTimePercentage)

	june := snapshot.MonthlyTrend[5]
	assert.Zero(t, june.Shipments)
}

// TestCompute_TrendIgnoresWindow verifies the window narrows the headline
// metrics but never the trend.
func TestCompute_TrendIgnoresWindow(t *testing.T) {
	records := []shipdomain.Shipment{
		shipment("SO-FEB", dynamics.NewDate(2024, time.February, 10), dynamics.Date{}, dynamics.Date{}, shipdomain.StatusPending),
		shipment("SO-MAY", dynamics.NewDate(2024, time.May, 10), dynamics.Date{}, dynamics.Date{}, shipdomain.StatusPending),
	}

	window := &domain.Window{
		Start: dynamics.NewDate(2024, time.May, 1),
		End:   dynamics.NewDate(2024, time.May, 31),
	}
	snapshot := Compute(records, window, computeNow)

	assert.Equal(t, 1, snapshot.TotalShipments)

	for _, bucket := range snapshot.MonthlyTrend {
		if bucket.Month == "2024-02" {
			assert.Equal(t, 1, bucket.Shipments)
		}
	}
}

// TestPercentage verifies rounding and the zero-denominator rule.
func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, percentage(0, 0))
	assert.Equal(t, 0.0, percentage(5, 0))
	assert.Equal(t, 100.0, percentage(3, 3))
	assert.Equal(t, 33.3, percentage(1, 3))
	assert.Equal(t, 66.7, percentage(2, 3))
}
