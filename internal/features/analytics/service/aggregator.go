package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/CFITire/nexus-sub001/internal/features/analytics/domain"
	shipdomain "github.com/CFITire/nexus-sub001/internal/features/shipments/domain"

	"github.com/shopspring/decimal"
)

// unknownCarrier is the bucket for shipments without a carrier code.
const unknownCarrier = "Unknown"

// trendMonths is the number of trailing calendar months in the monthly trend.
const trendMonths = 6

// Compute derives a performance snapshot from shipment records. It is a pure
// function of its inputs: the window filters by order date, the trend always
// covers the trailing six calendar months ending at now's month, and every
// fraction is rounded as the final step so identical input yields an
// identical snapshot.
func Compute(records []shipdomain.Shipment, window *domain.Window, now time.Time) domain.Snapshot {
	filtered := filterWindow(records, window)

	completed := 0
	for _, s := range filtered {
		if s.Status == shipdomain.StatusDelivered {
			completed++
		}
	}

	onTime, dated := onTimeCounts(filtered)

	snapshot := domain.Snapshot{
		TotalShipments:      len(filtered),
		CompletedShipments:  completed,
		PendingShipments:    len(filtered) - completed,
		OnTimeDeliveries:    onTime,
		LateDeliveries:      dated - onTime,
		OnTimePercentage:    percentage(onTime, dated),
		AverageDeliveryDays: averageDeliveryDays(filtered),
		TotalValue:          roundedSum(filtered, func(s shipdomain.Shipment) float64 { return s.Value }),
		TotalWeight:         roundedSum(filtered, func(s shipdomain.Shipment) float64 { return s.Weight }),
		CarrierPerformance:  carrierPerformance(filtered),
		MonthlyTrend:        monthlyTrend(records, now),
	}

	return snapshot
}

// filterWindow keeps records whose order date falls inside the window.
// Records lacking an order date are excluded whenever a window is active.
func filterWindow(records []shipdomain.Shipment, window *domain.Window) []shipdomain.Shipment {
	if window == nil {
		return records
	}
	out := make([]shipdomain.Shipment, 0, len(records))
	for _, s := range records {
		if !s.OrderDate.Valid() {
			continue
		}
		if window.Contains(s.OrderDate) {
			out = append(out, s)
		}
	}
	return out
}

// onTimeCounts returns the on-time and dated counts for a record set.
func onTimeCounts(records []shipdomain.Shipment) (onTime, dated int) {
	for _, s := range records {
		if !s.Dated() {
			continue
		}
		dated++
		if s.OnTime() {
			onTime++
		}
	}
	return onTime, dated
}

// averageDeliveryDays computes the mean days from order to shipment over
// dated records. Negative spans, where the ship date precedes the order
// date, are data artifacts and are dropped entirely rather than clamped.
func averageDeliveryDays(records []shipdomain.Shipment) float64 {
	sum, count := 0, 0
	for _, s := range records {
		if !s.Dated() {
			continue
		}
		days := s.ShipmentDate.DaysSince(s.OrderDate)
		if days < 0 {
			continue
		}
		sum += days
		count++
	}
	if count == 0 {
		return 0
	}
	return round1(float64(sum) / float64(count))
}

// carrierPerformance groups records by carrier code, bucketing unassigned
// carriers under "Unknown". Buckets are sorted by carrier code so output is
// deterministic.
func carrierPerformance(records []shipdomain.Shipment) []domain.CarrierPerformance {
	type tally struct {
		shipments int
		onTime    int
		dated     int
	}

	groups := make(map[string]*tally)
	for _, s := range records {
		carrier := s.CarrierCode
		if carrier == "" {
			carrier = unknownCarrier
		}
		g, ok := groups[carrier]
		if !ok {
			g = &tally{}
			groups[carrier] = g
		}
		g.shipments++
		if s.Dated() {
			g.dated++
			if s.OnTime() {
				g.onTime++
			}
		}
	}

	carriers := make([]string, 0, len(groups))
	for carrier := range groups {
		carriers = append(carriers, carrier)
	}
	sort.Strings(carriers)

	out := make([]domain.CarrierPerformance, 0, len(carriers))
	for _, carrier := range carriers {
		g := groups[carrier]
		out = append(out, domain.CarrierPerformance{
			Carrier:          carrier,
			Shipments:        g.shipments,
			OnTime:           g.onTime,
			OnTimePercentage: percentage(g.onTime, g.dated),
		})
	}
	return out
}

// monthlyTrend buckets the trailing six calendar months ending at now's
// month, oldest first. Each bucket is computed independently over the full
// record set restricted to that month's order dates; the requested window
// does not move the trend.
func monthlyTrend(records []shipdomain.Shipment, now time.Time) []domain.MonthlyTrend {
	trend := make([]domain.MonthlyTrend, 0, trendMonths)

	year, month, _ := now.UTC().Date()
	current := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	for i := trendMonths - 1; i >= 0; i-- {
		bucketStart := current.AddDate(0, -i, 0)
		bucketEnd := bucketStart.AddDate(0, 1, 0)

		shipments, completed, onTime, dated := 0, 0, 0, 0
		for _, s := range records {
			if !s.OrderDate.Valid() {
				continue
			}
			if s.OrderDate.Before(bucketStart) || !s.OrderDate.Before(bucketEnd) {
				continue
			}
			shipments++
			if s.Status == shipdomain.StatusDelivered {
				completed++
			}
			if s.Dated() {
				dated++
				if s.OnTime() {
					onTime++
				}
			}
		}

		trend = append(trend, domain.MonthlyTrend{
			Month:            fmt.Sprintf("%04d-%02d", bucketStart.Year(), int(bucketStart.Month())),
			Shipments:        shipments,
			Completed:        completed,
			OnTimePercentage: percentage(onTime, dated),
		})
	}

	return trend
}

// percentage returns part over whole as a percentage rounded to 1 decimal,
// or exactly 0 when whole is 0.
func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round1(float64(part) / float64(whole) * 100)
}

// roundedSum sums a numeric field and rounds to 2 decimals as the final step,
// keeping full precision in the intermediate arithmetic.
func roundedSum(records []shipdomain.Shipment, field func(shipdomain.Shipment) float64) float64 {
	sum := decimal.Zero
	for _, s := range records {
		sum = sum.Add(decimal.NewFromFloat(field(s)))
	}
	v, _ := sum.Round(2).Float64()
	return v
}

// round1 rounds to 1 decimal place.
func round1(f float64) float64 {
	v, _ := decimal.NewFromFloat(f).Round(1).Float64()
	return v
}
