package service

import (
	"context"
	"errors"
	"time"

	"github.com/CFITire/nexus-sub001/internal/features/analytics/domain"
	shipdomain "github.com/CFITire/nexus-sub001/internal/features/shipments/domain"
	shipports "github.com/CFITire/nexus-sub001/internal/features/shipments/ports"
)

// AnalyticsService fetches shipment records and derives a performance
// snapshot. The full record set is fetched regardless of the requested
// window so the trailing monthly trend stays computable.
type AnalyticsService struct {
	source shipports.Source
	now    func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(source shipports.Source) *AnalyticsService {
	return &AnalyticsService{
		source: source,
		now:    time.Now,
	}
}

// ErrSourceUnavailable is returned when live ERP access is disabled;
// analytics define no substitute dataset.
var ErrSourceUnavailable = errors.New("analytics source unavailable: live ERP access is disabled")

// Snapshot computes the performance snapshot for an optional order-date window.
func (s *AnalyticsService) Snapshot(ctx context.Context, window *domain.Window) (domain.Snapshot, error) {
	if s.source == nil {
		return domain.Snapshot{}, ErrSourceUnavailable
	}
	records, err := s.source.FetchShipments(ctx, shipdomain.Query{All: true})
	if err != nil {
		return domain.Snapshot{}, err
	}

	return Compute(shipdomain.Dedupe(records), window, s.now()), nil
}
