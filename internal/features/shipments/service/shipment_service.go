package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CFITire/nexus-sub001/internal/core/dynamics"
	"github.com/CFITire/nexus-sub001/internal/features/shipments/domain"
	"github.com/CFITire/nexus-sub001/internal/features/shipments/ports"
)

// ErrInvalidDate is returned when a date query parameter cannot be parsed.
var ErrInvalidDate = errors.New("invalid date parameter, expected YYYY-MM-DD")

// ErrSourceUnavailable is returned when live ERP access is disabled;
// shipments define no substitute dataset.
var ErrSourceUnavailable = errors.New("shipment source unavailable: live ERP access is disabled")

// defaultWindowDays is the trailing order-date window served when no date
// parameter is supplied.
const defaultWindowDays = 7

// ShipmentService resolves date parameters into an upstream query and
// deduplicates the fetched records.
type ShipmentService struct {
	source ports.Source
	now    func() time.Time
}

// NewShipmentService creates a new ShipmentService.
func NewShipmentService(source ports.Source) *ShipmentService {
	return &ShipmentService{
		source: source,
		now:    time.Now,
	}
}

// List returns shipments for the given date parameters. Precedence:
// explicit start+end range, then startDate alone (exact-day match), then the
// legacy date parameter (one day either side), then the default trailing
// window union'd with shipment-dated records.
func (s *ShipmentService) List(ctx context.Context, startDate, endDate, legacyDate string) ([]domain.Shipment, error) {
	q, err := s.resolveQuery(startDate, endDate, legacyDate)
	if err != nil {
		return nil, err
	}

	if s.source == nil {
		return nil, ErrSourceUnavailable
	}

	shipments, err := s.source.FetchShipments(ctx, q)
	if err != nil {
		return nil, err
	}

	return domain.Dedupe(shipments), nil
}

// FetchAll returns every shipment record, for aggregation.
func (s *ShipmentService) FetchAll(ctx context.Context) ([]domain.Shipment, error) {
	if s.source == nil {
		return nil, ErrSourceUnavailable
	}
	shipments, err := s.source.FetchShipments(ctx, domain.Query{All: true})
	if err != nil {
		return nil, err
	}
	return domain.Dedupe(shipments), nil
}

// resolveQuery applies the date parameter precedence rules.
func (s *ShipmentService) resolveQuery(startDate, endDate, legacyDate string) (domain.Query, error) {
	start, err := parseParam(startDate)
	if err != nil {
		return domain.Query{}, err
	}
	end, err := parseParam(endDate)
	if err != nil {
		return domain.Query{}, err
	}
	legacy, err := parseParam(legacyDate)
	if err != nil {
		return domain.Query{}, err
	}

	switch {
	case start.Valid() && end.Valid():
		return domain.Query{From: start, To: end}, nil
	case start.Valid():
		return domain.Query{From: start, To: start}, nil
	case legacy.Valid():
		return domain.Query{From: legacy.AddDays(-1), To: legacy.AddDays(1)}, nil
	default:
		today := dynamics.DateOf(s.now())
		return domain.Query{
			From:                 today.AddDays(-defaultWindowDays),
			To:                   today,
			IncludeShipmentDated: true,
		}, nil
	}
}

// parseParam parses an optional date query parameter. Empty is valid and
// yields the zero date; malformed input is a validation error.
func parseParam(s string) (dynamics.Date, error) {
	if s == "" {
		return dynamics.Date{}, nil
	}
	d := dynamics.ParseDate(s)
	if !d.Valid() {
		return dynamics.Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}
