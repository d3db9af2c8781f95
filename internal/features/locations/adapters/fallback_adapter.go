package adapter

import (
	"context"

	"github.com/CFITire/nexus-sub001/internal/features/locations/domain"
)

// FallbackAdapter serves a static substitute location directory when the
// live upstream is disabled or unreachable.
type FallbackAdapter struct {
	locations []domain.Location
}

// NewFallbackAdapter creates a fallback with the built-in dataset.
func NewFallbackAdapter() *FallbackAdapter {
	return &FallbackAdapter{locations: fallbackLocations}
}

// Locations returns the substitute directory.
func (a *FallbackAdapter) Locations(_ context.Context) ([]domain.Location, error) {
	out := make([]domain.Location, len(a.locations))
	copy(out, a.locations)
	return out, nil
}

// fallbackLocations is the substitute dataset served in degraded mode.
var fallbackLocations = []domain.Location{
	{Code: "FARGO", Name: "Fargo Distribution Center", Address: "4810 12th Ave NW", City: "Fargo", State: "ND", ZipCode: "58102"},
	{Code: "BISMARCK", Name: "Bismarck Service Center", Address: "2200 Morrison Ave", City: "Bismarck", State: "ND", ZipCode: "58504"},
	{Code: "BILLINGS", Name: "Billings Warehouse", Address: "1540 Monad Rd", City: "Billings", State: "MT", ZipCode: "59101"},
	{Code: "SIOUXFALLS", Name: "Sioux Falls Depot", Address: "3900 N Cliff Ave", City: "Sioux Falls", State: "SD", ZipCode: "57104"},
	{Code: "MINOT", Name: "Minot Retail Store", Address: "905 20th Ave SE", City: "Minot", State: "ND", ZipCode: "58701"},
}
