package ports

import (
	"context"

	"github.com/CFITire/nexus-sub001/internal/features/locations/domain"
)

// Provider is the secondary port for location directories. Implementations
// return the full location set; filtering is a service concern.
type Provider interface {
	// Locations returns every known location.
	Locations(ctx context.Context) ([]domain.Location, error)
}
