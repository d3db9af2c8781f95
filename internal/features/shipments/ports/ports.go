package ports

import (
	"context"

	"github.com/CFITire/nexus-sub001/internal/features/shipments/domain"
)

// Source is the secondary port for shipment record retrieval.
type Source interface {
	// FetchShipments returns the shipments selected by the query.
	FetchShipments(ctx context.Context, q domain.Query) ([]domain.Shipment, error)
}
