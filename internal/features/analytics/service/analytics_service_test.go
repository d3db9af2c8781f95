package service

import (
	"context"
	"errors"
	"testing"
	"time"

	shipdomain "github.com/CFITire/nexus-sub001/internal/features/shipments/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSource is a hand-rolled mock for the shipment Source port.
type mockSource struct {
	shipments []shipdomain.Shipment
	err       error
	lastQuery shipdomain.Query
}

func (m *mockSource) FetchShipments(_ context.Context, q shipdomain.Query) ([]shipdomain.Shipment, error) {
	m.lastQuery = q
	return m.shipments, m.err
}

// TestAnalyticsService_Snapshot verifies the full record set is fetched and
// deduplicated before aggregation.
func TestAnalyticsService_Snapshot(t *testing.T) {
	source := &mockSource{shipments: []shipdomain.Shipment{
		{ShipmentNo: "SO-1", Status: shipdomain.StatusDelivered},
		{ShipmentNo: "SO-1", Status: shipdomain.StatusDelivered},
		{ShipmentNo: "SO-2", Status: shipdomain.StatusPending},
	}}
	svc := NewAnalyticsService(source)
	svc.now = func() time.Time { return computeNow }

	snapshot, err := svc.Snapshot(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, source.lastQuery.All)
	assert.Equal(t, 2, snapshot.TotalShipments)
	assert.Equal(t, 1, snapshot.CompletedShipments)
}

// TestAnalyticsService_Snapshot_SourceFailure verifies upstream errors propagate.
func TestAnalyticsService_Snapshot_SourceFailure(t *testing.T) {
	source := &mockSource{err: errors.New("upstream down")}
	svc := NewAnalyticsService(source)

	_, err := svc.Snapshot(context.Background(), nil)
	assert.Error(t, err)
}

// TestAnalyticsService_NilSource verifies the degraded refusal.
func TestAnalyticsService_NilSource(t *testing.T) {
	svc := NewAnalyticsService(nil)

	_, err := svc.Snapshot(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
}
