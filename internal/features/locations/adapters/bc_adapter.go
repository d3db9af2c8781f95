package adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/CFITire/nexus-sub001/internal/core/dynamics"
	"github.com/CFITire/nexus-sub001/internal/core/logger"
	"github.com/CFITire/nexus-sub001/internal/features/locations/domain"

	"go.uber.org/zap"
)

// primaryResource is the customized location page with address fields;
// secondaryResource is the stock page some companies expose instead. The
// primary is tried first and the first success wins — no merging across
// endpoints.
const (
	primaryResource   = "CFILocations"
	secondaryResource = "Locations"
)

// BusinessCentralAdapter implements the Provider port against the ERP.
type BusinessCentralAdapter struct {
	client *dynamics.Client
	logger *zap.Logger
}

// NewBusinessCentralAdapter creates a new adapter over the given ERP client.
func NewBusinessCentralAdapter(client *dynamics.Client) *BusinessCentralAdapter {
	return &BusinessCentralAdapter{
		client: client,
		logger: logger.Get(),
	}
}

// Locations fetches the location directory, trying the customized endpoint
// first and falling back to the generic one only if that request fails.
func (a *BusinessCentralAdapter) Locations(ctx context.Context) ([]domain.Location, error) {
	rows, err := a.client.Query(ctx, primaryResource, dynamics.QueryOptions{})
	if err != nil {
		a.logger.Warn("Primary location endpoint failed, trying secondary",
			zap.String("resource", primaryResource),
			zap.Error(err),
		)
		rows, err = a.client.Query(ctx, secondaryResource, dynamics.QueryOptions{})
		if err != nil {
			return nil, fmt.Errorf("both location endpoints failed: %w", err)
		}
	}

	locations := make([]domain.Location, 0, len(rows))
	for _, row := range rows {
		var bl bcLocation
		if err := json.Unmarshal(row, &bl); err != nil {
			a.logger.Warn("Skipping unmappable location row", zap.Error(err))
			continue
		}
		locations = append(locations, domain.Location{
			Code:    bl.Code,
			Name:    bl.Name,
			Address: bl.Address,
			City:    bl.City,
			State:   bl.County,
			ZipCode: bl.PostCode,
		})
	}

	return domain.Dedupe(locations), nil
}

// bcLocation is the raw upstream location row. Both endpoints share these
// field names; the generic one simply leaves the address fields empty.
type bcLocation struct {
	Code     string `json:"Code"`
	Name     string `json:"Name"`
	Address  string `json:"Address"`
	City     string `json:"City"`
	County   string `json:"County"`
	PostCode string `json:"Post_Code"`
}
