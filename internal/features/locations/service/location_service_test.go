package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/CFITire/nexus-sub001/internal/core/cache"
	"github.com/CFITire/nexus-sub001/internal/features/locations/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProvider is a hand-rolled mock for the Provider port.
type mockProvider struct {
	locations []domain.Location
	err       error
	calls     int
}

func (m *mockProvider) Locations(_ context.Context) ([]domain.Location, error) {
	m.calls++
	return m.locations, m.err
}

// mockCache is an in-memory Cache for wiring tests.
type mockCache struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	getCall int
	setCall int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}}
}

func (m *mockCache) Get(_ context.Context, key string) ([]byte, error) {
	m.getCall++
	if m.getErr != nil {
		return nil, m.getErr
	}
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *mockCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.setCall++
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockCache) Ping(_ context.Context) error { return nil }

func (m *mockCache) Close() error { return nil }

var liveDirectory = []domain.Location{
	{Code: "FARGO", Name: "Fargo Distribution Center"},
	{Code: "BILLINGS", Name: "Billings Warehouse"},
}

// TestLocationService_Search_Live verifies the live directory is served and filtered.
func TestLocationService_Search_Live(t *testing.T) {
	live := &mockProvider{locations: liveDirectory}
	svc := NewLocationService(live, nil, false, nil)

	all, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	matched, err := svc.Search(context.Background(), "billings")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "BILLINGS", matched[0].Code)
}

// TestLocationService_Search_Degraded verifies degraded mode serves the
// fallback without touching the live provider.
func TestLocationService_Search_Degraded(t *testing.T) {
	live := &mockProvider{locations: liveDirectory}
	fallback := &mockProvider{locations: []domain.Location{{Code: "MINOT", Name: "Minot Retail Store"}}}
	svc := NewLocationService(live, fallback, true, nil)

	locations, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "MINOT", locations[0].Code)
	assert.Zero(t, live.calls)
}

// TestLocationService_Search_FallbackOnLiveFailure verifies a live failure is
// absorbed by the substitute directory.
func TestLocationService_Search_FallbackOnLiveFailure(t *testing.T) {
	live := &mockProvider{err: errors.New("upstream down")}
	fallback := &mockProvider{locations: []domain.Location{{Code: "MINOT", Name: "Minot Retail Store"}}}
	svc := NewLocationService(live, fallback, false, nil)

	locations, err := svc.Search(context.Background(), "minot")
	require.NoError(t, err)
	assert.Len(t, locations, 1)
	assert.Equal(t, 1, fallback.calls)
}

// TestLocationService_Search_NoFallback verifies errors propagate when no
// substitute exists.
func TestLocationService_Search_NoFallback(t *testing.T) {
	live := &mockProvider{err: errors.New("upstream down")}
	svc := NewLocationService(live, nil, false, nil)

	_, err := svc.Search(context.Background(), "")
	assert.Error(t, err)
}

// TestLocationService_CacheHitSkipsProvider verifies a warm cache short-circuits
// the live call.
func TestLocationService_CacheHitSkipsProvider(t *testing.T) {
	c := newMockCache()
	cached, err := json.Marshal(liveDirectory)
	require.NoError(t, err)
	c.data[locationsCacheKey] = cached

	live := &mockProvider{err: errors.New("should not be called")}
	svc := NewLocationService(live, nil, false, c)

	locations, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, locations, 2)
	assert.Zero(t, live.calls)
}

// TestLocationService_CacheMissPopulatesCache verifies the live set is cached
// after a miss.
func TestLocationService_CacheMissPopulatesCache(t *testing.T) {
	c := newMockCache()
	live := &mockProvider{locations: liveDirectory}
	svc := NewLocationService(live, nil, false, c)

	_, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, live.calls)
	assert.Equal(t, 1, c.setCall)

	_, err = svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, live.calls)
}

// TestLocationService_CacheErrorsAreNotFatal verifies broken cache reads and
// writes never fail the lookup.
func TestLocationService_CacheErrorsAreNotFatal(t *testing.T) {
	c := newMockCache()
	c.getErr = errors.New("redis gone")
	c.setErr = errors.New("redis gone")

	live := &mockProvider{locations: liveDirectory}
	svc := NewLocationService(live, nil, false, c)

	locations, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, locations, 2)
	assert.Equal(t, 1, live.calls)
}

// TestLocationService_UndecodableCacheEntryIgnored verifies corrupt cache
// payloads fall through to the live provider.
func TestLocationService_UndecodableCacheEntryIgnored(t *testing.T) {
	c := newMockCache()
	c.data[locationsCacheKey] = []byte("not json")

	live := &mockProvider{locations: liveDirectory}
	svc := NewLocationService(live, nil, false, c)

	locations, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, locations, 2)
	assert.Equal(t, 1, live.calls)
}
