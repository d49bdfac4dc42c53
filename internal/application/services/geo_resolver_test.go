package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
	apperrors "github.com/zatekoja/aiclinimatch/pkg/errors"
)

type MockPostalCodeGeocoder struct {
	mock.Mock
}

func (m *MockPostalCodeGeocoder) LookupPostalCode(ctx context.Context, postalCode string) (entities.Coordinate, error) {
	args := m.Called(ctx, postalCode)
	return args.Get(0).(entities.Coordinate), args.Error(1)
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, errors.New("key not found")
	}
	return v, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, ttl int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

var denver = entities.Coordinate{Latitude: 39.7312, Longitude: -104.9126}

func TestGeoResolver_CachesAfterFirstLookup(t *testing.T) {
	geocoder := new(MockPostalCodeGeocoder)
	geocoder.On("LookupPostalCode", mock.Anything, "80220").Return(denver, nil).Once()

	resolver := NewGeoResolver(geocoder)

	first, err := resolver.Resolve(context.Background(), "80220")
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), " 80220 ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, denver, first)
	assert.True(t, resolver.Cached("80220"))
	geocoder.AssertNumberOfCalls(t, "LookupPostalCode", 1)
}

func TestGeoResolver_InvalidInput(t *testing.T) {
	geocoder := new(MockPostalCodeGeocoder)
	resolver := NewGeoResolver(geocoder)

	for _, code := range []string{"", "8022", "802201", "8022a", "80-20", "abcde"} {
		_, err := resolver.Resolve(context.Background(), code)
		require.Error(t, err, code)
		assert.True(t, apperrors.IsInvalidInput(err), code)
	}
	geocoder.AssertNotCalled(t, "LookupPostalCode", mock.Anything, mock.Anything)
}

func TestGeoResolver_ResolutionErrorIsNotCached(t *testing.T) {
	geocoder := new(MockPostalCodeGeocoder)
	geocoder.On("LookupPostalCode", mock.Anything, "00000").Return(entities.Coordinate{}, errors.New("status 404")).Twice()

	resolver := NewGeoResolver(geocoder)

	_, err := resolver.Resolve(context.Background(), "00000")
	require.Error(t, err)
	assert.True(t, apperrors.IsResolution(err))
	assert.Contains(t, err.Error(), "00000")
	assert.False(t, resolver.Cached("00000"))

	_, err = resolver.Resolve(context.Background(), "00000")
	assert.True(t, apperrors.IsResolution(err))
	geocoder.AssertNumberOfCalls(t, "LookupPostalCode", 2)
}

func TestGeoResolver_ConcurrentMissesShareOneLookup(t *testing.T) {
	release := make(chan struct{})
	geocoder := new(MockPostalCodeGeocoder)
	geocoder.On("LookupPostalCode", mock.Anything, "80220").
		Run(func(mock.Arguments) { <-release }).
		Return(denver, nil).Once()

	resolver := NewGeoResolver(geocoder)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]entities.Coordinate, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = resolver.Resolve(context.Background(), "80220")
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, denver, results[i])
	}
	geocoder.AssertNumberOfCalls(t, "LookupPostalCode", 1)
}

func TestGeoResolver_CancelledCallerDoesNotAbortLookup(t *testing.T) {
	geocoder := new(MockPostalCodeGeocoder)
	geocoder.On("LookupPostalCode", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), "80220").Return(denver, nil).Once()

	resolver := NewGeoResolver(geocoder)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	coord, err := resolver.Resolve(ctx, "80220")
	require.NoError(t, err)
	assert.Equal(t, denver, coord)
}

func TestGeoResolver_SharedCacheTier(t *testing.T) {
	shared := newMemoryCache()
	data, _ := json.Marshal(denver)
	require.NoError(t, shared.Set(context.Background(), "80220", data, 0))

	geocoder := new(MockPostalCodeGeocoder)
	geocoder.On("LookupPostalCode", mock.Anything, "10001").
		Return(entities.Coordinate{Latitude: 40.7484, Longitude: -73.9967}, nil).Once()

	resolver := NewGeoResolver(geocoder)
	resolver.SetSharedCache(shared)

	coord, err := resolver.Resolve(context.Background(), "80220")
	require.NoError(t, err)
	assert.Equal(t, denver, coord)
	assert.True(t, resolver.Cached("80220"))

	_, err = resolver.Resolve(context.Background(), "10001")
	require.NoError(t, err)
	exists, _ := shared.Exists(context.Background(), "10001")
	assert.True(t, exists)
	assert.Equal(t, 0, shared.ttls["10001"])

	geocoder.AssertNotCalled(t, "LookupPostalCode", mock.Anything, "80220")
	geocoder.AssertNumberOfCalls(t, "LookupPostalCode", 1)
}

func TestGeoResolver_IgnoresMalformedSharedEntry(t *testing.T) {
	shared := newMemoryCache()
	require.NoError(t, shared.Set(context.Background(), "80220", []byte("not json"), 0))

	geocoder := new(MockPostalCodeGeocoder)
	geocoder.On("LookupPostalCode", mock.Anything, "80220").Return(denver, nil).Once()

	resolver := NewGeoResolver(geocoder)
	resolver.SetSharedCache(shared)

	coord, err := resolver.Resolve(context.Background(), "80220")
	require.NoError(t, err)
	assert.Equal(t, denver, coord)
	geocoder.AssertExpectations(t)
}

func TestDistanceMiles_GoldenValue(t *testing.T) {
	dc := entities.Coordinate{Latitude: 38.8951, Longitude: -77.0364}
	ny := entities.Coordinate{Latitude: 40.7128, Longitude: -74.0060}

	assert.InDelta(t, 204.5, DistanceMiles(dc, ny), 1.0)
}

func TestDistanceMiles_SymmetricAndZero(t *testing.T) {
	points := []entities.Coordinate{
		{Latitude: 38.8951, Longitude: -77.0364},
		{Latitude: 40.7128, Longitude: -74.0060},
		denver,
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 0, Longitude: 0},
		{Latitude: 89.9, Longitude: 179.9},
	}

	for _, a := range points {
		assert.Equal(t, 0.0, DistanceMiles(a, a))
		for _, b := range points {
			assert.Equal(t, DistanceMiles(a, b), DistanceMiles(b, a))
		}
	}
}
