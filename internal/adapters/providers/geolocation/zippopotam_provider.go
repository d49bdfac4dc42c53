package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
	"github.com/zatekoja/aiclinimatch/internal/domain/providers"
)

const (
	zippopotamBaseURL  = "https://api.zippopotam.us"
	defaultHTTPTimeout = 8 * time.Second
)

// ZippopotamOptions tunes the HTTP client and circuit breaker.
type ZippopotamOptions struct {
	BaseURL    string
	HTTPClient *http.Client
	// BreakerFailures consecutive failures open the circuit; 0 disables the breaker.
	BreakerFailures int
	BreakerCooldown time.Duration
}

// ZippopotamProvider looks postal codes up at api.zippopotam.us.
type ZippopotamProvider struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewZippopotamProvider creates a provider with default options.
func NewZippopotamProvider() providers.PostalCodeGeocoder {
	return NewZippopotamProviderWithOptions(ZippopotamOptions{BreakerFailures: 5, BreakerCooldown: 30 * time.Second})
}

// NewZippopotamProviderWithOptions allows overriding base URL, HTTP client and breaker thresholds (used for tests).
func NewZippopotamProviderWithOptions(opts ZippopotamOptions) *ZippopotamProvider {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = zippopotamBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	p := &ZippopotamProvider{
		baseURL:    baseURL,
		httpClient: httpClient,
	}

	if opts.BreakerFailures > 0 {
		failures := uint32(opts.BreakerFailures)
		p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "zippopotam",
			Timeout: opts.BreakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			// An unknown postal code is a valid answer from a healthy service.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, providers.ErrPostalCodeNotFound)
			},
		})
	}

	return p
}

// LookupPostalCode performs one upstream request for postalCode.
func (p *ZippopotamProvider) LookupPostalCode(ctx context.Context, postalCode string) (entities.Coordinate, error) {
	if p.breaker == nil {
		return p.lookup(ctx, postalCode)
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.lookup(ctx, postalCode)
	})
	if err != nil {
		return entities.Coordinate{}, err
	}
	return result.(entities.Coordinate), nil
}

func (p *ZippopotamProvider) lookup(ctx context.Context, postalCode string) (entities.Coordinate, error) {
	reqURL := fmt.Sprintf("%s/us/%s", p.baseURL, postalCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return entities.Coordinate{}, fmt.Errorf("failed to build lookup request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return entities.Coordinate{}, fmt.Errorf("lookup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return entities.Coordinate{}, fmt.Errorf("lookup request returned status %d: %w", resp.StatusCode, providers.ErrPostalCodeNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return entities.Coordinate{}, fmt.Errorf("lookup request returned status %d", resp.StatusCode)
	}

	var payload zippopotamResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return entities.Coordinate{}, fmt.Errorf("failed to decode lookup response: %w", err)
	}

	if len(payload.Places) == 0 {
		return entities.Coordinate{}, fmt.Errorf("lookup response has no places: %w", providers.ErrPostalCodeNotFound)
	}

	place := payload.Places[0]
	lat, err := strconv.ParseFloat(strings.TrimSpace(place.Latitude), 64)
	if err != nil {
		return entities.Coordinate{}, fmt.Errorf("invalid latitude %q: %w", place.Latitude, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(place.Longitude), 64)
	if err != nil {
		return entities.Coordinate{}, fmt.Errorf("invalid longitude %q: %w", place.Longitude, err)
	}

	coord := entities.Coordinate{Latitude: lat, Longitude: lon}
	if !coord.IsFinite() {
		return entities.Coordinate{}, fmt.Errorf("lookup returned non-finite coordinate")
	}
	return coord, nil
}

type zippopotamResponse struct {
	PostCode string            `json:"post code"`
	Country  string            `json:"country"`
	Places   []zippopotamPlace `json:"places"`
}

type zippopotamPlace struct {
	PlaceName string `json:"place name"`
	State     string `json:"state abbreviation"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}
