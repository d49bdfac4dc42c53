package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/aiclinimatch/internal/adapters/catalog"
	"github.com/zatekoja/aiclinimatch/internal/adapters/providers/geolocation"
	"github.com/zatekoja/aiclinimatch/internal/api/handlers"
	"github.com/zatekoja/aiclinimatch/internal/api/routes"
	"github.com/zatekoja/aiclinimatch/internal/application/services"
	"github.com/zatekoja/aiclinimatch/internal/domain/entities"
	apperrors "github.com/zatekoja/aiclinimatch/pkg/errors"
)

type noopReferralRepository struct{}

func (noopReferralRepository) Create(context.Context, *entities.Referral) error { return nil }

func (noopReferralRepository) GetByID(_ context.Context, id string) (*entities.Referral, error) {
	return nil, apperrors.NewNotFoundError("referral " + id + " not found")
}

func (noopReferralRepository) List(context.Context, int) ([]*entities.Referral, error) {
	return []*entities.Referral{}, nil
}

func (noopReferralRepository) UpdateStatus(context.Context, string, entities.ReferralStatus) error {
	return nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	configDir := filepath.Join("..", "..", "..", "config")

	specialists, err := catalog.LoadJSONCatalog(filepath.Join(configDir, "specialists.json"))
	require.NoError(t, err)
	matches, err := services.LoadMatchCatalog(filepath.Join(configDir, "condition_matches.json"))
	require.NoError(t, err)

	resolver := services.NewGeoResolver(geolocation.NewStaticProvider(nil))
	ranking := services.NewRankingEngine()
	search := services.NewSpecialistSearchService(specialists, resolver, services.NewFilterEngine(), ranking)
	intake := services.NewReferralIntakeService(services.NewFieldExtractor(), matches, ranking)
	referrals := services.NewReferralService(noopReferralRepository{}, specialists, nil)

	router := routes.NewRouter(
		handlers.NewSpecialistHandler(specialists, search),
		handlers.NewIntakeHandler(intake),
		handlers.NewGeolocationHandler(resolver),
		handlers.NewReferralHandler(referrals),
		nil,
		nil,
		nil,
	)

	server := httptest.NewServer(router.SetupRoutes())
	t.Cleanup(server.Close)
	return server
}

func TestRouter_Routes(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/specialists", "", http.StatusOK},
		{http.MethodGet, "/api/specialists/search?location=80220&radius=20", "", http.StatusOK},
		{http.MethodGet, "/api/specialists/khan", "", http.StatusOK},
		{http.MethodGet, "/api/specialists/nobody", "", http.StatusNotFound},
		{http.MethodGet, "/api/geocode?zip=02115", "", http.StatusOK},
		{http.MethodPost, "/api/intake/messages", `{"message":"CF, routine"}`, http.StatusOK},
		{http.MethodPost, "/api/referrals", `{"patient_name":"A","specialist_id":"khan","reason":"x"}`, http.StatusCreated},
		{http.MethodPatch, "/api/referrals/missing", `{"status":"completed"}`, http.StatusNotFound},
		{http.MethodDelete, "/api/referrals/missing", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/analytics/zero-result-queries", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, server.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)

			resp, err := server.Client().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "")
	server := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, server.URL+"/api/referrals", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
