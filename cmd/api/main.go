package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/aiclinimatch/internal/adapters/cache"
	"github.com/zatekoja/aiclinimatch/internal/adapters/catalog"
	"github.com/zatekoja/aiclinimatch/internal/adapters/database"
	"github.com/zatekoja/aiclinimatch/internal/adapters/events"
	"github.com/zatekoja/aiclinimatch/internal/adapters/memory"
	"github.com/zatekoja/aiclinimatch/internal/adapters/providers/geolocation"
	"github.com/zatekoja/aiclinimatch/internal/api/handlers"
	"github.com/zatekoja/aiclinimatch/internal/api/middleware"
	"github.com/zatekoja/aiclinimatch/internal/api/routes"
	"github.com/zatekoja/aiclinimatch/internal/application/services"
	"github.com/zatekoja/aiclinimatch/internal/domain/providers"
	"github.com/zatekoja/aiclinimatch/internal/domain/repositories"
	"github.com/zatekoja/aiclinimatch/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/aiclinimatch/internal/infrastructure/clients/redis"
	"github.com/zatekoja/aiclinimatch/internal/infrastructure/observability"
	"github.com/zatekoja/aiclinimatch/pkg/config"
	"github.com/zatekoja/aiclinimatch/pkg/secrets"
)

func main() {
	if _, err := secrets.ApplyVaultSecrets(context.Background(), secrets.LoadVaultConfigFromEnv()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load secrets from vault: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	specialists, err := catalog.LoadJSONCatalog(cfg.Catalog.SpecialistsPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Catalog.SpecialistsPath).Msg("failed to load specialist catalog")
	}
	matches, err := services.LoadMatchCatalog(cfg.Catalog.MatchesPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Catalog.MatchesPath).Msg("failed to load condition match catalog")
	}
	log.Info().Int("specialists", specialists.Len()).Msg("catalogs loaded")

	// Redis is optional: it adds a shared geocode tier, response caching and
	// the event bus that feeds the SSE server.
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, continuing without cache and event bus")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient, "aiclinimatch:")
			eventBus = events.NewRedisEventBus(redisClient)
		}
	}

	var referralRepo repositories.ReferralRepository
	var analytics *services.SearchAnalyticsService
	if cfg.Database.Enabled {
		pgClient, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
		}
		defer pgClient.Close()

		if err := pgClient.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure database schema")
		}
		referralRepo = database.NewReferralAdapter(pgClient)
		analytics = services.NewSearchAnalyticsService(database.NewSearchAnalyticsAdapter(pgClient))
	} else {
		log.Warn().Msg("database disabled, referrals are kept in memory and search analytics is off")
		referralRepo = memory.NewReferralAdapter()
	}

	geocoder := newGeocoder(cfg)
	resolver := services.NewGeoResolver(geocoder)
	resolver.SetMetrics(metrics)
	if cacheProvider != nil {
		resolver.SetSharedCache(cacheProvider)
	}

	ranking := services.NewRankingEngine()
	searchService := services.NewSpecialistSearchService(specialists, resolver, services.NewFilterEngine(), ranking)
	searchService.SetMetrics(metrics)
	if analytics != nil {
		searchService.SetTracker(analytics)
	}
	intakeService := services.NewReferralIntakeService(services.NewFieldExtractor(), matches, ranking)
	referralService := services.NewReferralService(referralRepo, specialists, eventBus)

	var analyticsHandler *handlers.AnalyticsHandler
	if analytics != nil {
		analyticsHandler = handlers.NewAnalyticsHandler(analytics)
	}

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
	}

	router := routes.NewRouter(
		handlers.NewSpecialistHandler(specialists, searchService),
		handlers.NewIntakeHandler(intakeService),
		handlers.NewGeolocationHandler(resolver),
		handlers.NewReferralHandler(referralService),
		analyticsHandler,
		cacheMiddleware,
		metrics,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			log.Error().Err(err).Msg("error closing event bus")
		}
	}

	log.Info().Msg("server stopped")
}

func newGeocoder(cfg *config.Config) providers.PostalCodeGeocoder {
	switch cfg.Geocoder.Provider {
	case "static":
		log.Info().Msg("using static postal code table")
		return geolocation.NewStaticProvider(nil)
	default:
		return geolocation.NewZippopotamProviderWithOptions(geolocation.ZippopotamOptions{
			BaseURL:         cfg.Geocoder.BaseURL,
			HTTPClient:      &http.Client{Timeout: cfg.Geocoder.Timeout()},
			BreakerFailures: cfg.Geocoder.BreakerFailures,
			BreakerCooldown: cfg.Geocoder.BreakerCooldown,
		})
	}
}
