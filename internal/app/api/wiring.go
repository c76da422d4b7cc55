package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/adapters/external/gemini"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/adapters/external/googlegenai"
	recmemory "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/adapters/memory"
	recobs "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/adapters/observability"
	recpostgres "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/adapters/persistence/postgres"
	recredis "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/adapters/redis"
	recapp "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application"
	recports "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/ports"
	"github.com/Apurer/navy-bodyfat-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/navy-bodyfat-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/navy-bodyfat-api/internal/platform/postgres"
	platformredis "github.com/Apurer/navy-bodyfat-api/internal/platform/redis"
)

// BuildRecommendationService wires the provider, the idempotency store, and the
// observability decorator. The returned cleanup releases any opened connections.
func BuildRecommendationService(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (recports.Service, func(), error) {
	logger := effectiveLogger(instruments)
	provider, err := BuildProvider(ctx, cfg)
	if err != nil {
		return nil, func() {}, err
	}
	if provider == nil {
		logger.Warn("no recommendation provider configured, recommendations will be unavailable")
	} else {
		logger.Info("recommendation provider configured", slog.String("provider", cfg.RecommendationProvider))
	}
	store, cleanup := buildIdempotencyStore(ctx, cfg, logger)
	core := recapp.NewService(provider, recapp.WithIdempotencyStore(store))
	service := recobs.New(
		core,
		recobs.WithLogger(logger),
		recobs.WithTracer(instruments.Tracer("internal.recommendations.application")),
		recobs.WithMeter(instruments.Meter("internal.recommendations.application")),
	)
	return service, cleanup, nil
}

// BuildProvider returns the configured text generator, or nil when none is configured.
func BuildProvider(ctx context.Context, cfg Config) (recports.Provider, error) {
	httpClient := &http.Client{Timeout: cfg.RecommendationTimeout}
	switch cfg.RecommendationProvider {
	case ProviderREST:
		restClient, err := gemini.NewClient(gemini.Config{
			EndpointURL: cfg.RecommendationEndpointURL,
			APIKey:      cfg.RecommendationAPIKey,
		}, httpClient)
		if err != nil {
			return nil, err
		}
		return restClient, nil
	case ProviderGenAI:
		sdkProvider, err := googlegenai.NewProvider(ctx, googlegenai.Config{
			APIKey:     cfg.RecommendationAPIKey,
			Model:      cfg.RecommendationModel,
			BaseURL:    cfg.RecommendationEndpointURL,
			HTTPClient: httpClient,
		})
		if err != nil {
			return nil, err
		}
		return sdkProvider, nil
	case ProviderNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown recommendation provider %q", cfg.RecommendationProvider)
	}
}

// buildIdempotencyStore prefers Redis, then PostgreSQL, then memory.
func buildIdempotencyStore(ctx context.Context, cfg Config, logger *slog.Logger) (recports.IdempotencyStore, func()) {
	if rdb, cleanup := platformredis.ConnectAddr(ctx, cfg.RedisAddr, logger); rdb != nil {
		logger.Info("idempotency store configured with redis")
		return recredis.NewIdempotencyStore(rdb, cfg.IdempotencyTTL), cleanup
	}
	if cfg.PostgresDSN == "" {
		logger.Info("idempotency store configured in memory")
		return recmemory.NewIdempotencyStore(), func() {}
	}
	db, cleanup := platformpostgres.ConnectDSN(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		logger.Warn("falling back to in-memory idempotency store")
		return recmemory.NewIdempotencyStore(), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate postgres, falling back to in-memory idempotency store", slog.String("error", err.Error()))
		cleanup()
		return recmemory.NewIdempotencyStore(), func() {}
	}
	logger.Info("idempotency store configured with postgres")
	return recpostgres.NewIdempotencyStore(db), cleanup
}

// ConnectTemporalClient dials Temporal with tracing and structured logging.
func ConnectTemporalClient(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(tracerName)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
