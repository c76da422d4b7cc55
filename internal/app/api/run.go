package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"

	bodyfatserver "github.com/Apurer/navy-bodyfat-api/go"
	bodyfatobs "github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/adapters/observability"
	bodyfatapp "github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/application"
	recworkflows "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/adapters/workflows"
	recports "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/ports"
	platformobservability "github.com/Apurer/navy-bodyfat-api/internal/platform/observability"
)

// ServiceName identifies the API in logs, traces, and the health payload.
const ServiceName = "bodyfat-api"

// Run boots the body-fat HTTP API and blocks until ctx is cancelled or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, ServiceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	bodyFatService := bodyfatobs.New(
		bodyfatapp.NewService(),
		bodyfatobs.WithLogger(logger),
		bodyfatobs.WithTracer(instruments.Tracer("internal.bodyfat.application")),
		bodyfatobs.WithMeter(instruments.Meter("internal.bodyfat.application")),
	)
	recService, cleanupRec, err := BuildRecommendationService(ctx, cfg, instruments)
	if err != nil {
		return fmt.Errorf("failed to configure recommendations: %w", err)
	}
	defer cleanupRec()

	var recWorkflows recports.WorkflowOrchestrator = recworkflows.NewInlineRecommendationWorkflows(recService)
	if temporalClient, err := ConnectTemporalClient(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, running recommendations inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		recWorkflows = recworkflows.NewTemporalRecommendationWorkflows(temporalClient, cfg.RecommendationTimeout)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	var limiter *bodyfatserver.RateLimiter
	if cfg.RateLimitCapacity > 0 {
		limiter = bodyfatserver.NewRateLimiter(cfg.RateLimitCapacity, cfg.RateLimitRefill)
		defer limiter.Stop()
	}

	router := gin.New()
	router.Use(otelgin.Middleware(ServiceName), gin.Recovery())
	router = bodyfatserver.NewRouterWithGinEngine(router, bodyfatserver.ApiHandleFunctions{
		BodyFatAPI:            bodyfatserver.NewBodyFatAPI(bodyFatService),
		RecommendationAPI:     bodyfatserver.NewRecommendationAPI(recWorkflows),
		HealthAPI:             bodyfatserver.NewHealthAPI(ServiceName),
		RecommendationLimiter: limiter,
	})

	return serve(ctx, logger, router, net.JoinHostPort("", cfg.Port), cfg.ShutdownTimeout)
}

func serve(ctx context.Context, logger *slog.Logger, handler http.Handler, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Body fat API listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Body fat API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Body fat API shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
