package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	temporalworker "go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/navy-bodyfat-api/internal/app/api"
	recactivities "github.com/Apurer/navy-bodyfat-api/internal/durable/temporal/activities/recommendations"
	recworkflows "github.com/Apurer/navy-bodyfat-api/internal/durable/temporal/workflows/recommendations"
	platformobservability "github.com/Apurer/navy-bodyfat-api/internal/platform/observability"
)

// ServiceName identifies the worker in logs and traces.
const ServiceName = "bodyfat-worker"

// Run hosts the recommendation workflow and activity until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := api.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.TemporalDisabled {
		return errors.New("worker requires Temporal; unset TEMPORAL_DISABLED")
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

	recService, cleanupRec, err := api.BuildRecommendationService(ctx, cfg, instruments)
	if err != nil {
		return fmt.Errorf("failed to configure recommendations: %w", err)
	}
	defer cleanupRec()
	activities := recactivities.NewActivities(recService)

	temporalClient, err := api.ConnectTemporalClient(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		return err
	}
	defer temporalClient.Close()

	w := temporalworker.New(temporalClient, recworkflows.GenerationTaskQueue, temporalworker.Options{})
	w.RegisterWorkflowWithOptions(recworkflows.GenerationWorkflow, workflow.RegisterOptions{Name: recworkflows.GenerationWorkflowName})
	w.RegisterActivityWithOptions(activities.Generate, activity.RegisterOptions{Name: recactivities.GenerateActivityName})

	logger.Info("worker listening", slog.String("taskQueue", recworkflows.GenerationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	interrupt := make(chan interface{})
	go func() {
		<-ctx.Done()
		close(interrupt)
	}()
	if err := w.Run(interrupt); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}
