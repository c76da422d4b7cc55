package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application/types"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/domain"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/ports"
)

const tracerName = "github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/adapters/observability/service"

// Service decorates the recommendation service with tracing, logging, and metrics.
// Prompts and generated text are not logged.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core recommendation service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Recommend(ctx context.Context, input types.RecommendInput) (*domain.Recommendation, error) {
	ctx, span := s.tracer.Start(ctx, "RecommendationService.Recommend",
		trace.WithAttributes(
			attribute.String("bodyfat.gender", input.Gender),
			attribute.Bool("recommendation.idempotent", input.IdempotencyKey != ""),
		))
	defer span.End()

	start := time.Now()
	rec, err := s.inner.Recommend(ctx, input)
	outcome := outcomeOf(err)
	s.metrics.record(ctx, input.Gender, outcome, time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("recommendation.outcome", outcome))
		level := slog.LevelWarn
		if outcome == "provider_unavailable" || outcome == "error" {
			level = slog.LevelError
		}
		s.log(ctx, level, "recommendation failed",
			slog.String("gender", input.Gender),
			slog.String("outcome", outcome),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	span.SetAttributes(attribute.String("recommendation.id", rec.ID))
	s.log(ctx, slog.LevelInfo, "recommendation generated",
		slog.String("id", rec.ID),
		slog.String("gender", string(rec.Gender)),
		slog.Int("length", len(rec.Text)),
	)
	return rec, nil
}

func (s *Service) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, application.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return "idempotency_conflict"
	case errors.Is(err, application.ErrProviderNotConfigured):
		return "not_configured"
	case errors.Is(err, domain.ErrEmptyRecommendation):
		return "empty_answer"
	case errors.Is(err, domain.ErrProviderUnavailable):
		return "provider_unavailable"
	default:
		return "error"
	}
}

type serviceMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	requests, _ := m.Int64Counter("bodyfat.recommendations", metric.WithDescription("Recommendation requests by outcome"))
	duration, _ := m.Float64Histogram("bodyfat.recommendation.duration", metric.WithDescription("Recommendation latency"), metric.WithUnit("s"))
	return serviceMetrics{requests: requests, duration: duration}
}

func (m serviceMetrics) record(ctx context.Context, gender, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("bodyfat.gender", gender),
		attribute.String("recommendation.outcome", outcome),
	)
	if m.requests != nil {
		m.requests.Add(ctx, 1, attrs)
	}
	if m.duration != nil {
		m.duration.Record(ctx, elapsed.Seconds(), attrs)
	}
}

var _ ports.Service = (*Service)(nil)
