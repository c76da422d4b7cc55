package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/domain"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/ports"
)

const tracerName = "github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/adapters/observability/service"

// Service decorates the estimation service with tracing, logging, and metrics.
// Raw measurements are never logged; only gender and outcome are recorded.
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

// New wraps the core estimation service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
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

func (s *Service) Validate(ctx context.Context, input domain.MeasurementInput) (domain.ValidatedInput, error) {
	ctx, span := s.tracer.Start(ctx, "BodyFatService.Validate")
	defer span.End()

	result, err := s.inner.Validate(ctx, input)
	if err != nil {
		return domain.ValidatedInput{}, s.handleFailure(ctx, span, err, "measurements rejected")
	}
	span.SetAttributes(attribute.String("bodyfat.gender", string(result.Gender)))
	return result, nil
}

func (s *Service) Estimate(ctx context.Context, input domain.ValidatedInput) (domain.Estimate, error) {
	ctx, span := s.tracer.Start(ctx, "BodyFatService.Estimate",
		trace.WithAttributes(attribute.String("bodyfat.gender", string(input.Gender))))
	defer span.End()

	result, err := s.inner.Estimate(ctx, input)
	if err != nil {
		s.metrics.recordFailure(ctx, input.Gender, err)
		return domain.Estimate{}, s.handleFailure(ctx, span, err, "estimation failed", slog.String("gender", string(input.Gender)))
	}
	s.metrics.recordEstimate(ctx, result)
	span.SetAttributes(attribute.Float64("bodyfat.percent", result.BodyFatPercent))
	s.logInfo(ctx, "body fat estimated", slog.String("gender", string(result.Gender)), slog.String("percent", result.Formatted()))
	return result, nil
}

func (s *Service) Calculate(ctx context.Context, input domain.MeasurementInput) (domain.Estimate, error) {
	ctx, span := s.tracer.Start(ctx, "BodyFatService.Calculate")
	defer span.End()

	validated, err := s.Validate(ctx, input)
	if err != nil {
		s.metrics.recordFailure(ctx, "", err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Estimate{}, err
	}
	result, err := s.Estimate(ctx, validated)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return domain.Estimate{}, err
	}
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// handleFailure records validation and domain failures at warn level; they are
// expected outcomes of user input rather than server faults.
func (s *Service) handleFailure(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	kind, known := domain.KindOf(err)
	if known {
		attrs = append(attrs, slog.String("kind", string(kind)))
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if known {
			span.SetAttributes(attribute.String("bodyfat.failure_kind", string(kind)))
		}
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	estimations metric.Int64Counter
	failures    metric.Int64Counter
	percent     metric.Float64Histogram
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	estimations, _ := m.Int64Counter("bodyfat.estimations", metric.WithDescription("Number of successful body fat estimates"))
	failures, _ := m.Int64Counter("bodyfat.estimation_failures", metric.WithDescription("Number of rejected or failed estimates"))
	percent, _ := m.Float64Histogram("bodyfat.percent", metric.WithDescription("Distribution of estimated body fat"), metric.WithUnit("%"))
	return serviceMetrics{estimations: estimations, failures: failures, percent: percent}
}

func (m serviceMetrics) recordEstimate(ctx context.Context, estimate domain.Estimate) {
	attrs := metric.WithAttributes(attribute.String("bodyfat.gender", string(estimate.Gender)))
	if m.estimations != nil {
		m.estimations.Add(ctx, 1, attrs)
	}
	if m.percent != nil {
		m.percent.Record(ctx, estimate.BodyFatPercent, attrs)
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context, gender domain.Gender, err error) {
	if m.failures == nil {
		return
	}
	kind, _ := domain.KindOf(err)
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("bodyfat.gender", string(gender)),
		attribute.String("bodyfat.failure_kind", string(kind)),
	))
}

var _ ports.Service = (*Service)(nil)
