package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	bodyfat "github.com/Apurer/navy-bodyfat-api/internal/domains/bodyfat/domain"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/application/types"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/domain"
	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/ports"
)

// Service turns a computed estimate into wellness commentary through a Provider.
// It performs exactly one provider call per request and never retries.
type Service struct {
	provider    ports.Provider
	idempotency ports.IdempotencyStore
	now         func() time.Time
	newID       func() string
}

// Option configures optional collaborators.
type Option func(*Service)

// WithIdempotencyStore enables replay of requests carrying an idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides recommendation id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewService wires the recommendation service. A nil provider yields ErrProviderNotConfigured on use.
func NewService(provider ports.Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Recommend asks the provider for commentary on the estimate.
func (s *Service) Recommend(ctx context.Context, input types.RecommendInput) (*domain.Recommendation, error) {
	req, err := domain.NewRequest(input.Gender, input.BodyFatPercent)
	if err != nil {
		return nil, mapError(err)
	}
	key := strings.TrimSpace(input.IdempotencyKey)
	var fingerprint string
	if key != "" && s.idempotency != nil {
		fingerprint, err = FingerprintRequest(req)
		if err != nil {
			return nil, err
		}
		existing, err := s.idempotency.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.RequestHash != fingerprint {
				return nil, ports.ErrIdempotencyConflict
			}
			return fromRecord(existing), nil
		}
	}
	if s.provider == nil {
		return nil, ErrProviderNotConfigured
	}
	text, err := s.provider.Generate(ctx, req.Prompt())
	if err != nil {
		return nil, providerError(err)
	}
	rec, err := domain.NewRecommendation(s.newID(), req, text, s.now())
	if err != nil {
		return nil, providerError(err)
	}
	if fingerprint == "" {
		return rec, nil
	}
	saved, err := s.idempotency.Save(ctx, toRecord(key, fingerprint, rec))
	if err != nil {
		if errors.Is(err, ports.ErrIdempotencyConflict) {
			return nil, err
		}
		// The text was generated; a failed replay record only loses deduplication.
		return rec, nil
	}
	return fromRecord(saved), nil
}

// Outcome is the single result delivered by RecommendAsync.
type Outcome struct {
	Recommendation *domain.Recommendation
	Err            error
}

// RecommendAsync starts one background request and delivers exactly one Outcome.
// The returned channel is buffered, so the goroutine finishes even if nobody reads.
func (s *Service) RecommendAsync(ctx context.Context, input types.RecommendInput) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		rec, err := s.Recommend(ctx, input)
		out <- Outcome{Recommendation: rec, Err: err}
	}()
	return out
}

func toRecord(key, fingerprint string, rec *domain.Recommendation) ports.IdempotencyRecord {
	return ports.IdempotencyRecord{
		Key:              key,
		RequestHash:      fingerprint,
		RecommendationID: rec.ID,
		Gender:           string(rec.Gender),
		BodyFatPercent:   rec.BodyFatPercent,
		Text:             rec.Text,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.CreatedAt,
	}
}

func fromRecord(record *ports.IdempotencyRecord) *domain.Recommendation {
	return &domain.Recommendation{
		ID:             record.RecommendationID,
		Gender:         bodyfat.Gender(record.Gender),
		BodyFatPercent: record.BodyFatPercent,
		Text:           record.Text,
		CreatedAt:      record.CreatedAt,
	}
}

var _ ports.Service = (*Service)(nil)
