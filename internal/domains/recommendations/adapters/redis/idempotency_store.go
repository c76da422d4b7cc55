package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Apurer/navy-bodyfat-api/internal/domains/recommendations/ports"
)

const keyPrefix = "bodyfat:recommendations:idempotency:"

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps replay records in Redis with an expiry.
type IdempotencyStore struct {
	client goredis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
}

// NewIdempotencyStore wires a Redis-backed store. A zero ttl keeps keys forever.
func NewIdempotencyStore(client goredis.UniversalClient, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl, now: time.Now}
}

// Get returns the stored record for the key, or nil when absent or expired.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get idempotency key: %w", err)
	}
	var record ports.IdempotencyRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode idempotency record: %w", err)
	}
	return &record, nil
}

// Save stores the record only when the key is new. An existing key with a different
// request hash yields ErrIdempotencyConflict together with the stored record.
func (s *IdempotencyStore) Save(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	now := s.now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	stored, err := s.client.SetNX(ctx, keyPrefix+record.Key, payload, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis set idempotency key: %w", err)
	}
	if stored {
		return &record, nil
	}
	existing, err := s.Get(ctx, record.Key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		// Expired between SetNX and Get; the caller may retry with the same key.
		return &record, nil
	}
	if existing.RequestHash != record.RequestHash {
		return existing, ports.ErrIdempotencyConflict
	}
	return existing, nil
}

func (s *IdempotencyStore) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis idempotency store not configured")
	}
	return nil
}
