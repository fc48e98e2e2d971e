package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/helakart/storefront/internal/domain"
)

const keyPrefix = "cart:"

// CartStore implements repository.CartStore using Redis. The value is the
// JSON array of line items, matching the storefront's persistence slot
// format.
type CartStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCartStore creates a new Redis-backed cart store.
func NewCartStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *CartStore {
	return &CartStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Load retrieves the stored line items for a session. A missing key or an
// unparseable payload yields an empty list: a corrupt slot must never take
// the session down.
func (s *CartStore) Load(ctx context.Context, sessionID string) ([]domain.LineItem, error) {
	key := keyPrefix + sessionID

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return []domain.LineItem{}, nil
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var items []domain.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.WarnContext(ctx, "discarding unparseable stored cart",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return []domain.LineItem{}, nil
	}
	if items == nil {
		items = []domain.LineItem{}
	}

	return items, nil
}

// Save persists the line items for a session with the configured TTL.
func (s *CartStore) Save(ctx context.Context, sessionID string, items []domain.LineItem) error {
	key := keyPrefix + sessionID

	if items == nil {
		items = []domain.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// Delete removes the stored cart for a session.
func (s *CartStore) Delete(ctx context.Context, sessionID string) error {
	key := keyPrefix + sessionID

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}
