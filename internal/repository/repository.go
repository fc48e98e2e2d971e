package repository

import (
	"context"

	"github.com/helakart/storefront/internal/domain"
)

// CartStore is the durable persistence slot for session carts. The stored
// value is the serialized line-item list; the in-memory cart aggregate is
// authoritative, the store only survives restarts and session handover.
type CartStore interface {
	// Load retrieves the stored line items for a session. Missing or
	// unparseable data yields an empty list, never an error the caller
	// must surface to a user.
	Load(ctx context.Context, sessionID string) ([]domain.LineItem, error)

	// Save overwrites the stored line items for a session.
	Save(ctx context.Context, sessionID string, items []domain.LineItem) error

	// Delete removes the stored cart for a session.
	Delete(ctx context.Context, sessionID string) error
}
