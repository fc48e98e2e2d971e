package service

import (
	"context"
	"log/slog"
	"sync"

	apperrors "github.com/helakart/storefront/pkg/errors"

	"github.com/helakart/storefront/internal/catalog"
	"github.com/helakart/storefront/internal/domain"
	"github.com/helakart/storefront/internal/pricing"
	"github.com/helakart/storefront/internal/repository"
)

// CartView is the response to every cart read or mutation: the current line
// items plus a freshly computed price quote.
type CartView struct {
	Items     []domain.LineItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Quote     pricing.Quote     `json:"quote"`
	Display   pricing.Display   `json:"display"`
}

// CartService owns the in-memory cart aggregate of every active session.
// A session's cart is restored from the store on first touch and written
// back after every mutation; the in-memory state is authoritative, so a
// failed write degrades durability but never the session.
type CartService struct {
	store    repository.CartStore
	catalog  *catalog.Catalog
	currency string
	logger   *slog.Logger

	// mu guards the session registry and all cart mutations. Cart
	// operations are in-memory and short; one lock is enough at this
	// scale.
	mu       sync.Mutex
	sessions map[string]*domain.Cart
}

// NewCartService creates a new cart service. currency is the label carried
// by the formatted amounts in every cart view.
func NewCartService(store repository.CartStore, cat *catalog.Catalog, currency string, logger *slog.Logger) *CartService {
	if currency == "" {
		currency = "Rs"
	}
	return &CartService{
		store:    store,
		catalog:  cat,
		currency: currency,
		logger:   logger,
		sessions: make(map[string]*domain.Cart),
	}
}

// Get returns the session's cart priced for the given district. An empty
// district yields the default-charge preview.
func (s *CartService) Get(ctx context.Context, sessionID string, district domain.District) (*CartView, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.session(ctx, sessionID)
	return s.view(cart, district), nil
}

// AddItem adds quantity units of the product to the session's cart,
// snapshotting the product's current price. Adding an already-carted
// product increments its quantity and keeps the original price snapshot.
func (s *CartService) AddItem(ctx context.Context, sessionID string, productID int64, quantity int) (*CartView, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if quantity < 1 {
		return nil, apperrors.InvalidInput("quantity must be at least 1")
	}

	product, ok := s.catalog.ProductByID(productID)
	if !ok {
		return nil, apperrors.NotFound("product", formatID(productID))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.session(ctx, sessionID)
	cart.Add(product.LineItem(quantity))
	s.persist(ctx, sessionID, cart)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.Int64("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return s.view(cart, ""), nil
}

// AdjustQuantity adds delta to the item's quantity; a result of zero or
// less removes the item. Unknown products are a no-op, mirroring remove.
func (s *CartService) AdjustQuantity(ctx context.Context, sessionID string, productID int64, delta int) (*CartView, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.session(ctx, sessionID)
	cart.AdjustQuantity(productID, delta)
	s.persist(ctx, sessionID, cart)

	s.logger.InfoContext(ctx, "cart quantity adjusted",
		slog.String("session_id", sessionID),
		slog.Int64("product_id", productID),
		slog.Int("delta", delta),
	)

	return s.view(cart, ""), nil
}

// RemoveItem removes the product's line item; no-op when absent.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID int64) (*CartView, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.session(ctx, sessionID)
	if cart.Remove(productID) {
		s.persist(ctx, sessionID, cart)
		s.logger.InfoContext(ctx, "item removed from cart",
			slog.String("session_id", sessionID),
			slog.Int64("product_id", productID),
		)
	}

	return s.view(cart, ""), nil
}

// Clear empties the session's cart and persists the empty slot, so the
// store's next load also yields an empty cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.session(ctx, sessionID)
	cart.Clear()
	s.persist(ctx, sessionID, cart)

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return nil
}

// Items returns a copy of the session's current line items.
func (s *CartService) Items(ctx context.Context, sessionID string) ([]domain.LineItem, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session(ctx, sessionID).Snapshot(), nil
}

// session returns the in-memory cart for the session, restoring it from
// the store on first touch. Store failures yield an empty cart; a broken
// slot never raises to the shopper. Callers must hold s.mu.
func (s *CartService) session(ctx context.Context, sessionID string) *domain.Cart {
	if cart, ok := s.sessions[sessionID]; ok {
		return cart
	}

	cart := domain.NewCart()
	items, err := s.store.Load(ctx, sessionID)
	if err != nil {
		s.logger.WarnContext(ctx, "cart restore failed, starting empty",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	} else {
		cart.Items = items
	}

	s.sessions[sessionID] = cart
	return cart
}

// persist writes the cart back to the store. Failures are logged only: the
// in-memory aggregate stays authoritative for the session.
func (s *CartService) persist(ctx context.Context, sessionID string, cart *domain.Cart) {
	if err := s.store.Save(ctx, sessionID, cart.Items); err != nil {
		s.logger.WarnContext(ctx, "cart persist failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *CartService) view(cart *domain.Cart, district domain.District) *CartView {
	items := cart.Snapshot()
	quote := pricing.Compute(items, district, s.catalog.Charges())
	return &CartView{
		Items:     items,
		ItemCount: cart.ItemCount(),
		Quote:     quote,
		Display:   quote.Format(s.currency),
	}
}
