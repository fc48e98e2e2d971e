package service

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	apperrors "github.com/helakart/storefront/pkg/errors"
	"github.com/helakart/storefront/pkg/validator"

	"github.com/helakart/storefront/internal/catalog"
	"github.com/helakart/storefront/internal/domain"
	"github.com/helakart/storefront/internal/pricing"
)

// OrderWriter persists a finished order with the collaborating backend.
type OrderWriter interface {
	CreateOrder(ctx context.Context, order *domain.OrderSnapshot) (int64, error)
}

// SubmitInput is the checkout form. PaymentMethodID of zero selects the
// storefront's default payment method; Language picks the confirmation's
// display language and defaults to the configured one.
type SubmitInput struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Phone           string `json:"phone" validate:"required,min=7,max=20"`
	Address         string `json:"address" validate:"required,min=5,max=500"`
	City            string `json:"city" validate:"max=100"`
	District        string `json:"district" validate:"required"`
	PaymentMethodID int64  `json:"payment_method_id" validate:"gte=0"`
	Language        string `json:"language" validate:"omitempty,oneof=en si ta"`
}

// Confirmation is returned once the order has been accepted and the cart
// cleared.
type Confirmation struct {
	OrderID       int64           `json:"order_id"`
	PaymentMethod string          `json:"payment_method"`
	Quote         pricing.Quote   `json:"quote"`
	Display       pricing.Display `json:"display"`
	PlacedAt      time.Time       `json:"placed_at"`
}

// CheckoutService assembles the session's cart and the shopper's details
// into an order and submits it. At most one submission per session runs at
// a time; a second attempt while one is in flight is rejected.
type CheckoutService struct {
	carts       *CartService
	catalog     *catalog.Catalog
	orders      OrderWriter
	logger      *slog.Logger
	defaultLang string
	now         func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewCheckoutService creates a new checkout service. defaultLang is the
// confirmation display language used when the form names none.
func NewCheckoutService(carts *CartService, cat *catalog.Catalog, orders OrderWriter, defaultLang string, logger *slog.Logger) *CheckoutService {
	if defaultLang == "" {
		defaultLang = domain.LangEnglish
	}
	return &CheckoutService{
		carts:       carts,
		catalog:     cat,
		orders:      orders,
		logger:      logger,
		defaultLang: defaultLang,
		now:         time.Now,
		inflight:    make(map[string]struct{}),
	}
}

// Submit validates the checkout form, prices the cart as of now, writes
// the order and clears the cart. On a failed write the cart is left
// untouched so the shopper can retry.
func (s *CheckoutService) Submit(ctx context.Context, sessionID string, input SubmitInput) (*Confirmation, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	if !s.begin(sessionID) {
		return nil, apperrors.Conflict("an order submission is already in progress for this session")
	}
	defer s.end(sessionID)

	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	district := domain.District(input.District)
	if !domain.IsValidDistrict(district) {
		return nil, apperrors.InvalidInput("unknown district: " + input.District)
	}

	method, err := s.resolvePaymentMethod(input.PaymentMethodID)
	if err != nil {
		return nil, err
	}

	items, err := s.carts.Items(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	quote := pricing.Compute(items, district, s.catalog.Charges())
	placedAt := s.now()

	order := domain.NewOrderSnapshot(
		domain.Customer{
			Name:    input.Name,
			Phone:   input.Phone,
			Address: input.Address,
			City:    input.City,
		},
		district,
		method.ID,
		items,
		quote.Subtotal,
		quote.DeliveryCharge,
		quote.Total,
		placedAt,
	)

	orderID, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		s.logger.ErrorContext(ctx, "order submission failed",
			slog.String("session_id", sessionID),
			slog.String("district", string(district)),
			slog.String("total", quote.Total.StringFixed(2)),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.SubmissionFailed("placing the order failed, please try again", err)
	}

	// The order is accepted; the cart is consumed. A failed persist of
	// the cleared cart is logged inside Clear and does not undo the
	// submission.
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logger.WarnContext(ctx, "cart clear after checkout failed",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order submitted",
		slog.String("session_id", sessionID),
		slog.Int64("order_id", orderID),
		slog.Int64("payment_method_id", method.ID),
		slog.String("district", string(district)),
		slog.String("total", quote.Total.StringFixed(2)),
	)

	lang := input.Language
	if lang == "" {
		lang = s.defaultLang
	}

	return &Confirmation{
		OrderID:       orderID,
		PaymentMethod: method.LocalizedName(lang),
		Quote:         quote,
		Display:       quote.Format(s.carts.currency),
		PlacedAt:      placedAt,
	}, nil
}

// resolvePaymentMethod maps the submitted id to an active payment method,
// falling back to the storefront default when no id was given.
func (s *CheckoutService) resolvePaymentMethod(id int64) (domain.PaymentMethod, error) {
	if id == 0 {
		method, ok := s.catalog.DefaultPaymentMethod()
		if !ok {
			return domain.PaymentMethod{}, apperrors.Unavailable("no payment methods are available")
		}
		return method, nil
	}

	method, ok := s.catalog.PaymentMethodByID(id)
	if !ok {
		return domain.PaymentMethod{}, apperrors.NotFound("payment method", formatID(id))
	}
	return method, nil
}

func (s *CheckoutService) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inflight[sessionID]; busy {
		return false
	}
	s.inflight[sessionID] = struct{}{}
	return true
}

func (s *CheckoutService) end(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, sessionID)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
