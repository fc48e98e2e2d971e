package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helakart/storefront/internal/catalog"
	"github.com/helakart/storefront/internal/domain"
	redisrepo "github.com/helakart/storefront/internal/repository/redis"
	"github.com/helakart/storefront/internal/service"
)

// ============================================================================
// Test fixture
// ============================================================================

type fixture struct {
	router http.Handler
	mr     *miniredis.Miniredis
	orders *stubOrderWriter
}

type stubOrderWriter struct {
	orderID int64
	err     error
	calls   int
}

func (s *stubOrderWriter) CreateOrder(ctx context.Context, order *domain.OrderSnapshot) (int64, error) {
	s.calls++
	return s.orderID, s.err
}

type stubBackend struct{}

func (stubBackend) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	now := time.Now().UTC()
	return []domain.Product{
		{ID: 1, Name: "Ceylon Tea 400g", Price: decimal.RequireFromString("1250.00"), CategoryID: 1, CreatedAt: now},
		{ID: 2, Name: "Cinnamon Sticks", Price: decimal.RequireFromString("640.50"), CategoryID: 2, CreatedAt: now.Add(-time.Hour)},
	}, nil
}

func (stubBackend) ListActiveCategories(ctx context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1, Name: "Tea"}, {ID: 2, Name: "Spices"}}, nil
}

func (stubBackend) ListActivePaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	return nil, nil
}

func (stubBackend) ListDeliveryCharges(ctx context.Context) ([]domain.DeliveryCharge, error) {
	return []domain.DeliveryCharge{{District: "Colombo", Charge: decimal.NewFromInt(250)}}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// setupFixture wires real services over miniredis behind the production
// route layout, including the SessionID and ContentTypeJSON middleware.
func setupFixture(t *testing.T) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := testLogger()
	cat := catalog.New(stubBackend{}, decimal.NewFromInt(350), logger)
	cat.Load(context.Background())

	store := redisrepo.NewCartStore(client, time.Hour, logger)
	cartService := service.NewCartService(store, cat, "Rs", logger)

	orders := &stubOrderWriter{orderID: 42}
	checkoutService := service.NewCheckoutService(cartService, cat, orders, domain.LangEnglish, logger)

	r := chi.NewRouter()
	r.Use(SessionID)
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", NewCatalogHandler(cat, logger).ListProducts)
			r.Get("/products/{productID}", NewCatalogHandler(cat, logger).GetProduct)
			r.Get("/categories", NewCatalogHandler(cat, logger).ListCategories)
			r.Get("/payment-methods", NewCatalogHandler(cat, logger).ListPaymentMethods)
			r.Get("/districts", NewCatalogHandler(cat, logger).ListDistricts)
			r.Get("/delivery-charges", NewCatalogHandler(cat, logger).ListDeliveryCharges)
		})
		r.Route("/cart", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			h := NewCartHandler(cartService, logger)
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddItem)
			r.Patch("/items/{productID}", h.AdjustQuantity)
			r.Delete("/items/{productID}", h.RemoveItem)
		})
		r.Route("/checkout", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/", NewCheckoutHandler(checkoutService, logger).Submit)
		})
	})

	return &fixture{router: r, mr: mr, orders: orders}
}

func (f *fixture) do(t *testing.T, method, path, sessionID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type cartViewBody struct {
	Data struct {
		Items []struct {
			ID       int64  `json:"id"`
			Name     string `json:"name"`
			Price    string `json:"price"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
		ItemCount int `json:"item_count"`
		Quote     struct {
			Subtotal       string `json:"subtotal"`
			DeliveryCharge string `json:"delivery_charge"`
			Total          string `json:"total"`
		} `json:"quote"`
		Display struct {
			Subtotal       string `json:"subtotal"`
			DeliveryCharge string `json:"delivery_charge"`
			Total          string `json:"total"`
		} `json:"display"`
	} `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decodeCartView(t *testing.T, rec *httptest.ResponseRecorder) cartViewBody {
	t.Helper()
	var body cartViewBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

// ============================================================================
// Session middleware
// ============================================================================

func TestSessionID_MintedWhenAbsent(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/cart/", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Session-ID"))
}

func TestSessionID_EchoedWhenPresent(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/cart/", "session-1", nil)

	assert.Equal(t, "session-1", rec.Header().Get("X-Session-ID"))
}

// ============================================================================
// Cart endpoints
// ============================================================================

func TestGetCart_Empty(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/cart/", "session-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeCartView(t, rec)
	assert.Empty(t, body.Data.Items)
	assert.Equal(t, 0, body.Data.ItemCount)
	assert.Equal(t, "350", body.Data.Quote.DeliveryCharge)
}

func TestGetCart_WithDistrict(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/cart/?district=Colombo", "session-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeCartView(t, rec)
	assert.Equal(t, "250", body.Data.Quote.DeliveryCharge)
}

func TestGetCart_UnknownDistrict(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/cart/?district=Atlantis", "session-1", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeCartView(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "INVALID_INPUT", body.Error.Code)
}

func TestAddItem(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequest{ProductID: 1, Quantity: 2})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeCartView(t, rec)
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, int64(1), body.Data.Items[0].ID)
	assert.Equal(t, "Ceylon Tea 400g", body.Data.Items[0].Name)
	assert.Equal(t, 2, body.Data.Items[0].Quantity)
	assert.Equal(t, 2, body.Data.ItemCount)
	assert.Equal(t, "2500", body.Data.Quote.Subtotal)
	assert.Equal(t, "2850", body.Data.Quote.Total)
}

func TestAddItem_FormattedAmounts(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequest{ProductID: 1, Quantity: 2})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeCartView(t, rec)
	assert.Equal(t, "Rs 2500.00", body.Data.Display.Subtotal)
	assert.Equal(t, "Rs 350.00", body.Data.Display.DeliveryCharge)
	assert.Equal(t, "Rs 2850.00", body.Data.Display.Total)
}

func TestAddItem_DefaultQuantity(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", map[string]any{"product_id": 1})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeCartView(t, rec)
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, 1, body.Data.Items[0].Quantity)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequest{ProductID: 99, Quantity: 1})

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeCartView(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestAddItem_MissingProductID(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", map[string]any{"quantity": 1})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeCartView(t, rec)
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Contains(t, body.Error.Fields, "ProductID")
}

func TestAddItem_BadBody(t *testing.T) {
	f := setupFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", "session-1")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItem_WrongContentType(t *testing.T) {
	f := setupFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader([]byte(`{"product_id":1}`)))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Session-ID", "session-1")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestAdjustQuantity(t *testing.T) {
	f := setupFixture(t)

	f.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequest{ProductID: 1, Quantity: 2})
	rec := f.do(t, http.MethodPatch, "/api/v1/cart/items/1", "session-1", AdjustQuantityRequest{Delta: 3})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeCartView(t, rec)
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, 5, body.Data.Items[0].Quantity)
}

func TestAdjustQuantity_ToZeroRemoves(t *testing.T) {
	f := setupFixture(t)

	f.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequest{ProductID: 1, Quantity: 2})
	rec := f.do(t, http.MethodPatch, "/api/v1/cart/items/1", "session-1", AdjustQuantityRequest{Delta: -2})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeCartView(t, rec)
	assert.Empty(t, body.Data.Items)
}

func TestAdjustQuantity_BadProductID(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(t, http.MethodPatch, "/api/v1/cart/items/abc", "session-1", AdjustQuantityRequest{Delta: 1})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveItem(t *testing.T) {
	f := setupFixture(t)

	f.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequest{ProductID: 1, Quantity: 1})
	f.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequest{ProductID: 2, Quantity: 1})
	rec := f.do(t, http.MethodDelete, "/api/v1/cart/items/1", "session-1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeCartView(t, rec)
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, int64(2), body.Data.Items[0].ID)
}

func TestClearCart(t *testing.T) {
	f := setupFixture(t)

	f.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequest{ProductID: 1, Quantity: 1})
	rec := f.do(t, http.MethodDelete, "/api/v1/cart/", "session-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeCartView(t, f.do(t, http.MethodGet, "/api/v1/cart/", "session-1", nil))
	assert.Empty(t, body.Data.Items)
}

func TestCart_PersistsAcrossServiceRestart(t *testing.T) {
	f := setupFixture(t)

	f.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequest{ProductID: 1, Quantity: 2})

	// The stored slot holds the plain line item array.
	raw, err := f.mr.Get("cart:session-1")
	require.NoError(t, err)

	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &items))
	require.Len(t, items, 1)
	assert.Equal(t, float64(1), items[0]["id"])
}

func TestCart_SessionsAreIsolated(t *testing.T) {
	f := setupFixture(t)

	f.do(t, http.MethodPost, "/api/v1/cart/items", "session-1", AddItemRequest{ProductID: 1, Quantity: 1})
	body := decodeCartView(t, f.do(t, http.MethodGet, "/api/v1/cart/", "session-2", nil))

	assert.Empty(t, body.Data.Items)
}
