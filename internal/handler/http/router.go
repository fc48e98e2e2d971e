package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/helakart/storefront/pkg/health"
	"github.com/helakart/storefront/pkg/middleware"

	"github.com/helakart/storefront/internal/catalog"
	"github.com/helakart/storefront/internal/service"
)

// RouterConfig carries the handler-level tunables.
type RouterConfig struct {
	CheckoutRPS   int
	CheckoutBurst int
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	cartService *service.CartService,
	checkoutService *service.CheckoutService,
	cat *catalog.Catalog,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(CORS)
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(SessionID)
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	cartHandler := NewCartHandler(cartService, logger)
	catalogHandler := NewCatalogHandler(cat, logger)
	checkoutHandler := NewCheckoutHandler(checkoutService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/products/{productID}", catalogHandler.GetProduct)
			r.Get("/categories", catalogHandler.ListCategories)
			r.Get("/payment-methods", catalogHandler.ListPaymentMethods)
			r.Get("/districts", catalogHandler.ListDistricts)
			r.Get("/delivery-charges", catalogHandler.ListDeliveryCharges)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)

			r.Post("/items", cartHandler.AddItem)
			r.Patch("/items/{productID}", cartHandler.AdjustQuantity)
			r.Delete("/items/{productID}", cartHandler.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Use(middleware.RateLimit(cfg.CheckoutRPS, cfg.CheckoutBurst, logger))

			r.Post("/", checkoutHandler.Submit)
		})
	})

	return r
}
