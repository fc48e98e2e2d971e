package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/helakart/storefront/pkg/httputil"

	"github.com/helakart/storefront/internal/catalog"
	"github.com/helakart/storefront/internal/domain"
)

// CatalogHandler serves the read-only catalog endpoints backing the
// storefront pages.
type CatalogHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(cat *catalog.Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: cat,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/catalog/products with optional
// category and sort query parameters.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var q catalog.ProductQuery

	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "category must be a positive integer"},
			})
			return
		}
		q.CategoryID = id
	}

	switch sort := r.URL.Query().Get("sort"); sort {
	case "", catalog.SortNewest, catalog.SortPriceLow, catalog.SortPriceHigh:
		q.Sort = sort
	default:
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "sort must be one of: newest, price-low, price-high"},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.catalog.Products(q)})
}

// GetProduct handles GET /api/v1/catalog/products/{productID}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(w, r)
	if !ok {
		return
	}

	product, found := h.catalog.ProductByID(id)
	if !found {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "NOT_FOUND", Message: "product with id " + strconv.FormatInt(id, 10) + " not found"},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// ListCategories handles GET /api/v1/catalog/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.catalog.Categories()})
}

// ListPaymentMethods handles GET /api/v1/catalog/payment-methods
func (h *CatalogHandler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.catalog.PaymentMethods()})
}

// ListDistricts handles GET /api/v1/catalog/districts
func (h *CatalogHandler) ListDistricts(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: domain.Districts()})
}

// ListDeliveryCharges handles GET /api/v1/catalog/delivery-charges.
// Every district appears with its resolved charge, defaults filled in.
func (h *CatalogHandler) ListDeliveryCharges(w http.ResponseWriter, r *http.Request) {
	table := h.catalog.Charges()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"default_charge": table.DefaultCharge(),
		"charges":        table.Entries(),
	}})
}
