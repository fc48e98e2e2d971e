// Package catalog holds the storefront's session copy of backend catalog
// data. Every dataset degrades independently when the backend read fails:
// the storefront must render with whatever it has rather than block startup.
package catalog

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/helakart/storefront/internal/domain"
)

// Product sort orders.
const (
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
)

// ReadClient is the subset of the backend client the catalog needs.
type ReadClient interface {
	ListActiveProducts(ctx context.Context) ([]domain.Product, error)
	ListActiveCategories(ctx context.Context) ([]domain.Category, error)
	ListActivePaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error)
	ListDeliveryCharges(ctx context.Context) ([]domain.DeliveryCharge, error)
}

// Catalog caches products, categories, payment methods and the delivery
// charge table for the lifetime of the storefront process.
type Catalog struct {
	backend       ReadClient
	logger        *slog.Logger
	defaultCharge decimal.Decimal

	mu             sync.RWMutex
	products       []domain.Product
	categories     []domain.Category
	paymentMethods []domain.PaymentMethod
	charges        *domain.ChargeTable
}

// New creates a catalog that resolves missing delivery charges to
// defaultCharge. The catalog is empty until Load is called.
func New(backend ReadClient, defaultCharge decimal.Decimal, logger *slog.Logger) *Catalog {
	return &Catalog{
		backend:        backend,
		logger:         logger,
		defaultCharge:  defaultCharge,
		products:       []domain.Product{},
		categories:     []domain.Category{},
		paymentMethods: fallbackPaymentMethods(),
		charges:        domain.DefaultChargeTable(defaultCharge),
	}
}

// Load pulls all datasets from the backend. Each dataset falls back
// independently on error: products and categories to empty lists, payment
// methods to the built-in set, delivery charges to the default for every
// district. Load never returns an error; failures are logged.
func (c *Catalog) Load(ctx context.Context) {
	products, err := c.backend.ListActiveProducts(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "loading products failed, rendering empty catalog",
			slog.String("error", err.Error()),
		)
		products = []domain.Product{}
	}

	categories, err := c.backend.ListActiveCategories(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "loading categories failed, rendering empty list",
			slog.String("error", err.Error()),
		)
		categories = []domain.Category{}
	}

	methods, err := c.backend.ListActivePaymentMethods(ctx)
	if err != nil || len(methods) == 0 {
		if err != nil {
			c.logger.ErrorContext(ctx, "loading payment methods failed, using built-in set",
				slog.String("error", err.Error()),
			)
		}
		methods = fallbackPaymentMethods()
	}

	charges, err := c.backend.ListDeliveryCharges(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "loading delivery charges failed, using default for every district",
			slog.String("error", err.Error()),
		)
		charges = nil
	}
	var table *domain.ChargeTable
	if len(charges) == 0 {
		table = domain.DefaultChargeTable(c.defaultCharge)
	} else {
		table = domain.NewChargeTable(c.defaultCharge, charges)
	}

	c.mu.Lock()
	c.products = products
	c.categories = categories
	c.paymentMethods = methods
	c.charges = table
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "catalog loaded",
		slog.Int("products", len(products)),
		slog.Int("categories", len(categories)),
		slog.Int("payment_methods", len(methods)),
		slog.Int("delivery_charges", len(charges)),
	)
}

// ProductQuery filters and orders a product listing.
type ProductQuery struct {
	CategoryID int64
	Sort       string
}

// Products returns the cached products matching the query. The zero query
// returns everything newest-first, as loaded.
func (c *Catalog) Products(q ProductQuery) []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		if q.CategoryID != 0 && p.CategoryID != q.CategoryID {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[j].Price.LessThan(out[i].Price) })
	case SortNewest, "":
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}

	return out
}

// ProductByID returns the cached product with the given id.
func (c *Catalog) ProductByID(id int64) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Categories returns the cached categories.
func (c *Catalog) Categories() []domain.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// PaymentMethods returns the active payment methods in display order.
func (c *Catalog) PaymentMethods() []domain.PaymentMethod {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.PaymentMethod, 0, len(c.paymentMethods))
	for _, m := range c.paymentMethods {
		if m.Active {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

// PaymentMethodByID returns the active payment method with the given id.
func (c *Catalog) PaymentMethodByID(id int64) (domain.PaymentMethod, bool) {
	for _, m := range c.PaymentMethods() {
		if m.ID == id {
			return m, true
		}
	}
	return domain.PaymentMethod{}, false
}

// DefaultPaymentMethod returns the first active payment method by display
// order. The checkout assembler uses it when the shopper made no explicit
// selection.
func (c *Catalog) DefaultPaymentMethod() (domain.PaymentMethod, bool) {
	methods := c.PaymentMethods()
	if len(methods) == 0 {
		return domain.PaymentMethod{}, false
	}
	return methods[0], true
}

// Charges returns the current delivery charge table.
func (c *Catalog) Charges() *domain.ChargeTable {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.charges
}

// fallbackPaymentMethods is the built-in payment method set used when the
// backend has none or cannot be reached.
func fallbackPaymentMethods() []domain.PaymentMethod {
	return []domain.PaymentMethod{
		{ID: 1, Name: "Card Payment", NameSi: "කාඩ් ගෙවීම", NameTa: "அட்டை கட்டணம்", DisplayOrder: 1, Active: true},
		{ID: 2, Name: "Bank Transfer", NameSi: "බැංකු මාරු කිරීම", NameTa: "வங்கி பரிமாற்றம்", DisplayOrder: 2, Active: true},
		{ID: 3, Name: "Koko Pay", NameSi: "කොකෝ පේ", NameTa: "கோகோ பே", DisplayOrder: 3, Active: true},
	}
}
