// Package pricing computes cart totals. It is a pure function of the cart
// items, the chosen district and the delivery charge table; callers
// recompute a quote after every cart mutation and district change.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/helakart/storefront/internal/domain"
)

// Quote is the priced view of a cart. Before a district is chosen the
// delivery charge is the table's default, shown as a preview; it is
// superseded by the resolved charge as soon as a district is known.
type Quote struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	Total          decimal.Decimal `json:"total"`
}

// Compute prices the given items for the given district. An empty district
// or one absent from the table resolves to the default charge.
func Compute(items []domain.LineItem, district domain.District, table *domain.ChargeTable) Quote {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	delivery := table.Resolve(district)

	return Quote{
		Subtotal:       subtotal.Round(2),
		DeliveryCharge: delivery.Round(2),
		Total:          subtotal.Add(delivery).Round(2),
	}
}

// Display is a quote formatted for rendering: every amount carries the
// currency label and exactly two fraction digits.
type Display struct {
	Subtotal       string `json:"subtotal"`
	DeliveryCharge string `json:"delivery_charge"`
	Total          string `json:"total"`
}

// Format renders the quote with the given currency label.
func (q Quote) Format(currency string) Display {
	return Display{
		Subtotal:       FormatAmount(currency, q.Subtotal),
		DeliveryCharge: FormatAmount(currency, q.DeliveryCharge),
		Total:          FormatAmount(currency, q.Total),
	}
}

// FormatAmount renders a monetary amount as "<label> <amount>" with exactly
// two fraction digits.
func FormatAmount(currency string, amount decimal.Decimal) string {
	return currency + " " + amount.StringFixed(2)
}
