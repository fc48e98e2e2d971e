package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/helakart/storefront/internal/domain"
)

func testTable() *domain.ChargeTable {
	return domain.NewChargeTable(decimal.NewFromInt(350), []domain.DeliveryCharge{
		{District: "Colombo", Charge: decimal.NewFromInt(250)},
		{District: "Jaffna", Charge: decimal.NewFromInt(500)},
	})
}

func item(price string, qty int) domain.LineItem {
	return domain.LineItem{
		ProductID: int64(qty),
		UnitPrice: decimal.RequireFromString(price),
		Quantity:  qty,
	}
}

func TestCompute(t *testing.T) {
	items := []domain.LineItem{
		item("10.00", 2),
		item("5.50", 1),
	}

	quote := Compute(items, "Jaffna", testTable())

	assert.Equal(t, "25.50", quote.Subtotal.StringFixed(2))
	assert.Equal(t, "500.00", quote.DeliveryCharge.StringFixed(2))
	assert.Equal(t, "525.50", quote.Total.StringFixed(2))
}

func TestCompute_EmptyCart(t *testing.T) {
	quote := Compute(nil, "Colombo", testTable())

	assert.Equal(t, "0.00", quote.Subtotal.StringFixed(2))
	assert.Equal(t, "250.00", quote.DeliveryCharge.StringFixed(2))
	assert.Equal(t, "250.00", quote.Total.StringFixed(2))
}

func TestCompute_NoDistrictUsesDefault(t *testing.T) {
	items := []domain.LineItem{item("100.00", 1)}

	quote := Compute(items, "", testTable())

	assert.Equal(t, "350.00", quote.DeliveryCharge.StringFixed(2))
	assert.Equal(t, "450.00", quote.Total.StringFixed(2))
}

func TestCompute_UnlistedDistrictUsesDefault(t *testing.T) {
	items := []domain.LineItem{item("100.00", 1)}

	quote := Compute(items, "Galle", testTable())

	assert.Equal(t, "350.00", quote.DeliveryCharge.StringFixed(2))
}

func TestCompute_OrderIndependent(t *testing.T) {
	a := []domain.LineItem{item("19.99", 3), item("2.50", 4), item("999.00", 1)}
	b := []domain.LineItem{a[2], a[0], a[1]}

	qa := Compute(a, "Colombo", testTable())
	qb := Compute(b, "Colombo", testTable())

	assert.True(t, qa.Subtotal.Equal(qb.Subtotal))
	assert.True(t, qa.Total.Equal(qb.Total))
}

func TestCompute_ExactDecimalArithmetic(t *testing.T) {
	// 0.1 + 0.2 style amounts must not pick up binary float noise.
	items := []domain.LineItem{
		item("0.10", 1),
		item("0.20", 1),
	}

	quote := Compute(items, "", domain.DefaultChargeTable(decimal.Zero))

	assert.Equal(t, "0.30", quote.Subtotal.StringFixed(2))
	assert.Equal(t, "0.30", quote.Total.StringFixed(2))
}

func TestFormat(t *testing.T) {
	quote := Quote{
		Subtotal:       decimal.RequireFromString("25.5"),
		DeliveryCharge: decimal.NewFromInt(350),
		Total:          decimal.RequireFromString("375.5"),
	}

	display := quote.Format("Rs")

	assert.Equal(t, "Rs 25.50", display.Subtotal)
	assert.Equal(t, "Rs 350.00", display.DeliveryCharge)
	assert.Equal(t, "Rs 375.50", display.Total)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "Rs 1000.00", FormatAmount("Rs", decimal.NewFromInt(1000)))
	assert.Equal(t, "Rs 0.99", FormatAmount("Rs", decimal.RequireFromString("0.99")))
}
