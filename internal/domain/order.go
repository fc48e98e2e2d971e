package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusPending is the status every new order is submitted with.
const OrderStatusPending = "pending"

// Customer holds the delivery details entered at checkout.
type Customer struct {
	Name    string `json:"customer_name"`
	Phone   string `json:"customer_phone"`
	Address string `json:"delivery_address"`
	City    string `json:"city"`
}

// OrderSnapshot is the immutable order record built at submission time.
// Items, subtotal, delivery charge and total are frozen copies of the cart
// state at that moment; the snapshot is handed to the backend whole and
// never mutated afterwards.
type OrderSnapshot struct {
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	DeliveryAddress string          `json:"delivery_address"`
	District        District        `json:"district"`
	City            string          `json:"city"`
	PaymentMethodID int64           `json:"payment_method_id"`
	Items           []LineItem      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryCharge  decimal.Decimal `json:"delivery_charge"`
	Total           decimal.Decimal `json:"total"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewOrderSnapshot freezes the given cart items and amounts into an order
// record. The items slice is copied so later cart mutations cannot leak in.
func NewOrderSnapshot(
	customer Customer,
	district District,
	paymentMethodID int64,
	items []LineItem,
	subtotal, deliveryCharge, total decimal.Decimal,
	now time.Time,
) *OrderSnapshot {
	frozen := make([]LineItem, len(items))
	copy(frozen, items)

	return &OrderSnapshot{
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		DeliveryAddress: customer.Address,
		District:        district,
		City:            customer.City,
		PaymentMethodID: paymentMethodID,
		Items:           frozen,
		Subtotal:        subtotal,
		DeliveryCharge:  deliveryCharge,
		Total:           total,
		Status:          OrderStatusPending,
		CreatedAt:       now.UTC(),
	}
}
