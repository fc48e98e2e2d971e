package domain

import "github.com/shopspring/decimal"

// LineItem is a single product line in the cart. UnitPrice is a snapshot
// captured when the product was first added; later catalog price changes do
// not affect items already in the cart.
type LineItem struct {
	ProductID int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url,omitempty"`
	Quantity  int             `json:"quantity"`
}

// Cart is an insertion-ordered collection of line items with at most one
// line item per product id.
type Cart struct {
	Items []LineItem `json:"items"`
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{Items: []LineItem{}}
}

// findIndex returns the index of the line item for the given product id,
// or -1 if the product is not in the cart.
func (c *Cart) findIndex(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add merges the given item into the cart. If a line item for the same
// product already exists its quantity is incremented and the existing price
// snapshot is kept; otherwise the item is appended.
func (c *Cart) Add(item LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if i := c.findIndex(item.ProductID); i >= 0 {
		c.Items[i].Quantity += item.Quantity
		return
	}
	c.Items = append(c.Items, item)
}

// Remove deletes the line item for the given product id.
// It is a no-op when the product is not in the cart.
func (c *Cart) Remove(productID int64) bool {
	i := c.findIndex(productID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

// AdjustQuantity adds delta to the item's quantity. A resulting quantity of
// zero or less removes the item. Unknown product ids are a no-op.
func (c *Cart) AdjustQuantity(productID int64, delta int) {
	i := c.findIndex(productID)
	if i < 0 {
		return
	}
	if c.Items[i].Quantity+delta <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return
	}
	c.Items[i].Quantity += delta
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []LineItem{}
}

// ItemCount returns the sum of all quantities, used for the cart badge.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Snapshot returns a deep copy of the line items, preserving order.
func (c *Cart) Snapshot() []LineItem {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return items
}
