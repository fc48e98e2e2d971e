package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Language codes supported by the storefront.
const (
	LangEnglish = "en"
	LangSinhala = "si"
	LangTamil   = "ta"
)

// Product is a catalog product as served by the backend.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	NameSi        string          `json:"name_si,omitempty"`
	NameTa        string          `json:"name_ta,omitempty"`
	Description   string          `json:"description,omitempty"`
	DescriptionSi string          `json:"description_si,omitempty"`
	DescriptionTa string          `json:"description_ta,omitempty"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url,omitempty"`
	CategoryID    int64           `json:"category_id"`
	IsNew         bool            `json:"is_new,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// LocalizedName returns the product name in the given language, falling back
// to the default name when no translation exists.
func (p Product) LocalizedName(lang string) string {
	switch lang {
	case LangSinhala:
		if p.NameSi != "" {
			return p.NameSi
		}
	case LangTamil:
		if p.NameTa != "" {
			return p.NameTa
		}
	}
	return p.Name
}

// LineItem captures the product as a cart line item with the price snapshot
// taken now.
func (p Product) LineItem(quantity int) LineItem {
	return LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageURL:  p.ImageURL,
		Quantity:  quantity,
	}
}

// Category is a product category as served by the backend.
type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	NameSi   string `json:"name_si,omitempty"`
	NameTa   string `json:"name_ta,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// LocalizedName returns the category name in the given language, falling
// back to the default name when no translation exists.
func (c Category) LocalizedName(lang string) string {
	switch lang {
	case LangSinhala:
		if c.NameSi != "" {
			return c.NameSi
		}
	case LangTamil:
		if c.NameTa != "" {
			return c.NameTa
		}
	}
	return c.Name
}

// PaymentMethod is a checkout payment option. Selection is ephemeral UI
// state; the storefront only reads these.
type PaymentMethod struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	NameSi       string `json:"name_si,omitempty"`
	NameTa       string `json:"name_ta,omitempty"`
	DisplayOrder int    `json:"display_order"`
	Active       bool   `json:"active"`
}

// LocalizedName returns the payment method name in the given language,
// falling back to the default name when no translation exists.
func (m PaymentMethod) LocalizedName(lang string) string {
	switch lang {
	case LangSinhala:
		if m.NameSi != "" {
			return m.NameSi
		}
	case LangTamil:
		if m.NameTa != "" {
			return m.NameTa
		}
	}
	return m.Name
}
