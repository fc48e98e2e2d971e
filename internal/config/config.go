package config

import (
	"fmt"

	"github.com/shopspring/decimal"

	pkgconfig "github.com/helakart/storefront/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Redis (cart persistence slot)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL in hours (default: 7 days)
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"168"`

	// Backend read/write API
	BackendBaseURL string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:3000"`
	BackendAPIKey  string `env:"BACKEND_API_KEY" envDefault:""`

	// Catalog refresh interval in minutes; zero disables periodic refresh.
	CatalogRefreshMinutes int `env:"CATALOG_REFRESH_MINUTES" envDefault:"15"`

	// Pricing and localization
	CurrencyLabel         string `env:"CURRENCY_LABEL" envDefault:"Rs"`
	DefaultDeliveryCharge string `env:"DEFAULT_DELIVERY_CHARGE" envDefault:"350.00"`
	DefaultLanguage       string `env:"DEFAULT_LANGUAGE" envDefault:"en"`

	// Checkout rate limiting (per session)
	CheckoutRPS   int `env:"CHECKOUT_RATE_LIMIT_RPS" envDefault:"1"`
	CheckoutBurst int `env:"CHECKOUT_RATE_LIMIT_BURST" envDefault:"3"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CartTTL < 1 {
		return fmt.Errorf("cart TTL must be at least one hour, got %d", c.CartTTL)
	}
	if _, err := c.deliveryCharge(); err != nil {
		return err
	}
	if c.CheckoutRPS < 1 || c.CheckoutBurst < 1 {
		return fmt.Errorf("checkout rate limit must be positive, got rps=%d burst=%d", c.CheckoutRPS, c.CheckoutBurst)
	}
	if c.CatalogRefreshMinutes < 0 {
		return fmt.Errorf("catalog refresh interval must not be negative, got %d", c.CatalogRefreshMinutes)
	}
	switch c.DefaultLanguage {
	case "en", "si", "ta":
	default:
		return fmt.Errorf("unsupported default language %q", c.DefaultLanguage)
	}
	return nil
}

// DeliveryCharge returns the configured default delivery charge. Load has
// already rejected unparseable values.
func (c *Config) DeliveryCharge() decimal.Decimal {
	charge, _ := c.deliveryCharge()
	return charge
}

func (c *Config) deliveryCharge() (decimal.Decimal, error) {
	charge, err := decimal.NewFromString(c.DefaultDeliveryCharge)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid default delivery charge %q: %w", c.DefaultDeliveryCharge, err)
	}
	if charge.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("default delivery charge must not be negative, got %s", c.DefaultDeliveryCharge)
	}
	return charge, nil
}
