// Package config provides Viper-based hierarchical configuration: defaults,
// an optional config.yaml, then PARTS_* environment variables. The pricing
// rates are read once here and handed to the pricing engine as immutable
// values; nothing else reads them from ambient state.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"mecatech/parts-ledger/internal/pricing"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Pricing struct {
		ImportTax      float64 `mapstructure:"import_tax" yaml:"import_tax"`
		ShippingTax    float64 `mapstructure:"shipping_tax" yaml:"shipping_tax"`
		CurrencyFactor float64 `mapstructure:"currency_factor" yaml:"currency_factor"`
		Margin         float64 `mapstructure:"margin" yaml:"margin"`
	} `mapstructure:"pricing" yaml:"pricing"`

	Freight struct {
		PerKg        float64 `mapstructure:"per_kg" yaml:"per_kg"`
		NoWeightCost float64 `mapstructure:"no_weight_cost" yaml:"no_weight_cost"`
	} `mapstructure:"freight" yaml:"freight"`

	Sale struct {
		ProfitMarginPct      float64 `mapstructure:"profit_margin_pct" yaml:"profit_margin_pct"`
		ReferenceExtra       float64 `mapstructure:"reference_extra" yaml:"reference_extra"`
		ReferenceExtraPrefix string  `mapstructure:"reference_extra_prefix" yaml:"reference_extra_prefix"`
	} `mapstructure:"sale" yaml:"sale"`

	Stores struct {
		Directory     string `mapstructure:"directory" yaml:"directory"`
		CatalogFile   string `mapstructure:"catalog_file" yaml:"catalog_file"`
		CustomersFile string `mapstructure:"customers_file" yaml:"customers_file"`
		LedgerFile    string `mapstructure:"ledger_file" yaml:"ledger_file"`
		AliasesFile   string `mapstructure:"aliases_file" yaml:"aliases_file"`
	} `mapstructure:"stores" yaml:"stores"`

	PriceList struct {
		Sheet        string `mapstructure:"sheet" yaml:"sheet"`
		WeightsSheet string `mapstructure:"weights_sheet" yaml:"weights_sheet"`
	} `mapstructure:"pricelist" yaml:"pricelist"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.parts-ledger")
	v.AddConfigPath(".parts-ledger")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("PARTS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars when the file is unreadable
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Pricing defaults
	v.SetDefault("pricing.import_tax", 0.17)
	v.SetDefault("pricing.shipping_tax", 0.12)
	v.SetDefault("pricing.currency_factor", 1.15)
	v.SetDefault("pricing.margin", 0.10)

	// Freight defaults
	v.SetDefault("freight.per_kg", 50.0)
	v.SetDefault("freight.no_weight_cost", 5.0)

	// Sale defaults
	v.SetDefault("sale.profit_margin_pct", 25.0)
	v.SetDefault("sale.reference_extra", 0.2)
	v.SetDefault("sale.reference_extra_prefix", "1000")

	// Store defaults
	v.SetDefault("stores.directory", "database")
	v.SetDefault("stores.catalog_file", "catalog.json")
	v.SetDefault("stores.customers_file", "clientes.json")
	v.SetDefault("stores.ledger_file", "ventas_pagos.csv")
	v.SetDefault("stores.aliases_file", "")

	// Price-list defaults
	v.SetDefault("pricelist.sheet", "CostoUSA")
	v.SetDefault("pricelist.weights_sheet", "Weights")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Pricing.ImportTax < 0 || config.Pricing.ShippingTax < 0 {
		return fmt.Errorf("pricing tax rates must not be negative")
	}
	if config.Pricing.CurrencyFactor <= 0 {
		return fmt.Errorf("pricing.currency_factor must be positive, got: %f", config.Pricing.CurrencyFactor)
	}
	if config.Pricing.Margin < 0 {
		return fmt.Errorf("pricing.margin must not be negative, got: %f", config.Pricing.Margin)
	}
	if config.Freight.PerKg < 0 || config.Freight.NoWeightCost < 0 {
		return fmt.Errorf("freight costs must not be negative")
	}
	if config.Sale.ProfitMarginPct < 0 {
		return fmt.Errorf("sale.profit_margin_pct must not be negative, got: %f", config.Sale.ProfitMarginPct)
	}

	return nil
}

// Rates converts the configured landed-cost parameters into the pricing
// engine's immutable rate struct.
func (c *Config) Rates() pricing.Rates {
	return pricing.Rates{
		ImportTax:      decimal.NewFromFloat(c.Pricing.ImportTax),
		ShippingTax:    decimal.NewFromFloat(c.Pricing.ShippingTax),
		CurrencyFactor: decimal.NewFromFloat(c.Pricing.CurrencyFactor),
		Margin:         decimal.NewFromFloat(c.Pricing.Margin),
	}
}

// FreightRates converts the configured freight parameters.
func (c *Config) FreightRates() pricing.FreightRates {
	return pricing.FreightRates{
		PerKg:        decimal.NewFromFloat(c.Freight.PerKg),
		NoWeightCost: decimal.NewFromFloat(c.Freight.NoWeightCost),
	}
}

// SaleRates converts the configured sale parameters.
func (c *Config) SaleRates() pricing.SaleRates {
	return pricing.SaleRates{
		ProfitMarginPct:      decimal.NewFromFloat(c.Sale.ProfitMarginPct),
		ReferenceExtra:       decimal.NewFromFloat(c.Sale.ReferenceExtra),
		ReferenceExtraPrefix: c.Sale.ReferenceExtraPrefix,
	}
}

// NewEngine builds a pricing engine from the configured rates.
func (c *Config) NewEngine() *pricing.Engine {
	return pricing.NewEngine(c.Rates(), c.FreightRates(), c.SaleRates())
}

// CatalogPath returns the full path of the catalog store file.
func (c *Config) CatalogPath() string {
	return filepath.Join(c.Stores.Directory, c.Stores.CatalogFile)
}

// CustomersPath returns the full path of the customer store file.
func (c *Config) CustomersPath() string {
	return filepath.Join(c.Stores.Directory, c.Stores.CustomersFile)
}

// LedgerPath returns the full path of the ledger store file.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Stores.Directory, c.Stores.LedgerFile)
}
