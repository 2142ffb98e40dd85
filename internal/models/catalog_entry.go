package models

import "github.com/shopspring/decimal"

// CatalogEntry is one priced part, keyed by its code in the catalog store.
// The cost and price fields below dealer/consumer price are derived: they are
// functions of the input prices, the weight and the configured rates, and are
// recomputed whenever any of those inputs change.
type CatalogEntry struct {
	Name          string           `json:"name"`
	Espanol       *string          `json:"espanol"`
	QtyForBag     int              `json:"qty_for_bag"`
	DealerPrice   decimal.Decimal  `json:"dealer_price"`
	ConsumerPrice *decimal.Decimal `json:"consumer_price"`

	// Landed-cost chain derived from the dealer price.
	TotalInUSA   decimal.Decimal `json:"total_in_usa"`
	CostInUSAUSD decimal.Decimal `json:"cost_in_usa_usd"`
	FinalCostUSA decimal.Decimal `json:"final_cost_usa"`

	// Local-market section: freight, final landed cost and sale pricing.
	Weight           *float64         `json:"weight"`
	ShippingCost     decimal.Decimal  `json:"shipping_cost"`
	LandedCost       decimal.Decimal  `json:"landed_cost"`
	SellPrice        decimal.Decimal  `json:"sell_price"`
	RefPrice         *decimal.Decimal `json:"ref_price"`
	ReferencePercent decimal.Decimal  `json:"reference_percent"`
}

// DisplayName returns the localized name when present, the base name
// otherwise.
func (e CatalogEntry) DisplayName() string {
	if e.Espanol != nil && *e.Espanol != "" {
		return *e.Espanol
	}
	return e.Name
}
