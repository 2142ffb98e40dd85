// Package pricing derives landed costs and sale prices from a dealer price
// and a fixed set of rate parameters. Every function is pure: for the same
// inputs and rates the outputs are identical, and no rounding is applied —
// display formatting is the presentation layer's concern.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"mecatech/parts-ledger/internal/storeerror"
)

// Rates holds the four process-wide parameters of the landed-cost chain.
// Loaded once from configuration and treated as immutable for the run.
type Rates struct {
	ImportTax      decimal.Decimal
	ShippingTax    decimal.Decimal
	CurrencyFactor decimal.Decimal
	Margin         decimal.Decimal
}

// FreightRates parameterizes the weight-based local freight cost.
type FreightRates struct {
	PerKg        decimal.Decimal // freight cost per kilogram
	NoWeightCost decimal.Decimal // flat cost when the weight is unknown
}

// SaleRates parameterizes the suggested sale price and the market reference
// price.
type SaleRates struct {
	ProfitMarginPct      decimal.Decimal // sale margin over landed cost, in percent
	ReferenceExtra       decimal.Decimal // extra reference-price factor for surcharged codes
	ReferenceExtraPrefix string          // code prefix the surcharge applies to
}

// Costs is the landed-cost chain derived from one dealer price.
type Costs struct {
	TotalLanded  decimal.Decimal
	CostInTarget decimal.Decimal
	FinalCost    decimal.Decimal
}

// Engine evaluates the pricing formulas for one immutable set of rates.
type Engine struct {
	rates   Rates
	freight FreightRates
	sale    SaleRates
}

// NewEngine builds an engine over the given rates.
func NewEngine(rates Rates, freight FreightRates, sale SaleRates) *Engine {
	return &Engine{rates: rates, freight: freight, sale: sale}
}

// Rates returns the landed-cost rates the engine was built with.
func (e *Engine) Rates() Rates {
	return e.rates
}

var one = decimal.NewFromInt(1)

// DeriveCosts applies the landed-cost chain:
//
//	total_landed = dealer_price * (1 + import_tax + shipping_tax)
//	cost_in_target = total_landed * currency_factor
//	final_cost = cost_in_target * (1 + margin)
//
// A non-positive dealer price is rejected with an InvalidInputError.
func (e *Engine) DeriveCosts(dealerPrice decimal.Decimal) (Costs, error) {
	if !dealerPrice.IsPositive() {
		return Costs{}, &storeerror.InvalidInputError{
			Field: "dealer_price",
			Value: dealerPrice.String(),
		}
	}

	totalLanded := dealerPrice.Mul(one.Add(e.rates.ImportTax).Add(e.rates.ShippingTax))
	costInTarget := totalLanded.Mul(e.rates.CurrencyFactor)
	finalCost := costInTarget.Mul(one.Add(e.rates.Margin))

	return Costs{
		TotalLanded:  totalLanded,
		CostInTarget: costInTarget,
		FinalCost:    finalCost,
	}, nil
}

// ShippingCost returns the weight-based freight cost, or the flat no-weight
// cost when the weight is unknown or zero.
func (e *Engine) ShippingCost(weightGrams *float64) decimal.Decimal {
	if weightGrams == nil || *weightGrams <= 0 {
		return e.freight.NoWeightCost
	}
	weight := decimal.NewFromFloat(*weightGrams)
	return weight.Mul(e.freight.PerKg).Div(decimal.NewFromInt(1000))
}

// LandedCost is the total local cost: freight plus the final imported cost.
func (e *Engine) LandedCost(shippingCost, finalCost decimal.Decimal) decimal.Decimal {
	return shippingCost.Add(finalCost)
}

// SellPrice is the suggested sale price: landed cost marked up by the
// configured profit margin percentage.
func (e *Engine) SellPrice(landedCost decimal.Decimal) decimal.Decimal {
	markup := one.Add(e.sale.ProfitMarginPct.Div(decimal.NewFromInt(100)))
	return landedCost.Mul(markup)
}

// RefPrice is the market reference price derived from the consumer price.
// Codes carrying the configured prefix get the extra reference factor.
// Returns nil when no consumer price is known.
func (e *Engine) RefPrice(code string, consumerPrice *decimal.Decimal) *decimal.Decimal {
	if consumerPrice == nil {
		return nil
	}
	ref := consumerPrice.Mul(e.rates.CurrencyFactor)
	if e.sale.ReferenceExtraPrefix != "" && strings.HasPrefix(code, e.sale.ReferenceExtraPrefix) {
		ref = ref.Mul(one.Add(e.sale.ReferenceExtra))
	}
	return &ref
}

// ReferencePercent is how far the sell price sits above or below the
// reference price, in percent. Zero when no reference price exists.
func (e *Engine) ReferencePercent(sellPrice decimal.Decimal, refPrice *decimal.Decimal) decimal.Decimal {
	if refPrice == nil || refPrice.IsZero() {
		return decimal.Zero
	}
	return sellPrice.Div(*refPrice).Sub(one).Mul(decimal.NewFromInt(100))
}
