package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mecatech/parts-ledger/internal/storeerror"
)

func newTestEngine() *Engine {
	return NewEngine(
		Rates{
			ImportTax:      decimal.RequireFromString("0.17"),
			ShippingTax:    decimal.RequireFromString("0.12"),
			CurrencyFactor: decimal.RequireFromString("1.15"),
			Margin:         decimal.RequireFromString("0.10"),
		},
		FreightRates{
			PerKg:        decimal.RequireFromString("50"),
			NoWeightCost: decimal.RequireFromString("5"),
		},
		SaleRates{
			ProfitMarginPct:      decimal.RequireFromString("25"),
			ReferenceExtra:       decimal.RequireFromString("0.2"),
			ReferenceExtraPrefix: "1000",
		},
	)
}

// TestDeriveCosts checks the landed-cost chain against hand-computed values.
func TestDeriveCosts(t *testing.T) {
	tests := []struct {
		name         string
		dealerPrice  string
		totalLanded  string
		costInTarget string
		finalCost    string
	}{
		{
			name:         "Reference dealer price",
			dealerPrice:  "1883.00",
			totalLanded:  "2429.07",
			costInTarget: "2793.4305",
			finalCost:    "3072.77355",
		},
		{
			name:         "Unit dealer price",
			dealerPrice:  "1",
			totalLanded:  "1.29",
			costInTarget: "1.4835",
			finalCost:    "1.63185",
		},
		{
			name:         "Small fractional price",
			dealerPrice:  "0.50",
			totalLanded:  "0.645",
			costInTarget: "0.74175",
			finalCost:    "0.815925",
		},
	}

	engine := newTestEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			costs, err := engine.DeriveCosts(decimal.RequireFromString(tt.dealerPrice))
			require.NoError(t, err)
			assert.Equal(t, tt.totalLanded, costs.TotalLanded.String())
			assert.Equal(t, tt.costInTarget, costs.CostInTarget.String())
			assert.Equal(t, tt.finalCost, costs.FinalCost.String())
		})
	}
}

// TestDeriveCostsDeterministic checks that repeated derivations of the same
// input produce identical outputs.
func TestDeriveCostsDeterministic(t *testing.T) {
	engine := newTestEngine()
	price := decimal.RequireFromString("1883.00")

	first, err := engine.DeriveCosts(price)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := engine.DeriveCosts(price)
		require.NoError(t, err)
		assert.True(t, first.TotalLanded.Equal(again.TotalLanded))
		assert.True(t, first.CostInTarget.Equal(again.CostInTarget))
		assert.True(t, first.FinalCost.Equal(again.FinalCost))
	}
}

// TestDeriveCostsRejectsNonPositive checks that zero and negative dealer
// prices are rejected with an InvalidInputError.
func TestDeriveCostsRejectsNonPositive(t *testing.T) {
	engine := newTestEngine()

	for _, raw := range []string{"0", "-5", "-0.01"} {
		_, err := engine.DeriveCosts(decimal.RequireFromString(raw))
		assert.Error(t, err, "dealer price %s should be rejected", raw)
		assert.True(t, storeerror.IsInvalidInput(err))
	}
}

// TestShippingCost checks the weight-based freight formula and the flat
// no-weight fallback.
func TestShippingCost(t *testing.T) {
	engine := newTestEngine()

	t.Run("Nil weight falls back to flat cost", func(t *testing.T) {
		assert.Equal(t, "5", engine.ShippingCost(nil).String())
	})

	t.Run("Zero weight falls back to flat cost", func(t *testing.T) {
		zero := 0.0
		assert.Equal(t, "5", engine.ShippingCost(&zero).String())
	})

	t.Run("Weight in grams scales per kilogram", func(t *testing.T) {
		grams := 2000.0
		assert.Equal(t, "100", engine.ShippingCost(&grams).String())
	})

	t.Run("Sub-kilogram weight", func(t *testing.T) {
		grams := 250.0
		assert.Equal(t, "12.5", engine.ShippingCost(&grams).String())
	})
}

// TestSellPrice checks the profit markup over the landed cost.
func TestSellPrice(t *testing.T) {
	engine := newTestEngine()

	sell := engine.SellPrice(decimal.RequireFromString("100"))
	assert.Equal(t, "125", sell.String())
}

// TestRefPrice checks the reference price derivation, including the prefix
// surcharge.
func TestRefPrice(t *testing.T) {
	engine := newTestEngine()

	t.Run("No consumer price yields no reference", func(t *testing.T) {
		assert.Nil(t, engine.RefPrice("2000123", nil))
	})

	t.Run("Plain code applies currency factor only", func(t *testing.T) {
		consumer := decimal.RequireFromString("100")
		ref := engine.RefPrice("2000123", &consumer)
		require.NotNil(t, ref)
		assert.Equal(t, "115", ref.String())
	})

	t.Run("Surcharged prefix applies the extra factor", func(t *testing.T) {
		consumer := decimal.RequireFromString("100")
		ref := engine.RefPrice("1000123", &consumer)
		require.NotNil(t, ref)
		assert.Equal(t, "138", ref.String())
	})
}

// TestReferencePercent checks the sell-over-reference percentage.
func TestReferencePercent(t *testing.T) {
	engine := newTestEngine()

	t.Run("Sell above reference", func(t *testing.T) {
		ref := decimal.RequireFromString("100")
		pct := engine.ReferencePercent(decimal.RequireFromString("125"), &ref)
		assert.Equal(t, "25", pct.String())
	})

	t.Run("Sell below reference", func(t *testing.T) {
		ref := decimal.RequireFromString("200")
		pct := engine.ReferencePercent(decimal.RequireFromString("150"), &ref)
		assert.Equal(t, "-25", pct.String())
	})

	t.Run("No reference yields zero", func(t *testing.T) {
		pct := engine.ReferencePercent(decimal.RequireFromString("125"), nil)
		assert.True(t, pct.IsZero())
	})
}
