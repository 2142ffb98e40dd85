package sales

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mecatech/parts-ledger/internal/catalog"
	"mecatech/parts-ledger/internal/customers"
	"mecatech/parts-ledger/internal/ledger"
	"mecatech/parts-ledger/internal/models"
	"mecatech/parts-ledger/internal/pricing"
	"mecatech/parts-ledger/internal/storeerror"
)

func newTestEngine() *pricing.Engine {
	return pricing.NewEngine(
		pricing.Rates{
			ImportTax:      decimal.RequireFromString("0.17"),
			ShippingTax:    decimal.RequireFromString("0.12"),
			CurrencyFactor: decimal.RequireFromString("1.15"),
			Margin:         decimal.RequireFromString("0.10"),
		},
		pricing.FreightRates{
			PerKg:        decimal.RequireFromString("50"),
			NoWeightCost: decimal.RequireFromString("5"),
		},
		pricing.SaleRates{
			ProfitMarginPct:      decimal.RequireFromString("25"),
			ReferenceExtra:       decimal.RequireFromString("0.2"),
			ReferenceExtraPrefix: "1000",
		},
	)
}

type fixture struct {
	manager    *Manager
	ledgerPath string
}

// newFixture wires a manager over temp stores with one customer and one part,
// and a fixed clock.
func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()

	customerStore := customers.NewStore(filepath.Join(dir, "clientes.json"))
	_, err := customerStore.Add("Juan", "1234", nil)
	require.NoError(t, err)

	catalogStore := catalog.NewStore(filepath.Join(dir, "catalog.json"), newTestEngine())
	espanol := "Arandela"
	_, err = catalogStore.Add(catalog.EntryInput{
		Code:        "90201-HP5",
		Name:        "Washer",
		Espanol:     &espanol,
		DealerPrice: decimal.RequireFromString("10"),
	})
	require.NoError(t, err)

	ledgerPath := filepath.Join(dir, "ventas_pagos.csv")
	manager := NewManager(customerStore, catalogStore, ledger.NewStore(ledgerPath))
	manager.SetClock(func() time.Time {
		return time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	})

	return fixture{manager: manager, ledgerPath: ledgerPath}
}

// TestRecordPaymentAndPurchase checks the balance after a payment and a
// purchase: purchases add, payments subtract.
func TestRecordPaymentAndPurchase(t *testing.T) {
	f := newFixture(t)

	payment := decimal.RequireFromString("500")
	entry, err := f.manager.Record("Juan", models.OperationPayment, "", &payment, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15 10:30:00", entry.Date)
	assert.True(t, entry.Amount.Equal(payment))

	purchase := decimal.RequireFromString("150")
	_, err = f.manager.Record("juan", models.OperationPurchase, "90201-HP5", &purchase, "")
	require.NoError(t, err)

	balance, err := f.manager.Balance("Juan")
	require.NoError(t, err)
	assert.Equal(t, "150", balance.Purchases.String())
	assert.Equal(t, "500", balance.Payments.String())
	assert.Equal(t, "-350", balance.Balance.String())
}

// TestRecordUnknownCustomerWritesNothing checks that a failed validation
// leaves the ledger untouched.
func TestRecordUnknownCustomerWritesNothing(t *testing.T) {
	f := newFixture(t)

	amount := decimal.RequireFromString("100")
	_, err := f.manager.Record("Nobody", models.OperationPayment, "", &amount, "")
	assert.True(t, storeerror.IsNotFoundKind(err, customers.RecordKind))

	_, statErr := os.Stat(f.ledgerPath)
	assert.True(t, os.IsNotExist(statErr), "ledger file must not be created by a failed record")
}

// TestRecordPurchaseDefaultsToSellPrice checks that a purchase without an
// explicit amount is priced at the catalog sell price.
func TestRecordPurchaseDefaultsToSellPrice(t *testing.T) {
	f := newFixture(t)

	entry, err := f.manager.Record("Juan", models.OperationPurchase, "90201-HP5", nil, "")
	require.NoError(t, err)

	// dealer 10 -> final cost 16.3185, plus flat freight 5, marked up 25%.
	assert.Equal(t, "26.648125", entry.Amount.String())
	assert.Equal(t, "90201-HP5", entry.PartCode)
	assert.Equal(t, "Arandela", entry.PartName)
}

// TestRecordPurchaseUnknownPart checks the part not-found error.
func TestRecordPurchaseUnknownPart(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Record("Juan", models.OperationPurchase, "XX-999", nil, "")
	assert.True(t, storeerror.IsNotFoundKind(err, catalog.RecordKind))

	_, err = f.manager.Record("Juan", models.OperationPurchase, "", nil, "")
	assert.True(t, storeerror.IsNotFoundKind(err, catalog.RecordKind))
}

// TestRecordTradeInForcesZero checks that a trade-in records amount zero even
// when an amount is supplied, and never moves the balance.
func TestRecordTradeInForcesZero(t *testing.T) {
	f := newFixture(t)

	supplied := decimal.RequireFromString("999")
	entry, err := f.manager.Record("Juan", models.OperationTradeIn, "90201-HP5", &supplied, "swap")
	require.NoError(t, err)
	assert.True(t, entry.Amount.IsZero())

	balance, err := f.manager.Balance("Juan")
	require.NoError(t, err)
	assert.True(t, balance.Balance.IsZero())
}

// TestRecordInvalidAmounts checks the amount validation of payments and
// purchases.
func TestRecordInvalidAmounts(t *testing.T) {
	f := newFixture(t)

	t.Run("Payment without amount", func(t *testing.T) {
		_, err := f.manager.Record("Juan", models.OperationPayment, "", nil, "")
		assert.True(t, storeerror.IsInvalidAmount(err))
	})

	t.Run("Negative payment", func(t *testing.T) {
		amount := decimal.RequireFromString("-10")
		_, err := f.manager.Record("Juan", models.OperationPayment, "", &amount, "")
		assert.True(t, storeerror.IsInvalidAmount(err))
	})

	t.Run("Zero purchase amount", func(t *testing.T) {
		amount := decimal.Zero
		_, err := f.manager.Record("Juan", models.OperationPurchase, "90201-HP5", &amount, "")
		assert.True(t, storeerror.IsInvalidAmount(err))
	})
}

// TestRecordUnknownKind checks the kind validation.
func TestRecordUnknownKind(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Record("Juan", models.OperationKind("refund"), "", nil, "")
	assert.True(t, storeerror.IsInvalidInput(err))
}

// TestAllBalances checks per-customer grouping keyed by the stored name.
func TestAllBalances(t *testing.T) {
	f := newFixture(t)

	payment := decimal.RequireFromString("500")
	_, err := f.manager.Record("Juan", models.OperationPayment, "", &payment, "")
	require.NoError(t, err)

	purchase := decimal.RequireFromString("200")
	_, err = f.manager.Record("JUAN", models.OperationPurchase, "90201-HP5", &purchase, "")
	require.NoError(t, err)

	balances, err := f.manager.AllBalances()
	require.NoError(t, err)
	require.Len(t, balances, 1)

	// Both entries land under the stored name regardless of input casing.
	balance, ok := balances["Juan"]
	require.True(t, ok)
	assert.Equal(t, "-300", balance.Balance.String())
}

// TestStatistics checks the ledger-wide aggregates.
func TestStatistics(t *testing.T) {
	f := newFixture(t)

	payment := decimal.RequireFromString("500")
	_, err := f.manager.Record("Juan", models.OperationPayment, "", &payment, "")
	require.NoError(t, err)

	purchase := decimal.RequireFromString("150")
	_, err = f.manager.Record("Juan", models.OperationPurchase, "90201-HP5", &purchase, "")
	require.NoError(t, err)

	_, err = f.manager.Record("Juan", models.OperationTradeIn, "90201-HP5", nil, "")
	require.NoError(t, err)

	stats, err := f.manager.Statistics()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.CountByKind[models.OperationPurchase])
	assert.Equal(t, 1, stats.CountByKind[models.OperationPayment])
	assert.Equal(t, 1, stats.CountByKind[models.OperationTradeIn])
	assert.Equal(t, "150", stats.TotalPurchases.String())
	assert.Equal(t, "500", stats.TotalPayments.String())
	assert.Equal(t, "-350", stats.NetBalance.String())
	assert.Equal(t, 1, stats.DistinctCustomers)
	assert.Equal(t, 1, stats.DistinctParts)
}

// TestListTransactions checks the query pass-through to the ledger.
func TestListTransactions(t *testing.T) {
	f := newFixture(t)

	payment := decimal.RequireFromString("500")
	_, err := f.manager.Record("Juan", models.OperationPayment, "", &payment, "")
	require.NoError(t, err)

	purchase := decimal.RequireFromString("150")
	_, err = f.manager.Record("Juan", models.OperationPurchase, "90201-HP5", &purchase, "")
	require.NoError(t, err)

	entries, err := f.manager.ListTransactions(ledger.Query{Kind: models.OperationPurchase})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "90201-HP5", entries[0].PartCode)
}
