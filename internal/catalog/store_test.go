package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mecatech/parts-ledger/internal/pricelist"
	"mecatech/parts-ledger/internal/storeerror"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "catalog.json"), newTestEngine())
}

// TestStoreLoadMissingFile checks that a missing store file is an empty
// catalog, not an error.
func TestStoreLoadMissingFile(t *testing.T) {
	store := newTestStore(t)

	cat, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cat.Len())
}

// TestStoreReplaceRoundTrip checks that a persisted catalog reloads with the
// same entries in the same order.
func TestStoreReplaceRoundTrip(t *testing.T) {
	store := newTestStore(t)

	builder := NewBuilder(newTestEngine(), nil)
	cat, warnings := builder.BuildFromRows([]pricelist.Row{
		{"Code": "Z-900", "Name": "Last first", "Dealer Price": "12.50"},
		{"Code": "A-100", "Name": "First last", "Dealer Price": "3.75"},
		{"Code": "M-500", "Name": "Middle", "Dealer Price": "8.00"},
	})
	require.Empty(t, warnings)
	require.NoError(t, store.Replace(cat))

	reloaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cat.Codes(), reloaded.Codes())

	original, _ := cat.Get("Z-900")
	persisted, ok := reloaded.Get("Z-900")
	require.True(t, ok)
	assert.True(t, original.SellPrice.Equal(persisted.SellPrice))
	assert.True(t, original.DealerPrice.Equal(persisted.DealerPrice))
}

// TestStoreAdd checks insertion and the duplicate-code error.
func TestStoreAdd(t *testing.T) {
	store := newTestStore(t)

	entry, err := store.Add(EntryInput{
		Code:        "A-1",
		Name:        "Gasket",
		QtyForBag:   1,
		DealerPrice: decimal.RequireFromString("10"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Gasket", entry.Name)
	assert.False(t, entry.SellPrice.IsZero())

	_, err = store.Add(EntryInput{
		Code:        "A-1",
		Name:        "Again",
		DealerPrice: decimal.RequireFromString("20"),
	})
	assert.True(t, storeerror.IsDuplicateKey(err))
}

// TestStoreUpdateEntryRecomputes checks that changing a pricing input
// recomputes every derived field.
func TestStoreUpdateEntryRecomputes(t *testing.T) {
	store := newTestStore(t)

	before, err := store.Add(EntryInput{
		Code:        "A-1",
		Name:        "Gasket",
		DealerPrice: decimal.RequireFromString("10"),
	})
	require.NoError(t, err)

	dealer := decimal.RequireFromString("20")
	after, err := store.UpdateEntry("A-1", FieldChanges{DealerPrice: &dealer})
	require.NoError(t, err)

	assert.True(t, after.DealerPrice.Equal(dealer))
	assert.True(t, after.TotalInUSA.GreaterThan(before.TotalInUSA))
	assert.True(t, after.SellPrice.GreaterThan(before.SellPrice))
}

// TestStoreUpdateEntryNameOnly checks that a non-pricing change leaves the
// derived fields untouched.
func TestStoreUpdateEntryNameOnly(t *testing.T) {
	store := newTestStore(t)

	before, err := store.Add(EntryInput{
		Code:        "A-1",
		Name:        "Gasket",
		DealerPrice: decimal.RequireFromString("10"),
	})
	require.NoError(t, err)

	name := "Head gasket"
	after, err := store.UpdateEntry("A-1", FieldChanges{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Head gasket", after.Name)
	assert.True(t, before.SellPrice.Equal(after.SellPrice))
}

// TestStoreNotFound checks the not-found errors of update, remove and get.
func TestStoreNotFound(t *testing.T) {
	store := newTestStore(t)

	name := "anything"
	_, err := store.UpdateEntry("missing", FieldChanges{Name: &name})
	assert.True(t, storeerror.IsNotFoundKind(err, RecordKind))

	err = store.Remove("missing")
	assert.True(t, storeerror.IsNotFoundKind(err, RecordKind))

	_, ok, err := store.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestStoreRemove checks deletion and persistence of the removal.
func TestStoreRemove(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Add(EntryInput{Code: "A-1", Name: "Gasket", DealerPrice: decimal.RequireFromString("10")})
	require.NoError(t, err)
	require.NoError(t, store.Remove("A-1"))

	_, ok, err := store.Get("A-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestStoreSearch checks substring matching over code, name and the
// localized name.
func TestStoreSearch(t *testing.T) {
	store := newTestStore(t)

	espanol := "Arandela"
	_, err := store.Add(EntryInput{Code: "90201-HP5", Name: "Washer", Espanol: &espanol, DealerPrice: decimal.RequireFromString("1")})
	require.NoError(t, err)
	_, err = store.Add(EntryInput{Code: "14721-MN4", Name: "Valve", DealerPrice: decimal.RequireFromString("2")})
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		codes []string
	}{
		{"Empty query matches all", "", []string{"90201-HP5", "14721-MN4"}},
		{"Code substring", "90201", []string{"90201-HP5"}},
		{"Name substring, case-insensitive", "wash", []string{"90201-HP5"}},
		{"Localized name substring", "arand", []string{"90201-HP5"}},
		{"No match", "piston", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := store.Search(tt.query)
			require.NoError(t, err)
			var codes []string
			for _, r := range results {
				codes = append(codes, r.Code)
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

// TestStoreStatistics checks the aggregate numbers.
func TestStoreStatistics(t *testing.T) {
	store := newTestStore(t)

	espanol := "Arandela"
	_, err := store.Add(EntryInput{Code: "A-1", Name: "Washer", Espanol: &espanol, DealerPrice: decimal.RequireFromString("10")})
	require.NoError(t, err)
	_, err = store.Add(EntryInput{Code: "A-2", Name: "Valve", DealerPrice: decimal.RequireFromString("30")})
	require.NoError(t, err)

	stats, err := store.Statistics()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 1, stats.WithEspanol)
	assert.Equal(t, "10", stats.MinDealerPrice.String())
	assert.Equal(t, "20", stats.AvgDealerPrice.String())
	assert.Equal(t, "30", stats.MaxDealerPrice.String())
}

// TestStoreFileContents checks the on-disk document: one JSON object keyed by
// code with numeric price fields.
func TestStoreFileContents(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Add(EntryInput{Code: "A-1", Name: "Gasket", DealerPrice: decimal.RequireFromString("10")})
	require.NoError(t, err)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `"A-1"`)
	assert.Contains(t, text, `"dealer_price": 10`)
	assert.NotContains(t, text, `"dealer_price": "10"`)
}
