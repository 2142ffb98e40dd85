package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseOperationKind checks the accepted kinds and the rejection of
// anything else.
func TestParseOperationKind(t *testing.T) {
	for _, raw := range []string{"purchase", "payment", "trade-in"} {
		kind, err := ParseOperationKind(raw)
		require.NoError(t, err)
		assert.Equal(t, OperationKind(raw), kind)
	}

	for _, raw := range []string{"", "refund", "Purchase", "tradein"} {
		_, err := ParseOperationKind(raw)
		assert.Error(t, err, "kind '%s' should be rejected", raw)
	}
}

// TestRequiresPart checks which kinds reference a catalog part.
func TestRequiresPart(t *testing.T) {
	assert.True(t, OperationPurchase.RequiresPart())
	assert.True(t, OperationTradeIn.RequiresPart())
	assert.False(t, OperationPayment.RequiresPart())
}

// TestTimestamp checks the stored date format round trip.
func TestTimestamp(t *testing.T) {
	entry := LedgerEntry{Date: "2026-03-15 10:30:00"}

	ts, err := entry.Timestamp()
	require.NoError(t, err)
	assert.Equal(t, 2026, ts.Year())
	assert.Equal(t, 10, ts.Hour())
	assert.Equal(t, entry.Date, ts.Format(DateTimeLayout))

	_, err = LedgerEntry{Date: "15/03/2026"}.Timestamp()
	assert.Error(t, err)
}
