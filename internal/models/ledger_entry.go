package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OperationKind classifies a ledger entry. The kind alone determines the
// balance effect: purchases increase a customer's balance, payments decrease
// it, trade-ins leave it unchanged. Amounts are stored unsigned.
type OperationKind string

const (
	OperationPurchase OperationKind = "purchase"
	OperationPayment  OperationKind = "payment"
	OperationTradeIn  OperationKind = "trade-in"
)

// ParseOperationKind validates a raw kind string.
func ParseOperationKind(s string) (OperationKind, error) {
	switch OperationKind(s) {
	case OperationPurchase, OperationPayment, OperationTradeIn:
		return OperationKind(s), nil
	}
	return "", fmt.Errorf("unknown operation kind '%s'", s)
}

// RequiresPart reports whether entries of this kind must reference a catalog
// part.
func (k OperationKind) RequiresPart() bool {
	return k == OperationPurchase || k == OperationTradeIn
}

// LedgerEntry is one immutable row in the sales/payments ledger. Entries are
// only ever appended; there is no update operation.
type LedgerEntry struct {
	Date     string          `csv:"Date"`
	Customer string          `csv:"Customer"`
	PartCode string          `csv:"PartCode"`
	PartName string          `csv:"PartName"`
	Amount   decimal.Decimal `csv:"Amount"`
	Kind     OperationKind   `csv:"OperationKind"`
	Note     string          `csv:"Note"`
}

// Timestamp parses the stored date string.
func (e LedgerEntry) Timestamp() (time.Time, error) {
	return time.Parse(DateTimeLayout, e.Date)
}
