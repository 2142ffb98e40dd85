// Package models defines the record types persisted by the catalog, customer
// and ledger stores.
package models

import "github.com/shopspring/decimal"

func init() {
	// The persisted catalog is a JSON document with numeric price fields.
	// decimal marshals to a quoted string by default, which would change
	// the documented store shape.
	decimal.MarshalJSONWithoutQuotes = true
}

// DateTimeLayout is the timestamp format used in the ledger CSV.
const DateTimeLayout = "2006-01-02 15:04:05"
