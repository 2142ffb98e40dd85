// Package catalog builds and stores the priced parts catalog: it resolves
// heterogeneous price-list columns to canonical fields, derives costs via the
// pricing engine, and persists the result as one ordered JSON object keyed by
// part code.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"mecatech/parts-ledger/internal/fileutils"
)

// Canonical field names the builder resolves price-list columns to.
const (
	FieldCode     = "code"
	FieldName     = "name"
	FieldEspanol  = "espanol"
	FieldQty      = "qty_for_bag"
	FieldDealer   = "dealer_price"
	FieldConsumer = "consumer_price"
	FieldWeight   = "weight"
)

// AliasTable maps lowercased column headers to canonical field names.
// Matching is a case-insensitive exact match, never a substring heuristic.
type AliasTable map[string]string

// DefaultAliases returns the built-in column alias table covering the known
// price-list header spellings.
func DefaultAliases() AliasTable {
	return AliasTable{
		"code": FieldCode,

		"name": FieldName,

		"español": FieldEspanol,
		"espanol": FieldEspanol,

		"q.ty for bag": FieldQty,
		"qty for bag":  FieldQty,
		"qty_for_bag":  FieldQty,

		"dealer":       FieldDealer,
		"dealer price": FieldDealer,
		"dealer_price": FieldDealer,

		"consumer":       FieldConsumer,
		"consumer price": FieldConsumer,
		"consumer_price": FieldConsumer,

		"peso en gr":    FieldWeight,
		"weight":        FieldWeight,
		"weight_grams":  FieldWeight,
		"weight in gr":  FieldWeight,
	}
}

// LoadAliases merges alias overrides from a YAML file into the defaults.
// The file maps canonical field names to lists of extra column headers:
//
//	dealer_price:
//	  - "Prezzo Rivenditore"
//
// A missing path returns the defaults unchanged.
func LoadAliases(path string) (AliasTable, error) {
	table := DefaultAliases()
	if path == "" || !fileutils.FileExists(path) {
		return table, nil
	}

	data, err := fileutils.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading alias file: %w", err)
	}

	var overrides map[string][]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("error parsing alias file %s: %w", path, err)
	}

	for canonical, aliases := range overrides {
		switch canonical {
		case FieldCode, FieldName, FieldEspanol, FieldQty, FieldDealer, FieldConsumer, FieldWeight:
		default:
			return nil, fmt.Errorf("alias file %s maps unknown field '%s'", path, canonical)
		}
		for _, alias := range aliases {
			table[strings.ToLower(strings.TrimSpace(alias))] = canonical
		}
	}

	return table, nil
}

// Resolve maps a raw column header to its canonical field name.
func (t AliasTable) Resolve(header string) (string, bool) {
	canonical, ok := t[strings.ToLower(strings.TrimSpace(header))]
	return canonical, ok
}

// ResolveRow maps a header-keyed row to canonical field names. When several
// headers alias to the same canonical field, the first non-empty value in
// sorted header order wins, so the outcome is stable across runs.
func (t AliasTable) ResolveRow(row map[string]string) map[string]string {
	headers := make([]string, 0, len(row))
	for header := range row {
		headers = append(headers, header)
	}
	sort.Strings(headers)

	resolved := make(map[string]string)
	for _, header := range headers {
		canonical, ok := t.Resolve(header)
		if !ok {
			continue
		}
		if existing, present := resolved[canonical]; present && existing != "" {
			continue
		}
		resolved[canonical] = row[header]
	}
	return resolved
}
