package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"mecatech/parts-ledger/internal/logging"
	"mecatech/parts-ledger/internal/models"
	"mecatech/parts-ledger/internal/pricelist"
	"mecatech/parts-ledger/internal/pricing"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// fallbackName is used when a row carries no display name.
const fallbackName = "Sin nombre"

// Warning is a non-fatal problem with a single price-list row. The batch
// continues; the caller decides how to surface these.
type Warning struct {
	Row    int // 1-based data row number
	Code   string
	Reason string
}

func (w Warning) String() string {
	if w.Code != "" {
		return fmt.Sprintf("row %d (%s): %s", w.Row, w.Code, w.Reason)
	}
	return fmt.Sprintf("row %d: %s", w.Row, w.Reason)
}

// EntryInput is the raw material for one catalog entry before derivation.
type EntryInput struct {
	Code          string
	Name          string
	Espanol       *string
	QtyForBag     int
	DealerPrice   decimal.Decimal
	ConsumerPrice *decimal.Decimal
	Weight        *float64
}

// deriveEntry runs the full pricing chain over one input and assembles the
// catalog entry. The only error condition is a non-positive dealer price.
func deriveEntry(engine *pricing.Engine, in EntryInput) (models.CatalogEntry, error) {
	costs, err := engine.DeriveCosts(in.DealerPrice)
	if err != nil {
		return models.CatalogEntry{}, err
	}

	name := in.Name
	if name == "" {
		name = fallbackName
	}
	qty := in.QtyForBag
	if qty < 1 {
		qty = 1
	}

	shipping := engine.ShippingCost(in.Weight)
	landed := engine.LandedCost(shipping, costs.FinalCost)
	sell := engine.SellPrice(landed)
	ref := engine.RefPrice(in.Code, in.ConsumerPrice)

	return models.CatalogEntry{
		Name:             name,
		Espanol:          in.Espanol,
		QtyForBag:        qty,
		DealerPrice:      in.DealerPrice,
		ConsumerPrice:    in.ConsumerPrice,
		TotalInUSA:       costs.TotalLanded,
		CostInUSAUSD:     costs.CostInTarget,
		FinalCostUSA:     costs.FinalCost,
		Weight:           in.Weight,
		ShippingCost:     shipping,
		LandedCost:       landed,
		SellPrice:        sell,
		RefPrice:         ref,
		ReferencePercent: engine.ReferencePercent(sell, ref),
	}, nil
}

// Builder turns price-list rows into a catalog.
type Builder struct {
	engine  *pricing.Engine
	aliases AliasTable
	weights map[string]float64
}

// NewBuilder builds a catalog builder over the given engine and alias table.
func NewBuilder(engine *pricing.Engine, aliases AliasTable) *Builder {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &Builder{engine: engine, aliases: aliases}
}

// SetWeights supplies per-code weights (grams) used for freight cost when a
// row carries no weight column.
func (b *Builder) SetWeights(weights map[string]float64) {
	b.weights = weights
}

// ParseWeights extracts a code→weight map from weight-sheet rows. Codes with
// a missing, unparsable or zero weight are skipped; they fall back to the
// flat no-weight freight cost.
func (b *Builder) ParseWeights(rows []pricelist.Row) map[string]float64 {
	weights := make(map[string]float64)
	for _, row := range rows {
		resolved := b.aliases.ResolveRow(row)
		code := strings.TrimSpace(resolved[FieldCode])
		if code == "" {
			continue
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(resolved[FieldWeight]), 64)
		if err != nil || weight <= 0 {
			continue
		}
		weights[code] = weight
	}
	return weights
}

// BuildFromRows builds a catalog from price-list rows. Rows without a
// resolvable code or usable dealer price are skipped with a warning; a later
// row for an already-seen code wins and is reported as a duplicate warning.
func (b *Builder) BuildFromRows(rows []pricelist.Row) (*Catalog, []Warning) {
	cat := NewCatalog()
	var warnings []Warning

	for i, row := range rows {
		rowNum := i + 1
		resolved := b.aliases.ResolveRow(row)

		code := strings.TrimSpace(resolved[FieldCode])
		if code == "" {
			warnings = append(warnings, Warning{Row: rowNum, Reason: "no code column resolved"})
			continue
		}

		rawDealer := strings.TrimSpace(resolved[FieldDealer])
		if rawDealer == "" {
			warnings = append(warnings, Warning{Row: rowNum, Code: code, Reason: "no dealer price column resolved"})
			continue
		}
		dealer, err := decimal.NewFromString(rawDealer)
		if err != nil {
			warnings = append(warnings, Warning{Row: rowNum, Code: code,
				Reason: fmt.Sprintf("unparsable dealer price '%s'", rawDealer)})
			continue
		}

		in := EntryInput{
			Code:        code,
			Name:        strings.TrimSpace(resolved[FieldName]),
			DealerPrice: dealer,
			QtyForBag:   1,
		}

		if espanol := strings.TrimSpace(resolved[FieldEspanol]); espanol != "" {
			in.Espanol = &espanol
		}
		if rawQty := strings.TrimSpace(resolved[FieldQty]); rawQty != "" {
			if qty, err := strconv.Atoi(rawQty); err == nil && qty >= 1 {
				in.QtyForBag = qty
			}
		}
		if rawConsumer := strings.TrimSpace(resolved[FieldConsumer]); rawConsumer != "" {
			if consumer, err := decimal.NewFromString(rawConsumer); err == nil {
				in.ConsumerPrice = &consumer
			}
		}
		if rawWeight := strings.TrimSpace(resolved[FieldWeight]); rawWeight != "" {
			if weight, err := strconv.ParseFloat(rawWeight, 64); err == nil && weight > 0 {
				in.Weight = &weight
			}
		}
		if in.Weight == nil && b.weights != nil {
			if weight, ok := b.weights[code]; ok {
				w := weight
				in.Weight = &w
			}
		}

		entry, err := deriveEntry(b.engine, in)
		if err != nil {
			warnings = append(warnings, Warning{Row: rowNum, Code: code, Reason: err.Error()})
			continue
		}

		if cat.Has(code) {
			warnings = append(warnings, Warning{Row: rowNum, Code: code,
				Reason: "duplicate code, keeping this row"})
		}
		cat.Set(code, entry)
	}

	log.WithFields(logrus.Fields{
		logging.FieldCount: cat.Len(),
		"warnings":         len(warnings),
	}).Debug("Built catalog from price-list rows")
	return cat, warnings
}
