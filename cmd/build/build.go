// Package build handles the catalog build command: read a tabular price
// list, derive every cost and price, and persist the catalog store.
package build

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mecatech/parts-ledger/cmd/root"
	"mecatech/parts-ledger/internal/catalog"
	"mecatech/parts-ledger/internal/pricelist"
)

var (
	inputFile    string
	sheetName    string
	weightsSheet string
)

// Cmd represents the build command
var Cmd = &cobra.Command{
	Use:   "build",
	Short: "Build the parts catalog from a price list",
	Long: `Build reads a tabular price list (Excel workbook or headered CSV),
derives landed costs and sale prices for every part, and rewrites the
catalog store wholesale.`,
	Run: buildFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Price list file (.xlsx or .csv)")
	Cmd.Flags().StringVarP(&sheetName, "sheet", "s", "", "Sheet to read (defaults to the configured sheet)")
	Cmd.Flags().StringVarP(&weightsSheet, "weights-sheet", "w", "", "Weights sheet (defaults to the configured sheet)")
	_ = Cmd.MarkFlagRequired("input")
}

func newReader(path string) pricelist.Reader {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return pricelist.NewCSVReader()
	}
	return pricelist.NewExcelReader()
}

func buildFunc(cmd *cobra.Command, args []string) {
	root.Log.Infof("Building catalog from %s", inputFile)

	reader := newReader(inputFile)

	sheet := sheetName
	if sheet == "" {
		sheet = root.Cfg.PriceList.Sheet
	}
	weights := weightsSheet
	if weights == "" {
		weights = root.Cfg.PriceList.WeightsSheet
	}

	sheets, err := reader.ListSheets(inputFile)
	if err != nil {
		root.Log.Fatalf("Error reading price list: %v", err)
	}
	available := make(map[string]bool, len(sheets))
	for _, s := range sheets {
		available[s] = true
	}
	if !available[sheet] {
		// CSV price lists expose a single synthetic sheet; fall back to it.
		if len(sheets) == 1 {
			sheet = sheets[0]
		} else {
			root.Log.Fatalf("Sheet '%s' not found; available: %v", sheet, sheets)
		}
	}

	aliases, err := catalog.LoadAliases(root.Cfg.Stores.AliasesFile)
	if err != nil {
		root.Log.Fatalf("Error loading column aliases: %v", err)
	}

	builder := catalog.NewBuilder(root.Cfg.NewEngine(), aliases)

	if available[weights] {
		weightRows, err := reader.ReadRows(inputFile, weights)
		if err != nil {
			root.Log.Warnf("Error reading weights sheet '%s': %v", weights, err)
		} else {
			parsed := builder.ParseWeights(weightRows)
			builder.SetWeights(parsed)
			root.Log.Infof("Loaded weights for %d codes", len(parsed))
		}
	}

	rows, err := reader.ReadRows(inputFile, sheet)
	if err != nil {
		root.Log.Fatalf("Error reading sheet '%s': %v", sheet, err)
	}

	cat, warnings := builder.BuildFromRows(rows)
	for _, w := range warnings {
		root.Log.Warnf("Price list: %s", w)
	}

	store := root.CatalogStore()
	if err := store.Replace(cat); err != nil {
		root.Log.Fatalf("Error writing catalog store: %v", err)
	}

	fmt.Printf("Catalog written to %s: %d parts, %d row warnings\n",
		store.Path(), cat.Len(), len(warnings))
}
