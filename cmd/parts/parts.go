// Package parts handles catalog inspection and maintenance commands.
package parts

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"mecatech/parts-ledger/cmd/root"
	"mecatech/parts-ledger/internal/catalog"
	"mecatech/parts-ledger/internal/models"
)

// Cmd represents the parts command
var Cmd = &cobra.Command{
	Use:   "parts",
	Short: "Inspect and maintain the parts catalog",
}

var (
	flagName     string
	flagEspanol  string
	flagQty      int
	flagDealer   string
	flagConsumer string
	flagWeight   float64
)

var showCmd = &cobra.Command{
	Use:   "show <code>",
	Short: "Show one catalog entry",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		entry, ok, err := root.CatalogStore().Get(args[0])
		if err != nil {
			root.Log.Fatalf("Error reading catalog: %v", err)
		}
		if !ok {
			root.Log.Fatalf("Part '%s' not found", args[0])
		}
		printEntry(args[0], entry)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the catalog by code or name (empty query lists everything)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		results, err := root.CatalogStore().Search(query)
		if err != nil {
			root.Log.Fatalf("Error searching catalog: %v", err)
		}
		for _, r := range results {
			fmt.Printf("%-12s %-40s sell %s\n",
				r.Code, r.Entry.DisplayName(), r.Entry.SellPrice.StringFixed(2))
		}
		fmt.Printf("%d parts\n", len(results))
	},
}

var addCmd = &cobra.Command{
	Use:   "add <code>",
	Short: "Add a part to the catalog",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dealer, err := decimal.NewFromString(flagDealer)
		if err != nil {
			root.Log.Fatalf("Invalid dealer price '%s'", flagDealer)
		}

		in := catalog.EntryInput{
			Code:        args[0],
			Name:        flagName,
			QtyForBag:   flagQty,
			DealerPrice: dealer,
		}
		if flagEspanol != "" {
			in.Espanol = &flagEspanol
		}
		if flagConsumer != "" {
			consumer, err := decimal.NewFromString(flagConsumer)
			if err != nil {
				root.Log.Fatalf("Invalid consumer price '%s'", flagConsumer)
			}
			in.ConsumerPrice = &consumer
		}
		if cmd.Flags().Changed("weight") {
			in.Weight = &flagWeight
		}

		entry, err := root.CatalogStore().Add(in)
		if err != nil {
			root.Log.Fatalf("Error adding part: %v", err)
		}
		printEntry(args[0], entry)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <code>",
	Short: "Update fields of a catalog entry (derived costs are recomputed)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var changes catalog.FieldChanges
		if cmd.Flags().Changed("name") {
			changes.Name = &flagName
		}
		if cmd.Flags().Changed("espanol") {
			changes.Espanol = &flagEspanol
		}
		if cmd.Flags().Changed("qty") {
			changes.QtyForBag = &flagQty
		}
		if cmd.Flags().Changed("dealer") {
			dealer, err := decimal.NewFromString(flagDealer)
			if err != nil {
				root.Log.Fatalf("Invalid dealer price '%s'", flagDealer)
			}
			changes.DealerPrice = &dealer
		}
		if cmd.Flags().Changed("consumer") {
			consumer, err := decimal.NewFromString(flagConsumer)
			if err != nil {
				root.Log.Fatalf("Invalid consumer price '%s'", flagConsumer)
			}
			changes.ConsumerPrice = &consumer
		}
		if cmd.Flags().Changed("weight") {
			changes.Weight = &flagWeight
		}

		entry, err := root.CatalogStore().UpdateEntry(args[0], changes)
		if err != nil {
			root.Log.Fatalf("Error updating part: %v", err)
		}
		printEntry(args[0], entry)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <code>",
	Short: "Remove a part from the catalog",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := root.CatalogStore().Remove(args[0]); err != nil {
			root.Log.Fatalf("Error removing part: %v", err)
		}
		fmt.Printf("Part '%s' removed\n", args[0])
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog statistics",
	Run: func(cmd *cobra.Command, args []string) {
		stats, err := root.CatalogStore().Statistics()
		if err != nil {
			root.Log.Fatalf("Error reading catalog: %v", err)
		}
		fmt.Printf("Parts:        %d\n", stats.Count)
		fmt.Printf("With espanol: %d\n", stats.WithEspanol)
		if stats.Count > 0 {
			fmt.Printf("Dealer price: min %s / avg %s / max %s\n",
				stats.MinDealerPrice.StringFixed(2),
				stats.AvgDealerPrice.StringFixed(2),
				stats.MaxDealerPrice.StringFixed(2))
		}
	},
}

func printEntry(code string, entry models.CatalogEntry) {
	fmt.Printf("Code:          %s\n", code)
	fmt.Printf("Name:          %s\n", entry.Name)
	if entry.Espanol != nil {
		fmt.Printf("Espanol:       %s\n", *entry.Espanol)
	}
	fmt.Printf("Qty per bag:   %d\n", entry.QtyForBag)
	fmt.Printf("Dealer price:  %s\n", entry.DealerPrice.StringFixed(2))
	if entry.ConsumerPrice != nil {
		fmt.Printf("Consumer:      %s\n", entry.ConsumerPrice.StringFixed(2))
	}
	fmt.Printf("Total landed:  %s\n", entry.TotalInUSA.StringFixed(2))
	fmt.Printf("Cost (USD):    %s\n", entry.CostInUSAUSD.StringFixed(2))
	fmt.Printf("Final cost:    %s\n", entry.FinalCostUSA.StringFixed(2))
	if entry.Weight != nil {
		fmt.Printf("Weight (gr):   %.0f\n", *entry.Weight)
	}
	fmt.Printf("Shipping:      %s\n", entry.ShippingCost.StringFixed(2))
	fmt.Printf("Landed cost:   %s\n", entry.LandedCost.StringFixed(2))
	fmt.Printf("Sell price:    %s\n", entry.SellPrice.StringFixed(2))
	if entry.RefPrice != nil {
		fmt.Printf("Ref price:     %s (%s%%)\n",
			entry.RefPrice.StringFixed(2), entry.ReferencePercent.StringFixed(2))
	}
}

func init() {
	for _, c := range []*cobra.Command{addCmd, updateCmd} {
		c.Flags().StringVar(&flagName, "name", "", "Display name")
		c.Flags().StringVar(&flagEspanol, "espanol", "", "Localized name")
		c.Flags().IntVar(&flagQty, "qty", 1, "Quantity per bag")
		c.Flags().StringVar(&flagDealer, "dealer", "", "Dealer price")
		c.Flags().StringVar(&flagConsumer, "consumer", "", "Consumer price")
		c.Flags().Float64Var(&flagWeight, "weight", 0, "Weight in grams")
	}
	_ = addCmd.MarkFlagRequired("dealer")

	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(searchCmd)
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(removeCmd)
	Cmd.AddCommand(statsCmd)
}
