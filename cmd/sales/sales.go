// Package sales handles the transaction commands: record ledger entries
// and report balances and statistics.
package sales

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"mecatech/parts-ledger/cmd/root"
	"mecatech/parts-ledger/internal/ledger"
	"mecatech/parts-ledger/internal/models"
)

// Cmd represents the sales command
var Cmd = &cobra.Command{
	Use:   "sales",
	Short: "Record transactions and report balances",
}

var (
	flagPart   string
	flagAmount string
	flagNote   string

	flagFrom     string
	flagTo       string
	flagCustomer string
	flagKind     string
)

const dateOnlyLayout = "2006-01-02"

var recordCmd = &cobra.Command{
	Use:   "record <customer> <kind>",
	Short: "Record a purchase, payment or trade-in",
	Long: `Record appends one entry to the sales ledger. Kind is one of
purchase, payment or trade-in. Purchases and trade-ins need --part;
a purchase without --amount is priced at the catalog sell price, a
trade-in always records amount 0. Payments need a positive --amount.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		kind, err := models.ParseOperationKind(args[1])
		if err != nil {
			root.Log.Fatalf("Invalid operation kind '%s'", args[1])
		}

		var amount *decimal.Decimal
		if cmd.Flags().Changed("amount") {
			parsed, err := decimal.NewFromString(flagAmount)
			if err != nil {
				root.Log.Fatalf("Invalid amount '%s'", flagAmount)
			}
			amount = &parsed
		}

		entry, err := root.Manager().Record(args[0], kind, flagPart, amount, flagNote)
		if err != nil {
			root.Log.Fatalf("Error recording transaction: %v", err)
		}
		fmt.Printf("%s  %-20s %-10s %-12s %s\n",
			entry.Date, entry.Customer, string(entry.Kind), entry.PartCode,
			entry.Amount.StringFixed(2))
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance [customer]",
	Short: "Show one customer's balance, or every balance",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		manager := root.Manager()

		if len(args) == 1 {
			balance, err := manager.Balance(args[0])
			if err != nil {
				root.Log.Fatalf("Error computing balance: %v", err)
			}
			fmt.Printf("Purchases: %s\n", balance.Purchases.StringFixed(2))
			fmt.Printf("Payments:  %s\n", balance.Payments.StringFixed(2))
			fmt.Printf("Balance:   %s\n", balance.Balance.StringFixed(2))
			return
		}

		balances, err := manager.AllBalances()
		if err != nil {
			root.Log.Fatalf("Error computing balances: %v", err)
		}
		names := make([]string, 0, len(balances))
		for name := range balances {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%-20s %s\n", name, balances[name].Balance.StringFixed(2))
		}
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List ledger entries, optionally filtered",
	Run: func(cmd *cobra.Command, args []string) {
		query := ledger.Query{Customer: flagCustomer}

		if flagKind != "" {
			kind, err := models.ParseOperationKind(flagKind)
			if err != nil {
				root.Log.Fatalf("Invalid operation kind '%s'", flagKind)
			}
			query.Kind = kind
		}
		if flagFrom != "" {
			from, err := time.Parse(dateOnlyLayout, flagFrom)
			if err != nil {
				root.Log.Fatalf("Invalid --from date '%s' (want YYYY-MM-DD)", flagFrom)
			}
			query.From = &from
		}
		if flagTo != "" {
			to, err := time.Parse(dateOnlyLayout, flagTo)
			if err != nil {
				root.Log.Fatalf("Invalid --to date '%s' (want YYYY-MM-DD)", flagTo)
			}
			// Make --to inclusive of the whole day.
			to = to.Add(24*time.Hour - time.Second)
			query.To = &to
		}

		entries, err := root.Manager().ListTransactions(query)
		if err != nil {
			root.Log.Fatalf("Error reading ledger: %v", err)
		}
		for _, entry := range entries {
			fmt.Printf("%s  %-20s %-10s %-12s %10s  %s\n",
				entry.Date, entry.Customer, string(entry.Kind), entry.PartCode,
				entry.Amount.StringFixed(2), entry.Note)
		}
		fmt.Printf("%d entries\n", len(entries))
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show ledger statistics",
	Run: func(cmd *cobra.Command, args []string) {
		stats, err := root.Manager().Statistics()
		if err != nil {
			root.Log.Fatalf("Error reading ledger: %v", err)
		}
		fmt.Printf("Entries:         %d\n", stats.Total)
		for _, kind := range []models.OperationKind{
			models.OperationPurchase, models.OperationPayment, models.OperationTradeIn,
		} {
			fmt.Printf("  %-14s %d\n", string(kind)+":", stats.CountByKind[kind])
		}
		fmt.Printf("Purchases total: %s\n", stats.TotalPurchases.StringFixed(2))
		fmt.Printf("Payments total:  %s\n", stats.TotalPayments.StringFixed(2))
		fmt.Printf("Net balance:     %s\n", stats.NetBalance.StringFixed(2))
		fmt.Printf("Customers:       %d\n", stats.DistinctCustomers)
		fmt.Printf("Parts:           %d\n", stats.DistinctParts)
	},
}

func init() {
	recordCmd.Flags().StringVarP(&flagPart, "part", "p", "", "Part code (purchase and trade-in)")
	recordCmd.Flags().StringVarP(&flagAmount, "amount", "a", "", "Explicit amount")
	recordCmd.Flags().StringVarP(&flagNote, "note", "n", "", "Free-form note")

	listCmd.Flags().StringVar(&flagFrom, "from", "", "Earliest date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&flagTo, "to", "", "Latest date (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&flagCustomer, "customer", "", "Customer name")
	listCmd.Flags().StringVar(&flagKind, "kind", "", "Operation kind")

	Cmd.AddCommand(recordCmd)
	Cmd.AddCommand(balanceCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(statsCmd)
}
