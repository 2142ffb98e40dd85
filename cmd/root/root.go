// Package root contains the root command and the shared wiring every
// subcommand uses: configuration, logging and the three stores.
package root

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mecatech/parts-ledger/internal/catalog"
	"mecatech/parts-ledger/internal/config"
	"mecatech/parts-ledger/internal/customers"
	"mecatech/parts-ledger/internal/fileutils"
	"mecatech/parts-ledger/internal/ledger"
	"mecatech/parts-ledger/internal/logging"
	"mecatech/parts-ledger/internal/sales"
)

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the loaded application configuration, available after
	// PersistentPreRun.
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "parts-ledger",
		Short: "A CLI tool to price a parts catalog and track customer sales and payments.",
		Long: `parts-ledger builds a priced parts catalog from a tabular price list,
manages customer records and keeps a flat sales/payments ledger with
per-customer balances.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to parts-ledger!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv(Log)

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to initialize configuration: %v", err)
			}
			Cfg = cfg

			Log = config.ConfigureLoggingFromConfig(cfg)
			logging.SetLogger(Log)

			// Push the configured logger into the packages that log
			fileutils.SetLogger(Log)
			catalog.SetLogger(Log)
			customers.SetLogger(Log)
			ledger.SetLogger(Log)
			sales.SetLogger(Log)
		},
	}
)

// CatalogStore builds the catalog store from the loaded configuration.
func CatalogStore() *catalog.Store {
	return catalog.NewStore(Cfg.CatalogPath(), Cfg.NewEngine())
}

// CustomerStore builds the customer store from the loaded configuration.
func CustomerStore() *customers.Store {
	return customers.NewStore(Cfg.CustomersPath())
}

// LedgerStore builds the ledger store from the loaded configuration.
func LedgerStore() *ledger.Store {
	return ledger.NewStore(Cfg.LedgerPath())
}

// Manager wires a transaction manager over the three configured stores.
func Manager() *sales.Manager {
	return sales.NewManager(CustomerStore(), CatalogStore(), LedgerStore())
}
