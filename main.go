package main

import (
	"fmt"
	"os"

	"mecatech/parts-ledger/cmd/build"
	"mecatech/parts-ledger/cmd/clients"
	"mecatech/parts-ledger/cmd/parts"
	"mecatech/parts-ledger/cmd/root"
	"mecatech/parts-ledger/cmd/sales"
)

func init() {
	root.Cmd.AddCommand(build.Cmd)
	root.Cmd.AddCommand(parts.Cmd)
	root.Cmd.AddCommand(clients.Cmd)
	root.Cmd.AddCommand(sales.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
