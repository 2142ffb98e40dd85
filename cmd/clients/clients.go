// Package clients handles customer record commands.
package clients

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"mecatech/parts-ledger/cmd/root"
	"mecatech/parts-ledger/internal/models"
)

// Cmd represents the clients command
var Cmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage customer records",
}

var (
	flagPassword string
	flagEmail    string
	flagPhone    string
	flagAddress  string
	flagRename   string
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a customer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		extras := collectExtras(cmd)
		customer, err := root.CustomerStore().Add(args[0], flagPassword, extras)
		if err != nil {
			root.Log.Fatalf("Error adding customer: %v", err)
		}
		printCustomer(customer)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a customer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := root.CustomerStore().Remove(args[0]); err != nil {
			root.Log.Fatalf("Error removing customer: %v", err)
		}
		fmt.Printf("Customer '%s' removed\n", args[0])
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <name>",
	Short: "Update fields of a customer record",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		changes := collectExtras(cmd)
		if cmd.Flags().Changed("password") {
			changes["password"] = flagPassword
		}
		if cmd.Flags().Changed("rename") {
			changes["nombre"] = flagRename
		}
		if len(changes) == 0 {
			root.Log.Fatal("Nothing to update; pass at least one field flag")
		}

		customer, err := root.CustomerStore().Update(args[0], changes)
		if err != nil {
			root.Log.Fatalf("Error updating customer: %v", err)
		}
		printCustomer(customer)
	},
}

var findCmd = &cobra.Command{
	Use:   "find <name>",
	Short: "Look a customer up by exact name (case-insensitive)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		customer, ok, err := root.CustomerStore().Find(args[0])
		if err != nil {
			root.Log.Fatalf("Error reading customers: %v", err)
		}
		if !ok {
			root.Log.Fatalf("Customer '%s' not found", args[0])
		}
		printCustomer(customer)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every customer",
	Run: func(cmd *cobra.Command, args []string) {
		customers, err := root.CustomerStore().ListAll()
		if err != nil {
			root.Log.Fatalf("Error reading customers: %v", err)
		}
		for _, c := range customers {
			fmt.Println(c.Name)
		}
		fmt.Printf("%d customers\n", len(customers))
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Search customers by name substring",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		customers, err := root.CustomerStore().SearchByText(args[0])
		if err != nil {
			root.Log.Fatalf("Error searching customers: %v", err)
		}
		for _, c := range customers {
			fmt.Println(c.Name)
		}
		fmt.Printf("%d customers\n", len(customers))
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <name> <password>",
	Short: "Check a customer's password",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ok, err := root.CustomerStore().VerifyCredential(args[0], args[1])
		if err != nil {
			root.Log.Fatalf("Error reading customers: %v", err)
		}
		if ok {
			fmt.Println("OK")
		} else {
			fmt.Println("DENIED")
		}
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show customer store statistics",
	Run: func(cmd *cobra.Command, args []string) {
		stats, err := root.CustomerStore().Statistics()
		if err != nil {
			root.Log.Fatalf("Error reading customers: %v", err)
		}
		fmt.Printf("Customers:    %d\n", stats.Total)
		fmt.Printf("With email:   %d\n", stats.WithEmail)
		fmt.Printf("With phone:   %d\n", stats.WithPhone)
		fmt.Printf("With address: %d\n", stats.WithAddress)
	},
}

func collectExtras(cmd *cobra.Command) map[string]string {
	extras := make(map[string]string)
	if cmd.Flags().Changed("email") {
		extras["email"] = flagEmail
	}
	if cmd.Flags().Changed("phone") {
		extras["telefono"] = flagPhone
	}
	if cmd.Flags().Changed("address") {
		extras["direccion"] = flagAddress
	}
	return extras
}

func printCustomer(c models.Customer) {
	fmt.Printf("Name: %s\n", c.Name)
	keys := make([]string, 0, len(c.Extras))
	for k := range c.Extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s: %s\n", k, c.Extras[k])
	}
}

func init() {
	for _, c := range []*cobra.Command{addCmd, updateCmd} {
		c.Flags().StringVar(&flagPassword, "password", "", "Customer password")
		c.Flags().StringVar(&flagEmail, "email", "", "Email address")
		c.Flags().StringVar(&flagPhone, "phone", "", "Phone number")
		c.Flags().StringVar(&flagAddress, "address", "", "Postal address")
	}
	updateCmd.Flags().StringVar(&flagRename, "rename", "", "New customer name")

	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(removeCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(findCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(searchCmd)
	Cmd.AddCommand(verifyCmd)
	Cmd.AddCommand(statsCmd)
}
