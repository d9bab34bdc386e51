package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Register migrations and seeders via their init() funcs.
	_ "github.com/hostelease/hostelease/database/migrations"
	_ "github.com/hostelease/hostelease/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hostelease",
	Short: "HostelEase campus delivery backend",
	Long:  "HostelEase is the campus-delivery e-commerce backend: catalog, orders, parcel pickups and payments.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(queueWorkCmd)
}
