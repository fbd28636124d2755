package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tempohq/tempo/config"
	"github.com/tempohq/tempo/database/indexes"
	"github.com/tempohq/tempo/database/seeders"
	"github.com/tempohq/tempo/pkg/database"
)

// bootDB loads config and opens the database connection.
func bootDB(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect(ctx)
}

// tempo db:index
var dbIndexCmd = &cobra.Command{
	Use:   "db:index",
	Short: "Create the MongoDB indexes the app relies on",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := bootDB(ctx); err != nil {
			return err
		}
		defer database.Disconnect(context.Background()) //nolint:errcheck

		fmt.Println("Creating indexes…")
		if err := indexes.Ensure(ctx); err != nil {
			return err
		}
		fmt.Println("Done.")
		return nil
	},
}

// tempo db:seed
var dbSeedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Seed the database with demo data",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := bootDB(ctx); err != nil {
			return err
		}
		defer database.Disconnect(context.Background()) //nolint:errcheck

		fmt.Println("Seeding…")
		return seeders.RunAll(ctx, database.DB)
	},
}
