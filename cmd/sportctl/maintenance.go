package main

import (
	"alcyxob/sportlink/internal/repository/mongo"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var clearConfirmed bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every application collection",
	Long: `Drop every SportLink collection in the configured database.

Uploaded objects in the bucket are left alone. Requires --yes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearConfirmed {
			return errors.New("refusing to drop collections without --yes")
		}
		if err := mongo.DropAll(cmd.Context(), app.db); err != nil {
			return fmt.Errorf("drop collections: %w", err)
		}
		app.logger.Info("collections dropped", zap.String("database", app.cfg.Database.Name))
		fmt.Fprintf(cmd.OutOrStdout(), "Dropped %d collections from %s\n", len(mongo.CollectionNames), app.cfg.Database.Name)
		return nil
	},
}

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the indexes of every collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := mongo.EnsureIndexes(cmd.Context(), app.db)
		if len(failed) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Indexes are up to date")
			return nil
		}
		names := make([]string, 0, len(failed))
		for name := range failed {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			app.logger.Error("index creation failed", zap.String("collection", name), zap.Error(failed[name]))
		}
		return fmt.Errorf("index creation failed for %d collections: %v", len(failed), names)
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearConfirmed, "yes", false, "confirm dropping all collections")
}
