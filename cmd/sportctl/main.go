// Command sportctl runs maintenance tasks against the SportLink database.
package main

import (
	"alcyxob/sportlink/internal/config"
	"alcyxob/sportlink/internal/logging"
	"alcyxob/sportlink/internal/repository/mongo"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// env is what every subcommand works with; filled in by the root pre-run.
type env struct {
	cfg    config.Config
	logger *zap.Logger
	client *mongodrv.Client
	db     *mongodrv.Database
}

var (
	configPath string
	app        env
)

var rootCmd = &cobra.Command{
	Use:           "sportctl",
	Short:         "Maintenance commands for the SportLink database",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		app.cfg = cfg
		app.logger = logging.Must(cfg.Log.Level, cfg.Log.Format)

		client, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			return fmt.Errorf("connect to MongoDB: %w", err)
		}
		app.client = client
		app.db = client.Database(cfg.Database.Name)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app.client != nil {
			if err := mongo.DisconnectDB(app.client); err != nil {
				app.logger.Warn("disconnect failed", zap.Error(err))
			}
		}
		if app.logger != nil {
			_ = app.logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory holding config.yaml and .env")
	rootCmd.AddCommand(seedCmd, clearCmd, indexesCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
