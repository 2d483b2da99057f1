package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/de-tools/tag-atlas/pkg/server"
	"github.com/de-tools/tag-atlas/pkg/services/compliance"
	"github.com/de-tools/tag-atlas/pkg/services/config"
	"github.com/de-tools/tag-atlas/pkg/services/session"
	"github.com/de-tools/tag-atlas/pkg/store/csvfile"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the tag compliance dashboard server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "tag-atlas.yaml",
		"Path to the configuration file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	inv, err := csvfile.Load(cfg.InventoryPath)
	if err != nil {
		return fmt.Errorf("failed to read inventory file: %w", err)
	}

	engine := compliance.NewEngine(compliance.Options{TagFields: cfg.TagFields})
	table, err := engine.Load(ctx, inv.Header, inv.Rows)
	if err != nil {
		return fmt.Errorf("failed to load inventory: %w", err)
	}

	logger.Info().
		Str("path", cfg.InventoryPath).
		Int("resources", table.Len()).
		Msg("inventory loaded")
	for _, col := range table.Schema.MissingColumns {
		logger.Warn().Str("column", col).Msg("inventory is missing a recognized column")
	}

	sessions := session.NewManager(engine, table)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	api := server.NewWebAPI(logger, server.Config{
		Addr:            addr,
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Sessions: sessions,
			Engine:   engine,
		},
	})

	logger.Info().Msgf("starting server on %s", addr)
	return api.Start()
}
