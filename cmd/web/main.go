package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/goal-master/pkg/server"
	"github.com/de-tools/goal-master/pkg/services/analytics"
	"github.com/de-tools/goal-master/pkg/services/config"
	"github.com/de-tools/goal-master/pkg/store/cache"
	"github.com/de-tools/goal-master/pkg/store/goals"
	"github.com/de-tools/goal-master/pkg/store/sqldb"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for GoalMaster analytics",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a goalmaster YAML config file (defaults and GOALMASTER_* variables apply otherwise)")

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

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := sqldb.NewDB(ctx, sqldb.Settings{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN,
	})
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", cfg.Database.Driver, err)
	}
	defer db.Close()

	goalStore, err := goals.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create goal store: %w", err)
	}

	summaryCache := newCache(ctx, &logger, cfg.Cache.RedisURL)
	defer summaryCache.Close()

	service, err := analytics.NewService(analytics.Options{
		Store:    goalStore,
		Cache:    summaryCache,
		CacheTTL: cfg.Cache.TTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create analytics service: %w", err)
	}

	logger.Info().
		Str("driver", db.Driver()).
		Bool("cache", cfg.Cache.RedisURL != "").
		Msg("dependencies ready")

	webAPI := server.NewWebAPI(server.Config{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
		Dependencies: server.Dependencies{
			Analytics: service,
			Logger:    logger,
		},
	})

	return webAPI.Start(ctx)
}

func newCache(ctx context.Context, logger *zerolog.Logger, url string) cache.Store {
	if url == "" {
		return cache.NewNoopStore()
	}

	store, err := cache.NewRedisStore(ctx, url)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, summaries will not be cached")
		return cache.NewNoopStore()
	}
	return store
}
