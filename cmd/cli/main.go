package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/de-tools/goal-master/pkg/runtime/terminal"
	"github.com/de-tools/goal-master/pkg/runtime/terminal/export"
	"github.com/de-tools/goal-master/pkg/services/analytics"
	"github.com/de-tools/goal-master/pkg/services/config"
	"github.com/de-tools/goal-master/pkg/store/cache"
	"github.com/de-tools/goal-master/pkg/store/goals"
	"github.com/de-tools/goal-master/pkg/store/sqldb"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	cfg, err := config.LoadConfig(os.Getenv("GOALMASTER_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cli := terminal.NewCLI(terminal.Options{
		OpenStore: func(ctx context.Context) (goals.Store, func() error, error) {
			db, err := sqldb.NewDB(ctx, sqldb.Settings{Driver: cfg.Database.Driver, DSN: cfg.Database.DSN})
			if err != nil {
				return nil, nil, err
			}
			s, err := goals.NewStore(db)
			if err != nil {
				_ = db.Close()
				return nil, nil, err
			}
			if cfg.Cache.RedisURL == "" {
				return s, db.Close, nil
			}

			summaryCache, err := cache.NewRedisStore(ctx, cfg.Cache.RedisURL)
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("redis unavailable, cached summaries will not be invalidated")
				return s, db.Close, nil
			}
			closeAll := func() error {
				return errors.Join(summaryCache.Close(), db.Close())
			}
			return analytics.NewInvalidatingStore(s, summaryCache), closeAll, nil
		},
		NewUploader: func(ctx context.Context) (export.Uploader, error) {
			return export.NewS3Uploader(ctx, cfg.Export.AWSProfile, cfg.Export.AWSRegion)
		},
		Output: os.Stdout,
	})

	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
