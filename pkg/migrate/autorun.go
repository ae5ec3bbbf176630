package migrate

import (
	"context"
	"fmt"

	"github.com/micronstore/storefront/pkg/config"
	"github.com/micronstore/storefront/pkg/db"
	"github.com/micronstore/storefront/pkg/db/models"
	"github.com/micronstore/storefront/pkg/logger"
)

// MaybeRunDev brings the schema up to date when the app runs in dev mode with
// auto-migrate enabled. SQLite databases are created from the gorm models
// since the SQL migrations target postgres.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	driver := db.Driver(cfg.DB)
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": driver})

	if driver == "sqlite" {
		logg.Info(ctx, "auto-migrating sqlite schema from models")
		if err := client.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("automigrate sqlite: %w", err)
		}
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(ctx, "running Goose migrations (dev auto-run)")
	if err := Run(ctx, sqlDB, driver, "", "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "Goose migrations completed")
	return nil
}
