package migrate

import (
	"context"
	"fmt"

	"github.com/Saymandev/samucha-storefront/pkg/config"
	"github.com/Saymandev/samucha-storefront/pkg/db"
	"github.com/Saymandev/samucha-storefront/pkg/db/models"
	"github.com/Saymandev/samucha-storefront/pkg/logger"
)

// MaybeRunDev executes migrations automatically when the app is running in dev
// mode and the feature flag is enabled. SQLite catalogs are created with gorm's
// AutoMigrate because the goose files target Postgres.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	if cfg.FeatureFlags.UseSQLite {
		logg.Info(ctx, "running gorm auto-migrate (sqlite)")
		return AutoMigrate(client)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	meta := map[string]any{"env": cfg.App.Env, "dir": DefaultDir}
	ctx = logg.WithFields(ctx, meta)
	logg.Info(ctx, "running Goose migrations (dev auto-run)")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "Goose migrations completed")
	return nil
}

// AutoMigrate creates the catalog tables from the gorm models.
func AutoMigrate(client *db.Client) error {
	if err := client.DB().AutoMigrate(&models.Product{}, &models.ProductVariant{}); err != nil {
		return fmt.Errorf("auto-migrate catalog: %w", err)
	}
	return nil
}
