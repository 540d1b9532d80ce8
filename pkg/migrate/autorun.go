package migrate

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/wahiba-atelier/atelier-backend/pkg/config"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
)

type gormSource interface {
	DB() *gorm.DB
}

// MaybeRunDev brings the catalog, booking and outbox tables up to date on
// start-up. It only acts in dev with WAHIBA_AUTO_MIGRATE enabled; every other
// environment migrates through cmd/migrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client gormSource) error {
	if cfg == nil || !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	files, err := EmbeddedFiles()
	if err != nil {
		return fmt.Errorf("listing embedded migrations: %w", err)
	}
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "migrations": len(files)})
	logg.Info(ctx, "applying embedded migrations")
	if err := RunEmbedded(ctx, sqlDB, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "embedded migrations applied")
	return nil
}
