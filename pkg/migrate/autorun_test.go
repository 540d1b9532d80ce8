package migrate_test

import (
	"context"
	"io"
	"testing"

	"github.com/wahiba-atelier/atelier-backend/pkg/config"
	"github.com/wahiba-atelier/atelier-backend/pkg/logger"
	"github.com/wahiba-atelier/atelier-backend/pkg/migrate"
)

func TestMaybeRunDevSkipsOutsideDev(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "migrate-test", Output: io.Discard})
	for _, cfg := range []*config.Config{
		nil,
		{App: config.AppConfig{Env: "prod"}, FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true}},
		{App: config.AppConfig{Env: "dev"}, FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: false}},
	} {
		if err := migrate.MaybeRunDev(context.Background(), cfg, logg, nil); err != nil {
			t.Fatalf("expected no-op, got %v", err)
		}
	}
}
