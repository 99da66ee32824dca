package main

import (
	"context"

	"github.com/propinspect/inspection-planner/internal/config"
	"github.com/propinspect/inspection-planner/internal/store"
	"github.com/propinspect/inspection-planner/pkg/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, teardown, err := setup()
		if err != nil {
			return err
		}
		defer teardown()

		zap.S().Info("Starting migration")
		defer zap.S().Info("Db migrated")

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Fatalw("initializing data store", "error", err)
		}

		s := store.NewStore(db)
		defer s.Close()

		if err := migrate(cmd.Context(), cfg, db, s); err != nil {
			zap.S().Fatalw("running migration", "error", err)
		}

		return nil
	},
}

// migrate applies the goose migrations on postgres. sqlite databases are
// created from the models.
func migrate(ctx context.Context, cfg *config.Config, db *gorm.DB, s store.Store) error {
	if cfg.Database.Type == "pgsql" {
		return migrations.MigrateStore(db, cfg.Service.MigrationFolder)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return s.InitialMigration(ctx)
}
