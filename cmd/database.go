package cmd

import (
	"github.com/rdx-works/incentives-sidecar/internal/config"
	"github.com/rdx-works/incentives-sidecar/internal/logger"
	"github.com/rdx-works/incentives-sidecar/pkg/postgres"
	"github.com/rdx-works/incentives-sidecar/pkg/postgres/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runDatabaseCmd = &cobra.Command{
	Use:   "database",
	Short: "Create the configured database if needed and run all migrations",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.NewConfig()

		l, _ := logger.NewLogger(&logger.LoggerConfig{Debug: cfg.Debug})

		pgConfig := postgres.PostgresConfigFromDbConfig(&cfg.DatabaseConfig)
		pgConfig.CreateDbIfNotExists = true

		pg, err := postgres.NewPostgres(pgConfig)
		if err != nil {
			l.Sugar().Fatalw("failed to setup postgres connection", zap.Error(err))
		}

		grm, err := postgres.NewGormFromPostgresConnection(pg.Db)
		if err != nil {
			l.Sugar().Fatalw("failed to create gorm instance", zap.Error(err))
		}

		migrator := migrations.NewMigrator(pg.Db, grm, l)
		if err := migrator.MigrateAll(); err != nil {
			l.Sugar().Fatalw("failed to run database migrations", zap.Error(err))
		}
		l.Sugar().Infow("database migrations complete")
	},
}
