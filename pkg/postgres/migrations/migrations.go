// Package migrations applies the schema migrations in order. Each migration
// lives in its own sub-package named <timestamp>_<name> and is registered
// here; applied migrations are tracked in the migrations table.
package migrations

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
	_202508251200_initialSchema "github.com/rdx-works/incentives-sidecar/pkg/postgres/migrations/202508251200_initialSchema"
	_202508271010_activityCatalog "github.com/rdx-works/incentives-sidecar/pkg/postgres/migrations/202508271010_activityCatalog"
	_202508281530_tradingVolume "github.com/rdx-works/incentives-sidecar/pkg/postgres/migrations/202508281530_tradingVolume"
	_202508311015_userMultipliers "github.com/rdx-works/incentives-sidecar/pkg/postgres/migrations/202508311015_userMultipliers"
	_202508311030_snapshotActivities "github.com/rdx-works/incentives-sidecar/pkg/postgres/migrations/202508311030_snapshotActivities"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ISqlMigration interface {
	Up(db *sql.DB, grm *gorm.DB) error
	GetName() string
}

type Migrator struct {
	Db     *sql.DB
	GDb    *gorm.DB
	Logger *zap.Logger
}

func NewMigrator(db *sql.DB, gDb *gorm.DB, l *zap.Logger) *Migrator {
	m := &Migrator{
		Db:     db,
		GDb:    gDb,
		Logger: l,
	}
	m.initializeMigrationTable()
	return m
}

func (m *Migrator) initializeMigrationTable() {
	query := `
		create table if not exists migrations (
			name text primary key,
			created_at timestamp with time zone default current_timestamp,
			updated_at timestamp with time zone default null
		)
	`
	result := m.GDb.Exec(query)
	if result.Error != nil {
		m.Logger.Sugar().Fatalw("Failed to create migrations table", zap.Error(result.Error))
	}
}

func (m *Migrator) MigrateAll() error {
	migrations := []ISqlMigration{
		&_202508251200_initialSchema.Migration{},
		&_202508271010_activityCatalog.Migration{},
		&_202508281530_tradingVolume.Migration{},
		&_202508311015_userMultipliers.Migration{},
		&_202508311030_snapshotActivities.Migration{},
	}

	for _, migration := range migrations {
		if err := m.Migrate(migration); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) Migrate(migration ISqlMigration) error {
	name := migration.GetName()

	migrated, err := m.hasRunMigration(name)
	if err != nil {
		return errors.Wrapf(err, "failed to check migration '%s'", name)
	}
	if migrated {
		return nil
	}

	if err := migration.Up(m.Db, m.GDb); err != nil {
		return errors.Wrapf(err, "failed to run migration '%s'", name)
	}

	state := &Migration{
		Name:      name,
		CreatedAt: time.Now(),
	}
	result := m.GDb.Model(&Migration{}).Create(state)
	if result.Error != nil {
		return errors.Wrapf(result.Error, "failed to record migration '%s'", name)
	}
	m.Logger.Sugar().Infow("Successfully ran migration", zap.String("name", name))
	return nil
}

func (m *Migrator) hasRunMigration(name string) (bool, error) {
	var count int64
	result := m.GDb.Model(&Migration{}).Where("name = ?", name).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

type Migration struct {
	Name      string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
