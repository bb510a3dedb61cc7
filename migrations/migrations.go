// Package migrations applies the schema migrations under this directory with
// golang-migrate. The service runs them at startup when database.auto_migrate
// is set; operators can also drive them through the Manager directly.
package migrations

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/MattHalloran/NLN-sub003/internal/config"
)

// Manager wraps golang-migrate with the service's database config.
type Manager struct {
	cfg    config.DatabaseConfig
	logger *zap.Logger
}

func NewManager(cfg config.DatabaseConfig, logger *zap.Logger) *Manager {
	return &Manager{cfg: cfg, logger: logger.Named("migrations")}
}

func (m *Manager) migrator() (*migrate.Migrate, error) {
	migrator, err := migrate.New(fmt.Sprintf("file://%s", m.cfg.MigrationsPath), m.cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return migrator, nil
}

// Up applies all pending migrations. Already being current is not an error.
func (m *Manager) Up() error {
	migrator, err := m.migrator()
	if err != nil {
		return err
	}
	defer migrator.Close()

	err = migrator.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("no migrations to apply")
	} else {
		m.logger.Info("migrations applied")
	}
	return nil
}

// Down rolls back all migrations.
func (m *Manager) Down() error {
	migrator, err := m.migrator()
	if err != nil {
		return err
	}
	defer migrator.Close()

	err = migrator.Down()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to rollback migrations: %w", err)
	}
	m.logger.Info("migrations rolled back")
	return nil
}

// Version returns the current schema version and whether it is dirty.
func (m *Manager) Version() (uint, bool, error) {
	migrator, err := m.migrator()
	if err != nil {
		return 0, false, err
	}
	defer migrator.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to read migration version: %w", err)
	}
	return version, dirty, nil
}
