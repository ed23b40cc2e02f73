package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/MrJamesThe3rd/tally/internal/config"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies all pending migrations for the driver. It opens its own
// connection because closing the migrate instance closes the database.
func Migrate(driver, connStr string) error {
	name, err := DriverName(driver)
	if err != nil {
		return err
	}

	if driver == config.DriverSQLite {
		connStr = sqliteDSN(connStr)
	}

	migrateDB, err := sql.Open(name, connStr)
	if err != nil {
		return fmt.Errorf("opening migration database: %w", err)
	}
	defer migrateDB.Close()

	var target migratedb.Driver

	switch driver {
	case config.DriverPostgres:
		target, err = migratepgx.WithInstance(migrateDB, &migratepgx.Config{})
	case config.DriverSQLite:
		target, err = sqlite.WithInstance(migrateDB, &sqlite.Config{})
	}

	if err != nil {
		return fmt.Errorf("creating %s migration driver: %w", driver, err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("creating iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}
