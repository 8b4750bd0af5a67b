package database

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/mkruglov/bookbot/core/logger"
	"log/slog"
)

// Provision applies the embedded schema migrations to an empty book database.
// It is a no-op when the schema is already current. Books maintained by
// GnuCash itself should never be provisioned; the caller gates this on config.
func Provision(db *sqlx.DB, cfg Config, migrations fs.FS, dir string) error {
	driverName, _, err := cfg.Resolve()
	if err != nil {
		return fmt.Errorf("resolve book uri: %w", err)
	}

	var dbDriver migratedb.Driver
	switch driverName {
	case DriverSQLite:
		dbDriver, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	case DriverPostgres:
		dbDriver, err = migratepg.WithInstance(db.DB, &migratepg.Config{})
	default:
		return fmt.Errorf("no migration driver for %q", driverName)
	}
	if err != nil {
		logger.MIG.Error("driver init failed",
			slog.String("event", "db.provision"),
			slog.String("driver", driverName),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("migration driver init: %w", err)
	}

	source, err := iofs.New(migrations, dir)
	if err != nil {
		return fmt.Errorf("migration source init: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, dbDriver)
	if err != nil {
		logger.MIG.Error("init failed",
			slog.String("event", "db.provision"),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	fromVer, _, _ := m.Version()

	start := time.Now()
	upErr := m.Up()
	took := time.Since(start)

	switch upErr {
	case nil:
	case migrate.ErrNoChange:
		logger.MIG.Info("book schema current",
			slog.String("event", "summary"),
			slog.Uint64("from_ver", uint64(fromVer)),
			slog.Duration("duration", logger.RoundMS(took)),
		)
		return nil
	default:
		logger.MIG.Error("provision failed",
			slog.String("event", "apply"),
			slog.String("err", upErr.Error()),
			slog.Duration("duration", logger.RoundMS(took)),
		)
		return fmt.Errorf("book provisioning failed: %w", upErr)
	}

	toVer, _, _ := m.Version()
	logger.MIG.Info("book schema provisioned",
		slog.String("event", "summary"),
		slog.Uint64("from_ver", uint64(fromVer)),
		slog.Uint64("to_ver", uint64(toVer)),
		slog.Duration("duration", logger.RoundMS(took)),
	)

	return nil
}
