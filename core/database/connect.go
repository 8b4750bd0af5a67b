package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mkruglov/bookbot/core/logger"
	"log/slog"
)

// Connect opens the book database, configures the pool, and verifies connectivity.
func Connect(cfg Config) (*sqlx.DB, error) {
	driver, dsn, err := cfg.Resolve()
	if err != nil {
		return nil, fmt.Errorf("resolve book uri: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	took := time.Since(start)
	if err != nil {
		logger.DB.Error("book connect failed",
			slog.String("event", "db.connect"),
			slog.String("driver", driver),
			slog.Duration("duration", logger.RoundMS(took)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("book connect: %w", err)
	}

	maxConns := cfg.MaxConnections
	if maxConns <= 0 {
		maxConns = 2
	}
	if driver == DriverSQLite {
		// sqlite books carry a single writer; keep the pool at one
		// connection so sessions serialize the way GnuCash expects.
		maxConns = 1
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)

	logger.DB.Info("book connected",
		slog.String("event", "db.connect"),
		slog.String("driver", driver),
		slog.Int("pool_open", maxConns),
		slog.Duration("duration", logger.RoundMS(took)),
	)

	return db, nil
}
