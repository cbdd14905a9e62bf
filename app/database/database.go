// Package database opens the bun handle backing the league store.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	_ "modernc.org/sqlite"
)

// Open connects to Postgres for postgres:// DSNs and to sqlite for sqlite:
// and file: DSNs, then pings the connection.
func Open(ctx context.Context, dsn string) (*bun.DB, error) {
	var db *bun.DB
	switch {
	case isPostgres(dsn):
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		db = bun.NewDB(sqldb, pgdialect.New())
	case strings.HasPrefix(dsn, "sqlite:") || strings.HasPrefix(dsn, "file:"):
		sqldb, err := sql.Open("sqlite", SQLiteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		// sqlite serializes writers; one connection also keeps :memory: databases alive.
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		return nil, fmt.Errorf("unsupported database dsn %q", redact(dsn))
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// SQLiteDSN rewrites sqlite:path to the file: form the driver expects and
// turns on foreign keys and a busy timeout.
func SQLiteDSN(dsn string) string {
	if rest, ok := strings.CutPrefix(dsn, "sqlite:"); ok {
		dsn = "file:" + strings.TrimPrefix(rest, "//")
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	if !strings.Contains(dsn, "_pragma=") {
		dsn += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}
	return dsn
}

// Migrate initializes bun's migration tables and applies every pending
// migration in each set.
func Migrate(ctx context.Context, db *bun.DB, sets ...*migrate.Migrations) error {
	for _, set := range sets {
		migrator := migrate.NewMigrator(db, set)
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to init migrations: %w", err)
		}
		if _, err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	return nil
}

func isPostgres(dsn string) bool {
	lower := strings.ToLower(dsn)
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

func redact(dsn string) string {
	if i := strings.Index(dsn, "@"); i >= 0 {
		return "***" + dsn[i:]
	}
	return dsn
}
