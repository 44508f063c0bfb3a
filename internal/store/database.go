// Package store is the optional Postgres home of the team registry.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// IsDSN reports whether source names a Postgres database rather than a file.
func IsDSN(source string) bool {
	return strings.HasPrefix(source, "postgres://") || strings.HasPrefix(source, "postgresql://")
}

// Database wraps the Postgres connection pool.
type Database struct {
	conn   *sql.DB
	dsn    string
	logger *slog.Logger
}

// NewDatabase opens and pings a connection pool.
func NewDatabase(ctx context.Context, dsn string) (*Database, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// registry reads are rare; a small pool is plenty
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{
		conn:   db,
		dsn:    dsn,
		logger: slog.Default().With("component", "store"),
	}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// DB returns the underlying *sql.DB for queries
func (db *Database) DB() *sql.DB {
	return db.conn
}

// RunMigrations applies every embedded migration not yet recorded in
// schema_migrations, in file name order.
func (db *Database) RunMigrations(ctx context.Context) error {
	if err := db.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	applied := 0
	for _, name := range names {
		ok, err := db.runMigration(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to run migration %s: %w", name, err)
		}
		if ok {
			applied++
		}
	}

	db.logger.Info("migrations complete", "applied", applied, "total", len(names))
	return nil
}

func (db *Database) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := db.conn.ExecContext(ctx, query)
	return err
}

// runMigration applies one file in a transaction. It reports false when the
// file was already applied.
func (db *Database) runMigration(ctx context.Context, file string) (bool, error) {
	version := path.Base(file)

	var exists bool
	err := db.conn.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", version).Scan(&exists)
	if err != nil {
		return false, err
	}
	if exists {
		db.logger.Debug("skipping migration", "version", version)
		return false, nil
	}

	content, err := migrationFiles.ReadFile(file)
	if err != nil {
		return false, fmt.Errorf("failed to read migration file: %w", err)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return false, fmt.Errorf("failed to execute migration: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}

	db.logger.Info("applied migration", "version", version)
	return true, nil
}

// HealthCheck pings the database.
func (db *Database) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return db.conn.PingContext(ctx)
}
