// Package migrations applies the embedded schema with golang-migrate.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"mindpal/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	pgxv5 "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed sql/*.sql
var files embed.FS

// Up applies all pending migrations. It is a no-op when the schema is current.
func Up(pool *pgxpool.Pool) error {
	const op = "migrations.Up"

	m, closeDB, err := newMigrate(pool)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer closeDB()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("%s: version: %w", op, err)
	}
	logger.Info("migrations applied", "version", version, "dirty", dirty)
	return nil
}

// Down rolls back the given number of steps.
func Down(pool *pgxpool.Pool, steps int) error {
	const op = "migrations.Down"

	m, closeDB, err := newMigrate(pool)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer closeDB()

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func newMigrate(pool *pgxpool.Pool) (*migrate.Migrate, func(), error) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, nil, err
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	driver, err := pgxv5.WithInstance(sqlDB, &pgxv5.Config{})
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx_v5", driver)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, err
	}
	return m, func() { _ = sqlDB.Close() }, nil
}
