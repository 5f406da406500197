package sitegen

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

//go:embed data/sql/migrations/*.sql
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded migration files for this package
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// Migrations discovers the embedded SQL migrations. Files follow bun's
// <timestamp>_<name>.(up|down).sql convention.
func Migrations() (*migrate.Migrations, error) {
	dir, err := fs.Sub(migrationsFS, "data/sql/migrations")
	if err != nil {
		return nil, err
	}
	migrations := migrate.NewMigrations()
	if err := migrations.Discover(dir); err != nil {
		return nil, fmt.Errorf("sitegen: discover migrations: %w", err)
	}
	return migrations, nil
}

// Migrate applies every pending embedded migration to db and returns the
// names of the migrations it ran.
func Migrate(ctx context.Context, db *bun.DB) ([]string, error) {
	if db == nil {
		return nil, ErrStorageNotConfigured
	}
	migrations, err := Migrations()
	if err != nil {
		return nil, err
	}

	migrator := migrate.NewMigrator(db, migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("sitegen: init migrations: %w", err)
	}
	if err := migrator.Lock(ctx); err != nil {
		return nil, fmt.Errorf("sitegen: lock migrations: %w", err)
	}
	defer migrator.Unlock(ctx) //nolint:errcheck

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("sitegen: migrate: %w", err)
	}
	if group.IsZero() {
		return nil, nil
	}
	applied := make([]string, 0, len(group.Migrations))
	for _, migration := range group.Migrations {
		applied = append(applied, migration.Name)
	}
	return applied, nil
}
