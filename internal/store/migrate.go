package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/ne3mer/supplychainweb/schema"
	"github.com/rotisserie/eris"
)

//go:embed migrations
var migrationsFS embed.FS

// migrationDir maps a backend to its dialect-specific migration directory.
var migrationDir = map[schema.DatabaseBackend]string{
	schema.SQLiteBackend:     "migrations/sqlite",
	schema.MySQLBackend:      "migrations/mysql",
	schema.PostgreSQLBackend: "migrations/postgres",
}

// newMigrator builds a migrate instance over an already open connection.
// The instance must not be closed by callers that still own db.
func newMigrator(db *sql.DB, backend schema.DatabaseBackend) (*migrate.Migrate, error) {
	var driver database.Driver
	var err error
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	default:
		return nil, eris.Errorf("migrate: unsupported backend %s", backend)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "migrate: create %s driver", backend)
	}

	sub, err := fs.Sub(migrationsFS, migrationDir[backend])
	if err != nil {
		return nil, eris.Wrap(err, "migrate: access migrations directory")
	}
	src, err := iofs.New(sub, ".")
	if err != nil {
		return nil, eris.Wrap(err, "migrate: create source")
	}

	m, err := migrate.NewWithInstance("iofs", src, "supplychain", driver)
	if err != nil {
		return nil, eris.Wrap(err, "migrate: create instance")
	}
	return m, nil
}

// migrateUp applies every pending migration. It is run whenever a store is opened.
// SQLite migrates over the store's own connection so in-memory databases see the
// schema; the other backends use a short-lived connection since their migrate
// drivers pin one until closed.
func migrateUp(db *sql.DB, backend schema.DatabaseBackend, connStr string) error {
	target := db
	if backend != schema.SQLiteBackend {
		var err error
		if target, err = openDB(backend, connStr); err != nil {
			return err
		}
	}

	m, err := newMigrator(target, backend)
	if err != nil {
		if target != db {
			_ = target.Close()
		}
		return err
	}
	if target != db {
		defer func() { _, _ = m.Close() }()
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return eris.Wrap(err, "migrate: up")
	}
	return nil
}

// migrationVersion reads the applied schema version and dirty flag.
func migrationVersion(ctx context.Context, db *sql.DB) (uint, bool, error) {
	var (
		version int64
		dirty   bool
	)
	err := db.QueryRowContext(ctx, "SELECT version, dirty FROM schema_migrations LIMIT 1").Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, eris.Wrap(err, "migrate: read version")
	}
	return uint(version), dirty, nil
}

// Migrate runs schema migrations against the configured database.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations.
// - If targetVersion > 0, it migrates to the specified version.
func Migrate(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return eris.New("migrate: migrations are not supported for the none backend")
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	m, err := newMigrator(db, backend)
	if err != nil {
		return err
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return eris.Wrap(err, "migrate: get current version")
	}
	if dirty {
		return eris.Errorf("migrate: database is in a dirty state at version %d, fix manually or force the version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return eris.Wrap(err, "migrate: migrate to latest version")
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migration needed. Database is already at the latest version.")
		} else {
			newVersion, _, _ := m.Version()
			fmt.Printf("Successfully migrated from version %d to version %d\n", currentVersion, newVersion)
		}
	case targetVersion == 0:
		err = m.Down()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return eris.Wrap(err, "migrate: roll back to version 0")
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migration needed. Database is already at version 0")
		} else {
			fmt.Printf("Successfully rolled back from version %d to version 0\n", currentVersion)
		}
	default:
		err = m.Migrate(uint(targetVersion))
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return eris.Wrapf(err, "migrate: migrate to version %d", targetVersion)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("No migration needed. Database is already at version %d\n", targetVersion)
		} else {
			fmt.Printf("Successfully migrated from version %d to version %d\n", currentVersion, targetVersion)
		}
	}

	return nil
}
