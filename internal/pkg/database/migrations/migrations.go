package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed files/*.sql
var migrationFiles embed.FS

// Status describes where the schema stands relative to the embedded migrations.
type Status struct {
	Current uint
	Latest  uint
	Dirty   bool
}

// UpToDate reports whether no migration is pending.
func (s Status) UpToDate() bool {
	return !s.Dirty && s.Current == s.Latest
}

// CheckDBMigrationStatus returns nil when the schema is at the latest embedded
// version, otherwise an error describing the mismatch.
func CheckDBMigrationStatus(db *sql.DB) error {
	status, err := GetStatus(db)
	if err != nil {
		return err
	}

	if status.Dirty {
		return fmt.Errorf("database is in dirty state at version %d (migration failed previously)", status.Current)
	}
	if status.Current == 0 {
		return fmt.Errorf("database has no schema version (needs migration)")
	}
	if status.Current < status.Latest {
		return fmt.Errorf("database is at version %d but latest is %d (%d migrations behind)",
			status.Current, status.Latest, status.Latest-status.Current)
	}
	if status.Current > status.Latest {
		return fmt.Errorf("database version %d is ahead of binary version %d (binary needs update)",
			status.Current, status.Latest)
	}
	return nil
}

// GetStatus reads the applied version. An unmigrated database reports version 0.
func GetStatus(db *sql.DB) (Status, error) {
	m, err := newMigrate(db)
	if err != nil {
		return Status{}, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// m is not closed: closing it would close db, which the caller owns

	latest, err := LatestVersion()
	if err != nil {
		return Status{}, err
	}

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return Status{Latest: latest}, nil
		}
		return Status{}, fmt.Errorf("failed to get database version: %w", err)
	}

	return Status{Current: version, Latest: latest, Dirty: dirty}, nil
}

// MigrateUp applies every pending migration. Already current is not an error.
func MigrateUp(db *sql.DB) error {
	m, err := newMigrate(db)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// LatestVersion returns the highest embedded migration version.
func LatestVersion() (uint, error) {
	sourceDriver, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return 0, fmt.Errorf("failed to read migration files: %w", err)
	}
	defer sourceDriver.Close()

	latest, err := getLatestVersion(sourceDriver)
	if err != nil {
		return 0, fmt.Errorf("failed to determine latest version: %w", err)
	}
	return latest, nil
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	sourceDriver, err := iofs.New(migrationFiles, "files")
	if err != nil {
		return nil, fmt.Errorf("failed to create source driver: %w", err)
	}

	dbDriver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		sourceDriver.Close()
		return nil, fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "pgx5", dbDriver)
	if err != nil {
		sourceDriver.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return m, nil
}

func getLatestVersion(src source.Driver) (uint, error) {
	version, err := src.First()
	if err != nil {
		return 0, err
	}

	latest := version
	for {
		next, err := src.Next(latest)
		if err != nil {
			// Next fails once there is nothing after latest
			break
		}
		latest = next
	}

	return latest, nil
}
