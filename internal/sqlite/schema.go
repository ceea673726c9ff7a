package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// versionTable is the bookkeeping table goose keeps next to products.
const versionTable = "goose_db_version"

// Drop statements used by Recreate. Every table the schema owns is listed so
// the next migration run starts from an empty database.
const (
	dropProducts     = `DROP TABLE IF EXISTS products;`
	dropVersionTable = `DROP TABLE IF EXISTS ` + versionTable + `;`
)

var dropDDL = []string{
	dropProducts,
	dropVersionTable,
}

// migrations is the migration source. Tests replace it to simulate schema
// upgrades.
var migrations fs.FS = mustSub(migrationsFS, "migrations")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// newMigrator returns a goose provider over the migration source.
func newMigrator(db *sql.DB) (*goose.Provider, error) {
	p, err := goose.NewProvider(goose.DialectSQLite3, db, migrations)
	if err != nil {
		return nil, fmt.Errorf("creating migrator: %w", err)
	}
	return p, nil
}

// latestVersion returns the newest embedded schema version.
func latestVersion(p *goose.Provider) int64 {
	var latest int64
	for _, s := range p.ListSources() {
		if s.Version > latest {
			latest = s.Version
		}
	}
	return latest
}

// schemaVersion returns the version recorded in the store, 0 for a new file.
func schemaVersion(p *goose.Provider) (int64, error) {
	v, err := p.GetDBVersion(context.Background())
	if errors.Is(err, database.ErrVersionNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// migrate applies every pending migration.
func migrate(p *goose.Provider) error {
	if _, err := p.Up(context.Background()); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
