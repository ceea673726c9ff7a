// Package sqlite implements the storage engine for stockroom: a single
// SQLite file holding the products table, opened through modernc.org/sqlite
// and queried with sqlx.
package sqlite

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/stockroom/pkg/types"
)

// driverName is the database/sql name registered by modernc.org/sqlite.
const driverName = "sqlite"

// Compile-time interface check.
var _ types.Engine = (*Backend)(nil)

// Backend owns the products table. Open and Close are serialized by mu;
// reads and writes share the read lock and leave row-level serialization
// to SQLite.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	path     string
	db       *sqlx.DB
	log      *zap.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(log *zap.Logger) Option {
	return func(b *Backend) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not open; call Open with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{log: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open creates DataDir and the database file if needed and brings the
// schema up to date. Open never destroys data on a store whose schema is
// current; a store recorded at an older schema version is recreated empty.
// Calling Open on an open backend is a no-op.
func (b *Backend) Open(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return nil
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	path := filepath.Join(dataDir, types.DatabaseName)
	db, err := sqlx.Open(driverName, dsn(path))
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("opening %s: %w", path, err)
	}

	b.db = db
	b.path = path

	if err := b.ensureSchemaLocked(); err != nil {
		db.Close()
		b.db = nil
		return err
	}

	b.attached = true
	b.log.Info("store opened", zap.String("path", path))
	return nil
}

// ensureSchemaLocked applies migrations, or recreates the table when the
// stored version is behind the embedded one. The caller must hold b.mu.
func (b *Backend) ensureSchemaLocked() error {
	m, err := newMigrator(b.db.DB)
	if err != nil {
		return err
	}
	current, err := schemaVersion(m)
	if err != nil {
		return err
	}
	latest := latestVersion(m)

	switch {
	case current > latest:
		return fmt.Errorf("store schema version %d is newer than supported version %d", current, latest)
	case current > 0 && current < latest:
		b.log.Warn("store schema is out of date, recreating",
			zap.Int64("stored_version", current),
			zap.Int64("current_version", latest),
		)
		return b.recreateLocked()
	default:
		return migrate(m)
	}
}

// Recreate drops the products table and builds it again from the embedded
// schema. Every stored product is lost.
func (b *Backend) Recreate() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStorageNotInitialized
	}
	return b.recreateLocked()
}

func (b *Backend) recreateLocked() error {
	for _, stmt := range dropDDL {
		if _, err := b.db.Exec(stmt); err != nil {
			return fmt.Errorf("dropping schema: %w", err)
		}
	}
	m, err := newMigrator(b.db.DB)
	if err != nil {
		return err
	}
	if err := migrate(m); err != nil {
		return err
	}
	b.log.Warn("products table recreated", zap.String("path", b.path))
	return nil
}

// Close releases the connection pool. After Close every operation returns
// ErrStorageNotInitialized. Close is idempotent.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.log.Info("store closed", zap.String("path", b.path))
	return nil
}

// Path returns the database file path, empty before Open.
func (b *Backend) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// dsn builds the modernc connection string. WAL lets a lazy cursor stay
// open while another connection writes; busy_timeout absorbs the brief
// writer lock.
func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	return "file:" + path + "?" + q.Encode()
}
