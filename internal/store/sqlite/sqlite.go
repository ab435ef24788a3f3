package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/maloquacious/goobcms/internal/store"
	_ "modernc.org/sqlite"
)

var errNotOpened = errors.New("database not opened")

// SQLiteStore implements the Store interface using modernc.org/sqlite.
type SQLiteStore struct {
	dbPath          string
	db              *sql.DB
	expectedVersion string
}

// New creates a new SQLiteStore. dbPath may be ":memory:".
func New(dbPath string, expectedVersion string) *SQLiteStore {
	return &SQLiteStore{
		dbPath:          dbPath,
		expectedVersion: expectedVersion,
	}
}

// Open opens the SQLite database with safe defaults.
func (s *SQLiteStore) Open() error {
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// Pragmas are per connection; a single connection keeps them in force and
	// serializes writers the way SQLite wants anyway.
	db.SetMaxOpenConns(1)

	// Apply safe defaults
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// BeginTx starts a transaction. Schema changes made inside it are rolled back
// together with row changes.
func (s *SQLiteStore) BeginTx(ctx context.Context) (*sql.Tx, error) {
	if s.db == nil {
		return nil, errNotOpened
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// DB returns the underlying handle for reads outside a transaction.
func (s *SQLiteStore) DB() store.DBTX {
	return s.db
}

// IsInstalled reports whether a committed info row carries the installed flag.
func (s *SQLiteStore) IsInstalled(ctx context.Context) (bool, error) {
	if s.db == nil {
		return false, errNotOpened
	}
	ok, err := TableExists(ctx, s.db, "info")
	if err != nil || !ok {
		return false, err
	}
	var installed bool
	err = s.db.QueryRowContext(ctx, `SELECT installed FROM info ORDER BY id LIMIT 1`).Scan(&installed)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query installed flag: %w", err)
	}
	return installed, nil
}

// CheckState returns the current state of the datastore.
func (s *SQLiteStore) CheckState(ctx context.Context) (store.StoreState, error) {
	if s.db == nil {
		return store.StateMissing, errNotOpened
	}

	installed, err := s.IsInstalled(ctx)
	if err != nil {
		return store.StateUninstalled, err
	}
	if !installed {
		return store.StateUninstalled, nil
	}

	version, err := s.GetInstalledVersion(ctx)
	if err != nil {
		return store.StateUninstalled, fmt.Errorf("failed to get installed version: %w", err)
	}

	if !store.SameRelease(version, s.expectedVersion) {
		return store.StateVersionMismatch, nil
	}

	return store.StateReady, nil
}

// GetInstalledVersion returns the release version from the info row.
func (s *SQLiteStore) GetInstalledVersion(ctx context.Context) (string, error) {
	if s.db == nil {
		return "", errNotOpened
	}

	var version string
	err := s.db.QueryRowContext(ctx, `SELECT version FROM info ORDER BY id LIMIT 1`).Scan(&version)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query installed version: %w", err)
	}

	return version, nil
}
