package store

import (
	"context"
	"database/sql"
)

// StoreState represents the installation state of the datastore.
type StoreState int

const (
	StateMissing         StoreState = iota // File doesn't exist
	StateUninstalled                       // File exists but the installer has not committed
	StateVersionMismatch                   // Installed by a different release
	StateReady                             // Installed and correct version
)

func (s StoreState) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateUninstalled:
		return "uninstalled"
	case StateVersionMismatch:
		return "version-mismatch"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// DBTX is the query surface shared by *sql.DB and *sql.Tx.
// Collaborators that write during installation accept it so they run inside
// the installer's transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store defines the goobcms datastore contract.
// Implementations must be safe for concurrent use.
type Store interface {
	// Open opens the datastore connection
	Open() error

	// Close closes the datastore connection
	Close() error

	// BeginTx starts the transaction every installer write runs in
	BeginTx(ctx context.Context) (*sql.Tx, error)

	// DB returns the query surface for reads outside a transaction
	DB() DBTX

	// IsInstalled reports whether the info row has been committed with its installed flag set
	IsInstalled(ctx context.Context) (bool, error)

	// CheckState returns the current state of the datastore
	CheckState(ctx context.Context) (StoreState, error)

	// GetInstalledVersion returns the release version recorded in the info row
	GetInstalledVersion(ctx context.Context) (string, error)
}
