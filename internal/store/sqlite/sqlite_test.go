package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maloquacious/goobcms/internal/store"
)

var (
	authorsTable = Table{
		Name: "authors",
		Columns: []Column{
			{Name: "id", Type: "INTEGER", PrimaryKey: true},
			{Name: "name", Type: "TEXT", NotNull: true, Unique: true},
		},
	}
	postsTable = Table{
		Name: "posts",
		Columns: []Column{
			{Name: "id", Type: "INTEGER", PrimaryKey: true},
			{Name: "author_id", Type: "INTEGER", NotNull: true},
			{Name: "title", Type: "TEXT", NotNull: true, Default: "''"},
		},
		Indexes: []Index{
			{Name: "posts_author_idx", Columns: []string{"author_id"}},
		},
		ForeignKeys: []ForeignKey{
			{Column: "author_id", RefTable: "authors", RefColumn: "id", OnDelete: "CASCADE"},
		},
	}
)

func openMemory(t *testing.T) *SQLiteStore {
	t.Helper()
	s := New(":memory:", "0.1.0")
	if err := s.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTwoPassForeignKeys(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	tx, err := s.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	// The dependent table comes first; keys are only attached in the second pass.
	for _, tbl := range []Table{postsTable, authorsTable} {
		if err := tbl.CreateTable(ctx, tx); err != nil {
			t.Fatalf("create %s: %v", tbl.Name, err)
		}
	}
	for _, tbl := range []Table{postsTable, authorsTable} {
		if err := tbl.AddForeignKeys(ctx, tx); err != nil {
			t.Fatalf("foreign keys %s: %v", tbl.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	var refTable string
	err = s.DB().QueryRowContext(ctx, `SELECT "table" FROM pragma_foreign_key_list('posts')`).Scan(&refTable)
	if err != nil {
		t.Fatalf("foreign key list: %v", err)
	}
	if refTable != "authors" {
		t.Errorf("got reference to %q, want %q", refTable, "authors")
	}

	var idx int
	err = s.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='posts_author_idx'`).Scan(&idx)
	if err != nil {
		t.Fatalf("index lookup: %v", err)
	}
	if idx != 1 {
		t.Errorf("index should survive the rebuild, got %d", idx)
	}

	if _, err := s.DB().ExecContext(ctx, `INSERT INTO posts (author_id, title) VALUES (99, 'orphan')`); err == nil {
		t.Error("expected foreign key violation for unknown author")
	}
}

func TestAddForeignKeysMissingReference(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	tx, err := s.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	defer tx.Rollback()

	if err := postsTable.CreateTable(ctx, tx); err != nil {
		t.Fatalf("create: %v", err)
	}
	err = postsTable.AddForeignKeys(ctx, tx)
	if err == nil {
		t.Fatal("expected error for missing referenced table")
	}
	if !strings.Contains(err.Error(), "authors does not exist") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRollbackDiscardsSchema(t *testing.T) {
	ctx := context.Background()
	s := openMemory(t)

	tx, err := s.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := authorsTable.CreateTable(ctx, tx); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	ok, err := TableExists(ctx, s.DB(), "authors")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Error("table should not exist after rollback")
	}
}

func TestCheckState(t *testing.T) {
	ctx := context.Background()
	s := New(filepath.Join(t.TempDir(), store.DefaultDBFile), "0.1.0")

	if _, err := s.CheckState(ctx); err == nil {
		t.Error("expected error before open")
	}
	if err := s.Open(); err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	state, err := s.CheckState(ctx)
	if err != nil {
		t.Fatalf("check state: %v", err)
	}
	if state != store.StateUninstalled {
		t.Errorf("got %v, want %v", state, store.StateUninstalled)
	}

	db := s.DB()
	stmts := []string{
		`CREATE TABLE info (id INTEGER PRIMARY KEY, version TEXT NOT NULL, installed INTEGER NOT NULL DEFAULT 0)`,
		`INSERT INTO info (version, installed) VALUES ('0.1.0', 0)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}

	tests := []struct {
		name   string
		update string
		want   store.StoreState
	}{
		{name: "row without flag", update: `UPDATE info SET installed = 0`, want: store.StateUninstalled},
		{name: "installed", update: `UPDATE info SET installed = 1`, want: store.StateReady},
		{name: "rebuild of the release", update: `UPDATE info SET version = '0.1.0+abc1234'`, want: store.StateReady},
		{name: "other release", update: `UPDATE info SET version = '0.0.9'`, want: store.StateVersionMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := db.ExecContext(ctx, tt.update); err != nil {
				t.Fatalf("update: %v", err)
			}
			got, err := s.CheckState(ctx)
			if err != nil {
				t.Fatalf("check state: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
