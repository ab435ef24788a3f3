package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/maloquacious/goobcms/internal/store"
)

// Column describes one column of a Table.
type Column struct {
	Name       string
	Type       string // INTEGER, TEXT, ...
	PrimaryKey bool
	NotNull    bool
	Unique     bool
	Default    string // raw SQL literal, empty for none
}

// ForeignKey references a column of another table.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  string // CASCADE, SET NULL, ...; empty for the SQLite default
}

// Index is a secondary index created alongside the table.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// Table is the schema definition a record installs.
//
// Tables are installed in two passes. CreateTable creates the columns and
// indexes without any REFERENCES clauses. AddForeignKeys runs once every table
// exists; SQLite cannot add a constraint to an existing table, so it rebuilds
// the (still empty) table with its foreign keys and swaps it into place.
type Table struct {
	Name        string
	Columns     []Column
	Indexes     []Index
	ForeignKeys []ForeignKey
}

// CreateTable creates the table and its indexes.
func (t Table) CreateTable(ctx context.Context, db store.DBTX) error {
	if _, err := db.ExecContext(ctx, t.createSQL(t.Name, false)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", t.Name, err)
	}
	return t.createIndexes(ctx, db)
}

// AddForeignKeys attaches the table's foreign keys.
// Every referenced table must already exist.
func (t Table) AddForeignKeys(ctx context.Context, db store.DBTX) error {
	if len(t.ForeignKeys) == 0 {
		return nil
	}
	for _, fk := range t.ForeignKeys {
		ok, err := TableExists(ctx, db, fk.RefTable)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("failed to add foreign key %s.%s: table %s does not exist", t.Name, fk.Column, fk.RefTable)
		}
	}

	rebuilt := t.Name + "__fk"
	stmts := []string{
		t.createSQL(rebuilt, true),
		fmt.Sprintf("INSERT INTO %s SELECT * FROM %s", quote(rebuilt), quote(t.Name)),
		fmt.Sprintf("DROP TABLE %s", quote(t.Name)),
		fmt.Sprintf("ALTER TABLE %s RENAME TO %s", quote(rebuilt), quote(t.Name)),
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to add foreign keys to %s: %w", t.Name, err)
		}
	}
	// DROP TABLE took the indexes with it.
	return t.createIndexes(ctx, db)
}

func (t Table) createSQL(name string, withKeys bool) string {
	var defs []string
	for _, c := range t.Columns {
		def := quote(c.Name) + " " + c.Type
		if c.PrimaryKey {
			def += " PRIMARY KEY"
		}
		if c.NotNull {
			def += " NOT NULL"
		}
		if c.Unique {
			def += " UNIQUE"
		}
		if c.Default != "" {
			def += " DEFAULT " + c.Default
		}
		defs = append(defs, def)
	}
	if withKeys {
		for _, fk := range t.ForeignKeys {
			def := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)", quote(fk.Column), quote(fk.RefTable), quote(fk.RefColumn))
			if fk.OnDelete != "" {
				def += " ON DELETE " + fk.OnDelete
			}
			defs = append(defs, def)
		}
	}
	return fmt.Sprintf("CREATE TABLE %s (\n    %s\n)", quote(name), strings.Join(defs, ",\n    "))
}

func (t Table) createIndexes(ctx context.Context, db store.DBTX) error {
	for _, idx := range t.Indexes {
		cols := make([]string, 0, len(idx.Columns))
		for _, c := range idx.Columns {
			cols = append(cols, quote(c))
		}
		kind := "INDEX"
		if idx.Unique {
			kind = "UNIQUE INDEX"
		}
		stmt := fmt.Sprintf("CREATE %s IF NOT EXISTS %s ON %s (%s)", kind, quote(idx.Name), quote(t.Name), strings.Join(cols, ", "))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.Name, err)
		}
	}
	return nil
}

// TableExists reports whether a table is visible to db, including tables
// created earlier in the same transaction.
func TableExists(ctx context.Context, db store.DBTX, name string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", name, err)
	}
	return count > 0, nil
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
