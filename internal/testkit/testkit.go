// Package testkit opens throwaway stores for package tests.
package testkit

import (
	"context"
	"testing"

	"github.com/maloquacious/goobcms/internal/records"
	"github.com/maloquacious/goobcms/internal/store/sqlite"
)

// OpenStore opens an empty in-memory store closed when the test ends.
func OpenStore(t testing.TB, expectedVersion string) *sqlite.SQLiteStore {
	t.Helper()
	s := sqlite.New(":memory:", expectedVersion)
	if err := s.Open(); err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// OpenSchema opens an in-memory store with every default record installed.
func OpenSchema(t testing.TB) *sqlite.SQLiteStore {
	t.Helper()
	ctx := context.Background()
	s := OpenStore(t, "")

	recs, err := records.Discover(records.DefaultPattern, records.DefaultCandidates())
	if err != nil {
		t.Fatalf("discover records: %v", err)
	}
	db := s.DB()
	for _, r := range recs {
		if err := r.Record.CreateTable(ctx, db); err != nil {
			t.Fatalf("create %s: %v", r.Name, err)
		}
	}
	for _, r := range recs {
		if err := r.AddForeignKeys(ctx, db); err != nil {
			t.Fatalf("foreign keys %s: %v", r.Name, err)
		}
	}
	return s
}
