package dashboard

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/maloquacious/goobcms/internal/testkit"
)

func TestAddDefaultUserWidgets(t *testing.T) {
	ctx := context.Background()
	db := testkit.OpenSchema(t).DB()
	s := New()

	res, err := db.ExecContext(ctx, `INSERT INTO users (username, email, password_hash) VALUES ('admin', 'admin@example.com', 'x')`)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	userID, _ := res.LastInsertId()

	if err := s.AddDefaultUserWidgets(ctx, db, userID); err != nil {
		t.Fatalf("add widgets: %v", err)
	}

	got, err := s.UserWidgets(ctx, db, userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"RecentEntries", "QuickPost", "Updates", "Feed"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("widgets mismatch (-want +got):\n%s", diff)
	}
}

func TestAddDefaultUserWidgetsUnknownUser(t *testing.T) {
	ctx := context.Background()
	db := testkit.OpenSchema(t).DB()

	if err := New().AddDefaultUserWidgets(ctx, db, 77); err == nil {
		t.Error("expected foreign key failure for unknown user")
	}
}
