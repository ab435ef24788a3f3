package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/maloquacious/goobcms/internal/testkit"
	"github.com/maloquacious/goobcms/internal/validation"
)

func TestRegisterMessage(t *testing.T) {
	ctx := context.Background()
	db := testkit.OpenSchema(t).DB()
	s := New()

	m, err := s.RegisterMessage(ctx, db, "verify_email")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if m.ID == 0 || m.Key != "verify_email" {
		t.Errorf("unexpected message %+v", m)
	}

	tests := []struct {
		name string
		key  string
	}{
		{name: "duplicate", key: "verify_email"},
		{name: "blank", key: " "},
		{name: "uppercase", key: "Verify_Email"},
		{name: "dashes", key: "verify-email"},
		{name: "empty segment", key: "verify__email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.RegisterMessage(ctx, db, tt.key)
			var errs validation.Errors
			if !errors.As(err, &errs) || !errs.Has("key") {
				t.Errorf("expected key problem, got %v", err)
			}
		})
	}
}

func TestSaveMessageContent(t *testing.T) {
	ctx := context.Background()
	db := testkit.OpenSchema(t).DB()
	s := New()

	m, err := s.RegisterMessage(ctx, db, "forgot_password")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	c, err := s.SaveMessageContent(ctx, db, m.ID, "en-US", "Reset your password", "Hey {{.User.Username}}, go to {{.Link}}")
	if err != nil {
		t.Fatalf("save content: %v", err)
	}

	got, err := c.Render(map[string]any{
		"User": map[string]any{"Username": "admin"},
		"Link": "https://example.com/reset",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "Hey admin, go to https://example.com/reset"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	_, err = s.SaveMessageContent(ctx, db, m.ID, "en-US", "", "{{ .Broken")
	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if !errs.Has("subject") || !errs.Has("body") {
		t.Errorf("expected subject and body problems, got %v", errs)
	}
	if !strings.Contains(errs.Error(), "not a valid template") {
		t.Errorf("got %q", errs.Error())
	}
}

func TestSaveMessageContentUnknownMessage(t *testing.T) {
	ctx := context.Background()
	db := testkit.OpenSchema(t).DB()

	_, err := New().SaveMessageContent(ctx, db, 404, "en-US", "Subject", "Body")
	if err == nil {
		t.Fatal("expected foreign key failure")
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		t.Errorf("expected a database error, got validation errors %v", errs)
	}
}
