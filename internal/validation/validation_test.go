package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestErrors(t *testing.T) {
	var errs Errors
	errs.Required("username", "Username", "  ")
	errs.Required("email", "Email", "admin@example.com")
	errs.MaxLength("siteName", "Site name", "abcdef", 3)

	want := Errors{
		{Field: "username", Message: "Username cannot be blank"},
		{Field: "siteName", Message: "Site name is too long"},
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	if !errs.Has("siteName") || errs.Has("email") {
		t.Errorf("Has reported wrong fields for %v", errs)
	}
	if got, want := errs.Error(), "Username cannot be blank.  Site name is too long"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestErrorsErr(t *testing.T) {
	var empty Errors
	if err := empty.Err(); err != nil {
		t.Errorf("empty list should be nil error, got %v", err)
	}

	var errs Errors
	errs.Add("key", "Key is taken")
	wrapped := fmt.Errorf("save: %w", errs.Err())

	var got Errors
	if !errors.As(wrapped, &got) {
		t.Fatal("expected errors.As to find Errors")
	}
	if got.Join(", ") != "Key is taken" {
		t.Errorf("got %q", got.Join(", "))
	}
}
