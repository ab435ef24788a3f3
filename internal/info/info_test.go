package info

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/maloquacious/goobcms/internal/testkit"
	"github.com/maloquacious/goobcms/internal/validation"
)

func validRow() Row {
	return Row{
		Version:     "0.1.0-alpha",
		Build:       "abc1234",
		ReleaseDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		SiteName:    "My Site",
		SiteURL:     "https://example.com",
		Language:    "en-US",
		LicenseKey:  "ABCD-0123-4567-89AB-CDEF-0000",
		Installed:   true,
	}
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	db := testkit.OpenSchema(t).DB()
	s := New()

	if _, err := s.Load(ctx, db); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want %v", err, ErrNotFound)
	}

	in := validRow()
	in.SiteURL = "https://example.com/"
	in.LicenseKey = "abcd-0123-4567-89ab-cdef-0000"
	if err := s.Save(ctx, db, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx, db)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(validRow(), *got); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}

	if err := s.Save(ctx, db, validRow()); err == nil {
		t.Error("expected error saving a second info row")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Row)
		wantField string
	}{
		{name: "blank site name", mutate: func(r *Row) { r.SiteName = "" }, wantField: "siteName"},
		{name: "relative url", mutate: func(r *Row) { r.SiteURL = "example.com" }, wantField: "siteUrl"},
		{name: "ftp url", mutate: func(r *Row) { r.SiteURL = "ftp://example.com" }, wantField: "siteUrl"},
		{name: "bad language", mutate: func(r *Row) { r.Language = "not a tag" }, wantField: "language"},
		{name: "short license key", mutate: func(r *Row) { r.LicenseKey = "ABCD-0123" }, wantField: "licenseKey"},
		{name: "blank version", mutate: func(r *Row) { r.Version = "" }, wantField: "version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRow()
			tt.mutate(&r)
			errs := r.Validate()
			if !errs.Has(tt.wantField) {
				t.Errorf("expected a problem with %s, got %v", tt.wantField, errs)
			}
		})
	}

	if errs := validRow().Validate(); len(errs) != 0 {
		t.Errorf("valid row reported %v", errs)
	}
}

func TestSaveValidationError(t *testing.T) {
	ctx := context.Background()
	db := testkit.OpenSchema(t).DB()

	r := validRow()
	r.SiteName = ""
	err := New().Save(ctx, db, r)

	var errs validation.Errors
	if !errors.As(err, &errs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
}
