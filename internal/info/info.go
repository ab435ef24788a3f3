// Package info reads and writes the singleton info row.
//
// The info row records which release installed the site and the site's basic
// settings. Its installed flag is what marks the application as installed.
package info

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/maloquacious/goobcms/internal/store"
	"github.com/maloquacious/goobcms/internal/validation"
	"golang.org/x/text/language"
)

// ErrNotFound is returned by Load before the info row exists.
var ErrNotFound = errors.New("info row not found")

var licenseKeyPattern = regexp.MustCompile(`^[0-9A-F]{4}(-[0-9A-F]{4}){5}$`)

// Row is the info row.
type Row struct {
	Version     string    `json:"version"`
	Build       string    `json:"build"`
	ReleaseDate time.Time `json:"release_date"`
	SiteName    string    `json:"site_name"`
	SiteURL     string    `json:"site_url"`
	Language    string    `json:"language"`
	LicenseKey  string    `json:"-"`
	Installed   bool      `json:"installed"`
}

// Validate checks the row before it is written.
func (r Row) Validate() validation.Errors {
	var errs validation.Errors
	errs.Required("version", "Version", r.Version)
	errs.Required("build", "Build", r.Build)
	errs.Required("siteName", "Site name", r.SiteName)
	errs.MaxLength("siteName", "Site name", r.SiteName, 100)
	errs.Required("siteUrl", "Site URL", r.SiteURL)
	if r.SiteURL != "" {
		u, err := url.Parse(r.SiteURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs.Add("siteUrl", "Site URL must be an absolute http or https URL")
		}
	}
	errs.Required("language", "Language", r.Language)
	if r.Language != "" {
		if _, err := language.Parse(r.Language); err != nil {
			errs.Add("language", fmt.Sprintf("Language %q is not a valid language tag", r.Language))
		}
	}
	errs.Required("licenseKey", "License key", r.LicenseKey)
	if r.LicenseKey != "" && !licenseKeyPattern.MatchString(r.LicenseKey) {
		errs.Add("licenseKey", "License key is not in the XXXX-XXXX-XXXX-XXXX-XXXX-XXXX format")
	}
	return errs
}

// Service writes the info row.
type Service struct{}

// New returns a Service.
func New() *Service {
	return &Service{}
}

// Save validates and writes the info row. Only one row may exist.
func (s *Service) Save(ctx context.Context, db store.DBTX, r Row) error {
	r.SiteName = strings.TrimSpace(r.SiteName)
	r.SiteURL = strings.TrimRight(strings.TrimSpace(r.SiteURL), "/")
	r.LicenseKey = strings.ToUpper(strings.TrimSpace(r.LicenseKey))

	if err := r.Validate().Err(); err != nil {
		return err
	}

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM info`).Scan(&n); err != nil {
		return fmt.Errorf("count info rows: %w", err)
	}
	if n > 0 {
		return errors.New("info row already exists")
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO info (version, build, release_date, site_name, site_url, language, license_key, installed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Version, r.Build, r.ReleaseDate.Unix(), r.SiteName, r.SiteURL, r.Language, r.LicenseKey, r.Installed)
	if err != nil {
		return fmt.Errorf("insert info row: %w", err)
	}
	return nil
}

// Load reads the info row.
func (s *Service) Load(ctx context.Context, db store.DBTX) (*Row, error) {
	var (
		r       Row
		release int64
	)
	err := db.QueryRowContext(ctx,
		`SELECT version, build, release_date, site_name, site_url, language, license_key, installed FROM info ORDER BY id LIMIT 1`).
		Scan(&r.Version, &r.Build, &release, &r.SiteName, &r.SiteURL, &r.Language, &r.LicenseKey, &r.Installed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load info row: %w", err)
	}
	r.ReleaseDate = time.Unix(release, 0).UTC()
	return &r, nil
}
