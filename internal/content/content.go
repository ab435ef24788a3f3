// Package content manages sections and the entry blocks (fields) attached to them.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/maloquacious/goobcms/internal/handle"
	"github.com/maloquacious/goobcms/internal/store"
	"github.com/maloquacious/goobcms/internal/validation"
)

// Block classes understood by the entry editor.
const (
	ClassPlainText = "PlainText"
	ClassRichText  = "RichText"
	ClassNumber    = "Number"
	ClassDropdown  = "Dropdown"
)

var blockClasses = map[string]bool{
	ClassPlainText: true,
	ClassRichText:  true,
	ClassNumber:    true,
	ClassDropdown:  true,
}

// Section is a named container of entries.
type Section struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Handle    string `json:"handle"`
	URLFormat string `json:"url_format"`
	HasURLs   bool   `json:"has_urls"`
	Template  string `json:"template"`
}

// EntryBlock is a field definition on a section.
type EntryBlock struct {
	ID           int64          `json:"id"`
	SectionID    int64          `json:"section_id"`
	Name         string         `json:"name"`
	Handle       string         `json:"handle"`
	Class        string         `json:"class"`
	Required     bool           `json:"required"`
	Translatable bool           `json:"translatable"`
	Settings     map[string]any `json:"settings,omitempty"`
}

// Service writes sections and entry blocks.
type Service struct{}

// New returns a Service.
func New() *Service {
	return &Service{}
}

// SaveSection validates and inserts a section.
func (s *Service) SaveSection(ctx context.Context, db store.DBTX, sec Section) (*Section, error) {
	sec.Name = strings.TrimSpace(sec.Name)
	sec.Handle = strings.TrimSpace(sec.Handle)

	var errs validation.Errors
	errs.Required("name", "Name", sec.Name)
	validateHandle(&errs, sec.Handle)
	if sec.HasURLs {
		errs.Required("urlFormat", "URL format", sec.URLFormat)
		errs.Required("template", "Template", sec.Template)
	}
	if !errs.Has("handle") {
		taken, err := count(ctx, db, `SELECT COUNT(*) FROM sections WHERE handle = ?`, sec.Handle)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("handle", fmt.Sprintf("Handle %q has already been taken", sec.Handle))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	res, err := db.ExecContext(ctx,
		`INSERT INTO sections (name, handle, url_format, has_urls, template) VALUES (?, ?, ?, ?, ?)`,
		sec.Name, sec.Handle, sec.URLFormat, sec.HasURLs, sec.Template)
	if err != nil {
		return nil, fmt.Errorf("insert section: %w", err)
	}
	if sec.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("insert section: %w", err)
	}
	return &sec, nil
}

// SaveEntryBlock validates and attaches a block to its section, after any
// blocks the section already has.
func (s *Service) SaveEntryBlock(ctx context.Context, db store.DBTX, b EntryBlock) (*EntryBlock, error) {
	b.Name = strings.TrimSpace(b.Name)
	b.Handle = strings.TrimSpace(b.Handle)

	var errs validation.Errors
	errs.Required("name", "Name", b.Name)
	validateHandle(&errs, b.Handle)
	if !blockClasses[b.Class] {
		errs.Add("class", fmt.Sprintf("Class %q is not a known block type", b.Class))
	}
	found, err := count(ctx, db, `SELECT COUNT(*) FROM sections WHERE id = ?`, b.SectionID)
	if err != nil {
		return nil, err
	}
	if !found {
		errs.Add("sectionId", "Section does not exist")
	} else if !errs.Has("handle") {
		taken, err := count(ctx, db, `SELECT COUNT(*) FROM entry_blocks WHERE section_id = ? AND handle = ?`, b.SectionID, b.Handle)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("handle", fmt.Sprintf("Handle %q has already been taken", b.Handle))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	settings := b.Settings
	if settings == nil {
		settings = map[string]any{}
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return nil, fmt.Errorf("encode block settings: %w", err)
	}

	res, err := db.ExecContext(ctx,
		`INSERT INTO entry_blocks (section_id, name, handle, class, required, translatable, settings, sort_order)
		 VALUES (?, ?, ?, ?, ?, ?, ?, (SELECT COUNT(*) + 1 FROM entry_blocks WHERE section_id = ?))`,
		b.SectionID, b.Name, b.Handle, b.Class, b.Required, b.Translatable, string(raw), b.SectionID)
	if err != nil {
		return nil, fmt.Errorf("insert entry block: %w", err)
	}
	if b.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("insert entry block: %w", err)
	}
	return &b, nil
}

func validateHandle(errs *validation.Errors, h string) {
	if h == "" {
		errs.Add("handle", "Handle cannot be blank")
		return
	}
	if !handle.Valid(h) {
		errs.Add("handle", fmt.Sprintf("Handle %q must start with a letter and contain only lowercase letters and numbers", h))
	}
}

func count(ctx context.Context, db store.DBTX, query string, args ...any) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("query content: %w", err)
	}
	return n > 0, nil
}
