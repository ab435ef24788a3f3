// Package settings persists installation-wide settings grouped by category.
package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/maloquacious/goobcms/internal/store"
)

// CategoryEmail holds the outbound mail settings.
const CategoryEmail = "email"

// Outbound mail protocols.
const (
	ProtocolSendmail = "sendmail"
	ProtocolSMTP     = "smtp"
)

// Email is the value stored under CategoryEmail.
type Email struct {
	Protocol     string `json:"protocol"`
	EmailAddress string `json:"emailAddress"`
	SenderName   string `json:"senderName"`
	Host         string `json:"host,omitempty"`
	Port         int    `json:"port,omitempty"`
}

// Service reads and writes system_settings rows.
type Service struct {
	now func() time.Time
}

// New returns a Service.
func New() *Service {
	return &Service{now: time.Now}
}

// SaveSettings replaces the settings of category with values encoded as JSON.
func (s *Service) SaveSettings(ctx context.Context, db store.DBTX, category string, values any) error {
	if category == "" {
		return errors.New("settings category is required")
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode %s settings: %w", category, err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO system_settings (category, settings, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (category) DO UPDATE SET settings = excluded.settings, updated_at = excluded.updated_at`,
		category, string(raw), s.now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("save %s settings: %w", category, err)
	}
	return nil
}

// LoadSettings decodes the settings of category into target.
// It reports false when the category has never been saved.
func (s *Service) LoadSettings(ctx context.Context, db store.DBTX, category string, target any) (bool, error) {
	var raw string
	err := db.QueryRowContext(ctx, `SELECT settings FROM system_settings WHERE category = ?`, category).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s settings: %w", category, err)
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return false, fmt.Errorf("decode %s settings: %w", category, err)
	}
	return true, nil
}
