// Package dashboard manages the widgets shown on a user's dashboard.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/maloquacious/goobcms/internal/store"
)

// Widget is one dashboard widget of a user.
type Widget struct {
	Type     string
	Settings map[string]any
}

// DefaultWidgets are assigned to the first user at install time.
var DefaultWidgets = []Widget{
	{Type: "RecentEntries", Settings: map[string]any{"limit": 10}},
	{Type: "QuickPost", Settings: map[string]any{"section": "blog"}},
	{Type: "Updates"},
	{Type: "Feed", Settings: map[string]any{"url": "https://github.com/maloquacious/goobcms/releases.atom", "title": "goobcms releases"}},
}

// Service writes widget rows.
type Service struct {
	defaults []Widget
}

// New returns a Service assigning DefaultWidgets.
func New() *Service {
	return &Service{defaults: DefaultWidgets}
}

// AddDefaultUserWidgets gives userID the default widgets in order.
func (s *Service) AddDefaultUserWidgets(ctx context.Context, db store.DBTX, userID int64) error {
	for i, w := range s.defaults {
		settings := w.Settings
		if settings == nil {
			settings = map[string]any{}
		}
		raw, err := json.Marshal(settings)
		if err != nil {
			return fmt.Errorf("encode %s widget settings: %w", w.Type, err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO widgets (user_id, type, sort_order, settings) VALUES (?, ?, ?, ?)`,
			userID, w.Type, i+1, string(raw)); err != nil {
			return fmt.Errorf("add %s widget: %w", w.Type, err)
		}
	}
	return nil
}

// UserWidgets returns the widget types of userID in display order.
func (s *Service) UserWidgets(ctx context.Context, db store.DBTX, userID int64) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT type FROM widgets WHERE user_id = ? AND enabled = 1 ORDER BY sort_order`, userID)
	if err != nil {
		return nil, fmt.Errorf("list widgets: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var typ string
		if err := rows.Scan(&typ); err != nil {
			return nil, fmt.Errorf("scan widget: %w", err)
		}
		out = append(out, typ)
	}
	return out, rows.Err()
}
