// Package email registers system email messages and their localized content.
package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/maloquacious/goobcms/internal/handle"
	"github.com/maloquacious/goobcms/internal/store"
	"github.com/maloquacious/goobcms/internal/templating"
	"github.com/maloquacious/goobcms/internal/validation"
)

// Message is a registered system email.
type Message struct {
	ID  int64
	Key string
}

// MessageContent is the subject and body of a message in one language.
// The body is a text/template rendered when the email is sent.
type MessageContent struct {
	ID        int64
	MessageID int64
	Language  string
	Subject   string
	Body      string
}

// Service writes email messages.
type Service struct{}

// New returns a Service.
func New() *Service {
	return &Service{}
}

// RegisterMessage records a message key. Keys are lowercase words joined by underscores.
func (s *Service) RegisterMessage(ctx context.Context, db store.DBTX, key string) (*Message, error) {
	key = strings.TrimSpace(key)

	var errs validation.Errors
	errs.Required("key", "Key", key)
	if key != "" && !validKey(key) {
		errs.Add("key", fmt.Sprintf("Key %q may only contain lowercase letters, numbers and underscores", key))
	}
	if !errs.Has("key") {
		var n int
		if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM email_messages WHERE key = ?`, key).Scan(&n); err != nil {
			return nil, fmt.Errorf("query email messages: %w", err)
		}
		if n > 0 {
			errs.Add("key", fmt.Sprintf("Key %q has already been taken", key))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	res, err := db.ExecContext(ctx, `INSERT INTO email_messages (key) VALUES (?)`, key)
	if err != nil {
		return nil, fmt.Errorf("insert email message: %w", err)
	}
	m := &Message{Key: key}
	if m.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("insert email message: %w", err)
	}
	return m, nil
}

// SaveMessageContent stores the subject and body of a message for language.
func (s *Service) SaveMessageContent(ctx context.Context, db store.DBTX, messageID int64, language, subject, body string) (*MessageContent, error) {
	c := &MessageContent{
		MessageID: messageID,
		Language:  strings.TrimSpace(language),
		Subject:   strings.TrimSpace(subject),
		Body:      body,
	}

	var errs validation.Errors
	errs.Required("language", "Language", c.Language)
	errs.Required("subject", "Subject", c.Subject)
	errs.Required("body", "Body", c.Body)
	if strings.TrimSpace(c.Body) != "" {
		if _, err := templating.Parse("email", c.Body); err != nil {
			errs.Add("body", "Body is not a valid template: "+err.Error())
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	res, err := db.ExecContext(ctx,
		`INSERT INTO email_message_content (message_id, language, subject, body) VALUES (?, ?, ?, ?)`,
		c.MessageID, c.Language, c.Subject, c.Body)
	if err != nil {
		return nil, fmt.Errorf("insert email message content: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("insert email message content: %w", err)
	}
	return c, nil
}

// Render fills a stored body with data.
func (c *MessageContent) Render(data any) (string, error) {
	return templating.Render("email", c.Body, data)
}

func validKey(key string) bool {
	for _, part := range strings.Split(key, "_") {
		if !handle.Valid(part) {
			return false
		}
	}
	return true
}
