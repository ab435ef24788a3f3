// Package accounts creates users, hashes their passwords and logs them in.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maloquacious/goobcms/internal/store"
	"github.com/maloquacious/goobcms/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	// bcrypt ignores everything past 72 bytes.
	MaxPasswordLength = 72
	MaxUsernameLength = 100
)

// ErrInvalidCredentials is returned by Login when the username or password is wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// User is a CMS account.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Admin        bool      `json:"admin"`
	Language     string    `json:"language,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser is the input to Create.
type NewUser struct {
	Username string
	Email    string
	Password string
	Admin    bool
	Language string
}

// Session is a logged-in user's session.
type Session struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Service implements the accounts operations against the users and sessions tables.
type Service struct {
	cost       int
	sessionTTL time.Duration
	now        func() time.Time
}

// New returns a Service hashing with the given bcrypt cost.
func New(cost int, sessionTTL time.Duration) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if sessionTTL <= 0 {
		sessionTTL = 30 * 24 * time.Hour
	}
	return &Service{cost: cost, sessionTTL: sessionTTL, now: time.Now}
}

// HashPassword applies the one-way password transformation.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Create validates and inserts a user. Validation problems are returned as
// validation.Errors.
func (s *Service) Create(ctx context.Context, db store.DBTX, in NewUser) (*User, error) {
	u := &User{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.TrimSpace(in.Email),
		Admin:    in.Admin,
		Language: in.Language,
	}

	errs, err := s.validate(ctx, db, u, in.Password)
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}

	u.PasswordHash, err = s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = s.now().UTC().Truncate(time.Second)

	res, err := db.ExecContext(ctx,
		`INSERT INTO users (username, email, password_hash, admin, language, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.PasswordHash, u.Admin, u.Language, u.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	if u.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *Service) validate(ctx context.Context, db store.DBTX, u *User, password string) (validation.Errors, error) {
	var errs validation.Errors
	errs.Required("username", "Username", u.Username)
	errs.MaxLength("username", "Username", u.Username, MaxUsernameLength)
	errs.Required("email", "Email", u.Email)
	if u.Email != "" {
		if addr, err := mail.ParseAddress(u.Email); err != nil || addr.Address != u.Email {
			errs.Add("email", "Email is not a valid email address")
		}
	}
	switch {
	case len(password) < MinPasswordLength:
		errs.Add("password", fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	case len(password) > MaxPasswordLength:
		errs.Add("password", fmt.Sprintf("Password must be at most %d bytes", MaxPasswordLength))
	}

	for _, uniq := range []struct{ field, label, value string }{
		{"username", "Username", u.Username},
		{"email", "Email", u.Email},
	} {
		if uniq.value == "" || errs.Has(uniq.field) {
			continue
		}
		taken, err := exists(ctx, db, `SELECT COUNT(*) FROM users WHERE `+uniq.field+` = ? COLLATE NOCASE`, uniq.value)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add(uniq.field, fmt.Sprintf("%s %q has already been taken", uniq.label, uniq.value))
		}
	}
	return errs, nil
}

// Login checks the password and opens a session for the user.
func (s *Service) Login(ctx context.Context, db store.DBTX, username, password string) (*Session, error) {
	var (
		id   int64
		hash string
	)
	err := db.QueryRowContext(ctx, `SELECT id, password_hash FROM users WHERE username = ?`, username).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC().Truncate(time.Second)
	sess := &Session{
		UserID:    id,
		Token:     uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	res, err := db.ExecContext(ctx,
		`INSERT INTO sessions (user_id, token, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		sess.UserID, sess.Token, sess.ExpiresAt.Unix(), sess.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	if sess.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	if _, err := db.ExecContext(ctx, `UPDATE users SET last_login_at = ? WHERE id = ?`, now.Unix(), id); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	return sess, nil
}

func exists(ctx context.Context, db store.DBTX, query string, args ...any) (bool, error) {
	var n int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, fmt.Errorf("check uniqueness: %w", err)
	}
	return n > 0, nil
}
