// Package edition selects between the community and pro product behavior.
package edition

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
)

// Edition is the behavior that differs between products.
type Edition interface {
	// Name is the configuration value selecting this edition.
	Name() string
	// LicenseKey returns the key recorded in the info row.
	LicenseKey(supplied string) (string, error)
	// RegistersEmailMessages reports whether the default email messages are installed.
	RegistersEmailMessages() bool
	// UserLanguage returns the language preference stored on the first user.
	UserLanguage(siteLanguage string) string
	// TranslatableContent reports whether default fields are translatable.
	TranslatableContent() bool
}

// Community generates its own license key and installs no email messages.
type Community struct{}

func (Community) Name() string { return "community" }

// LicenseKey ignores supplied and generates a random key.
func (Community) LicenseKey(string) (string, error) {
	return GenerateLicenseKey()
}

func (Community) RegistersEmailMessages() bool { return false }
func (Community) UserLanguage(string) string   { return "" }
func (Community) TranslatableContent() bool    { return false }

// Pro uses the license key it was sold with and is multilingual.
type Pro struct{}

func (Pro) Name() string { return "pro" }

// LicenseKey returns the supplied key, which the info row validates.
func (Pro) LicenseKey(supplied string) (string, error) {
	return strings.ToUpper(strings.TrimSpace(supplied)), nil
}

func (Pro) RegistersEmailMessages() bool            { return true }
func (Pro) UserLanguage(siteLanguage string) string { return siteLanguage }
func (Pro) TranslatableContent() bool               { return true }

// Lookup returns the edition named name.
func Lookup(name string) (Edition, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "community":
		return Community{}, nil
	case "pro":
		return Pro{}, nil
	}
	return nil, fmt.Errorf("unknown edition %q", name)
}

// GenerateLicenseKey returns six groups of four uppercase hex digits.
func GenerateLicenseKey() (string, error) {
	var buf [12]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate license key: %w", err)
	}
	groups := make([]string, 6)
	for i := range groups {
		groups[i] = fmt.Sprintf("%04X", binary.BigEndian.Uint16(buf[i*2:]))
	}
	return strings.Join(groups, "-"), nil
}
