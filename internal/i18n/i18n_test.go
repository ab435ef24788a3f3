package i18n

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultBundle(t *testing.T) {
	b := Default()

	if diff := cmp.Diff([]string{"de-DE", "en-US"}, b.Locales()); diff != "" {
		t.Errorf("locales mismatch (-want +got):\n%s", diff)
	}

	tests := []struct {
		name   string
		locale string
		key    string
		params map[string]string
		want   string
	}{
		{
			name:   "placeholder",
			locale: "en-US",
			key:    "install.user_problem",
			params: map[string]string{"errorMessages": "Email is taken"},
			want:   "There was a problem creating the user: Email is taken",
		},
		{
			name:   "language only tag matches regional catalog",
			locale: "de",
			key:    "install.already_installed",
			params: map[string]string{"product": "goobcms"},
			want:   "goobcms ist bereits installiert.",
		},
		{
			name:   "unknown locale falls back to base",
			locale: "fr-FR",
			key:    "content.blog",
			want:   "Blog",
		},
		{
			name:   "malformed locale falls back to base",
			locale: "!!",
			key:    "content.body",
			want:   "Body",
		},
		{
			name:   "unknown key",
			locale: "en-US",
			key:    "nope.missing",
			want:   "nope.missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.T(tt.locale, tt.key, tt.params); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmailBodiesAreMultiline(t *testing.T) {
	body := Default().T("en-US", "email.forgot_password_body", nil)
	if !strings.Contains(body, "\n\n{{.Link}}\n\n") {
		t.Errorf("expected link on its own paragraph, got %q", body)
	}
}

func TestLoadFromFSErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   fstest.MapFS
		wantErr string
	}{
		{
			name:    "no catalogs",
			files:   fstest.MapFS{},
			wantErr: "no catalog files found",
		},
		{
			name: "locale mismatch",
			files: fstest.MapFS{
				"locales/en-US/a.yaml": {Data: []byte("locale: de-DE\nmessages:\n  a: \"b\"\n")},
			},
			wantErr: "must match path locale",
		},
		{
			name: "missing base locale",
			files: fstest.MapFS{
				"locales/de-DE/a.yaml": {Data: []byte("locale: de-DE\nmessages:\n  a: \"b\"\n")},
			},
			wantErr: "base locale en-US",
		},
		{
			name: "duplicate key",
			files: fstest.MapFS{
				"locales/en-US/a.yaml": {Data: []byte("locale: en-US\nmessages:\n  k: \"1\"\n")},
				"locales/en-US/b.yaml": {Data: []byte("locale: en-US\nmessages:\n  k: \"2\"\n")},
			},
			wantErr: "duplicate key",
		},
		{
			name: "bad yaml",
			files: fstest.MapFS{
				"locales/en-US/a.yaml": {Data: []byte("locale: [\n")},
			},
			wantErr: "parse catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFS(tt.files)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("got %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
