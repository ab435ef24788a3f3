package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckExists(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name      string
		setup     func(string) error
		wantExist bool
		wantError bool
	}{
		{
			name: "database exists",
			setup: func(dir string) error {
				dbPath := filepath.Join(dir, DefaultDBFile)
				f, err := os.Create(dbPath)
				if err != nil {
					return err
				}
				return f.Close()
			},
			wantExist: true,
			wantError: false,
		},
		{
			name: "database does not exist",
			setup: func(dir string) error {
				return nil
			},
			wantExist: false,
			wantError: false,
		},
		{
			name: "database path is directory",
			setup: func(dir string) error {
				dbPath := filepath.Join(dir, DefaultDBFile)
				return os.Mkdir(dbPath, 0755)
			},
			wantExist: false,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testDir := filepath.Join(tmpDir, tt.name)
			if err := os.Mkdir(testDir, 0755); err != nil {
				t.Fatalf("failed to create test dir: %v", err)
			}

			if err := tt.setup(testDir); err != nil {
				t.Fatalf("setup failed: %v", err)
			}

			exists, err := CheckExists(testDir)

			if tt.wantError && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if exists != tt.wantExist {
				t.Errorf("got exists=%v, want %v", exists, tt.wantExist)
			}
		})
	}
}

func TestGetDBPath(t *testing.T) {
	got := GetDBPath(filepath.Join("var", "cms"))
	want := filepath.Join("var", "cms", DefaultDBFile)
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStoreStateString(t *testing.T) {
	tests := []struct {
		state StoreState
		want  string
	}{
		{StateMissing, "missing"},
		{StateUninstalled, "uninstalled"},
		{StateVersionMismatch, "version-mismatch"},
		{StateReady, "ready"},
		{StoreState(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestSameRelease(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"0.1.0-alpha+abc1234", "0.1.0-alpha+def5678", true},
		{"0.1.0-alpha+abc1234", "0.1.0-alpha", true},
		{"0.1.0-alpha", "0.1.0-alpha", true},
		{"0.1.0-alpha+abc1234", "0.1.0-beta+abc1234", false},
		{"0.1.0", "0.2.0", false},
	}
	for _, tt := range tests {
		if got := SameRelease(tt.a, tt.b); got != tt.want {
			t.Errorf("SameRelease(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
