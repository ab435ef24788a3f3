package main

import (
	"strings"
	"testing"

	"github.com/maloquacious/goobcms/internal/store"
)

func TestRelease(t *testing.T) {
	rel := release()
	if strings.Contains(rel.Version, "+") {
		t.Errorf("release version %q carries build metadata", rel.Version)
	}
	if !store.SameRelease(rel.Version, version.String()) {
		t.Errorf("release version %q does not match %q", rel.Version, version.String())
	}
	want := version.Build
	if want == "" {
		want = "dev"
	}
	if rel.Build != want {
		t.Errorf("got build %q, want %q", rel.Build, want)
	}
}
