package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGetPrefersStampedValues(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	defer func() { Version, Commit, Date = oldV, oldC, oldD }()

	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-02T03:04:05Z"
	got := Get()
	if got.Version != "v1.2.3" || got.Commit != "abc123" || got.Date != "2026-01-02T03:04:05Z" {
		t.Errorf("Get() = %+v", got)
	}
	if got.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q", got.GoVersion)
	}
	if tmpl := Template(); !strings.Contains(tmpl, "version v1.2.3") || !strings.Contains(tmpl, "commit: abc123") {
		t.Errorf("Template() = %q", tmpl)
	}
}

func TestGetUnstamped(t *testing.T) {
	got := Get()
	if got.Version == "" || got.Commit == "" || got.Date == "" {
		t.Errorf("Get() left fields empty: %+v", got)
	}
}
