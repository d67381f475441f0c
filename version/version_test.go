package version

import (
	"strings"
	"testing"
	"time"
)

func saveAndRestore() func() {
	v, c, b := Version, GitCommit, BuildTime
	return func() {
		Version, GitCommit, BuildTime = v, c, b
	}
}

func TestGetUsesLinkTimeValues(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = "abc1234"
	BuildTime = "2026-01-15T10:30:00Z"

	info := Get()
	if info.Version != "1.2.0" {
		t.Errorf("expected version 1.2.0, got %q", info.Version)
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("expected commit abc1234, got %q", info.GitCommit)
	}
	want := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	if !info.BuildDate.Equal(want) {
		t.Errorf("expected build date %v, got %v", want, info.BuildDate)
	}
}

func TestGetDevDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"
	BuildTime = "not-a-time"

	info := Get()
	if info.IsRelease() {
		t.Error("dev must not be a release")
	}
}

func TestShortAndString(t *testing.T) {
	tests := []struct {
		name  string
		info  Info
		short string
	}{
		{"version only", Info{Version: "1.0.0"}, "1.0.0"},
		{"with commit", Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{"dirty", Info{Version: "1.0.0", GitCommit: "abc1234", Dirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Short(); got != tt.short {
				t.Errorf("expected %q, got %q", tt.short, got)
			}
			if !strings.HasPrefix(tt.info.String(), tt.short) {
				t.Errorf("expected String to start with %q, got %q", tt.short, tt.info.String())
			}
		})
	}

	dated := Info{Version: "1.0.0", BuildDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), GoVersion: "go1.26.0"}
	if got := dated.String(); got != "1.0.0 (built 2026-02-01T00:00:00Z) go1.26.0" {
		t.Errorf("unexpected String %q", got)
	}
}

func TestShortCommit(t *testing.T) {
	if got := shortCommit("0123456789abcdef"); got != "0123456" {
		t.Errorf("expected 7 chars, got %q", got)
	}
	if got := shortCommit("abc"); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}
}
