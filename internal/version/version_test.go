package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestCurrentUsesOverrides(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version = " 1.2.3 "
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	info := Current()
	if info.Version != "1.2.3" {
		t.Fatalf("Version = %q, want %q", info.Version, "1.2.3")
	}
	if info.GitCommit != "abc123def456" || info.BuildDate != "2024-01-15T10:30:00Z" {
		t.Fatalf("overrides lost: %+v", info)
	}
}

func TestCurrentDefaultsToDev(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	Version = ""
	if got := Current().Version; got != "dev" {
		t.Fatalf("want dev got %q", got)
	}
}

func TestColored(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	cases := map[string]string{
		"0.1.0-dev":            "0.1.0-dev",
		"1.2.3":                "1.2.3",
		"1.2.3-rc.1+build.123": "1.2.3-rc.1+build.123",
		"nightly":              "nightly",
	}
	for in, want := range cases {
		if got := Colored(in); got != want {
			t.Fatalf("Colored(%q) = %q, want %q", in, got, want)
		}
	}
}
