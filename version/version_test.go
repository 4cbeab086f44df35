package version

import "testing"

func TestGetFullVersion(t *testing.T) {
	defer func(v, c, d string) { Version, GitCommit, BuildDate = v, c, d }(Version, GitCommit, BuildDate)

	Version, GitCommit, BuildDate = "dev", "unknown", "unknown"
	if got := GetFullVersion(); got != "dev" {
		t.Errorf("Expected dev, got %s", got)
	}

	Version, GitCommit, BuildDate = "1.2.0", "abc123", "2026-10-01"
	if got := GetFullVersion(); got != "1.2.0 (abc123, built 2026-10-01)" {
		t.Errorf("Unexpected version: %s", got)
	}
	if got := GetVersion(); got != "1.2.0" {
		t.Errorf("Expected 1.2.0, got %s", got)
	}
}
