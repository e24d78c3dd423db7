package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
anytype_token: secret-token
anytype_space: space-123
threshold: 0.9
identifier_key: custom_doi
crossref_mailto: lab@example.org
`)

	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}

	if cfg.AnytypeToken != "secret-token" {
		t.Errorf("AnytypeToken = %q", cfg.AnytypeToken)
	}
	if cfg.Threshold != 0.9 {
		t.Errorf("Threshold = %v", cfg.Threshold)
	}
	if cfg.IdentifierKey != "custom_doi" {
		t.Errorf("IdentifierKey = %q", cfg.IdentifierKey)
	}
	if cfg.CrossRefMailto != "lab@example.org" {
		t.Errorf("CrossRefMailto = %q", cfg.CrossRefMailto)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadFrom(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}

	if cfg.Threshold != DefaultThreshold {
		t.Errorf("Threshold = %v, want %v", cfg.Threshold, DefaultThreshold)
	}
	if cfg.IdentifierKey != "doi" || cfg.ORCIDKey != "orcid" {
		t.Errorf("field keys = %q / %q", cfg.IdentifierKey, cfg.ORCIDKey)
	}
	if cfg.FamilyKey != "family" || cfg.GivenKey != "given" {
		t.Errorf("name keys = %q / %q", cfg.FamilyKey, cfg.GivenKey)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "anytype_token: from-file\nthreshold: 0.7\n")

	t.Setenv("ANYTYPE_TOKEN", "from-env")
	t.Setenv("ANYBIB_THRESHOLD", "0.95")

	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}
	if cfg.AnytypeToken != "from-env" {
		t.Errorf("AnytypeToken = %q, env should win", cfg.AnytypeToken)
	}
	if cfg.Threshold != 0.95 {
		t.Errorf("Threshold = %v, env should win", cfg.Threshold)
	}
}

func TestLoadThresholdZeroMeansUnset(t *testing.T) {
	path := writeConfig(t, "threshold: 0\n")
	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}
	if cfg.Threshold != DefaultThreshold {
		t.Errorf("Threshold = %v, want default %v for explicit 0", cfg.Threshold, DefaultThreshold)
	}
}

func TestLoadRejectsThresholdOutOfRange(t *testing.T) {
	path := writeConfig(t, "threshold: 1.5\n")
	if _, err := loadFrom(path); err == nil {
		t.Error("expected error for threshold out of range")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "anytype_token: [unclosed\n")
	if _, err := loadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	tests := []struct {
		in, want string
	}{
		{"~/aliases.yml", filepath.Join(home, "aliases.yml")},
		{"~", home},
		{"/abs/path", "/abs/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ExpandTilde(tt.in); got != tt.want {
			t.Errorf("ExpandTilde(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
