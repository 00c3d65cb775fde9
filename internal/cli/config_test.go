package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hl7v2.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if !cfg.LenientNewlines {
		t.Error("LenientNewlines = false; want true")
	}
	if !cfg.DecodeEscapes {
		t.Error("DecodeEscapes = false; want true")
	}
	if cfg.MaxMessageSize != 0 {
		t.Errorf("MaxMessageSize = %d; want 0", cfg.MaxMessageSize)
	}
	if cfg.Separator != "cr" {
		t.Errorf("Separator = %q; want cr", cfg.Separator)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
lenient_newlines = false
decode_escapes = false
max_message_size = 1048576
workers = 8
separator = "crlf"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.LenientNewlines {
		t.Error("LenientNewlines = true; want false")
	}
	if cfg.DecodeEscapes {
		t.Error("DecodeEscapes = true; want false")
	}
	if cfg.MaxMessageSize != 1048576 {
		t.Errorf("MaxMessageSize = %d; want 1048576", cfg.MaxMessageSize)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers = %d; want 8", cfg.Workers)
	}
	if cfg.Separator != "crlf" {
		t.Errorf("Separator = %q; want crlf", cfg.Separator)
	}
}

func TestLoadConfigPartial(t *testing.T) {
	path := writeConfig(t, `workers = 2`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d; want 2", cfg.Workers)
	}
	// Untouched keys keep defaults
	if !cfg.LenientNewlines {
		t.Error("LenientNewlines = false; want true")
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, body string
	}{
		{"negative size", `max_message_size = -1`},
		{"bad separator", `separator = "tab"`},
		{"malformed toml", `workers = `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.body)
			if _, err := loadConfig(path); err == nil {
				t.Error("loadConfig() error = nil; want non-nil")
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("loadConfig() on missing file: error = nil; want non-nil")
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxMessageSize = 64
	if got := len(cfg.Options()); got != 3 {
		t.Errorf("len(Options()) = %d; want 3", got)
	}

	cfg.MaxMessageSize = 0
	if got := len(cfg.Options()); got != 2 {
		t.Errorf("len(Options()) = %d; want 2", got)
	}
}
