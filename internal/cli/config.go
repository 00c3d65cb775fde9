package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	hl7 "github.com/gohl7/hl7v2"
)

// Config holds tool settings resolved from the TOML file and defaults.
type Config struct {
	LenientNewlines bool
	DecodeEscapes   bool
	MaxMessageSize  int
	Workers         int
	Separator       string
}

// DefaultConfig mirrors the parser defaults: lenient line endings,
// escape decoding on, no size cap.
func DefaultConfig() Config {
	return Config{
		LenientNewlines: true,
		DecodeEscapes:   true,
		Separator:       "cr",
	}
}

type fileConfig struct {
	LenientNewlines bool   `toml:"lenient_newlines"`
	DecodeEscapes   bool   `toml:"decode_escapes"`
	MaxMessageSize  int    `toml:"max_message_size"`
	Workers         int    `toml:"workers"`
	Separator       string `toml:"separator"`
}

// loadConfig reads path, or $HL7V2_CONFIG when path is empty. No file
// at all means defaults.
func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = os.Getenv("HL7V2_CONFIG")
	}
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("lenient_newlines") {
		cfg.LenientNewlines = raw.LenientNewlines
	}
	if meta.IsDefined("decode_escapes") {
		cfg.DecodeEscapes = raw.DecodeEscapes
	}
	if meta.IsDefined("max_message_size") {
		if raw.MaxMessageSize < 0 {
			return Config{}, fmt.Errorf("load config: max_message_size must be >= 0, got %d", raw.MaxMessageSize)
		}
		cfg.MaxMessageSize = raw.MaxMessageSize
	}
	if meta.IsDefined("workers") {
		cfg.Workers = raw.Workers
	}
	if meta.IsDefined("separator") {
		switch raw.Separator {
		case "cr", "lf", "crlf":
			cfg.Separator = raw.Separator
		default:
			return Config{}, fmt.Errorf("load config: separator must be cr, lf, or crlf, got %q", raw.Separator)
		}
	}

	return cfg, nil
}

// Options translates the config into parser options.
func (c Config) Options() []hl7.Option {
	opts := []hl7.Option{
		hl7.WithLenientNewlines(c.LenientNewlines),
		hl7.WithEscapeDecoding(c.DecodeEscapes),
	}
	if c.MaxMessageSize > 0 {
		opts = append(opts, hl7.WithMaxMessageSize(c.MaxMessageSize))
	}
	return opts
}

// SeparatorString returns the configured segment terminator.
func (c Config) SeparatorString() string {
	switch c.Separator {
	case "lf":
		return hl7.SeparatorLF
	case "crlf":
		return hl7.SeparatorCRLF
	default:
		return hl7.SeparatorCR
	}
}
