// Package cli implements the hl7v2 command-line tool.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	hl7 "github.com/gohl7/hl7v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	formatFlag string

	logger zerolog.Logger
	cfg    Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "hl7v2",
	Short: "Parse, inspect, and convert HL7 v2.x messages",
	Long: "A command-line tool for HL7 v2.x ER7 messages: parse single messages,\n" +
		"batches, and files, query fields by terser path, build acknowledgments,\n" +
		"and convert segments to FHIR R4 resources.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = initLogger(logLevel)
		var err error
		cfg, err = loadConfig(configPath)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML config file (default: $HL7V2_CONFIG if set)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: trace, debug, info, warn, error")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text or json")
}

func initLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().Timestamp().Str("app", "hl7v2").Logger().Level(lvl)
}

// readInput reads one message source: a file path, or "-" for stdin.
func readInput(arg string) ([]byte, error) {
	if arg == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func parseOptions() []hl7.Option {
	return cfg.Options()
}
