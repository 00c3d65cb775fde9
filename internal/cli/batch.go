package cli

import (
	"fmt"
	"strings"

	hl7 "github.com/gohl7/hl7v2"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "batch [file | -]",
		Short: "Parse a batch or file envelope",
		Long: "Parse a BHS...BTS batch or an FHS...FTS file and check declared\n" +
			"trailer counts against the actual contents.",
		Args: cobra.ExactArgs(1),
		RunE: runBatch,
	}

	cmd.Flags().Bool("no-validate", false, "Skip trailer count validation")

	RootCmd.AddCommand(cmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	noValidate, _ := cmd.Flags().GetBool("no-validate")

	data, err := readInput(args[0])
	if err != nil {
		return err
	}
	text := string(data)

	switch {
	case strings.HasPrefix(strings.TrimSpace(text), "FHS"):
		return runFileEnvelope(text, noValidate)
	default:
		return runBatchEnvelope(text, noValidate)
	}
}

func runBatchEnvelope(text string, noValidate bool) error {
	batch, err := hl7.ParseBatch(text, parseOptions()...)
	if err != nil {
		return err
	}
	logger.Debug().Int("messages", len(batch.Messages)).Msg("parsed batch")

	if !noValidate {
		if err := batch.Validate(); err != nil {
			return err
		}
	}

	fmt.Printf("batch: %d message(s)\n", len(batch.Messages))
	for i, msg := range batch.Messages {
		fmt.Printf("  %d: %s %s\n", i+1, msg.MessageType(), msg.ControlID())
	}
	return nil
}

func runFileEnvelope(text string, noValidate bool) error {
	file, err := hl7.ParseFile(text, parseOptions()...)
	if err != nil {
		return err
	}
	logger.Debug().Int("batches", len(file.Batches)).Msg("parsed file")

	if !noValidate {
		if err := file.Validate(); err != nil {
			return err
		}
	}

	fmt.Printf("file: %d batch(es)\n", len(file.Batches))
	for i, batch := range file.Batches {
		fmt.Printf("  batch %d: %d message(s)\n", i+1, len(batch.Messages))
		for j, msg := range batch.Messages {
			fmt.Printf("    %d: %s %s\n", j+1, msg.MessageType(), msg.ControlID())
		}
	}
	return nil
}
