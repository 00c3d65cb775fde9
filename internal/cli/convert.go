package cli

import (
	"encoding/json"
	"fmt"

	hl7 "github.com/gohl7/hl7v2"
	"github.com/gohl7/hl7v2/fhir"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "convert [file | -]",
		Short: "Convert a message to FHIR R4",
		Long:  "Parse a message and emit its PID segment as a FHIR R4 Patient in JSON.",
		Args:  cobra.ExactArgs(1),
		RunE:  runConvert,
	}

	RootCmd.AddCommand(cmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	data, err := readInput(args[0])
	if err != nil {
		return err
	}

	msg, err := hl7.ParseMessage(string(data), parseOptions()...)
	if err != nil {
		return err
	}

	patient, err := fhir.NewConverter().Patient(msg)
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(patient, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
