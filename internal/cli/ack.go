package cli

import (
	"fmt"

	hl7 "github.com/gohl7/hl7v2"
	"github.com/gohl7/hl7v2/ack"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "ack [file | -]",
		Short: "Build an acknowledgment for a message",
		Long: "Parse a message and print the acknowledgment a receiver would send,\n" +
			"with sender and receiver swapped and an MSA naming the control id.",
		Args: cobra.ExactArgs(1),
		RunE: runAck,
	}

	cmd.Flags().String("code", string(ack.CodeAccept), "MSA-1 code: AA, AE, or AR")
	cmd.Flags().String("text", "", "MSA-3 text")

	RootCmd.AddCommand(cmd)
}

func runAck(cmd *cobra.Command, args []string) error {
	code, _ := cmd.Flags().GetString("code")
	text, _ := cmd.Flags().GetString("text")

	switch ack.Code(code) {
	case ack.CodeAccept, ack.CodeError, ack.CodeReject:
	default:
		return fmt.Errorf("invalid code %q: want AA, AE, or AR", code)
	}

	data, err := readInput(args[0])
	if err != nil {
		return err
	}
	msg, err := hl7.ParseMessage(string(data), parseOptions()...)
	if err != nil {
		return err
	}

	reply, err := ack.New(msg).Code(ack.Code(code)).Text(text).Build()
	if err != nil {
		return err
	}

	fmt.Print(reply.EncodeWithSeparator(cfg.SeparatorString()))
	return nil
}
