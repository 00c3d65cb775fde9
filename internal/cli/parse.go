package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	hl7 "github.com/gohl7/hl7v2"
	"github.com/gohl7/hl7v2/terser"
	"github.com/gohl7/hl7v2/worker"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "parse [file... | -]",
		Short: "Parse one or more messages",
		Long: "Parse each input as a single ER7 message. Use - to read from stdin.\n" +
			"Multiple files are parsed in parallel.",
		Args: cobra.MinimumNArgs(1),
		RunE: runParse,
	}

	cmd.Flags().StringArrayP("get", "g", nil, "Terser path to print instead of the full message (repeatable)")
	cmd.Flags().Bool("strict", false, "Require canonical CR segment terminators")

	RootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	paths, _ := cmd.Flags().GetStringArray("get")
	strict, _ := cmd.Flags().GetBool("strict")

	opts := parseOptions()
	if strict {
		opts = append(opts, hl7.WithLenientNewlines(false))
	}

	if len(args) == 1 {
		data, err := readInput(args[0])
		if err != nil {
			return err
		}
		msg, err := hl7.ParseMessage(string(data), opts...)
		if err != nil {
			return err
		}
		return emitMessage(msg, paths)
	}

	return parseMany(args, paths, opts)
}

// parseMany fans the files out over a worker pool and reports results in
// argument order.
func parseMany(args, paths []string, opts []hl7.Option) error {
	jobs := make([]worker.Job, 0, len(args))
	for _, arg := range args {
		data, err := readInput(arg)
		if err != nil {
			return err
		}
		jobs = append(jobs, worker.Job{ID: arg, Raw: data})
	}

	parser := worker.ParserFunc(func(_ context.Context, raw []byte) (*hl7.Message, error) {
		return hl7.ParseMessage(string(raw), opts...)
	})

	start := time.Now()
	batch := worker.NewBatchParser(parser, cfg.Workers).ParseAll(jobs)
	logger.Debug().
		Int("files", len(jobs)).
		Int("failed", batch.FailedJobs).
		Dur("elapsed", time.Since(start)).
		Msg("parsed inputs")

	byID := make(map[string]*worker.JobResult, len(batch.Results))
	for _, r := range batch.Results {
		byID[r.ID] = r
	}

	var firstErr error
	for _, arg := range args {
		r := byID[arg]
		if r.Error != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", arg, r.Error)
			if firstErr == nil {
				firstErr = r.Error
			}
			continue
		}
		fmt.Printf("== %s\n", arg)
		if err := emitMessage(r.Message, paths); err != nil {
			return err
		}
	}
	return firstErr
}

func emitMessage(msg *hl7.Message, paths []string) error {
	if len(paths) > 0 {
		for _, path := range paths {
			value, err := terser.Get(msg, path)
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\n", path, value)
		}
		return nil
	}

	if formatFlag == "json" {
		b, err := json.MarshalIndent(messageJSON(msg), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	}

	fmt.Printf("type: %s\ncontrol id: %s\nsegments: %d\n",
		msg.MessageType(), msg.ControlID(), len(msg.Segments))
	for _, seg := range msg.Segments {
		fmt.Printf("  %s (%d fields)\n", seg.ID, seg.FieldCount())
	}
	return nil
}

// messageJSON renders the message tree as nested JSON: segments hold
// fields, fields hold repetitions, and so on down to leaf strings.
// Single-child levels collapse to the leaf so simple values stay simple.
func messageJSON(msg *hl7.Message) map[string]any {
	segments := make([]map[string]any, 0, len(msg.Segments))
	for _, seg := range msg.Segments {
		fields := make([]any, 0, seg.FieldCount())
		for i := 1; i <= seg.FieldCount(); i++ {
			fields = append(fields, fieldJSON(seg.Field(i)))
		}
		segments = append(segments, map[string]any{
			"id":     seg.ID,
			"fields": fields,
		})
	}
	return map[string]any{
		"type":      msg.MessageType(),
		"controlId": msg.ControlID(),
		"segments":  segments,
	}
}

func fieldJSON(f *hl7.Field) any {
	reps := make([]any, 0, len(f.Repetitions))
	for i := range f.Repetitions {
		reps = append(reps, repetitionJSON(&f.Repetitions[i]))
	}
	if len(reps) == 1 {
		return reps[0]
	}
	return reps
}

func repetitionJSON(r *hl7.Repetition) any {
	comps := make([]any, 0, len(r.Components))
	for i := range r.Components {
		comps = append(comps, componentJSON(&r.Components[i]))
	}
	if len(comps) == 1 {
		return comps[0]
	}
	return comps
}

func componentJSON(c *hl7.Component) any {
	if len(c.SubComponents) == 1 {
		return string(c.SubComponents[0])
	}
	subs := make([]any, 0, len(c.SubComponents))
	for _, s := range c.SubComponents {
		subs = append(subs, string(s))
	}
	return subs
}
