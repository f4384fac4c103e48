// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/mxfacade/cmd/mxctl/cli"
	"github.com/bureau-foundation/mxfacade/transport"
)

func transcriptCommand(streams Streams) *cli.Command {
	return &cli.Command{
		Name:    "transcript",
		Summary: "Inspect recorded call transcripts",
		Subcommands: []*cli.Command{
			transcriptShowCommand(streams),
		},
	}
}

type transcriptShowParams struct {
	Connection connectionFlags
	cli.JSONOutput
	Failures bool `flag:"failures" desc:"only show failed calls"`
}

func transcriptShowCommand(streams Streams) *cli.Command {
	var params transcriptShowParams
	return &cli.Command{
		Name:    "show",
		Summary: "Print the calls in a transcript",
		Description: `Decode a transcript written with --transcript or transcript.path and
print one line per call. Without a path argument, the configured
transcript is read.`,
		Usage: "mxctl transcript show [path] [--failures] [--json]",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("show", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("usage: mxctl transcript show [path]")
			}
			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				loaded, err := params.Connection.loadConfig()
				if err != nil {
					return err
				}
				path = loaded.Transcript.Path
			}
			if path == "" {
				return fmt.Errorf("no transcript path given and transcript.path is not configured")
			}

			file, err := os.Open(path)
			if err != nil {
				return err
			}
			defer file.Close()
			records, err := transport.ReadTranscript(file)
			if err != nil {
				return err
			}

			if params.Failures {
				kept := records[:0]
				for _, record := range records {
					if record.Outcome == transport.OutcomeFailure {
						kept = append(kept, record)
					}
				}
				records = kept
			}

			if params.OutputJSON {
				return cli.WriteJSON(streams.Stdout, records)
			}
			table := tabwriter.NewWriter(streams.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintln(table, "SEQ\tSTARTED\tDURATION\tCALL\tREQUEST\tOUTCOME")
			for _, record := range records {
				outcome := record.Outcome
				if record.ErrorCode != "" {
					outcome += " " + record.ErrorCode
				}
				if record.Progress > 0 {
					outcome += fmt.Sprintf(" (%d progress reports)", record.Progress)
				}
				fmt.Fprintf(table, "%d\t%s\t%s\t%s\t%s %s\t%s\n",
					record.Sequence,
					record.Started().UTC().Format(time.RFC3339),
					record.Duration(),
					record.Descriptor,
					record.Method, record.Path,
					outcome)
			}
			return table.Flush()
		},
	}
}
