// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/mxfacade/cmd/mxctl/cli"
	"github.com/bureau-foundation/mxfacade/lib/version"
)

// Root returns the mxctl command tree bound to streams.
func Root(streams Streams) *cli.Command {
	return &cli.Command{
		Name: "mxctl",
		Description: `mxctl drives a Matrix homeserver from the command line.

Configuration comes from the file named by --config or $MXCTL_CONFIG.
Without either, --homeserver must be given. Run 'mxctl login' once to
store an access token; later commands read it from the token file.`,
		Subcommands: []*cli.Command{
			versionsCommand(streams),
			loginCommand(streams),
			logoutCommand(streams),
			whoamiCommand(streams),
			roomCommand(streams),
			sendCommand(streams),
			publicRoomsCommand(streams),
			presenceCommand(streams),
			pushRulesCommand(streams),
			uploadCommand(streams),
			transcriptCommand(streams),
			{
				Name:    "version",
				Summary: "Print the mxctl version",
				Run: func(ctx context.Context, args []string) error {
					_, err := fmt.Fprintln(streams.Stdout, version.Full())
					return err
				},
			},
		},
		Examples: []cli.Example{
			{Description: "Check that the server is reachable", Command: "mxctl versions --homeserver https://matrix.example.org"},
			{Description: "Log in, prompting for the password", Command: "mxctl login --user @ops:example.org"},
			{Description: "Read the last 20 messages of a room", Command: "mxctl room messages '!abc:example.org' --limit 20"},
		},
	}
}

// requireArgs checks the positional argument count.
func requireArgs(args []string, want int, usage string) error {
	if len(args) != want {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}
