// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/mxfacade/cmd/mxctl/cli"
	"github.com/bureau-foundation/mxfacade/lib/dispatch"
	"github.com/bureau-foundation/mxfacade/lib/ref"
	"github.com/bureau-foundation/mxfacade/lib/schema"
	"github.com/bureau-foundation/mxfacade/messaging"
)

func presenceCommand(streams Streams) *cli.Command {
	return &cli.Command{
		Name:    "presence",
		Summary: "Read or publish presence",
		Subcommands: []*cli.Command{
			presenceGetCommand(streams),
			presenceSetCommand(streams),
		},
	}
}

func presenceGetCommand(streams Streams) *cli.Command {
	var params sessionParams
	return &cli.Command{
		Name:    "get",
		Summary: "Show a user's presence (default: yourself)",
		Usage:   "mxctl presence get [user-id] [--json]",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("get", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("usage: mxctl presence get [user-id]")
			}
			s, err := params.Connection.openSession(streams, true)
			if err != nil {
				return err
			}
			defer s.Close()

			var userID ref.UserID
			if len(args) == 1 {
				userID, err = ref.ParseUserID(args[0])
			} else {
				userID, err = s.selfID(ctx)
			}
			if err != nil {
				return err
			}

			status, err := dispatch.Wait(ctx, func(done func(dispatch.Result[messaging.PresenceStatus])) *dispatch.Handle {
				return s.client.Presence(userID, done)
			})
			if err != nil {
				return err
			}
			if params.OutputJSON {
				return cli.WriteJSON(streams.Stdout, status)
			}
			fmt.Fprintf(streams.Stdout, "%s: %s", userID, status.Presence)
			if status.StatusMsg != "" {
				fmt.Fprintf(streams.Stdout, " (%s)", status.StatusMsg)
			}
			if status.LastActiveAgo > 0 {
				fmt.Fprintf(streams.Stdout, ", active %s ago", (time.Duration(status.LastActiveAgo) * time.Millisecond).Round(time.Second))
			}
			fmt.Fprintln(streams.Stdout)
			return nil
		},
	}
}

type presenceSetParams struct {
	Connection connectionFlags
	Status     string `flag:"status" desc:"status message"`
}

func presenceSetCommand(streams Streams) *cli.Command {
	var params presenceSetParams
	return &cli.Command{
		Name:    "set",
		Summary: "Publish your presence",
		Usage:   "mxctl presence set <online|unavailable|offline> [--status TEXT]",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("set", &params) },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "mxctl presence set <online|unavailable|offline>"); err != nil {
				return err
			}
			presence, err := schema.ParsePresence(args[0])
			if err != nil {
				return err
			}
			s, err := params.Connection.openSession(streams, true)
			if err != nil {
				return err
			}
			defer s.Close()

			userID, err := s.selfID(ctx)
			if err != nil {
				return err
			}
			if _, err := dispatch.Wait(ctx, func(done func(dispatch.Result[messaging.Empty])) *dispatch.Handle {
				return s.client.SetPresence(userID, presence, params.Status, done)
			}); err != nil {
				return err
			}
			fmt.Fprintf(streams.Stdout, "presence set to %s\n", presence)
			return nil
		},
	}
}
