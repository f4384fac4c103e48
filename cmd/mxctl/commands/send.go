// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/mxfacade/cmd/mxctl/cli"
	"github.com/bureau-foundation/mxfacade/lib/dispatch"
	"github.com/bureau-foundation/mxfacade/lib/ref"
	"github.com/bureau-foundation/mxfacade/lib/schema"
	"github.com/bureau-foundation/mxfacade/messaging"
)

type sendParams struct {
	Connection connectionFlags
	cli.JSONOutput
	Thread  string `flag:"thread" desc:"reply in the thread rooted at this event ID"`
	MsgType string `flag:"msgtype" desc:"message type (m.text, m.notice, m.emote, or a custom type)" default:"m.text"`
}

func sendCommand(streams Streams) *cli.Command {
	var params sendParams
	return &cli.Command{
		Name:    "send",
		Summary: "Send a text message to a room",
		Usage:   "mxctl send <room-id> <text>... [--thread EVENT_ID] [--msgtype TYPE]",
		Examples: []cli.Example{
			{Description: "Post a notice", Command: "mxctl send '!abc:example.org' --msgtype m.notice deploy finished"},
			{Description: "Reply in a thread", Command: "mxctl send '!abc:example.org' --thread '$root' looking now"},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("send", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("usage: mxctl send <room-id> <text>...")
			}
			roomID, err := parseRoomArg(args[0])
			if err != nil {
				return err
			}
			body := strings.Join(args[1:], " ")

			content := messaging.NewTextMessage(body)
			if params.Thread != "" {
				root, err := ref.ParseEventID(params.Thread)
				if err != nil {
					return fmt.Errorf("--thread: %w", err)
				}
				content = messaging.NewThreadReply(root, body)
			}
			content.MsgType = schema.ParseMessageType(params.MsgType)

			s, err := params.Connection.openSession(streams, true)
			if err != nil {
				return err
			}
			defer s.Close()

			eventID, err := dispatch.Wait(ctx, func(done func(dispatch.Result[ref.EventID])) *dispatch.Handle {
				return s.client.SendMessage(roomID, content, done)
			})
			if err != nil {
				return err
			}
			if params.OutputJSON {
				return cli.WriteJSON(streams.Stdout, map[string]ref.EventID{"event_id": eventID})
			}
			fmt.Fprintln(streams.Stdout, eventID)
			return nil
		},
	}
}

type publicRoomsParams struct {
	Connection connectionFlags
	cli.JSONOutput
	Limit  int    `flag:"limit,n" desc:"rooms per page, 1-500 (-1 uses defaults.public_rooms_limit)" default:"-1"`
	Since  string `flag:"since" desc:"pagination token from a previous page"`
	Server string `flag:"server" desc:"query another server's directory"`
}

func publicRoomsCommand(streams Streams) *cli.Command {
	var params publicRoomsParams
	return &cli.Command{
		Name:    "public-rooms",
		Summary: "Browse the public room directory",
		Usage:   "mxctl public-rooms [--limit N] [--since TOKEN] [--server NAME] [--json]",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("public-rooms", &params) },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "mxctl public-rooms"); err != nil {
				return err
			}
			var server ref.ServerName
			if params.Server != "" {
				var err error
				if server, err = ref.ParseServerName(params.Server); err != nil {
					return fmt.Errorf("--server: %w", err)
				}
			}

			s, err := params.Connection.openSession(streams, true)
			if err != nil {
				return err
			}
			defer s.Close()

			options := messaging.PublicRoomsOptions{
				Limit:  limitFrom(params.Limit, messaging.PublicRoomsLimit, s.config.PublicRoomsLimit()),
				Since:  params.Since,
				Server: server,
			}
			page, err := dispatch.Wait(ctx, func(done func(dispatch.Result[messaging.PublicRoomsPage])) *dispatch.Handle {
				return s.client.PublicRooms(options, done)
			})
			if err != nil {
				return err
			}
			if params.OutputJSON {
				return cli.WriteJSON(streams.Stdout, page)
			}
			for _, room := range page.Chunk {
				name := room.Name
				if name == "" && !room.CanonicalAlias.IsZero() {
					name = room.CanonicalAlias.String()
				}
				fmt.Fprintf(streams.Stdout, "%s  %-30s  %d members\n", room.RoomID, name, room.NumJoinedMembers)
			}
			if page.NextBatch != "" {
				fmt.Fprintf(streams.Stdout, "next: %s\n", page.NextBatch)
			}
			return nil
		},
	}
}
