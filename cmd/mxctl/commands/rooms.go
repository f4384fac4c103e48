// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/mxfacade/cmd/mxctl/cli"
	"github.com/bureau-foundation/mxfacade/lib/dispatch"
	"github.com/bureau-foundation/mxfacade/lib/ref"
	"github.com/bureau-foundation/mxfacade/lib/schema"
	"github.com/bureau-foundation/mxfacade/lib/sentinel"
	"github.com/bureau-foundation/mxfacade/messaging"
)

func roomCommand(streams Streams) *cli.Command {
	return &cli.Command{
		Name:    "room",
		Summary: "Create, join, leave, and inspect rooms",
		Subcommands: []*cli.Command{
			roomListCommand(streams),
			roomCreateCommand(streams),
			roomJoinCommand(streams),
			roomLeaveCommand(streams),
			roomJoinRuleCommand(streams),
			roomMembersCommand(streams),
			roomMessagesCommand(streams),
		},
	}
}

// limitFrom maps a --limit flag to an optional limit. The sentinel
// value keeps the configured default.
func limitFrom(flag int, field sentinel.Field[int], configured *int) *int {
	if flag == field.Omit() {
		return configured
	}
	return field.FromWire(flag)
}

func parseRoomArg(raw string) (ref.RoomID, error) {
	roomID, err := ref.ParseRoomID(raw)
	if err != nil {
		return ref.RoomID{}, fmt.Errorf("room: %w", err)
	}
	return roomID, nil
}

func roomListCommand(streams Streams) *cli.Command {
	var params sessionParams
	return &cli.Command{
		Name:    "list",
		Summary: "List joined rooms",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("list", &params) },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "mxctl room list"); err != nil {
				return err
			}
			s, err := params.Connection.openSession(streams, true)
			if err != nil {
				return err
			}
			defer s.Close()

			rooms, err := dispatch.Wait(ctx, s.client.JoinedRooms)
			if err != nil {
				return err
			}
			if params.OutputJSON {
				return cli.WriteJSON(streams.Stdout, rooms)
			}
			for _, roomID := range rooms {
				fmt.Fprintln(streams.Stdout, roomID)
			}
			return nil
		},
	}
}

type roomCreateParams struct {
	Connection connectionFlags
	cli.JSONOutput
	Name       string   `flag:"name" desc:"room name"`
	Topic      string   `flag:"topic" desc:"room topic"`
	Alias      string   `flag:"alias" desc:"local alias to publish (without # or :server)"`
	Visibility string   `flag:"visibility" desc:"directory visibility: public or private"`
	Preset     string   `flag:"preset" desc:"private_chat, public_chat, or trusted_private_chat"`
	Invite     []string `flag:"invite" desc:"user IDs to invite"`
	Direct     bool     `flag:"direct" desc:"mark the room as a direct chat"`
}

func roomCreateCommand(streams Streams) *cli.Command {
	var params roomCreateParams
	return &cli.Command{
		Name:    "create",
		Summary: "Create a room",
		Usage:   "mxctl room create [--name NAME] [--alias LOCALPART] [--preset PRESET] [--invite USER,...]",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("create", &params) },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "mxctl room create [flags]"); err != nil {
				return err
			}
			request := messaging.CreateRoomRequest{
				Name:      params.Name,
				Topic:     params.Topic,
				AliasName: params.Alias,
				IsDirect:  params.Direct,
			}
			var err error
			if params.Visibility != "" {
				if request.Visibility, err = schema.ParseVisibility(params.Visibility); err != nil {
					return err
				}
			}
			if params.Preset != "" {
				if request.Preset, err = schema.ParseRoomPreset(params.Preset); err != nil {
					return err
				}
			}
			for _, raw := range params.Invite {
				userID, err := ref.ParseUserID(raw)
				if err != nil {
					return fmt.Errorf("--invite: %w", err)
				}
				request.Invite = append(request.Invite, userID)
			}

			s, err := params.Connection.openSession(streams, true)
			if err != nil {
				return err
			}
			defer s.Close()

			roomID, err := dispatch.Wait(ctx, func(done func(dispatch.Result[ref.RoomID])) *dispatch.Handle {
				return s.client.CreateRoom(request, done)
			})
			if err != nil {
				return err
			}
			if params.OutputJSON {
				return cli.WriteJSON(streams.Stdout, map[string]ref.RoomID{"room_id": roomID})
			}
			fmt.Fprintln(streams.Stdout, roomID)
			return nil
		},
	}
}

type roomJoinParams struct {
	Connection connectionFlags
	Via        []string `flag:"via" desc:"servers to join through"`
}

func roomJoinCommand(streams Streams) *cli.Command {
	var params roomJoinParams
	return &cli.Command{
		Name:    "join",
		Summary: "Join a room by ID or alias",
		Usage:   "mxctl room join <room-id|#alias> [--via SERVER,...]",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("join", &params) },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "mxctl room join <room-id|#alias>"); err != nil {
				return err
			}
			var via []ref.ServerName
			for _, raw := range params.Via {
				server, err := ref.ParseServerName(raw)
				if err != nil {
					return fmt.Errorf("--via: %w", err)
				}
				via = append(via, server)
			}

			s, err := params.Connection.openSession(streams, true)
			if err != nil {
				return err
			}
			defer s.Close()

			roomID, err := dispatch.Wait(ctx, func(done func(dispatch.Result[ref.RoomID])) *dispatch.Handle {
				return s.client.JoinRoom(args[0], via, done)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(streams.Stdout, "joined %s\n", roomID)
			return nil
		},
	}
}

type roomLeaveParams struct {
	Connection connectionFlags
	Reason     string `flag:"reason" desc:"reason shown to other members"`
	Forget     bool   `flag:"forget" desc:"also forget the room after leaving"`
}

func roomLeaveCommand(streams Streams) *cli.Command {
	var params roomLeaveParams
	return &cli.Command{
		Name:    "leave",
		Summary: "Leave a room",
		Usage:   "mxctl room leave <room-id> [--reason TEXT] [--forget]",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("leave", &params) },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "mxctl room leave <room-id>"); err != nil {
				return err
			}
			roomID, err := parseRoomArg(args[0])
			if err != nil {
				return err
			}
			s, err := params.Connection.openSession(streams, true)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := dispatch.Wait(ctx, func(done func(dispatch.Result[messaging.Empty])) *dispatch.Handle {
				return s.client.LeaveRoom(roomID, params.Reason, done)
			}); err != nil {
				return err
			}
			if params.Forget {
				if _, err := dispatch.Wait(ctx, func(done func(dispatch.Result[messaging.Empty])) *dispatch.Handle {
					return s.client.ForgetRoom(roomID, done)
				}); err != nil {
					return err
				}
			}
			fmt.Fprintf(streams.Stdout, "left %s\n", roomID)
			return nil
		},
	}
}

func roomJoinRuleCommand(streams Streams) *cli.Command {
	var params sessionParams
	return &cli.Command{
		Name:    "join-rule",
		Summary: "Show or change a room's join rule",
		Description: `With one argument, print the room's join rule. With two, set it.
Rules: public, invite, knock, restricted, knock_restricted, private.`,
		Usage: "mxctl room join-rule <room-id> [rule]",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("join-rule", &params) },
		Run: func(ctx context.Context, args []string) error {
			if len(args) != 1 && len(args) != 2 {
				return fmt.Errorf("usage: mxctl room join-rule <room-id> [rule]")
			}
			roomID, err := parseRoomArg(args[0])
			if err != nil {
				return err
			}
			var rule schema.JoinRule
			if len(args) == 2 {
				if rule, err = schema.ParseJoinRule(args[1]); err != nil {
					return err
				}
			}

			s, err := params.Connection.openSession(streams, true)
			if err != nil {
				return err
			}
			defer s.Close()

			if len(args) == 2 {
				eventID, err := dispatch.Wait(ctx, func(done func(dispatch.Result[ref.EventID])) *dispatch.Handle {
					return s.client.SetJoinRule(roomID, rule, done)
				})
				if err != nil {
					return err
				}
				if params.OutputJSON {
					return cli.WriteJSON(streams.Stdout, map[string]any{"join_rule": rule, "event_id": eventID})
				}
				fmt.Fprintf(streams.Stdout, "join rule set to %s (%s)\n", rule, eventID)
				return nil
			}

			current, err := dispatch.Wait(ctx, func(done func(dispatch.Result[schema.JoinRule])) *dispatch.Handle {
				return s.client.JoinRule(roomID, done)
			})
			if err != nil {
				return err
			}
			if params.OutputJSON {
				return cli.WriteJSON(streams.Stdout, map[string]schema.JoinRule{"join_rule": current})
			}
			fmt.Fprintln(streams.Stdout, current)
			return nil
		},
	}
}

type roomMembersParams struct {
	Connection connectionFlags
	cli.JSONOutput
	Membership string `flag:"membership" desc:"only members with this membership (join, invite, leave, ban, knock)"`
}

func roomMembersCommand(streams Streams) *cli.Command {
	var params roomMembersParams
	return &cli.Command{
		Name:    "members",
		Summary: "List a room's members",
		Usage:   "mxctl room members <room-id> [--membership STATE] [--json]",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("members", &params) },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "mxctl room members <room-id>"); err != nil {
				return err
			}
			roomID, err := parseRoomArg(args[0])
			if err != nil {
				return err
			}
			var filter messaging.MembersFilter
			if params.Membership != "" {
				if filter.Membership, err = schema.ParseMembership(params.Membership); err != nil {
					return err
				}
			}

			s, err := params.Connection.openSession(streams, true)
			if err != nil {
				return err
			}
			defer s.Close()

			members, err := dispatch.Wait(ctx, func(done func(dispatch.Result[[]messaging.Member])) *dispatch.Handle {
				return s.client.Members(roomID, filter, done)
			})
			if err != nil {
				return err
			}
			if params.OutputJSON {
				return cli.WriteJSON(streams.Stdout, members)
			}
			table := tabwriter.NewWriter(streams.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(table, "USER\tMEMBERSHIP\tDISPLAY NAME")
			for _, member := range members {
				fmt.Fprintf(table, "%s\t%s\t%s\n", member.UserID, member.Membership, member.DisplayName)
			}
			return table.Flush()
		},
	}
}

type roomMessagesParams struct {
	Connection connectionFlags
	cli.JSONOutput
	Limit     int    `flag:"limit,n" desc:"events per page, 1-1000 (-1 uses defaults.message_limit)" default:"-1"`
	Direction string `flag:"dir" desc:"b (newest first) or f (oldest first)" default:"b"`
	From      string `flag:"from" desc:"pagination token from a previous page"`
}

func roomMessagesCommand(streams Streams) *cli.Command {
	var params roomMessagesParams
	return &cli.Command{
		Name:    "messages",
		Summary: "Page through a room's history",
		Usage:   "mxctl room messages <room-id> [--limit N] [--dir b|f] [--from TOKEN] [--json]",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("messages", &params) },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 1, "mxctl room messages <room-id>"); err != nil {
				return err
			}
			roomID, err := parseRoomArg(args[0])
			if err != nil {
				return err
			}
			direction, err := schema.ParseDirection(params.Direction)
			if err != nil {
				return err
			}

			s, err := params.Connection.openSession(streams, true)
			if err != nil {
				return err
			}
			defer s.Close()

			options := messaging.MessagesOptions{
				From:      params.From,
				Direction: direction,
				Limit:     limitFrom(params.Limit, messaging.MessageLimit, s.config.MessageLimit()),
			}
			page, err := dispatch.Wait(ctx, func(done func(dispatch.Result[messaging.MessagesPage])) *dispatch.Handle {
				return s.client.Messages(roomID, options, done)
			})
			if err != nil {
				return err
			}
			if params.OutputJSON {
				return cli.WriteJSON(streams.Stdout, page)
			}
			for _, event := range page.Chunk {
				fmt.Fprintln(streams.Stdout, formatEvent(event))
			}
			if page.End != "" {
				fmt.Fprintf(streams.Stdout, "next: %s\n", page.End)
			}
			return nil
		},
	}
}

// formatEvent renders one timeline event on a line. Messages show
// their body; other events show only their type.
func formatEvent(event messaging.Event) string {
	stamp := time.UnixMilli(event.OriginServerTS).UTC().Format(time.DateTime)
	if event.Type == schema.EventTypeRoomMessage {
		var content messaging.MessageContent
		if err := event.DecodeContent(&content); err == nil {
			return fmt.Sprintf("%s  %s  %s", stamp, event.Sender, content.Body)
		}
	}
	return fmt.Sprintf("%s  %s  [%s]", stamp, event.Sender, event.Type)
}
