// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bureau-foundation/mxfacade/lib/dispatch"
	"github.com/bureau-foundation/mxfacade/lib/ref"
	"github.com/bureau-foundation/mxfacade/lib/schema"
)

// CreateRoomRequest holds parameters for creating a room. Zero-valued
// enumerations are left to the server's default.
type CreateRoomRequest struct {
	Name        string            `json:"name,omitempty"`
	Topic       string            `json:"topic,omitempty"`
	AliasName   string            `json:"room_alias_name,omitempty"` // local alias without # or :server
	RoomVersion string            `json:"room_version,omitempty"`
	Visibility  schema.Visibility `json:"visibility,omitzero"`
	Preset      schema.RoomPreset `json:"preset,omitzero"`
	Invite      []ref.UserID      `json:"invite,omitempty"`
	IsDirect    bool              `json:"is_direct,omitempty"`

	CreationContent           map[string]any `json:"creation_content,omitempty"`
	InitialState              []StateEvent   `json:"initial_state,omitempty"`
	PowerLevelContentOverride map[string]any `json:"power_level_content_override,omitempty"`
}

// StateEvent is a state event to include at room creation.
type StateEvent struct {
	Type     schema.EventType `json:"type"`
	StateKey string           `json:"state_key"`
	Content  any              `json:"content"`
}

// CreateRoom creates a room and delivers its ID.
func (c *Client) CreateRoom(request CreateRoomRequest, done func(dispatch.Result[ref.RoomID])) *dispatch.Handle {
	if strings.ContainsAny(request.AliasName, "#:") {
		return dispatch.Reject(done, fmt.Errorf("messaging: room alias name %q must be a bare localpart", request.AliasName))
	}
	return call(c, post("rooms.create", clientPath("createRoom"), request), dispatch.Field[ref.RoomID]("room_id"),
		func(result dispatch.Result[ref.RoomID]) {
			if roomID, ok := result.Value(); ok {
				c.logger.Info("created matrix room",
					"room_id", roomID,
					"name", request.Name,
					"alias", request.AliasName,
				)
			}
			if done != nil {
				done(result)
			}
		})
}

// JoinRoom joins a room by ID ("!...") or alias ("#..."). via lists
// servers to join through, needed when this server is not yet in the
// room.
func (c *Client) JoinRoom(roomIDOrAlias string, via []ref.ServerName, done func(dispatch.Result[ref.RoomID])) *dispatch.Handle {
	if _, err := ref.ParseRoomID(roomIDOrAlias); err != nil {
		if _, aliasErr := ref.ParseRoomAlias(roomIDOrAlias); aliasErr != nil {
			return dispatch.Reject(done, fmt.Errorf("messaging: join target %q is neither a room ID nor an alias", roomIDOrAlias))
		}
	}
	request := post("rooms.join", clientPath("join", roomIDOrAlias), emptyObject)
	if len(via) > 0 {
		request.Query = url.Values{}
		for _, server := range via {
			request.Query.Add("via", server.String())
		}
	}
	return call(c, request, dispatch.Field[ref.RoomID]("room_id"), done)
}

type reasonBody struct {
	Reason string `json:"reason,omitempty"`
}

// LeaveRoom leaves a room.
func (c *Client) LeaveRoom(roomID ref.RoomID, reason string, done func(dispatch.Result[Empty])) *dispatch.Handle {
	request := post("rooms.leave", clientPath("rooms", roomID.String(), "leave"), reasonBody{Reason: reason})
	return call(c, request, dispatch.Discard(), done)
}

// ForgetRoom drops a left room from the account's history.
func (c *Client) ForgetRoom(roomID ref.RoomID, done func(dispatch.Result[Empty])) *dispatch.Handle {
	request := post("rooms.forget", clientPath("rooms", roomID.String(), "forget"), emptyObject)
	return call(c, request, dispatch.Discard(), done)
}

type membershipChange struct {
	UserID ref.UserID `json:"user_id"`
	Reason string     `json:"reason,omitempty"`
}

// membershipAction posts one of the invite/kick/ban/unban endpoints.
func (c *Client) membershipAction(action string, roomID ref.RoomID, userID ref.UserID, reason string, done func(dispatch.Result[Empty])) *dispatch.Handle {
	if userID.IsZero() {
		return dispatch.Reject(done, fmt.Errorf("messaging: %s requires a user ID", action))
	}
	request := post("rooms."+action, clientPath("rooms", roomID.String(), action), membershipChange{UserID: userID, Reason: reason})
	return call(c, request, dispatch.Discard(), done)
}

// InviteUser invites a user to a room.
func (c *Client) InviteUser(roomID ref.RoomID, userID ref.UserID, reason string, done func(dispatch.Result[Empty])) *dispatch.Handle {
	return c.membershipAction("invite", roomID, userID, reason, done)
}

// KickUser removes a user from a room.
func (c *Client) KickUser(roomID ref.RoomID, userID ref.UserID, reason string, done func(dispatch.Result[Empty])) *dispatch.Handle {
	return c.membershipAction("kick", roomID, userID, reason, done)
}

// BanUser bans a user from a room.
func (c *Client) BanUser(roomID ref.RoomID, userID ref.UserID, reason string, done func(dispatch.Result[Empty])) *dispatch.Handle {
	return c.membershipAction("ban", roomID, userID, reason, done)
}

// UnbanUser lifts a ban.
func (c *Client) UnbanUser(roomID ref.RoomID, userID ref.UserID, reason string, done func(dispatch.Result[Empty])) *dispatch.Handle {
	return c.membershipAction("unban", roomID, userID, reason, done)
}

// JoinedRooms lists the rooms the account has joined.
func (c *Client) JoinedRooms(done func(dispatch.Result[[]ref.RoomID])) *dispatch.Handle {
	return call(c, get("rooms.joined", clientPath("joined_rooms"), nil), dispatch.Field[[]ref.RoomID]("joined_rooms"), done)
}

// AliasResolution is the directory entry for a room alias.
type AliasResolution struct {
	RoomID  ref.RoomID       `json:"room_id"`
	Servers []ref.ServerName `json:"servers,omitempty"`
}

// ResolveAlias looks up the room an alias points to.
func (c *Client) ResolveAlias(alias ref.RoomAlias, done func(dispatch.Result[AliasResolution])) *dispatch.Handle {
	if alias.IsZero() {
		return dispatch.Reject(done, fmt.Errorf("messaging: alias is required"))
	}
	return call(c, get("rooms.resolve_alias", clientPath("directory", "room", alias.String()), nil), nil, done)
}

// Member is one entry of a room's member list.
type Member struct {
	UserID      ref.UserID        `json:"user_id"`
	Membership  schema.Membership `json:"membership"`
	DisplayName string            `json:"displayname,omitempty"`
	AvatarURL   string            `json:"avatar_url,omitempty"`
}

type memberEvent struct {
	StateKey ref.UserID `json:"state_key"`
	Content  struct {
		Membership  schema.Membership `json:"membership"`
		DisplayName string            `json:"displayname"`
		AvatarURL   string            `json:"avatar_url"`
	} `json:"content"`
}

// MembersFilter narrows a member list. Zero fields do not filter.
type MembersFilter struct {
	Membership    schema.Membership
	NotMembership schema.Membership
}

// Members lists a room's members. A membership the server reports
// that this package does not know fails the whole call with
// *enum.UnrecognizedValueError.
func (c *Client) Members(roomID ref.RoomID, filter MembersFilter, done func(dispatch.Result[[]Member])) *dispatch.Handle {
	query := url.Values{}
	for name, membership := range map[string]schema.Membership{
		"membership":     filter.Membership,
		"not_membership": filter.NotMembership,
	} {
		if membership == 0 {
			continue
		}
		wire, err := schema.Memberships().Encode(membership)
		if err != nil {
			return dispatch.Reject(done, fmt.Errorf("messaging: members filter: %w", err))
		}
		query.Set(name, wire)
	}

	transform := dispatch.Then(dispatch.Field[[]memberEvent]("chunk"), func(events []memberEvent) ([]Member, error) {
		members := make([]Member, 0, len(events))
		for _, event := range events {
			members = append(members, Member{
				UserID:      event.StateKey,
				Membership:  event.Content.Membership,
				DisplayName: event.Content.DisplayName,
				AvatarURL:   event.Content.AvatarURL,
			})
		}
		return members, nil
	})
	return call(c, get("rooms.members", clientPath("rooms", roomID.String(), "members"), query), transform, done)
}
