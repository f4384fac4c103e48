// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"fmt"
	"net/url"

	"github.com/bureau-foundation/mxfacade/lib/dispatch"
	"github.com/bureau-foundation/mxfacade/lib/enum"
	"github.com/bureau-foundation/mxfacade/lib/ref"
	"github.com/bureau-foundation/mxfacade/lib/schema"
)

func stateEventPath(roomID ref.RoomID, eventType schema.EventType, stateKey string) string {
	return clientPath("rooms", roomID.String(), "state", eventType.String(), stateKey)
}

// getSetting reads one enumerated field of a state event with an empty
// state key.
func getSetting[E comparable](c *Client, descriptor string, roomID ref.RoomID, eventType schema.EventType, field string, codec enum.Closed[E], done func(dispatch.Result[E])) *dispatch.Handle {
	transform := dispatch.Then(dispatch.Field[string](field), codec.Decode)
	return call(c, get(descriptor, stateEventPath(roomID, eventType, ""), nil), transform, done)
}

// putSetting writes one enumerated field of a state event with an
// empty state key and delivers the new event's ID. The variant is
// encoded before anything is sent.
func putSetting[E comparable](c *Client, descriptor string, roomID ref.RoomID, eventType schema.EventType, field string, codec enum.Closed[E], variant E, done func(dispatch.Result[ref.EventID])) *dispatch.Handle {
	wire, err := codec.Encode(variant)
	if err != nil {
		return dispatch.Reject(done, fmt.Errorf("messaging: %s: %w", descriptor, err))
	}
	request := put(descriptor, stateEventPath(roomID, eventType, ""), map[string]string{field: wire})
	return call(c, request, dispatch.Field[ref.EventID]("event_id"), done)
}

// JoinRule reads a room's join rule. A rule this package does not
// know fails with *enum.UnrecognizedValueError.
func (c *Client) JoinRule(roomID ref.RoomID, done func(dispatch.Result[schema.JoinRule])) *dispatch.Handle {
	return getSetting(c, "rooms.join_rule", roomID, schema.EventTypeRoomJoinRules, "join_rule", schema.JoinRules(), done)
}

// SetJoinRule changes a room's join rule.
func (c *Client) SetJoinRule(roomID ref.RoomID, rule schema.JoinRule, done func(dispatch.Result[ref.EventID])) *dispatch.Handle {
	return putSetting(c, "rooms.set_join_rule", roomID, schema.EventTypeRoomJoinRules, "join_rule", schema.JoinRules(), rule, done)
}

// HistoryVisibility reads who can see a room's past events.
func (c *Client) HistoryVisibility(roomID ref.RoomID, done func(dispatch.Result[schema.HistoryVisibility])) *dispatch.Handle {
	return getSetting(c, "rooms.history_visibility", roomID, schema.EventTypeRoomHistoryVisibility,
		"history_visibility", schema.HistoryVisibilities(), done)
}

// SetHistoryVisibility changes who can see a room's past events.
func (c *Client) SetHistoryVisibility(roomID ref.RoomID, visibility schema.HistoryVisibility, done func(dispatch.Result[ref.EventID])) *dispatch.Handle {
	return putSetting(c, "rooms.set_history_visibility", roomID, schema.EventTypeRoomHistoryVisibility,
		"history_visibility", schema.HistoryVisibilities(), visibility, done)
}

// GuestAccess reads whether guests may join a room.
func (c *Client) GuestAccess(roomID ref.RoomID, done func(dispatch.Result[schema.GuestAccess])) *dispatch.Handle {
	return getSetting(c, "rooms.guest_access", roomID, schema.EventTypeRoomGuestAccess, "guest_access", schema.GuestAccesses(), done)
}

// SetGuestAccess changes whether guests may join a room.
func (c *Client) SetGuestAccess(roomID ref.RoomID, access schema.GuestAccess, done func(dispatch.Result[ref.EventID])) *dispatch.Handle {
	return putSetting(c, "rooms.set_guest_access", roomID, schema.EventTypeRoomGuestAccess, "guest_access", schema.GuestAccesses(), access, done)
}

// DirectoryVisibility reads whether a room is listed in the server's
// public room directory.
func (c *Client) DirectoryVisibility(roomID ref.RoomID, done func(dispatch.Result[schema.Visibility])) *dispatch.Handle {
	transform := dispatch.Then(dispatch.Field[string]("visibility"), schema.ParseVisibility)
	return call(c, get("directory.visibility", clientPath("directory", "list", "room", roomID.String()), nil), transform, done)
}

// SetDirectoryVisibility lists or unlists a room in the public room
// directory.
func (c *Client) SetDirectoryVisibility(roomID ref.RoomID, visibility schema.Visibility, done func(dispatch.Result[Empty])) *dispatch.Handle {
	wire, err := schema.Visibilities().Encode(visibility)
	if err != nil {
		return dispatch.Reject(done, fmt.Errorf("messaging: directory visibility: %w", err))
	}
	request := put("directory.set_visibility", clientPath("directory", "list", "room", roomID.String()),
		map[string]string{"visibility": wire})
	return call(c, request, dispatch.Discard(), done)
}

// PublicRoomsOptions selects a page of the public room directory.
type PublicRoomsOptions struct {
	// Limit caps the page size; nil uses the server default. Must be
	// within PublicRoomsLimit's range.
	Limit *int
	// Since is a pagination token from a previous page.
	Since string
	// Server queries another server's directory. Zero means this one.
	Server ref.ServerName
}

// PublicRoom is one directory entry.
type PublicRoom struct {
	RoomID           ref.RoomID      `json:"room_id"`
	Name             string          `json:"name,omitempty"`
	Topic            string          `json:"topic,omitempty"`
	CanonicalAlias   ref.RoomAlias   `json:"canonical_alias,omitzero"`
	AvatarURL        string          `json:"avatar_url,omitempty"`
	NumJoinedMembers int             `json:"num_joined_members"`
	WorldReadable    bool            `json:"world_readable"`
	GuestCanJoin     bool            `json:"guest_can_join"`
	JoinRule         schema.JoinRule `json:"join_rule,omitzero"`
}

// PublicRoomsPage is one page of the directory.
type PublicRoomsPage struct {
	Chunk                  []PublicRoom `json:"chunk"`
	NextBatch              string       `json:"next_batch,omitempty"`
	PrevBatch              string       `json:"prev_batch,omitempty"`
	TotalRoomCountEstimate int          `json:"total_room_count_estimate,omitempty"`
}

// PublicRooms fetches a page of the public room directory.
func (c *Client) PublicRooms(options PublicRoomsOptions, done func(dispatch.Result[PublicRoomsPage])) *dispatch.Handle {
	query := url.Values{}
	if err := PublicRoomsLimit.Query(query, options.Limit); err != nil {
		return dispatch.Reject(done, fmt.Errorf("messaging: public rooms: %w", err))
	}
	if options.Since != "" {
		query.Set("since", options.Since)
	}
	if !options.Server.IsZero() {
		query.Set("server", options.Server.String())
	}
	return call(c, get("directory.public_rooms", clientPath("publicRooms"), query), nil, done)
}
