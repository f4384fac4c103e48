// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"fmt"

	"github.com/bureau-foundation/mxfacade/lib/dispatch"
	"github.com/bureau-foundation/mxfacade/lib/ref"
	"github.com/bureau-foundation/mxfacade/lib/schema"
)

type typingBody struct {
	Typing  bool  `json:"typing"`
	Timeout int64 `json:"timeout,omitempty"`
}

// SendTyping starts or stops the typing notification for userID in a
// room. timeout (milliseconds) applies only when starting; nil leaves
// it to the server.
func (c *Client) SendTyping(roomID ref.RoomID, userID ref.UserID, typing bool, timeout *int64, done func(dispatch.Result[Empty])) *dispatch.Handle {
	body := typingBody{Typing: typing}
	if typing {
		wire, err := TypingTimeout.ToWire(timeout)
		if err != nil {
			return dispatch.Reject(done, fmt.Errorf("messaging: typing: %w", err))
		}
		if wire != TypingTimeout.Omit() {
			body.Timeout = wire
		}
	}
	request := put("ephemeral.typing", clientPath("rooms", roomID.String(), "typing", userID.String()), body)
	return call(c, request, dispatch.Discard(), done)
}

// PresenceStatus is a user's published presence.
type PresenceStatus struct {
	Presence        schema.Presence `json:"presence"`
	StatusMsg       string          `json:"status_msg,omitempty"`
	LastActiveAgo   int64           `json:"last_active_ago,omitempty"`
	CurrentlyActive bool            `json:"currently_active,omitempty"`
}

type presenceBody struct {
	Presence  string `json:"presence"`
	StatusMsg string `json:"status_msg,omitempty"`
}

// SetPresence publishes the token owner's presence.
func (c *Client) SetPresence(userID ref.UserID, presence schema.Presence, statusMsg string, done func(dispatch.Result[Empty])) *dispatch.Handle {
	wire, err := schema.Presences().Encode(presence)
	if err != nil {
		return dispatch.Reject(done, fmt.Errorf("messaging: presence: %w", err))
	}
	request := put("ephemeral.set_presence", clientPath("presence", userID.String(), "status"),
		presenceBody{Presence: wire, StatusMsg: statusMsg})
	return call(c, request, dispatch.Discard(), done)
}

// Presence fetches a user's presence.
func (c *Client) Presence(userID ref.UserID, done func(dispatch.Result[PresenceStatus])) *dispatch.Handle {
	return call(c, get("ephemeral.presence", clientPath("presence", userID.String(), "status"), nil), nil, done)
}
