// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"fmt"
	"net/url"

	"github.com/bureau-foundation/mxfacade/lib/dispatch"
	"github.com/bureau-foundation/mxfacade/lib/ref"
	"github.com/bureau-foundation/mxfacade/lib/schema"
)

// SyncOptions holds parameters for /sync.
type SyncOptions struct {
	// Since is the next_batch token from the previous sync. Empty
	// requests an initial sync.
	Since string
	// Timeout is the long-poll duration in milliseconds; nil omits it
	// and the server returns immediately.
	Timeout *int64
	// Filter is a filter ID or inline JSON filter.
	Filter string
	// FullState returns all state events, not only changes.
	FullState bool
	// SetPresence updates presence as a side effect. Zero leaves it.
	SetPresence schema.Presence
}

// SyncResponse is the subset of /sync this package decodes.
type SyncResponse struct {
	NextBatch string        `json:"next_batch"`
	Rooms     RoomsSection  `json:"rooms"`
	Presence  EventsSection `json:"presence"`
	// AccountData holds global account data events.
	AccountData EventsSection `json:"account_data"`
}

// RoomsSection groups rooms by the account's membership.
type RoomsSection struct {
	Join   map[ref.RoomID]JoinedRoom  `json:"join,omitempty"`
	Invite map[ref.RoomID]InvitedRoom `json:"invite,omitempty"`
	Leave  map[ref.RoomID]LeftRoom    `json:"leave,omitempty"`
}

// JoinedRoom is the update for a joined room.
type JoinedRoom struct {
	State     EventsSection   `json:"state"`
	Timeline  TimelineSection `json:"timeline"`
	Ephemeral EventsSection   `json:"ephemeral"`
}

// InvitedRoom carries the stripped state shown with an invite.
type InvitedRoom struct {
	InviteState EventsSection `json:"invite_state"`
}

// LeftRoom is the final update for a room the account left.
type LeftRoom struct {
	State    EventsSection   `json:"state"`
	Timeline TimelineSection `json:"timeline"`
}

// TimelineSection is a room's timeline slice.
type TimelineSection struct {
	Events    []Event `json:"events"`
	Limited   bool    `json:"limited,omitempty"`
	PrevBatch string  `json:"prev_batch,omitempty"`
}

// EventsSection is a plain list of events.
type EventsSection struct {
	Events []Event `json:"events"`
}

// Sync fetches events since the given token.
func (c *Client) Sync(options SyncOptions, done func(dispatch.Result[SyncResponse])) *dispatch.Handle {
	query := url.Values{}
	if err := SyncTimeout.Query(query, options.Timeout); err != nil {
		return dispatch.Reject(done, fmt.Errorf("messaging: sync: %w", err))
	}
	if options.Since != "" {
		query.Set("since", options.Since)
	}
	if options.Filter != "" {
		query.Set("filter", options.Filter)
	}
	if options.FullState {
		query.Set("full_state", "true")
	}
	if options.SetPresence != 0 {
		wire, err := schema.Presences().Encode(options.SetPresence)
		if err != nil {
			return dispatch.Reject(done, fmt.Errorf("messaging: sync: %w", err))
		}
		query.Set("set_presence", wire)
	}
	return call(c, get("sync", clientPath("sync"), query), nil, done)
}
