// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/bureau-foundation/mxfacade/lib/dispatch"
	"github.com/bureau-foundation/mxfacade/lib/ref"
	"github.com/bureau-foundation/mxfacade/lib/schema"
)

// Event is a Matrix event as returned by the client API. Content is
// left raw; decode it according to Type.
type Event struct {
	EventID        ref.EventID      `json:"event_id,omitzero"`
	Type           schema.EventType `json:"type"`
	Sender         ref.UserID       `json:"sender,omitzero"`
	RoomID         ref.RoomID       `json:"room_id,omitzero"`
	StateKey       *string          `json:"state_key,omitempty"`
	OriginServerTS int64            `json:"origin_server_ts,omitempty"`
	Content        json.RawMessage  `json:"content"`
	Unsigned       json.RawMessage  `json:"unsigned,omitempty"`
}

// IsState reports whether the event carries a state key.
func (e Event) IsState() bool { return e.StateKey != nil }

// DecodeContent unmarshals the event content into target.
func (e Event) DecodeContent(target any) error {
	if len(e.Content) == 0 {
		return fmt.Errorf("messaging: event %s has no content", e.EventID)
	}
	return json.Unmarshal(e.Content, target)
}

// MessageContent is the content of an m.room.message event.
type MessageContent struct {
	MsgType       schema.MessageType `json:"msgtype"`
	Body          string             `json:"body"`
	Format        string             `json:"format,omitempty"`
	FormattedBody string             `json:"formatted_body,omitempty"`
	URL           ref.ContentURI     `json:"url,omitzero"`
	RelatesTo     *RelatesTo         `json:"m.relates_to,omitempty"`
}

// RelatesTo links an event to another, for threads and replies.
type RelatesTo struct {
	RelType       string      `json:"rel_type,omitempty"`
	EventID       ref.EventID `json:"event_id,omitzero"`
	IsFallingBack bool        `json:"is_falling_back,omitempty"`
	InReplyTo     *InReplyTo  `json:"m.in_reply_to,omitempty"`
}

// InReplyTo names the event a message replies to.
type InReplyTo struct {
	EventID ref.EventID `json:"event_id"`
}

// NewTextMessage creates a plain m.text message.
func NewTextMessage(body string) MessageContent {
	return MessageContent{MsgType: schema.MessageTypeText, Body: body}
}

// NewThreadReply creates an m.text message in the thread rooted at
// threadRoot. The in-reply-to fallback points at the root so clients
// without thread support still show context.
func NewThreadReply(threadRoot ref.EventID, body string) MessageContent {
	return MessageContent{
		MsgType: schema.MessageTypeText,
		Body:    body,
		RelatesTo: &RelatesTo{
			RelType:       "m.thread",
			EventID:       threadRoot,
			IsFallingBack: true,
			InReplyTo:     &InReplyTo{EventID: threadRoot},
		},
	}
}

// NewMediaMessage creates a message pointing at uploaded media.
// msgType is normally m.image, m.file, m.audio, or m.video.
func NewMediaMessage(msgType schema.MessageType, body string, media ref.ContentURI) MessageContent {
	return MessageContent{MsgType: msgType, Body: body, URL: media}
}

// SendEvent sends a message-like event to a room with a fresh
// transaction ID and delivers the new event's ID.
func (c *Client) SendEvent(roomID ref.RoomID, eventType schema.EventType, content any, done func(dispatch.Result[ref.EventID])) *dispatch.Handle {
	if eventType.IsZero() {
		return dispatch.Reject(done, fmt.Errorf("messaging: event type is required"))
	}
	path := clientPath("rooms", roomID.String(), "send", eventType.String(), newTransactionID())
	return call(c, put("events.send", path, content), dispatch.Field[ref.EventID]("event_id"), done)
}

// SendMessage sends an m.room.message event.
func (c *Client) SendMessage(roomID ref.RoomID, content MessageContent, done func(dispatch.Result[ref.EventID])) *dispatch.Handle {
	if content.MsgType == (schema.MessageType{}) {
		return dispatch.Reject(done, fmt.Errorf("messaging: message type is required"))
	}
	return c.SendEvent(roomID, schema.EventTypeRoomMessage, content, done)
}

// SendStateEvent sets a state event and delivers its event ID.
func (c *Client) SendStateEvent(roomID ref.RoomID, eventType schema.EventType, stateKey string, content any, done func(dispatch.Result[ref.EventID])) *dispatch.Handle {
	if eventType.IsZero() {
		return dispatch.Reject(done, fmt.Errorf("messaging: event type is required"))
	}
	request := put("events.send_state", stateEventPath(roomID, eventType, stateKey), content)
	return call(c, request, dispatch.Field[ref.EventID]("event_id"), done)
}

// StateEvent fetches the content of one state event. A missing event
// fails with a *transport.MatrixError carrying M_NOT_FOUND.
func (c *Client) StateEvent(roomID ref.RoomID, eventType schema.EventType, stateKey string, done func(dispatch.Result[json.RawMessage])) *dispatch.Handle {
	request := get("events.state", stateEventPath(roomID, eventType, stateKey), nil)
	return call(c, request, dispatch.Raw(), done)
}

// RoomState fetches every current state event of a room.
func (c *Client) RoomState(roomID ref.RoomID, done func(dispatch.Result[[]Event])) *dispatch.Handle {
	return call(c, get("events.room_state", clientPath("rooms", roomID.String(), "state"), nil), nil, done)
}

// MessagesOptions selects a page of room history.
type MessagesOptions struct {
	// From is a pagination token. Empty starts at the live end for
	// backward pagination.
	From string
	To   string
	// Direction defaults to backward (newest first).
	Direction schema.Direction
	// Limit caps events per page; nil uses the server default. Must be
	// within MessageLimit's range.
	Limit *int
	// Filter is a JSON-encoded RoomEventFilter.
	Filter string
}

// MessagesPage is one page of room history.
type MessagesPage struct {
	Start string  `json:"start"`
	End   string  `json:"end,omitempty"`
	Chunk []Event `json:"chunk"`
	State []Event `json:"state,omitempty"`
}

// Messages fetches a page of room history.
func (c *Client) Messages(roomID ref.RoomID, options MessagesOptions, done func(dispatch.Result[MessagesPage])) *dispatch.Handle {
	direction := options.Direction
	if direction == 0 {
		direction = schema.Backward
	}
	wire, err := schema.Directions().Encode(direction)
	if err != nil {
		return dispatch.Reject(done, fmt.Errorf("messaging: messages: %w", err))
	}

	query := url.Values{"dir": {wire}}
	if err := MessageLimit.Query(query, options.Limit); err != nil {
		return dispatch.Reject(done, fmt.Errorf("messaging: messages: %w", err))
	}
	if options.From != "" {
		query.Set("from", options.From)
	}
	if options.To != "" {
		query.Set("to", options.To)
	}
	if options.Filter != "" {
		query.Set("filter", options.Filter)
	}
	return call(c, get("events.messages", clientPath("rooms", roomID.String(), "messages"), query), nil, done)
}

// Redact removes the content of an event and delivers the redaction
// event's ID.
func (c *Client) Redact(roomID ref.RoomID, eventID ref.EventID, reason string, done func(dispatch.Result[ref.EventID])) *dispatch.Handle {
	if eventID.IsZero() {
		return dispatch.Reject(done, fmt.Errorf("messaging: event ID is required for redaction"))
	}
	path := clientPath("rooms", roomID.String(), "redact", eventID.String(), newTransactionID())
	return call(c, put("events.redact", path, reasonBody{Reason: reason}), dispatch.Field[ref.EventID]("event_id"), done)
}
