// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import "github.com/bureau-foundation/mxfacade/lib/enum"

// EventType is a Matrix event type. The set is open: types this
// package does not know (including application-namespaced types such
// as "com.example.poll") decode to a custom value that re-encodes to
// the original string. The zero value is empty.
type EventType struct {
	known  uint8
	custom string
}

// Known event types.
var (
	EventTypeRoomMessage           = EventType{known: 1}
	EventTypeRoomMember            = EventType{known: 2}
	EventTypeRoomCreate            = EventType{known: 3}
	EventTypeRoomName              = EventType{known: 4}
	EventTypeRoomTopic             = EventType{known: 5}
	EventTypeRoomAvatar            = EventType{known: 6}
	EventTypeRoomJoinRules         = EventType{known: 7}
	EventTypeRoomHistoryVisibility = EventType{known: 8}
	EventTypeRoomGuestAccess       = EventType{known: 9}
	EventTypeRoomPowerLevels       = EventType{known: 10}
	EventTypeRoomCanonicalAlias    = EventType{known: 11}
	EventTypeRoomRedaction         = EventType{known: 12}
	EventTypeRoomEncrypted         = EventType{known: 13}
	EventTypeReaction              = EventType{known: 14}
	EventTypeSticker               = EventType{known: 15}
	EventTypeTyping                = EventType{known: 16}
	EventTypePresence              = EventType{known: 17}
	EventTypeReceipt               = EventType{known: 18}
)

var eventTypes = enum.NewOpen("event type",
	func(wire string) EventType { return EventType{custom: wire} },
	enum.Entry[EventType]{Variant: EventTypeRoomMessage, Wire: "m.room.message"},
	enum.Entry[EventType]{Variant: EventTypeRoomMember, Wire: "m.room.member"},
	enum.Entry[EventType]{Variant: EventTypeRoomCreate, Wire: "m.room.create"},
	enum.Entry[EventType]{Variant: EventTypeRoomName, Wire: "m.room.name"},
	enum.Entry[EventType]{Variant: EventTypeRoomTopic, Wire: "m.room.topic"},
	enum.Entry[EventType]{Variant: EventTypeRoomAvatar, Wire: "m.room.avatar"},
	enum.Entry[EventType]{Variant: EventTypeRoomJoinRules, Wire: "m.room.join_rules"},
	enum.Entry[EventType]{Variant: EventTypeRoomHistoryVisibility, Wire: "m.room.history_visibility"},
	enum.Entry[EventType]{Variant: EventTypeRoomGuestAccess, Wire: "m.room.guest_access"},
	enum.Entry[EventType]{Variant: EventTypeRoomPowerLevels, Wire: "m.room.power_levels"},
	enum.Entry[EventType]{Variant: EventTypeRoomCanonicalAlias, Wire: "m.room.canonical_alias"},
	enum.Entry[EventType]{Variant: EventTypeRoomRedaction, Wire: "m.room.redaction"},
	enum.Entry[EventType]{Variant: EventTypeRoomEncrypted, Wire: "m.room.encrypted"},
	enum.Entry[EventType]{Variant: EventTypeReaction, Wire: "m.reaction"},
	enum.Entry[EventType]{Variant: EventTypeSticker, Wire: "m.sticker"},
	enum.Entry[EventType]{Variant: EventTypeTyping, Wire: "m.typing"},
	enum.Entry[EventType]{Variant: EventTypePresence, Wire: "m.presence"},
	enum.Entry[EventType]{Variant: EventTypeReceipt, Wire: "m.receipt"},
)

// EventTypes is the wire table for [EventType].
func EventTypes() enum.Open[EventType] { return eventTypes }

// ParseEventType decodes an event type. It never fails: unknown
// strings become custom event types.
func ParseEventType(wire string) EventType { return eventTypes.Decode(wire) }

// CustomWire implements [enum.Custom].
func (t EventType) CustomWire() (string, bool) { return t.custom, t.known == 0 && t.custom != "" }

// IsCustom reports whether t is outside the known set.
func (t EventType) IsCustom() bool { _, custom := t.CustomWire(); return custom }

// IsZero reports whether t is the empty event type.
func (t EventType) IsZero() bool { return t == EventType{} }

func (t EventType) String() string                { return eventTypes.Encode(t) }
func (t EventType) MarshalText() ([]byte, error)  { return openMarshal(eventTypes, t) }
func (t *EventType) UnmarshalText(b []byte) error { *t = eventTypes.Decode(string(b)); return nil }

// MessageType is the msgtype of an m.room.message event. Open, like
// [EventType].
type MessageType struct {
	known  uint8
	custom string
}

// Known message types.
var (
	MessageTypeText     = MessageType{known: 1}
	MessageTypeEmote    = MessageType{known: 2}
	MessageTypeNotice   = MessageType{known: 3}
	MessageTypeImage    = MessageType{known: 4}
	MessageTypeFile     = MessageType{known: 5}
	MessageTypeAudio    = MessageType{known: 6}
	MessageTypeVideo    = MessageType{known: 7}
	MessageTypeLocation = MessageType{known: 8}
)

var messageTypes = enum.NewOpen("message type",
	func(wire string) MessageType { return MessageType{custom: wire} },
	enum.Entry[MessageType]{Variant: MessageTypeText, Wire: "m.text"},
	enum.Entry[MessageType]{Variant: MessageTypeEmote, Wire: "m.emote"},
	enum.Entry[MessageType]{Variant: MessageTypeNotice, Wire: "m.notice"},
	enum.Entry[MessageType]{Variant: MessageTypeImage, Wire: "m.image"},
	enum.Entry[MessageType]{Variant: MessageTypeFile, Wire: "m.file"},
	enum.Entry[MessageType]{Variant: MessageTypeAudio, Wire: "m.audio"},
	enum.Entry[MessageType]{Variant: MessageTypeVideo, Wire: "m.video"},
	enum.Entry[MessageType]{Variant: MessageTypeLocation, Wire: "m.location"},
)

// MessageTypes is the wire table for [MessageType].
func MessageTypes() enum.Open[MessageType] { return messageTypes }

// ParseMessageType decodes a msgtype. Never fails.
func ParseMessageType(wire string) MessageType { return messageTypes.Decode(wire) }

// CustomWire implements [enum.Custom].
func (t MessageType) CustomWire() (string, bool) { return t.custom, t.known == 0 && t.custom != "" }

// IsCustom reports whether t is outside the known set.
func (t MessageType) IsCustom() bool { _, custom := t.CustomWire(); return custom }

func (t MessageType) String() string                { return messageTypes.Encode(t) }
func (t MessageType) MarshalText() ([]byte, error)  { return openMarshal(messageTypes, t) }
func (t *MessageType) UnmarshalText(b []byte) error { *t = messageTypes.Decode(string(b)); return nil }

// Direction is the dir parameter of /messages pagination.
type Direction int

const (
	// Backward pages from newer to older events.
	Backward Direction = iota + 1
	// Forward pages from older to newer events.
	Forward
)

var directions = enum.NewClosed("direction",
	enum.Entry[Direction]{Variant: Backward, Wire: "b"},
	enum.Entry[Direction]{Variant: Forward, Wire: "f"},
)

// Directions is the wire table for [Direction].
func Directions() enum.Closed[Direction] { return directions }

// ParseDirection decodes a pagination direction.
func ParseDirection(wire string) (Direction, error) { return directions.Decode(wire) }

func (d Direction) String() string                { return closedString(directions, d, "Direction") }
func (d Direction) MarshalText() ([]byte, error)  { return closedMarshal(directions, d) }
func (d *Direction) UnmarshalText(b []byte) error { return closedUnmarshal(directions, b, d) }
