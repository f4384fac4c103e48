// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import "github.com/bureau-foundation/mxfacade/lib/enum"

// JoinRule is the join_rule field of m.room.join_rules: who may join a
// room without an invite. The zero value is not a valid rule.
type JoinRule int

const (
	// JoinRulePublic lets anyone join.
	JoinRulePublic JoinRule = iota + 1
	// JoinRuleInvite requires an invite from a member.
	JoinRuleInvite
	// JoinRulePrivate is reserved by the protocol and behaves like
	// invite on current servers.
	JoinRulePrivate
	// JoinRuleKnock lets users request an invite.
	JoinRuleKnock
	// JoinRuleRestricted admits members of the rooms listed in allow.
	JoinRuleRestricted
	// JoinRuleKnockRestricted combines knock and restricted.
	JoinRuleKnockRestricted
)

var joinRules = enum.NewClosed("join rule",
	enum.Entry[JoinRule]{Variant: JoinRulePublic, Wire: "public"},
	enum.Entry[JoinRule]{Variant: JoinRuleInvite, Wire: "invite"},
	enum.Entry[JoinRule]{Variant: JoinRulePrivate, Wire: "private"},
	enum.Entry[JoinRule]{Variant: JoinRuleKnock, Wire: "knock"},
	enum.Entry[JoinRule]{Variant: JoinRuleRestricted, Wire: "restricted"},
	enum.Entry[JoinRule]{Variant: JoinRuleKnockRestricted, Wire: "knock_restricted"},
)

// JoinRules is the wire table for [JoinRule].
func JoinRules() enum.Closed[JoinRule] { return joinRules }

// ParseJoinRule decodes a join rule wire value. Unknown values return
// *enum.UnrecognizedValueError.
func ParseJoinRule(wire string) (JoinRule, error) { return joinRules.Decode(wire) }

func (r JoinRule) String() string                { return closedString(joinRules, r, "JoinRule") }
func (r JoinRule) MarshalText() ([]byte, error)  { return closedMarshal(joinRules, r) }
func (r *JoinRule) UnmarshalText(b []byte) error { return closedUnmarshal(joinRules, b, r) }

// Visibility is a room's visibility in the server's public room
// directory.
type Visibility int

const (
	VisibilityPublic Visibility = iota + 1
	VisibilityPrivate
)

var visibilities = enum.NewClosed("directory visibility",
	enum.Entry[Visibility]{Variant: VisibilityPublic, Wire: "public"},
	enum.Entry[Visibility]{Variant: VisibilityPrivate, Wire: "private"},
)

// Visibilities is the wire table for [Visibility].
func Visibilities() enum.Closed[Visibility] { return visibilities }

// ParseVisibility decodes a directory visibility wire value.
func ParseVisibility(wire string) (Visibility, error) { return visibilities.Decode(wire) }

func (v Visibility) String() string                { return closedString(visibilities, v, "Visibility") }
func (v Visibility) MarshalText() ([]byte, error)  { return closedMarshal(visibilities, v) }
func (v *Visibility) UnmarshalText(b []byte) error { return closedUnmarshal(visibilities, b, v) }

// HistoryVisibility is the history_visibility field of
// m.room.history_visibility: which events a member may read from before
// they joined.
type HistoryVisibility int

const (
	HistoryWorldReadable HistoryVisibility = iota + 1
	HistoryShared
	HistoryInvited
	HistoryJoined
)

var historyVisibilities = enum.NewClosed("history visibility",
	enum.Entry[HistoryVisibility]{Variant: HistoryWorldReadable, Wire: "world_readable"},
	enum.Entry[HistoryVisibility]{Variant: HistoryShared, Wire: "shared"},
	enum.Entry[HistoryVisibility]{Variant: HistoryInvited, Wire: "invited"},
	enum.Entry[HistoryVisibility]{Variant: HistoryJoined, Wire: "joined"},
)

// HistoryVisibilities is the wire table for [HistoryVisibility].
func HistoryVisibilities() enum.Closed[HistoryVisibility] { return historyVisibilities }

// ParseHistoryVisibility decodes a history visibility wire value.
func ParseHistoryVisibility(wire string) (HistoryVisibility, error) {
	return historyVisibilities.Decode(wire)
}

func (h HistoryVisibility) String() string {
	return closedString(historyVisibilities, h, "HistoryVisibility")
}
func (h HistoryVisibility) MarshalText() ([]byte, error) {
	return closedMarshal(historyVisibilities, h)
}
func (h *HistoryVisibility) UnmarshalText(b []byte) error {
	return closedUnmarshal(historyVisibilities, b, h)
}

// GuestAccess is the guest_access field of m.room.guest_access.
type GuestAccess int

const (
	GuestAccessCanJoin GuestAccess = iota + 1
	GuestAccessForbidden
)

var guestAccesses = enum.NewClosed("guest access",
	enum.Entry[GuestAccess]{Variant: GuestAccessCanJoin, Wire: "can_join"},
	enum.Entry[GuestAccess]{Variant: GuestAccessForbidden, Wire: "forbidden"},
)

// GuestAccesses is the wire table for [GuestAccess].
func GuestAccesses() enum.Closed[GuestAccess] { return guestAccesses }

// ParseGuestAccess decodes a guest access wire value.
func ParseGuestAccess(wire string) (GuestAccess, error) { return guestAccesses.Decode(wire) }

func (g GuestAccess) String() string                { return closedString(guestAccesses, g, "GuestAccess") }
func (g GuestAccess) MarshalText() ([]byte, error)  { return closedMarshal(guestAccesses, g) }
func (g *GuestAccess) UnmarshalText(b []byte) error { return closedUnmarshal(guestAccesses, b, g) }

// RoomPreset selects a bundle of initial state for createRoom.
type RoomPreset int

const (
	PresetPrivateChat RoomPreset = iota + 1
	PresetPublicChat
	PresetTrustedPrivateChat
)

var roomPresets = enum.NewClosed("room preset",
	enum.Entry[RoomPreset]{Variant: PresetPrivateChat, Wire: "private_chat"},
	enum.Entry[RoomPreset]{Variant: PresetPublicChat, Wire: "public_chat"},
	enum.Entry[RoomPreset]{Variant: PresetTrustedPrivateChat, Wire: "trusted_private_chat"},
)

// RoomPresets is the wire table for [RoomPreset].
func RoomPresets() enum.Closed[RoomPreset] { return roomPresets }

// ParseRoomPreset decodes a room preset wire value.
func ParseRoomPreset(wire string) (RoomPreset, error) { return roomPresets.Decode(wire) }

func (p RoomPreset) String() string                { return closedString(roomPresets, p, "RoomPreset") }
func (p RoomPreset) MarshalText() ([]byte, error)  { return closedMarshal(roomPresets, p) }
func (p *RoomPreset) UnmarshalText(b []byte) error { return closedUnmarshal(roomPresets, b, p) }

// Membership is the membership field of m.room.member.
type Membership int

const (
	MembershipInvite Membership = iota + 1
	MembershipJoin
	MembershipKnock
	MembershipLeave
	MembershipBan
)

var memberships = enum.NewClosed("membership",
	enum.Entry[Membership]{Variant: MembershipInvite, Wire: "invite"},
	enum.Entry[Membership]{Variant: MembershipJoin, Wire: "join"},
	enum.Entry[Membership]{Variant: MembershipKnock, Wire: "knock"},
	enum.Entry[Membership]{Variant: MembershipLeave, Wire: "leave"},
	enum.Entry[Membership]{Variant: MembershipBan, Wire: "ban"},
)

// Memberships is the wire table for [Membership].
func Memberships() enum.Closed[Membership] { return memberships }

// ParseMembership decodes a membership wire value.
func ParseMembership(wire string) (Membership, error) { return memberships.Decode(wire) }

func (m Membership) String() string                { return closedString(memberships, m, "Membership") }
func (m Membership) MarshalText() ([]byte, error)  { return closedMarshal(memberships, m) }
func (m *Membership) UnmarshalText(b []byte) error { return closedUnmarshal(memberships, b, m) }
