// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import "github.com/bureau-foundation/mxfacade/lib/enum"

// Presence is a user's presence state.
type Presence int

const (
	PresenceOnline Presence = iota + 1
	PresenceOffline
	PresenceUnavailable
)

var presences = enum.NewClosed("presence",
	enum.Entry[Presence]{Variant: PresenceOnline, Wire: "online"},
	enum.Entry[Presence]{Variant: PresenceOffline, Wire: "offline"},
	enum.Entry[Presence]{Variant: PresenceUnavailable, Wire: "unavailable"},
)

// Presences is the wire table for [Presence].
func Presences() enum.Closed[Presence] { return presences }

// ParsePresence decodes a presence wire value.
func ParsePresence(wire string) (Presence, error) { return presences.Decode(wire) }

func (p Presence) String() string                { return closedString(presences, p, "Presence") }
func (p Presence) MarshalText() ([]byte, error)  { return closedMarshal(presences, p) }
func (p *Presence) UnmarshalText(b []byte) error { return closedUnmarshal(presences, b, p) }

// PushRuleKind is the kind segment of a push rule path. The server
// evaluates kinds in the order listed here.
type PushRuleKind int

const (
	PushRuleOverride PushRuleKind = iota + 1
	PushRuleContent
	PushRuleRoom
	PushRuleSender
	PushRuleUnderride
)

var pushRuleKinds = enum.NewClosed("push rule kind",
	enum.Entry[PushRuleKind]{Variant: PushRuleOverride, Wire: "override"},
	enum.Entry[PushRuleKind]{Variant: PushRuleContent, Wire: "content"},
	enum.Entry[PushRuleKind]{Variant: PushRuleRoom, Wire: "room"},
	enum.Entry[PushRuleKind]{Variant: PushRuleSender, Wire: "sender"},
	enum.Entry[PushRuleKind]{Variant: PushRuleUnderride, Wire: "underride"},
)

// PushRuleKinds is the wire table for [PushRuleKind].
func PushRuleKinds() enum.Closed[PushRuleKind] { return pushRuleKinds }

// ParsePushRuleKind decodes a push rule kind.
func ParsePushRuleKind(wire string) (PushRuleKind, error) { return pushRuleKinds.Decode(wire) }

func (k PushRuleKind) String() string                { return closedString(pushRuleKinds, k, "PushRuleKind") }
func (k PushRuleKind) MarshalText() ([]byte, error)  { return closedMarshal(pushRuleKinds, k) }
func (k *PushRuleKind) UnmarshalText(b []byte) error { return closedUnmarshal(pushRuleKinds, b, k) }

// LoginFlowType is an authentication flow advertised by GET /login.
// Servers add flows over time, so the set is open.
type LoginFlowType struct {
	known  uint8
	custom string
}

// Known login flows.
var (
	LoginPassword           = LoginFlowType{known: 1}
	LoginToken              = LoginFlowType{known: 2}
	LoginSSO                = LoginFlowType{known: 3}
	LoginApplicationService = LoginFlowType{known: 4}
)

var loginFlowTypes = enum.NewOpen("login flow type",
	func(wire string) LoginFlowType { return LoginFlowType{custom: wire} },
	enum.Entry[LoginFlowType]{Variant: LoginPassword, Wire: "m.login.password"},
	enum.Entry[LoginFlowType]{Variant: LoginToken, Wire: "m.login.token"},
	enum.Entry[LoginFlowType]{Variant: LoginSSO, Wire: "m.login.sso"},
	enum.Entry[LoginFlowType]{Variant: LoginApplicationService, Wire: "m.login.application_service"},
)

// LoginFlowTypes is the wire table for [LoginFlowType].
func LoginFlowTypes() enum.Open[LoginFlowType] { return loginFlowTypes }

// ParseLoginFlowType decodes a login flow type. Never fails.
func ParseLoginFlowType(wire string) LoginFlowType { return loginFlowTypes.Decode(wire) }

// CustomWire implements [enum.Custom].
func (t LoginFlowType) CustomWire() (string, bool) {
	return t.custom, t.known == 0 && t.custom != ""
}

func (t LoginFlowType) String() string               { return loginFlowTypes.Encode(t) }
func (t LoginFlowType) MarshalText() ([]byte, error) { return openMarshal(loginFlowTypes, t) }
func (t *LoginFlowType) UnmarshalText(b []byte) error {
	*t = loginFlowTypes.Decode(string(b))
	return nil
}

// ThirdPartyMedium is the medium of a third-party identifier bound to
// an account.
type ThirdPartyMedium struct {
	known  uint8
	custom string
}

// Known media.
var (
	MediumEmail  = ThirdPartyMedium{known: 1}
	MediumMSISDN = ThirdPartyMedium{known: 2}
)

var thirdPartyMedia = enum.NewOpen("third-party medium",
	func(wire string) ThirdPartyMedium { return ThirdPartyMedium{custom: wire} },
	enum.Entry[ThirdPartyMedium]{Variant: MediumEmail, Wire: "email"},
	enum.Entry[ThirdPartyMedium]{Variant: MediumMSISDN, Wire: "msisdn"},
)

// ThirdPartyMedia is the wire table for [ThirdPartyMedium].
func ThirdPartyMedia() enum.Open[ThirdPartyMedium] { return thirdPartyMedia }

// ParseThirdPartyMedium decodes a medium. Never fails.
func ParseThirdPartyMedium(wire string) ThirdPartyMedium { return thirdPartyMedia.Decode(wire) }

// CustomWire implements [enum.Custom].
func (m ThirdPartyMedium) CustomWire() (string, bool) {
	return m.custom, m.known == 0 && m.custom != ""
}

func (m ThirdPartyMedium) String() string               { return thirdPartyMedia.Encode(m) }
func (m ThirdPartyMedium) MarshalText() ([]byte, error) { return openMarshal(thirdPartyMedia, m) }
func (m *ThirdPartyMedium) UnmarshalText(b []byte) error {
	*m = thirdPartyMedia.Decode(string(b))
	return nil
}
