// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/bureau-foundation/mxfacade/lib/dispatch"
	"github.com/bureau-foundation/mxfacade/lib/ref"
	"github.com/bureau-foundation/mxfacade/lib/schema"
	"github.com/bureau-foundation/mxfacade/lib/secret"
)

// Credentials are the result of a successful login. The caller owns
// AccessToken and must Close it (or hand it to a transport that takes
// ownership).
type Credentials struct {
	UserID      ref.UserID
	DeviceID    ref.DeviceID
	AccessToken *secret.Buffer
}

// Close releases the access token.
func (c *Credentials) Close() error {
	if c == nil || c.AccessToken == nil {
		return nil
	}
	return c.AccessToken.Close()
}

type passwordLogin struct {
	Type       schema.LoginFlowType `json:"type"`
	Identifier userIdentifier       `json:"identifier"`
	Password   string               `json:"password"`
	DeviceName string               `json:"initial_device_display_name,omitempty"`
}

type userIdentifier struct {
	Type string `json:"type"`
	User string `json:"user"`
}

type loginResponse struct {
	UserID      ref.UserID   `json:"user_id"`
	DeviceID    ref.DeviceID `json:"device_id"`
	AccessToken string       `json:"access_token"`
}

// Login authenticates with a password. user may be a full user ID or a
// bare localpart. The password Buffer is read but not closed; the
// caller retains ownership. The call is marked sensitive so recorders
// drop its payloads.
func (c *Client) Login(user string, password *secret.Buffer, deviceName string, done func(dispatch.Result[*Credentials])) *dispatch.Handle {
	if user == "" {
		return dispatch.Reject(done, fmt.Errorf("messaging: username is required for login"))
	}
	if password == nil || password.Closed() {
		return dispatch.Reject(done, fmt.Errorf("messaging: password is required for login"))
	}

	// Password is converted to string at the JSON serialization boundary.
	// The heap copy lives only until the transport encodes the body.
	request := post("account.login", clientPath("login"), passwordLogin{
		Type:       schema.LoginPassword,
		Identifier: userIdentifier{Type: "m.id.user", User: user},
		Password:   password.String(),
		DeviceName: deviceName,
	})
	request.Unauthenticated = true
	request.Sensitive = true

	transform := func(payload json.RawMessage) (*Credentials, error) {
		var response loginResponse
		if err := json.Unmarshal(payload, &response); err != nil {
			return nil, fmt.Errorf("decoding login response: %w", err)
		}
		if response.AccessToken == "" {
			return nil, fmt.Errorf("login response has no access_token")
		}
		token, err := secret.NewFromString(response.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("storing access token: %w", err)
		}
		return &Credentials{UserID: response.UserID, DeviceID: response.DeviceID, AccessToken: token}, nil
	}

	return call(c, request, transform, func(result dispatch.Result[*Credentials]) {
		if credentials, ok := result.Value(); ok {
			c.logger.Info("logged in to matrix",
				"user_id", credentials.UserID,
				"device_id", credentials.DeviceID,
			)
		}
		if done != nil {
			done(result)
		} else if credentials, ok := result.Value(); ok {
			credentials.Close()
		}
	})
}

// Logout invalidates the access token the transport is using.
func (c *Client) Logout(done func(dispatch.Result[Empty])) *dispatch.Handle {
	return call(c, post("account.logout", clientPath("logout"), emptyObject), dispatch.Discard(), func(result dispatch.Result[Empty]) {
		if result.Err() == nil {
			c.logger.Info("logged out of matrix")
		}
		if done != nil {
			done(result)
		}
	})
}

// WhoAmI identifies the owner of the current access token.
type WhoAmI struct {
	UserID   ref.UserID   `json:"user_id"`
	DeviceID ref.DeviceID `json:"device_id,omitzero"`
	IsGuest  bool         `json:"is_guest,omitempty"`
}

// WhoAmI resolves the current access token to its user and device.
func (c *Client) WhoAmI(done func(dispatch.Result[WhoAmI])) *dispatch.Handle {
	return call(c, get("account.whoami", clientPath("account", "whoami"), nil), nil, done)
}

// ThirdPartyIdentifier is an email address or phone number bound to
// the account.
type ThirdPartyIdentifier struct {
	Medium      schema.ThirdPartyMedium `json:"medium"`
	Address     string                  `json:"address"`
	ValidatedAt int64                   `json:"validated_at"`
	AddedAt     int64                   `json:"added_at"`
}

// ThirdPartyIdentifiers lists the account's bound identifiers.
func (c *Client) ThirdPartyIdentifiers(done func(dispatch.Result[[]ThirdPartyIdentifier])) *dispatch.Handle {
	request := get("account.threepids", clientPath("account", "3pid"), nil)
	return call(c, request, dispatch.Field[[]ThirdPartyIdentifier]("threepids"), done)
}

// Device is one login session of the account.
type Device struct {
	DeviceID    ref.DeviceID `json:"device_id"`
	DisplayName string       `json:"display_name,omitempty"`
	LastSeenIP  string       `json:"last_seen_ip,omitempty"`
	LastSeenTS  int64        `json:"last_seen_ts,omitempty"`
}

// Devices lists the account's devices.
func (c *Client) Devices(done func(dispatch.Result[[]Device])) *dispatch.Handle {
	return call(c, get("devices.list", clientPath("devices"), nil), dispatch.Field[[]Device]("devices"), done)
}

// SetDeviceName renames a device.
func (c *Client) SetDeviceName(deviceID ref.DeviceID, name string, done func(dispatch.Result[Empty])) *dispatch.Handle {
	if deviceID.IsZero() {
		return dispatch.Reject(done, fmt.Errorf("messaging: device ID is required"))
	}
	body := map[string]string{"display_name": name}
	return call(c, put("devices.rename", clientPath("devices", deviceID.String()), body), dispatch.Discard(), done)
}

// DeleteDevice removes a device and invalidates its tokens. Servers
// that require interactive auth for this answer with a 401 whose body
// is not a Matrix error; it surfaces as a plain transport error.
func (c *Client) DeleteDevice(deviceID ref.DeviceID, done func(dispatch.Result[Empty])) *dispatch.Handle {
	if deviceID.IsZero() {
		return dispatch.Reject(done, fmt.Errorf("messaging: device ID is required"))
	}
	return call(c, del("devices.delete", clientPath("devices", deviceID.String()), emptyObject), dispatch.Discard(), done)
}

// DisplayName fetches a user's display name.
func (c *Client) DisplayName(userID ref.UserID, done func(dispatch.Result[string])) *dispatch.Handle {
	request := get("profile.displayname", clientPath("profile", userID.String(), "displayname"), nil)
	return call(c, request, dispatch.Field[string]("displayname"), done)
}

// SetDisplayName sets a user's display name. Servers only accept this
// for the token's own user.
func (c *Client) SetDisplayName(userID ref.UserID, name string, done func(dispatch.Result[Empty])) *dispatch.Handle {
	body := map[string]string{"displayname": name}
	request := put("profile.set_displayname", clientPath("profile", userID.String(), "displayname"), body)
	return call(c, request, dispatch.Discard(), done)
}

// AvatarURL fetches a user's avatar.
func (c *Client) AvatarURL(userID ref.UserID, done func(dispatch.Result[ref.ContentURI])) *dispatch.Handle {
	request := get("profile.avatar_url", clientPath("profile", userID.String(), "avatar_url"), nil)
	return call(c, request, dispatch.Field[ref.ContentURI]("avatar_url"), done)
}

// SetAvatarURL points a user's avatar at uploaded media.
func (c *Client) SetAvatarURL(userID ref.UserID, avatar ref.ContentURI, done func(dispatch.Result[Empty])) *dispatch.Handle {
	if avatar.IsZero() {
		return dispatch.Reject(done, fmt.Errorf("messaging: avatar content URI is required"))
	}
	body := map[string]ref.ContentURI{"avatar_url": avatar}
	request := put("profile.set_avatar_url", clientPath("profile", userID.String(), "avatar_url"), body)
	return call(c, request, dispatch.Discard(), done)
}
