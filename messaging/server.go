// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/bureau-foundation/mxfacade/lib/dispatch"
	"github.com/bureau-foundation/mxfacade/lib/schema"
)

// ServerVersions lists the client-server API versions a homeserver
// implements.
type ServerVersions struct {
	Versions         []string        `json:"versions"`
	UnstableFeatures map[string]bool `json:"unstable_features,omitempty"`
}

// Supports reports whether any advertised version satisfies the
// semver constraint (e.g., ">= 1.7"). Legacy "r0.x" identifiers never
// match.
func (v ServerVersions) Supports(constraint string) (bool, error) {
	parsed, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("messaging: invalid version constraint %q: %w", constraint, err)
	}
	for _, raw := range v.Versions {
		version, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if parsed.Check(version) {
			return true, nil
		}
	}
	return false, nil
}

// Latest returns the highest advertised version as the server spelled
// it, or "" when none parse as vX.Y.
func (v ServerVersions) Latest() string {
	var best *semver.Version
	var latest string
	for _, raw := range v.Versions {
		version, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if best == nil || version.GreaterThan(best) {
			best, latest = version, raw
		}
	}
	return latest
}

// HasFeature reports whether an unstable feature flag is enabled.
func (v ServerVersions) HasFeature(name string) bool {
	return v.UnstableFeatures[name]
}

// ServerVersions fetches the API versions supported by the homeserver.
// Unauthenticated; useful as a reachability check.
func (c *Client) ServerVersions(done func(dispatch.Result[ServerVersions])) *dispatch.Handle {
	request := get("server.versions", "/_matrix/client/versions", nil)
	request.Unauthenticated = true
	return call(c, request, nil, done)
}

// LoginFlow is one authentication flow offered by the server.
type LoginFlow struct {
	Type schema.LoginFlowType `json:"type"`
}

// LoginFlows lists the login flows the server accepts. Flow types this
// package does not know decode as custom values.
func (c *Client) LoginFlows(done func(dispatch.Result[[]LoginFlow])) *dispatch.Handle {
	request := get("server.login_flows", clientPath("login"), nil)
	request.Unauthenticated = true
	return call(c, request, dispatch.Field[[]LoginFlow]("flows"), done)
}
