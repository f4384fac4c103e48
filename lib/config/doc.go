// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads mxctl configuration.
//
// Configuration comes from a single file named by the MXCTL_CONFIG
// environment variable ([Load]) or a --config flag ([LoadFile]). There
// is no search path and no ~/.config discovery. YAML is the primary
// format; files ending in .json or .jsonc are accepted too, with //
// and /* */ comments and trailing commas stripped by tidwall/jsonc.
//
// After loading, ${VAR} and ${VAR:-default} references in the
// homeserver URL and path fields are expanded from the environment.
// No other environment variable overrides a config value.
//
// [Config.Validate] reports every problem at once rather than stopping
// at the first.
package config
