// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands defines the mxctl command tree. Each command opens
// a [session] (configuration, logger, HTTP transport, optional
// transcript recorder, and messaging client), issues its calls through
// dispatch.Wait, and prints either a human-readable summary or JSON.
package commands
