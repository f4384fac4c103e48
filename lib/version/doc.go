// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version carries build information for mxctl and the
// User-Agent the HTTP transport sends.
//
// [GitCommit], [GitDirty], [BuildTime], and [Version] are injected with
// -ldflags -X and default to "unknown" / "0.1.0-dev" in development
// builds and tests.
package version
