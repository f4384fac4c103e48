// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for mxctl: a tree of [Command]
// values dispatched by name, pflag flag sets built from tagged param
// structs, typo suggestions, and the terminal-facing helpers commands
// share (logger construction, secret prompts, progress rendering, and
// JSON output).
package cli
