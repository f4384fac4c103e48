// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transport is the collaborator boundary beneath the typed
// Matrix facade: it issues one request and reports its outcome through
// callbacks, and knows nothing about endpoint semantics.
//
// A [Transport] exposes a single primitive, Invoke, which takes a
// [Request] and a set of [Callbacks] and returns a [RawHandle] for
// cooperative cancellation. The success callback receives the raw JSON
// payload (possibly nil), the failure callback an error (possibly
// nil), and upload requests additionally report [UploadProgress] (again
// possibly nil) before the terminal callback. The nullable arguments
// are part of the contract: the dispatch layer above turns each of
// them into a well-defined failure rather than trusting the
// implementation.
//
// Three implementations live here:
//
//   - [HTTP] talks to a homeserver over net/http. Request URLs are
//     built by string concatenation rather than url.URL to avoid
//     double-encoding path segments that already contain escapes
//     (room aliases with slashes). Error responses decode into
//     [*MatrixError]. The access token lives in a secret.Buffer.
//     Upload bodies are wrapped in a counting reader that reports
//     progress no more often than the configured interval.
//
//   - [Memory] is a scripted in-process transport for tests. Each
//     Invoke records a [*Call] that the test completes by hand, so
//     any interleaving of progress, terminal, and cancel events can be
//     reproduced deterministically.
//
//   - [Recorder] wraps another Transport and writes a transcript of
//     every call's outcome as CBOR records in a zstd stream.
//     [ReadTranscript] decodes it.
package transport
