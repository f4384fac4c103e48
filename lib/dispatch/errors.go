// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrMissingValue is reported when the transport signals success
	// but the payload is absent or the transform cannot produce a
	// value from it. The transform's own error, when there is one, is
	// wrapped alongside.
	ErrMissingValue = errors.New("dispatch: transport reported success without a usable value")

	// ErrMissingErrorObject is reported when the transport signals
	// failure without an error value.
	ErrMissingErrorObject = errors.New("dispatch: transport reported failure without an error")

	// ErrMissingProgress terminates an upload whose transport reported
	// a nil progress object. It wraps ErrMissingValue.
	ErrMissingProgress = fmt.Errorf("%w: nil progress report", ErrMissingValue)

	// ErrCancelled is delivered when Cancel pre-empts the transport.
	// It wraps context.Canceled so callers already checking for
	// context cancellation need no new case.
	ErrCancelled = fmt.Errorf("dispatch: operation cancelled: %w", context.Canceled)
)
