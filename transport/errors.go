// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"errors"
	"fmt"
	"time"
)

// MatrixError is a structured error response from the homeserver.
// Extract it with errors.As:
//
//	var matrixErr *transport.MatrixError
//	if errors.As(err, &matrixErr) && matrixErr.Code == transport.ErrCodeNotFound { ... }
type MatrixError struct {
	// Code is the Matrix errcode (e.g., "M_FORBIDDEN").
	Code string `json:"errcode"`
	// Message is the server's human-readable description.
	Message string `json:"error"`
	// RetryAfterMS is set with M_LIMIT_EXCEEDED.
	RetryAfterMS int64 `json:"retry_after_ms,omitempty"`
	// StatusCode is the HTTP status of the response.
	StatusCode int `json:"-"`
}

func (e *MatrixError) Error() string {
	return fmt.Sprintf("matrix: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// RetryAfter returns the server's requested backoff, or 0.
func (e *MatrixError) RetryAfter() time.Duration {
	return time.Duration(e.RetryAfterMS) * time.Millisecond
}

// Standard Matrix error codes.
const (
	ErrCodeForbidden     = "M_FORBIDDEN"
	ErrCodeUnknownToken  = "M_UNKNOWN_TOKEN"
	ErrCodeMissingToken  = "M_MISSING_TOKEN"
	ErrCodeNotFound      = "M_NOT_FOUND"
	ErrCodeLimitExceeded = "M_LIMIT_EXCEEDED"
	ErrCodeUnrecognized  = "M_UNRECOGNIZED"
	ErrCodeUnknown       = "M_UNKNOWN"
	ErrCodeInvalidParam  = "M_INVALID_PARAM"
	ErrCodeMissingParam  = "M_MISSING_PARAM"
	ErrCodeBadJSON       = "M_BAD_JSON"
	ErrCodeNotJSON       = "M_NOT_JSON"
	ErrCodeTooLarge      = "M_TOO_LARGE"
	ErrCodeRoomInUse     = "M_ROOM_IN_USE"
	ErrCodeUserInUse     = "M_USER_IN_USE"
)

// IsMatrixError reports whether err wraps a *MatrixError with code.
func IsMatrixError(err error, code string) bool {
	var matrixErr *MatrixError
	if errors.As(err, &matrixErr) {
		return matrixErr.Code == code
	}
	return false
}

// ErrRequestTimeout is the cancellation cause when a call outlives the
// transport's request timeout.
var ErrRequestTimeout = errors.New("transport: request timed out")

// ErrNoAccessToken is returned synchronously by Invoke for an
// authenticated request when no token is set.
var ErrNoAccessToken = errors.New("transport: no access token")
