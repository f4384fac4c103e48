// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dispatch

import "github.com/bureau-foundation/mxfacade/transport"

// Result is the terminal outcome of an operation: a [Success] or a
// [Failure], never both and never neither.
type Result[T any] interface {
	// Value returns the success value and true, or the zero value and
	// false for a failure.
	Value() (T, bool)

	// Err returns the failure cause, or nil for a success.
	Err() error

	// Get returns the value and error in Go's conventional pair.
	Get() (T, error)

	isResult()
}

// Progress is one notification from an upload: zero or more
// [InProgress] values followed by exactly one terminal [Success] or
// [Failure].
type Progress[T any] interface {
	// IsComplete reports whether this is the terminal notification.
	IsComplete() bool

	// Fraction returns the completed fraction and true for InProgress.
	Fraction() (float64, bool)

	// Value returns the success value and true for Success.
	Value() (T, bool)

	// Err returns the failure cause for Failure, nil otherwise.
	Err() error

	isProgress()
}

// Success carries the value of a completed operation.
type Success[T any] struct {
	value T
}

func (s Success[T]) Value() (T, bool)          { return s.value, true }
func (s Success[T]) Err() error                { return nil }
func (s Success[T]) Get() (T, error)           { return s.value, nil }
func (s Success[T]) IsComplete() bool          { return true }
func (s Success[T]) Fraction() (float64, bool) { return 0, false }
func (Success[T]) isResult()                   {}
func (Success[T]) isProgress()                 {}

// Failure carries the cause of a failed operation. Err never returns
// nil: a Failure built without a cause reports ErrMissingErrorObject.
type Failure[T any] struct {
	err error
}

func (f Failure[T]) Value() (T, bool) {
	var zero T
	return zero, false
}

func (f Failure[T]) Err() error {
	if f.err == nil {
		return ErrMissingErrorObject
	}
	return f.err
}

func (f Failure[T]) Get() (T, error) {
	var zero T
	return zero, f.Err()
}

func (f Failure[T]) IsComplete() bool          { return true }
func (f Failure[T]) Fraction() (float64, bool) { return 0, false }
func (Failure[T]) isResult()                   {}
func (Failure[T]) isProgress()                 {}

// InProgress reports partial completion of an upload.
type InProgress[T any] struct {
	fraction float64
	sent     int64
	total    int64
}

// Sent returns the number of bytes sent so far.
func (p InProgress[T]) Sent() int64 { return p.sent }

// Total returns the body size, or a non-positive value when unknown.
func (p InProgress[T]) Total() int64 { return p.total }

func (p InProgress[T]) IsComplete() bool          { return false }
func (p InProgress[T]) Fraction() (float64, bool) { return p.fraction, true }
func (p InProgress[T]) Err() error                { return nil }
func (InProgress[T]) isProgress()                 {}

func (p InProgress[T]) Value() (T, bool) {
	var zero T
	return zero, false
}

func success[T any](value T) Success[T] { return Success[T]{value: value} }

func failure[T any](err error) Failure[T] { return Failure[T]{err: err} }

func inProgress[T any](report transport.UploadProgress) InProgress[T] {
	return InProgress[T]{fraction: report.Fraction, sent: report.Sent, total: report.Total}
}

// FromOptionalValue returns Success(*value) when value is non-nil and
// Failure(fallback) otherwise. Transport adapters use it for success
// callbacks whose payload is nullable by contract.
func FromOptionalValue[T any](value *T, fallback error) Result[T] {
	if value != nil {
		return success(*value)
	}
	return failure[T](fallback)
}

// FromOptionalError always returns a Failure: err when non-nil,
// fallback otherwise. Transport failure callbacks may deliver a nil
// error, and a Failure must still carry a cause.
func FromOptionalError[T any](err error, fallback error) Result[T] {
	if err != nil {
		return failure[T](err)
	}
	return failure[T](fallback)
}
