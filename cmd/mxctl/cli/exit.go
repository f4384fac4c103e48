// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError requests a specific process exit code without printing
// an "error:" line. main checks for the ExitCode method.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the requested process exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}
