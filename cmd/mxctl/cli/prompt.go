// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/bureau-foundation/mxfacade/lib/secret"
)

// ReadSecret reads one secret line from input. On a terminal the
// prompt is written to output and echo is disabled; otherwise the
// first line of input is consumed silently so secrets can be piped in.
func ReadSecret(input *os.File, output io.Writer, prompt string) (*secret.Buffer, error) {
	if IsTerminal(input) {
		fmt.Fprint(output, prompt)
		data, err := term.ReadPassword(int(input.Fd()))
		fmt.Fprintln(output)
		if err != nil {
			return nil, fmt.Errorf("reading secret: %w", err)
		}
		return secretFromLine(data)
	}
	return ReadSecretLine(input)
}

// ReadSecretLine reads the first line of reader into a secret buffer.
func ReadSecretLine(reader io.Reader) (*secret.Buffer, error) {
	data, err := bufio.NewReader(reader).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		secret.Zero(data)
		return nil, fmt.Errorf("reading secret: %w", err)
	}
	return secretFromLine(data)
}

// secretFromLine moves data into a secret buffer and zeroes data.
func secretFromLine(data []byte) (*secret.Buffer, error) {
	defer secret.Zero(data)
	trimmed := bytes.TrimRight(data, "\r\n")
	if len(trimmed) == 0 {
		return nil, errors.New("empty secret")
	}
	return secret.NewFromBytes(trimmed)
}
