// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ReadFromPath loads a secret from path, or the first line of stdin
// when path is "-". Surrounding whitespace is trimmed. The caller owns
// the returned Buffer.
func ReadFromPath(path string) (*Buffer, error) {
	if path == "-" {
		return readFirstLine(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("secret: %w", err)
	}
	defer Zero(data)
	return fromTrimmed(data, path)
}

func readFirstLine(reader io.Reader) (*Buffer, error) {
	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("secret: reading stdin: %w", err)
		}
		return nil, fmt.Errorf("secret: stdin is empty")
	}
	line := scanner.Bytes()
	defer Zero(line)
	return fromTrimmed(line, "stdin")
}

func fromTrimmed(data []byte, source string) (*Buffer, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("secret: %s is empty", source)
	}
	return NewFromBytes(trimmed)
}

// WriteFile stores the secret at path with mode 0600, creating parent
// directories with mode 0700. The file is written to a temporary name
// and renamed into place so a reader never sees a partial token.
func WriteFile(path string, buffer *Buffer) error {
	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return fmt.Errorf("secret: creating %s: %w", directory, err)
	}
	file, err := os.CreateTemp(directory, ".token-*")
	if err != nil {
		return fmt.Errorf("secret: %w", err)
	}
	temporary := file.Name()
	defer os.Remove(temporary)

	if err := file.Chmod(0o600); err != nil {
		file.Close()
		return fmt.Errorf("secret: %w", err)
	}
	if _, err := file.Write(buffer.Bytes()); err != nil {
		file.Close()
		return fmt.Errorf("secret: writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("secret: %w", err)
	}
	if err := os.Rename(temporary, path); err != nil {
		return fmt.Errorf("secret: %w", err)
	}
	return nil
}
