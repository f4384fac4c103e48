// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFromBytesZeroesSource(t *testing.T) {
	source := []byte("syt_token_value")
	buffer, err := NewFromBytes(source)
	if err != nil {
		t.Fatalf("NewFromBytes: %v", err)
	}
	defer buffer.Close()

	if buffer.String() != "syt_token_value" {
		t.Errorf("String() = %q", buffer.String())
	}
	for index, b := range source {
		if b != 0 {
			t.Fatalf("source[%d] = %q, want zeroed", index, b)
		}
	}
}

func TestNewRejectsEmpty(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Error("New(0) succeeded")
	}
	if _, err := NewFromBytes(nil); err == nil {
		t.Error("NewFromBytes(nil) succeeded")
	}
	if _, err := NewFromString(""); err == nil {
		t.Error("NewFromString(\"\") succeeded")
	}
}

func TestCloseIsIdempotentAndPanicsOnRead(t *testing.T) {
	buffer, err := NewFromString("token")
	if err != nil {
		t.Fatalf("NewFromString: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if !buffer.Closed() || buffer.Len() != 0 {
		t.Errorf("Closed() = %v, Len() = %d", buffer.Closed(), buffer.Len())
	}

	defer func() {
		if recover() == nil {
			t.Error("String() after Close did not panic")
		}
	}()
	_ = buffer.String()
}

func TestWriteFileThenReadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")

	buffer, err := NewFromString("syt_abc")
	if err != nil {
		t.Fatalf("NewFromString: %v", err)
	}
	defer buffer.Close()
	if err := WriteFile(path, buffer); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := ReadFromPath(path)
	if err != nil {
		t.Fatalf("ReadFromPath: %v", err)
	}
	defer loaded.Close()
	if loaded.String() != "syt_abc" {
		t.Errorf("loaded %q", loaded.String())
	}
}

func TestReadFromPathTrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  syt_trimmed\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	buffer, err := ReadFromPath(path)
	if err != nil {
		t.Fatalf("ReadFromPath: %v", err)
	}
	defer buffer.Close()
	if buffer.String() != "syt_trimmed" {
		t.Errorf("got %q", buffer.String())
	}
}

func TestReadFromPathErrors(t *testing.T) {
	directory := t.TempDir()
	blank := filepath.Join(directory, "blank")
	if err := os.WriteFile(blank, []byte(" \n\t"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFromPath(blank); err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("blank file error = %v", err)
	}
	if _, err := ReadFromPath(filepath.Join(directory, "missing")); err == nil {
		t.Error("missing file succeeded")
	}
}

func TestReadFirstLine(t *testing.T) {
	buffer, err := readFirstLine(strings.NewReader("syt_stdin\nignored\n"))
	if err != nil {
		t.Fatalf("readFirstLine: %v", err)
	}
	defer buffer.Close()
	if buffer.String() != "syt_stdin" {
		t.Errorf("got %q", buffer.String())
	}
	if _, err := readFirstLine(strings.NewReader("")); err == nil {
		t.Error("empty reader succeeded")
	}
}
