// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestReadResponseBounded(t *testing.T) {
	body := strings.NewReader(`{"ok":true}`)
	data, err := ReadResponse(body)
	if err != nil || string(data) != `{"ok":true}` {
		t.Errorf("ReadResponse = %q, %v", data, err)
	}
}

func TestErrorBody(t *testing.T) {
	if got := ErrorBody(strings.NewReader("bad gateway")); got != "bad gateway" {
		t.Errorf("ErrorBody = %q", got)
	}
}

func TestCountingReader(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 10_000)
	var reports []int64
	reader := NewCountingReader(bytes.NewReader(payload), func(total int64) {
		reports = append(reports, total)
	})

	copied, err := io.CopyBuffer(io.Discard, reader, make([]byte, 4096))
	if err != nil || copied != 10_000 {
		t.Fatalf("copy = %d, %v", copied, err)
	}
	if reader.Count() != 10_000 {
		t.Errorf("Count() = %d", reader.Count())
	}
	if len(reports) != 3 || reports[0] != 4096 || reports[1] != 8192 || reports[2] != 10_000 {
		t.Errorf("reports = %v, want [4096 8192 10000]", reports)
	}
}
