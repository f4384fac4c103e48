// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
)

const progressBarWidth = 30

// ProgressBar renders upload progress on a single terminal line,
// redrawing in place with carriage returns.
type ProgressBar struct {
	output io.Writer
	label  string
	drawn  bool
}

// NewProgressBar returns a bar that writes to output.
func NewProgressBar(output io.Writer, label string) *ProgressBar {
	return &ProgressBar{output: output, label: label}
}

// Update redraws the bar for sent of total bytes. An unknown total
// (non-positive) shows only the byte count.
func (b *ProgressBar) Update(fraction float64, sent, total int64) {
	b.drawn = true
	if total <= 0 {
		fmt.Fprintf(b.output, "\r%s %s", b.label, humanize.Bytes(uint64(max(sent, 0))))
		return
	}
	fmt.Fprintf(b.output, "\r%s %s %s / %s %3.0f%%",
		b.label, renderBar(fraction),
		humanize.Bytes(uint64(sent)), humanize.Bytes(uint64(total)),
		fraction*100)
}

// Finish ends the progress line if anything was drawn.
func (b *ProgressBar) Finish() {
	if b.drawn {
		fmt.Fprintln(b.output)
		b.drawn = false
	}
}

func renderBar(fraction float64) string {
	fraction = min(max(fraction, 0), 1)
	filled := int(fraction * progressBarWidth)
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", progressBarWidth-filled) + "]"
}
