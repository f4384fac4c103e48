// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"abc", "ab", 1},
		{"abc", "bac", 2},
		{"kitten", "sitting", 3},
		{"presence", "presense", 1},
	}
	for _, test := range tests {
		t.Run(test.a+"/"+test.b, func(t *testing.T) {
			if got := levenshtein(test.a, test.b); got != test.want {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
			}
			if got := levenshtein(test.b, test.a); got != test.want {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", test.b, test.a, got, test.want)
			}
		})
	}
}

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{{Name: "room"}, {Name: "send"}, {Name: "upload"}}
	tests := []struct {
		input, want string
	}{
		{"rom", "room"},
		{"snd", "send"},
		{"uplaod", "upload"},
		{"transcript", ""},
	}
	for _, test := range tests {
		if got := suggestCommand(test.input, commands); got != test.want {
			t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestSuggestFlag(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flagSet.StringP("homeserver", "s", "", "")
	flagSet.Int("limit", -1, "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"long typo", []string{"--limt", "5"}, "--limit"},
		{"with value", []string{"--homeservr=https://example.org"}, "--homeserver"},
		{"known flags skipped", []string{"-s", "x", "--limitt"}, "--limit"},
		{"nothing close", []string{"--verbose"}, ""},
		{"after terminator", []string{"--", "--limt"}, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := suggestFlag(test.args, flagSet); got != test.want {
				t.Errorf("suggestFlag(%v) = %q, want %q", test.args, got, test.want)
			}
		})
	}
}
