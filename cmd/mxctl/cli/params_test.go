// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

type serverFlags struct {
	Homeserver string
}

func (s *serverFlags) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&s.Homeserver, "homeserver", "https://matrix.example.org", "homeserver URL")
}

type sampleParams struct {
	Server serverFlags
	JSONOutput
	Limit   int           `flag:"limit,n" desc:"page size" default:"-1"`
	Since   int64         `flag:"since" desc:"start position"`
	Timeout time.Duration `flag:"timeout" default:"30s"`
	Via     []string      `flag:"via" default:"a.example,b.example"`
	Name    string        `flag:"name" desc:"display name"`
	Skipped string
}

func TestFlagsFromParamsDefaults(t *testing.T) {
	var params sampleParams
	flagSet := FlagsFromParams("sample", &params)
	if err := flagSet.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.Server.Homeserver != "https://matrix.example.org" {
		t.Errorf("Homeserver = %q", params.Server.Homeserver)
	}
	if params.Limit != -1 || params.Since != 0 || params.Timeout != 30*time.Second {
		t.Errorf("defaults = %d, %d, %v", params.Limit, params.Since, params.Timeout)
	}
	if len(params.Via) != 2 || params.Via[1] != "b.example" {
		t.Errorf("Via = %v", params.Via)
	}
	if params.OutputJSON {
		t.Error("OutputJSON defaulted to true")
	}
	if flagSet.Lookup("skipped") != nil {
		t.Error("untagged field was bound")
	}
}

func TestFlagsFromParamsParses(t *testing.T) {
	var params sampleParams
	flagSet := FlagsFromParams("sample", &params)
	err := flagSet.Parse([]string{
		"-n", "50", "--json", "--since", "9000000000",
		"--timeout", "2m", "--via", "c.example", "--homeserver", "https://other.example",
		"--name", "Ops bot",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if params.Limit != 50 || !params.OutputJSON || params.Since != 9000000000 {
		t.Errorf("parsed = %+v", params)
	}
	if params.Timeout != 2*time.Minute || params.Name != "Ops bot" {
		t.Errorf("parsed = %+v", params)
	}
	if len(params.Via) != 1 || params.Via[0] != "c.example" {
		t.Errorf("Via = %v", params.Via)
	}
	if params.Server.Homeserver != "https://other.example" {
		t.Errorf("Homeserver = %q", params.Server.Homeserver)
	}
}

func TestBindFlagsRejectsBadInput(t *testing.T) {
	flagSet := pflag.NewFlagSet("bad", pflag.ContinueOnError)
	if err := BindFlags(sampleParams{}, flagSet); err == nil {
		t.Error("BindFlags accepted a non-pointer")
	}

	var unsupported struct {
		Ratio float32 `flag:"ratio"`
	}
	err := BindFlags(&unsupported, flagSet)
	if err == nil || !strings.Contains(err.Error(), "unsupported type") {
		t.Errorf("BindFlags(float32) = %v", err)
	}

	var badDefault struct {
		Count int `flag:"count" default:"many"`
	}
	if err := BindFlags(&badDefault, flagSet); err == nil {
		t.Error("BindFlags accepted an unparseable default")
	}
}
