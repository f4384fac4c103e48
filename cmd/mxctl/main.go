// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// mxctl is a command-line client for Matrix homeservers built on the
// mxfacade messaging client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/mxfacade/cmd/mxctl/commands"
)

func main() {
	if err := run(); err != nil {
		if exitErr, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := commands.Root(commands.Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr})
	return root.Execute(ctx, os.Args[1:])
}
