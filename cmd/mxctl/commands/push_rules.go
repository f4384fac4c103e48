// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/mxfacade/cmd/mxctl/cli"
	"github.com/bureau-foundation/mxfacade/lib/dispatch"
	"github.com/bureau-foundation/mxfacade/lib/schema"
	"github.com/bureau-foundation/mxfacade/messaging"
)

func pushRulesCommand(streams Streams) *cli.Command {
	return &cli.Command{
		Name:    "push-rules",
		Summary: "List and toggle notification push rules",
		Subcommands: []*cli.Command{
			pushRulesListCommand(streams),
			pushRuleToggleCommand(streams, "enable", true),
			pushRuleToggleCommand(streams, "disable", false),
		},
	}
}

func pushRulesListCommand(streams Streams) *cli.Command {
	var params sessionParams
	return &cli.Command{
		Name:    "list",
		Summary: "List the global push rules in evaluation order",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("list", &params) },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "mxctl push-rules list"); err != nil {
				return err
			}
			s, err := params.Connection.openSession(streams, true)
			if err != nil {
				return err
			}
			defer s.Close()

			rules, err := dispatch.Wait(ctx, s.client.PushRules)
			if err != nil {
				return err
			}
			if params.OutputJSON {
				return cli.WriteJSON(streams.Stdout, rules)
			}
			table := tabwriter.NewWriter(streams.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintln(table, "KIND\tRULE\tENABLED\tDEFAULT")
			for _, rule := range rules {
				fmt.Fprintf(table, "%s\t%s\t%t\t%t\n", rule.Kind, rule.RuleID, rule.Enabled, rule.Default)
			}
			return table.Flush()
		},
	}
}

func pushRuleToggleCommand(streams Streams, name string, enabled bool) *cli.Command {
	var params sessionParams
	return &cli.Command{
		Name:    name,
		Summary: name + " a push rule",
		Usage:   "mxctl push-rules " + name + " <kind> <rule-id>",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams(name, &params) },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 2, "mxctl push-rules "+name+" <kind> <rule-id>"); err != nil {
				return err
			}
			kind, err := schema.ParsePushRuleKind(args[0])
			if err != nil {
				return err
			}
			s, err := params.Connection.openSession(streams, true)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := dispatch.Wait(ctx, func(done func(dispatch.Result[messaging.Empty])) *dispatch.Handle {
				return s.client.SetPushRuleEnabled(kind, args[1], enabled, done)
			}); err != nil {
				return err
			}
			fmt.Fprintf(streams.Stdout, "%s/%s %sd\n", kind, args[1], name)
			return nil
		},
	}
}
