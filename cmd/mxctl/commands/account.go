// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/mxfacade/cmd/mxctl/cli"
	"github.com/bureau-foundation/mxfacade/lib/dispatch"
	"github.com/bureau-foundation/mxfacade/lib/secret"
	"github.com/bureau-foundation/mxfacade/messaging"
)

type versionsParams struct {
	Connection connectionFlags
	cli.JSONOutput
	Require string `flag:"require" desc:"fail unless the server supports a version matching this constraint (e.g. \">= 1.7\")"`
}

func versionsCommand(streams Streams) *cli.Command {
	var params versionsParams
	return &cli.Command{
		Name:    "versions",
		Summary: "Show the API versions the homeserver supports",
		Usage:   "mxctl versions [--require CONSTRAINT] [--json]",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("versions", &params) },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "mxctl versions"); err != nil {
				return err
			}
			s, err := params.Connection.openSession(streams, false)
			if err != nil {
				return err
			}
			defer s.Close()

			versions, err := dispatch.Wait(ctx, func(done func(dispatch.Result[messaging.ServerVersions])) *dispatch.Handle {
				return s.client.ServerVersions(done)
			})
			if err != nil {
				return err
			}

			if params.OutputJSON {
				if err := cli.WriteJSON(streams.Stdout, versions); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(streams.Stdout, "versions: %s\n", strings.Join(versions.Versions, ", "))
				fmt.Fprintf(streams.Stdout, "latest:   %s\n", versions.Latest())
				var features []string
				for name, enabled := range versions.UnstableFeatures {
					if enabled {
						features = append(features, name)
					}
				}
				sort.Strings(features)
				for _, name := range features {
					fmt.Fprintf(streams.Stdout, "feature:  %s\n", name)
				}
			}

			if params.Require != "" {
				supported, err := versions.Supports(params.Require)
				if err != nil {
					return err
				}
				if !supported {
					fmt.Fprintf(streams.Stderr, "homeserver does not support %q (latest %s)\n", params.Require, versions.Latest())
					return &cli.ExitError{Code: 2}
				}
			}
			return nil
		},
	}
}

type loginParams struct {
	Connection   connectionFlags
	User         string `flag:"user,u" desc:"user ID or localpart (default homeserver.user_id)"`
	DeviceName   string `flag:"device-name" desc:"display name for the new device" default:"mxctl"`
	PasswordFile string `flag:"password-file" desc:"read the password from this file (- for stdin) instead of prompting"`
}

func loginCommand(streams Streams) *cli.Command {
	var params loginParams
	return &cli.Command{
		Name:    "login",
		Summary: "Log in with a password and store the access token",
		Description: `Log in with a password and write the access token to the token file
(homeserver.token_file, or --token-file). The password is read from a
terminal prompt with echo disabled, or from --password-file.`,
		Usage: "mxctl login [--user USER] [--password-file PATH]",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("login", &params) },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "mxctl login [--user USER]"); err != nil {
				return err
			}
			s, err := params.Connection.openSession(streams, false)
			if err != nil {
				return err
			}
			defer s.Close()

			user := params.User
			if user == "" {
				user = s.config.Homeserver.UserID
			}
			if user == "" {
				return fmt.Errorf("--user is required when homeserver.user_id is not configured")
			}

			var password *secret.Buffer
			if params.PasswordFile != "" {
				password, err = secret.ReadFromPath(params.PasswordFile)
			} else {
				password, err = cli.ReadSecret(streams.Stdin, streams.Stderr, "Password for "+user+": ")
			}
			if err != nil {
				return err
			}
			defer password.Close()

			credentials, err := dispatch.Wait(ctx, func(done func(dispatch.Result[*messaging.Credentials])) *dispatch.Handle {
				return s.client.Login(user, password, params.DeviceName, done)
			})
			if err != nil {
				return err
			}
			defer credentials.Close()

			tokenFile := s.config.Homeserver.TokenFile
			if err := secret.WriteFile(tokenFile, credentials.AccessToken); err != nil {
				return fmt.Errorf("storing access token: %w", err)
			}
			fmt.Fprintf(streams.Stdout, "logged in as %s (device %s)\n", credentials.UserID, credentials.DeviceID)
			fmt.Fprintf(streams.Stdout, "access token written to %s\n", tokenFile)
			return nil
		},
	}
}

type sessionParams struct {
	Connection connectionFlags
	cli.JSONOutput
}

func logoutCommand(streams Streams) *cli.Command {
	var params sessionParams
	return &cli.Command{
		Name:    "logout",
		Summary: "Invalidate the stored access token",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("logout", &params) },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "mxctl logout"); err != nil {
				return err
			}
			s, err := params.Connection.openSession(streams, true)
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := dispatch.Wait(ctx, s.client.Logout); err != nil {
				return err
			}
			fmt.Fprintln(streams.Stdout, "logged out")
			return nil
		},
	}
}

func whoamiCommand(streams Streams) *cli.Command {
	var params sessionParams
	return &cli.Command{
		Name:    "whoami",
		Summary: "Show the user and device behind the access token",
		Usage:   "mxctl whoami [--json]",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("whoami", &params) },
		Run: func(ctx context.Context, args []string) error {
			if err := requireArgs(args, 0, "mxctl whoami"); err != nil {
				return err
			}
			s, err := params.Connection.openSession(streams, true)
			if err != nil {
				return err
			}
			defer s.Close()

			identity, err := dispatch.Wait(ctx, s.client.WhoAmI)
			if err != nil {
				return err
			}
			if params.OutputJSON {
				return cli.WriteJSON(streams.Stdout, identity)
			}
			fmt.Fprintf(streams.Stdout, "user:   %s\n", identity.UserID)
			if !identity.DeviceID.IsZero() {
				fmt.Fprintf(streams.Stdout, "device: %s\n", identity.DeviceID)
			}
			if identity.IsGuest {
				fmt.Fprintln(streams.Stdout, "guest:  yes")
			}
			return nil
		},
	}
}
