// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/mxfacade/cmd/mxctl/cli"
	"github.com/bureau-foundation/mxfacade/lib/config"
	"github.com/bureau-foundation/mxfacade/lib/dispatch"
	"github.com/bureau-foundation/mxfacade/lib/ref"
	"github.com/bureau-foundation/mxfacade/lib/secret"
	"github.com/bureau-foundation/mxfacade/messaging"
	"github.com/bureau-foundation/mxfacade/transport"
)

// Streams are the process's standard streams. Tests substitute
// buffers for Stdout and Stderr.
type Streams struct {
	Stdin  *os.File
	Stdout io.Writer
	Stderr io.Writer
}

// connectionFlags are the flags every server-facing command accepts.
// Non-empty values override the configuration file.
type connectionFlags struct {
	ConfigPath string
	Homeserver string
	TokenFile  string
	Transcript string
}

func (f *connectionFlags) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.ConfigPath, "config", "", "configuration file (default $"+config.EnvironmentVariable+")")
	flagSet.StringVar(&f.Homeserver, "homeserver", "", "homeserver base URL (overrides homeserver.url)")
	flagSet.StringVar(&f.TokenFile, "token-file", "", "access token file (overrides homeserver.token_file)")
	flagSet.StringVar(&f.Transcript, "transcript", "", "append a call transcript to this file (overrides transcript.path)")
}

// loadConfig reads --config, else $MXCTL_CONFIG, else the defaults,
// then applies flag overrides and validates.
func (f *connectionFlags) loadConfig() (*config.Config, error) {
	var loaded *config.Config
	var err error
	switch {
	case f.ConfigPath != "":
		loaded, err = config.LoadFile(f.ConfigPath)
	case os.Getenv(config.EnvironmentVariable) != "":
		loaded, err = config.Load()
	default:
		loaded = config.Default()
		loaded.Homeserver.TokenFile = os.ExpandEnv(loaded.Homeserver.TokenFile)
	}
	if err != nil {
		return nil, err
	}

	if f.Homeserver != "" {
		loaded.Homeserver.URL = f.Homeserver
	}
	if f.TokenFile != "" {
		loaded.Homeserver.TokenFile = f.TokenFile
	}
	if f.Transcript != "" {
		loaded.Transcript.Path = f.Transcript
	}
	if err := loaded.Validate(); err != nil {
		return nil, err
	}
	return loaded, nil
}

// session is everything a command needs to talk to the homeserver.
type session struct {
	config    *config.Config
	logger    *slog.Logger
	transport *transport.HTTP
	recorder  *transport.Recorder
	record    *os.File
	client    *messaging.Client
}

// openSession loads configuration and builds the transport stack. With
// authenticated set, the access token file must exist.
func (f *connectionFlags) openSession(streams Streams, authenticated bool) (*session, error) {
	loaded, err := f.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := cli.NewLogger(streams.Stderr, loaded.LogLevel(), loaded.Log.Format)
	if err != nil {
		return nil, err
	}

	httpTransport, err := transport.NewHTTP(transport.HTTPConfig{
		HomeserverURL:    loaded.Homeserver.URL,
		Logger:           logger,
		RequestTimeout:   loaded.RequestTimeout(),
		ProgressInterval: loaded.ProgressInterval(),
	})
	if err != nil {
		return nil, err
	}
	s := &session{config: loaded, logger: logger, transport: httpTransport}

	if authenticated {
		token, err := secret.ReadFromPath(loaded.Homeserver.TokenFile)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("reading access token (run 'mxctl login' first): %w", err)
		}
		httpTransport.SetAccessToken(token)
	}

	var calls transport.Transport = httpTransport
	if path := loaded.Transcript.Path; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			s.Close()
			return nil, fmt.Errorf("creating transcript directory: %w", err)
		}
		s.record, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("opening transcript: %w", err)
		}
		s.recorder, err = transport.NewRecorder(httpTransport, s.record, transport.RecorderConfig{Logger: logger})
		if err != nil {
			s.Close()
			return nil, err
		}
		calls = s.recorder
	}

	s.client, err = messaging.NewClient(messaging.ClientConfig{Transport: calls, Logger: logger})
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close flushes the transcript and releases the access token.
func (s *session) Close() error {
	var errs []error
	if s.recorder != nil {
		errs = append(errs, s.recorder.Close())
	}
	if s.record != nil {
		errs = append(errs, s.record.Close())
	}
	errs = append(errs, s.transport.Close())
	return errors.Join(errs...)
}

// selfID returns the configured user ID, asking the server when none
// is configured.
func (s *session) selfID(ctx context.Context) (ref.UserID, error) {
	if userID := s.config.UserID(); !userID.IsZero() {
		return userID, nil
	}
	identity, err := dispatch.Wait(ctx, s.client.WhoAmI)
	if err != nil {
		return ref.UserID{}, err
	}
	return identity.UserID, nil
}
