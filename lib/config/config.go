// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/mxfacade/lib/ref"
	"github.com/bureau-foundation/mxfacade/lib/sentinel"
	"github.com/bureau-foundation/mxfacade/messaging"
)

// EnvironmentVariable names the config file for [Load].
const EnvironmentVariable = "MXCTL_CONFIG"

// Config is the mxctl configuration file.
type Config struct {
	Homeserver HomeserverConfig `yaml:"homeserver" json:"homeserver"`
	Upload     UploadConfig     `yaml:"upload" json:"upload"`
	Transcript TranscriptConfig `yaml:"transcript" json:"transcript"`
	Log        LogConfig        `yaml:"log" json:"log"`
	Defaults   DefaultsConfig   `yaml:"defaults" json:"defaults"`
}

// HomeserverConfig identifies the server and account.
type HomeserverConfig struct {
	// URL is the client-server API base, e.g. "https://matrix.example.org".
	URL string `yaml:"url" json:"url"`

	// UserID is the account mxctl acts as. Optional until login.
	UserID string `yaml:"user_id" json:"user_id"`

	// TokenFile holds the access token. Written by "mxctl login".
	// Default: ${HOME}/.local/state/mxctl/token
	TokenFile string `yaml:"token_file" json:"token_file"`

	// RequestTimeout bounds each API call. "0s" disables the bound.
	// Default: 30s
	RequestTimeout string `yaml:"request_timeout" json:"request_timeout"`
}

// UploadConfig tunes media uploads.
type UploadConfig struct {
	// ProgressInterval is the minimum spacing between progress
	// reports. Default: 250ms
	ProgressInterval string `yaml:"progress_interval" json:"progress_interval"`
}

// TranscriptConfig enables the call transcript.
type TranscriptConfig struct {
	// Path is the zstd-compressed CBOR transcript file. Empty disables
	// recording.
	Path string `yaml:"path" json:"path"`
}

// LogConfig controls mxctl's slog output.
type LogConfig struct {
	// Level is debug, info, warn, or error. Default: info
	Level string `yaml:"level" json:"level"`

	// Format is auto (text on a terminal, JSON otherwise), text, or
	// json. Default: auto
	Format string `yaml:"format" json:"format"`
}

// DefaultsConfig supplies values for optional command parameters. Each
// uses the same sentinel as the corresponding wire field: -1 means
// "let the server decide".
type DefaultsConfig struct {
	MessageLimit     int `yaml:"message_limit" json:"message_limit"`
	PublicRoomsLimit int `yaml:"public_rooms_limit" json:"public_rooms_limit"`
}

// Default returns the configuration that file values are merged over.
func Default() *Config {
	return &Config{
		Homeserver: HomeserverConfig{
			TokenFile:      "${HOME}/.local/state/mxctl/token",
			RequestTimeout: "30s",
		},
		Upload:   UploadConfig{ProgressInterval: "250ms"},
		Log:      LogConfig{Level: "info", Format: "auto"},
		Defaults: DefaultsConfig{MessageLimit: -1, PublicRoomsLimit: -1},
	}
}

// Load reads the file named by MXCTL_CONFIG.
func Load() (*Config, error) {
	path := os.Getenv(EnvironmentVariable)
	if path == "" {
		return nil, fmt.Errorf("config: %s is not set; set it to your mxctl.yaml or pass --config", EnvironmentVariable)
	}
	return LoadFile(path)
}

// LoadFile reads path over [Default] and expands variables. It does
// not validate; call Validate before use.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	config := Default()
	if err := config.parse(data, filepath.Ext(path)); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	config.expandVariables()
	return config, nil
}

func (c *Config) parse(data []byte, extension string) error {
	switch strings.ToLower(extension) {
	case ".json", ".jsonc":
		return json.Unmarshal(jsonc.ToJSON(data), c)
	default:
		return yaml.Unmarshal(data, c)
	}
}

func (c *Config) expandVariables() {
	c.Homeserver.URL = expandVars(c.Homeserver.URL)
	c.Homeserver.TokenFile = expandVars(c.Homeserver.TokenFile)
	c.Transcript.Path = expandVars(c.Transcript.Path)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars replaces ${VAR} and ${VAR:-default}. An unset or empty
// variable without a default expands to "".
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks every field and joins all problems into one error.
func (c *Config) Validate() error {
	var errs []error

	if c.Homeserver.URL == "" {
		errs = append(errs, fmt.Errorf("homeserver.url is required"))
	} else if parsed, err := url.Parse(c.Homeserver.URL); err != nil || parsed.Host == "" ||
		(parsed.Scheme != "http" && parsed.Scheme != "https") {
		errs = append(errs, fmt.Errorf("homeserver.url %q must be an absolute http or https URL", c.Homeserver.URL))
	}
	if c.Homeserver.UserID != "" {
		if _, err := ref.ParseUserID(c.Homeserver.UserID); err != nil {
			errs = append(errs, fmt.Errorf("homeserver.user_id: %w", err))
		}
	}
	if c.Homeserver.TokenFile == "" {
		errs = append(errs, fmt.Errorf("homeserver.token_file is required"))
	}
	if _, err := parseDuration(c.Homeserver.RequestTimeout); err != nil {
		errs = append(errs, fmt.Errorf("homeserver.request_timeout: %w", err))
	}
	if _, err := parseDuration(c.Upload.ProgressInterval); err != nil {
		errs = append(errs, fmt.Errorf("upload.progress_interval: %w", err))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "auto", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of auto, text, json; got %q", c.Log.Format))
	}
	for _, limit := range []struct {
		name  string
		value int
		field sentinel.Field[int]
	}{
		{"defaults.message_limit", c.Defaults.MessageLimit, messaging.MessageLimit},
		{"defaults.public_rooms_limit", c.Defaults.PublicRoomsLimit, messaging.PublicRoomsLimit},
	} {
		if limit.value == limit.field.Omit() {
			continue
		}
		if _, err := limit.field.ToWire(&limit.value); err != nil {
			errs = append(errs, fmt.Errorf("%s must be %d (server default) or in range: %w",
				limit.name, limit.field.Omit(), err))
		}
	}

	return errors.Join(errs...)
}

// UserID returns the configured account, or the zero value when unset.
func (c *Config) UserID() ref.UserID {
	userID, _ := ref.ParseUserID(c.Homeserver.UserID)
	return userID
}

// RequestTimeout returns the parsed per-call bound (0 = none).
func (c *Config) RequestTimeout() time.Duration {
	duration, _ := parseDuration(c.Homeserver.RequestTimeout)
	return duration
}

// ProgressInterval returns the parsed upload progress spacing.
func (c *Config) ProgressInterval() time.Duration {
	duration, _ := parseDuration(c.Upload.ProgressInterval)
	return duration
}

// LogLevel returns the parsed slog level.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

// MessageLimit returns the default /messages limit, nil meaning the
// server default.
func (c *Config) MessageLimit() *int {
	return messaging.MessageLimit.FromWire(c.Defaults.MessageLimit)
}

// PublicRoomsLimit returns the default directory page size, nil
// meaning the server default.
func (c *Config) PublicRoomsLimit() *int {
	return messaging.PublicRoomsLimit.FromWire(c.Defaults.PublicRoomsLimit)
}

func parseDuration(value string) (time.Duration, error) {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if duration < 0 {
		return 0, fmt.Errorf("must not be negative, got %s", value)
	}
	return duration, nil
}

func parseLevel(value string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return 0, err
	}
	return level, nil
}
