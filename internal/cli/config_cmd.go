// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Handler for the "config" command.
//
// Command: config
// Short:   Show and edit configuration
//
// Examples:
//   infralens config show
//   infralens config path
//   infralens config set api.base_url http://10.0.0.5:8000/api
//   infralens config set ui.markdown false
package cli

import (
	"fmt"
	"strconv"

	"github.com/kkshivani18/infralens-tui/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args)
	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	case "set":
		return handleConfigSet(args)
	default:
		return &ValidationError{
			Field:   "subcommand",
			Value:   args.Subcommand,
			Reason:  "unknown config subcommand",
			Example: "infralens config [show|path|set <key> <value>]",
		}
	}
}

func handleConfigShow(args Args) error {
	cfg := config.Global()

	if args.JSON {
		return NewJSONResponse("config", cfg).Print()
	}

	fmt.Println(TitleStyle.Render("Configuration"))
	fmt.Printf("%s %s\n", RenderLabel("Backend URL:"), cfg.API.BaseURL)
	fmt.Printf("%s %ds\n", RenderLabel("Request timeout:"), cfg.API.TimeoutSecs)
	fmt.Printf("%s %d/min\n", RenderLabel("Request pacing:"), cfg.API.RequestsPerMinute)
	fmt.Printf("%s %s\n", RenderLabel("Token env var:"), cfg.Auth.TokenEnv)
	fmt.Printf("%s %s\n", RenderLabel("Theme:"), cfg.UI.Theme)
	fmt.Printf("%s %v\n", RenderLabel("Markdown:"), cfg.UI.Markdown)
	fmt.Printf("%s %v\n", RenderLabel("Transcripts:"), cfg.Storage.TranscriptsEnabled)
	return nil
}

// handleConfigSet updates a single key and persists the file. Keys use
// the section.field form matching the TOML layout.
func handleConfigSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return ErrMissingArgument("key/value", "infralens config set api.base_url http://host:8000/api")
	}

	cfg := config.Global()
	if err := applyConfigKey(cfg, args.ConfigKey, args.ConfigVal); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.SaveTOML(); err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("config", map[string]string{args.ConfigKey: args.ConfigVal}).Print()
	}
	fmt.Printf("%s %s = %s\n", SuccessStyle.Render("[OK]"), args.ConfigKey, args.ConfigVal)
	return nil
}

func applyConfigKey(cfg *config.Config, key, value string) error {
	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return &ValidationError{Field: key, Value: value, Reason: "must be an integer"}
		}
		cfg.API.TimeoutSecs = n
	case "api.requests_per_minute":
		n, err := strconv.Atoi(value)
		if err != nil {
			return &ValidationError{Field: key, Value: value, Reason: "must be an integer"}
		}
		cfg.API.RequestsPerMinute = n
	case "auth.token_env":
		cfg.Auth.TokenEnv = value
	case "auth.token_file":
		cfg.Auth.TokenFile = value
	case "ui.theme":
		cfg.UI.Theme = value
	case "ui.markdown":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &ValidationError{Field: key, Value: value, Reason: "must be true or false"}
		}
		cfg.UI.Markdown = b
	case "ui.compact_mode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &ValidationError{Field: key, Value: value, Reason: "must be true or false"}
		}
		cfg.UI.CompactMode = b
	case "storage.transcripts_enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &ValidationError{Field: key, Value: value, Reason: "must be true or false"}
		}
		cfg.Storage.TranscriptsEnabled = b
	default:
		return &ValidationError{
			Field:   "key",
			Value:   key,
			Reason:  "unknown configuration key",
			Example: "api.base_url, api.timeout_secs, ui.theme, ui.markdown, storage.transcripts_enabled",
		}
	}
	return nil
}
