// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// infralens client.
//
// Supports both TOML and JSON configuration formats, with sensible
// defaults, environment variable overrides, and validation.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (INFRALENS_*)
//   - ~/.infralens/config.toml
//   - ~/.infralens/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := backend.NewClient(cfg.API.BaseURL, credential)
package config
