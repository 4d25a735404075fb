// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Handler for the "status" command.
//
// Command: status
// Short:   Show backend and auth status
// Aliases: s
//
// Examples:
//   infralens status
//   infralens status --json
package cli

import (
	"context"
	"fmt"

	"github.com/kkshivani18/infralens-tui/internal/auth"
	"github.com/kkshivani18/infralens-tui/internal/config"
	"github.com/kkshivani18/infralens-tui/internal/repos"
)

// statusData is the JSON payload for the status command.
type statusData struct {
	BackendURL       string `json:"backend_url"`
	BackendReachable bool   `json:"backend_reachable"`
	BackendError     string `json:"backend_error,omitempty"`
	TokenFingerprint string `json:"token_fingerprint"`
	Repositories     int    `json:"repositories"`
	Version          string `json:"version"`
}

// HandleStatus handles the "status" command.
func HandleStatus(args Args) error {
	cfg := config.Global()
	client, err := NewBackendClient(cfg)
	if err != nil {
		return err
	}

	data := statusData{
		BackendURL: cfg.API.BaseURL,
		Version:    Version,
	}

	ctx, cancel := requestContext(cfg)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		data.BackendError = err.Error()
	} else {
		data.BackendReachable = true
		manager := repos.NewManager(client)
		data.Repositories = len(manager.Refresh(ctx))
	}

	provider, err := CredentialProvider(cfg)
	if err != nil {
		return err
	}
	token, err := provider.Credential(context.Background())
	if err != nil {
		return err
	}
	data.TokenFingerprint = auth.Fingerprint(token)

	if args.JSON {
		return NewJSONResponse("status", data).Print()
	}

	fmt.Println(TitleStyle.Render("Infralens Status"))
	fmt.Printf("%s %s\n", RenderLabel("Backend:"), data.BackendURL)
	if data.BackendReachable {
		fmt.Printf("%s %s\n", RenderLabel("Connection:"), RenderStatus("online"))
		fmt.Printf("%s %d\n", RenderLabel("Repositories:"), data.Repositories)
	} else {
		fmt.Printf("%s %s %s\n", RenderLabel("Connection:"), RenderStatus("offline"),
			DimStyle.Render(data.BackendError))
	}
	fmt.Printf("%s %s\n", RenderLabel("Token:"), data.TokenFingerprint)
	fmt.Printf("%s %s\n", RenderLabel("Version:"), data.Version)
	return nil
}
