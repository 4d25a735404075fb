// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - Handler for the "auth" command.
//
// Command: auth
// Short:   Backend token management
//
// Examples:
//   infralens auth login          Store a backend token (hidden input)
//   infralens auth status         Show token fingerprint
//   infralens auth logout         Remove the stored token
//
// Only SHA-256 fingerprints are ever displayed; the raw token is never
// echoed or logged.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/kkshivani18/infralens-tui/internal/auth"
	"github.com/kkshivani18/infralens-tui/internal/config"
)

// HandleAuth handles the "auth" command.
func HandleAuth(args Args) error {
	cfg := config.Global()
	tokenPath, err := cfg.TokenPath()
	if err != nil {
		return err
	}
	store := auth.NewTokenStore(tokenPath)

	switch args.Subcommand {
	case "login":
		return handleAuthLogin(args, store)
	case "", "status":
		return handleAuthStatus(args, cfg, store)
	case "logout":
		return handleAuthLogout(args, store)
	default:
		return &ValidationError{
			Field:   "subcommand",
			Value:   args.Subcommand,
			Reason:  "unknown auth subcommand",
			Example: "infralens auth [login|status|logout]",
		}
	}
}

func handleAuthLogin(args Args, store *auth.TokenStore) error {
	if err := RequiresTTY("read a token"); err != nil {
		return err
	}

	fmt.Print("Backend token (input hidden): ")
	tokenBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}

	token := strings.TrimSpace(string(tokenBytes))
	if token == "" {
		return &ValidationError{Field: "token", Reason: "token must not be empty"}
	}

	if err := store.Save(token); err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("auth", map[string]string{
			"status":      "stored",
			"fingerprint": auth.Fingerprint(token),
		}).Print()
	}
	fmt.Printf("%s token stored (fingerprint %s)\n",
		SuccessStyle.Render("[OK]"), auth.Fingerprint(token))
	return nil
}

func handleAuthStatus(args Args, cfg *config.Config, store *auth.TokenStore) error {
	provider, err := CredentialProvider(cfg)
	if err != nil {
		return err
	}
	token, err := provider.Credential(context.Background())
	if err != nil {
		return err
	}

	envToken := strings.TrimSpace(os.Getenv(cfg.Auth.TokenEnv))
	source := "none"
	switch {
	case envToken != "":
		source = "environment (" + cfg.Auth.TokenEnv + ")"
	case token != "":
		source = "file (" + store.Path() + ")"
	}

	if args.JSON {
		return NewJSONResponse("auth", map[string]string{
			"source":      source,
			"fingerprint": auth.Fingerprint(token),
		}).Print()
	}

	fmt.Println(TitleStyle.Render("Authentication"))
	fmt.Printf("%s %s\n", RenderLabel("Source:"), source)
	fmt.Printf("%s %s\n", RenderLabel("Fingerprint:"), auth.Fingerprint(token))
	if token == "" {
		fmt.Println(DimStyle.Render("\nNo token configured. Run 'infralens auth login' if the backend requires one."))
	}
	return nil
}

func handleAuthLogout(args Args, store *auth.TokenStore) error {
	if err := store.Clear(); err != nil {
		return err
	}
	if args.JSON {
		return NewJSONResponse("auth", map[string]string{"status": "cleared"}).Print()
	}
	fmt.Printf("%s stored token removed\n", SuccessStyle.Render("[OK]"))
	return nil
}
