// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared wiring for command handlers.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kkshivani18/infralens-tui/internal/auth"
	"github.com/kkshivani18/infralens-tui/internal/backend"
	"github.com/kkshivani18/infralens-tui/internal/config"
)

// CredentialProvider builds the credential chain from config: the
// environment variable wins over the stored token file. Both sources
// are re-read on every request, so a rotated token takes effect
// without restarting.
func CredentialProvider(cfg *config.Config) (auth.Provider, error) {
	tokenPath, err := cfg.TokenPath()
	if err != nil {
		return nil, err
	}
	return auth.Chain(
		auth.FromEnv(cfg.Auth.TokenEnv),
		auth.FromFile(tokenPath),
	), nil
}

// NewBackendClient builds a backend client from config.
func NewBackendClient(cfg *config.Config) (*backend.Client, error) {
	provider, err := CredentialProvider(cfg)
	if err != nil {
		return nil, err
	}
	client := backend.NewClient(cfg.API.BaseURL, provider.Credential).
		WithTimeout(time.Duration(cfg.API.TimeoutSecs) * time.Second).
		WithRequestsPerMinute(cfg.API.RequestsPerMinute)
	return client, nil
}

// requestContext returns a context bounded by the configured request
// timeout.
func requestContext(cfg *config.Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(cfg.API.TimeoutSecs)*time.Second)
}

// confirm prompts the user for a yes/no answer on stdin. Returns false
// when stdin is not a terminal.
func confirm(prompt string) bool {
	if !IsTTY() {
		return false
	}
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
