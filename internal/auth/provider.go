// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

// Provider yields the current bearer credential. An empty string with a
// nil error means no credential is configured; requests then go out
// unauthenticated.
type Provider interface {
	Credential(ctx context.Context) (string, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (string, error)

// Credential implements Provider.
func (f ProviderFunc) Credential(ctx context.Context) (string, error) {
	return f(ctx)
}

// Static returns a provider that always yields the given token.
func Static(token string) Provider {
	token = strings.TrimSpace(token)
	return ProviderFunc(func(ctx context.Context) (string, error) {
		return token, nil
	})
}

// FromEnv returns a provider that reads the named environment variable
// on every call.
func FromEnv(name string) Provider {
	return ProviderFunc(func(ctx context.Context) (string, error) {
		return strings.TrimSpace(os.Getenv(name)), nil
	})
}

// FromFile returns a provider that re-reads the token file on every
// call, so a token replaced on disk takes effect on the next request.
// A missing file means no credential, not an error.
func FromFile(path string) Provider {
	return ProviderFunc(func(ctx context.Context) (string, error) {
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to read token file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	})
}

// Chain returns a provider that yields the first non-empty credential
// from the given providers. A provider error stops the chain.
func Chain(providers ...Provider) Provider {
	return ProviderFunc(func(ctx context.Context) (string, error) {
		for _, p := range providers {
			token, err := p.Credential(ctx)
			if err != nil {
				return "", err
			}
			if token != "" {
				return token, nil
			}
		}
		return "", nil
	})
}

// Fingerprint returns a short SHA-256 fingerprint of a credential for
// display and logs. The raw value is never printed anywhere.
func Fingerprint(token string) string {
	if token == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:4])
}
