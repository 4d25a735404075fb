// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kkshivani18/infralens-tui/internal/util"
)

// TokenStore persists the bearer token under the config directory.
// The file holds the bare token, mode 0600.
type TokenStore struct {
	path string
}

// NewTokenStore creates a store for the given token file path.
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Path returns the token file location.
func (s *TokenStore) Path() string {
	return s.path
}

// Save writes the token with owner-only permissions.
func (s *TokenStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("refusing to store an empty token")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	return util.AtomicWriteFile(s.path, []byte(token+"\n"), 0600)
}

// Load reads the stored token. Returns an empty string when no token
// file exists.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Clear removes the stored token. Clearing an absent token is not an
// error.
func (s *TokenStore) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Provider returns a Provider backed by this store's file.
func (s *TokenStore) Provider() Provider {
	return FromFile(s.path)
}
