// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// PROVIDER TESTS
// =============================================================================

func TestFromFile_ReReadsEveryCall(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "token")
	ctx := context.Background()

	p := FromFile(path)

	// No file yet: no credential, no error.
	token, err := p.Credential(ctx)
	if err != nil {
		t.Fatalf("Credential with missing file: %v", err)
	}
	if token != "" {
		t.Errorf("token = %q, want empty", token)
	}

	// Token appears on disk between calls and is picked up.
	if err := os.WriteFile(path, []byte("first-token\n"), 0600); err != nil {
		t.Fatal(err)
	}
	token, err = p.Credential(ctx)
	if err != nil {
		t.Fatalf("Credential: %v", err)
	}
	if token != "first-token" {
		t.Errorf("token = %q, want first-token", token)
	}

	// Rotation on disk is honored on the very next call.
	if err := os.WriteFile(path, []byte("rotated-token\n"), 0600); err != nil {
		t.Fatal(err)
	}
	token, _ = p.Credential(ctx)
	if token != "rotated-token" {
		t.Errorf("token = %q, want rotated-token", token)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("INFRALENS_TEST_TOKEN", "  env-token  ")
	token, err := FromEnv("INFRALENS_TEST_TOKEN").Credential(context.Background())
	if err != nil {
		t.Fatalf("Credential: %v", err)
	}
	if token != "env-token" {
		t.Errorf("token = %q, want env-token", token)
	}
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	empty := Static("")
	full := Static("chained")

	token, err := Chain(empty, full).Credential(ctx)
	if err != nil {
		t.Fatalf("Credential: %v", err)
	}
	if token != "chained" {
		t.Errorf("token = %q, want chained", token)
	}

	failing := ProviderFunc(func(ctx context.Context) (string, error) {
		return "", errors.New("source unavailable")
	})
	if _, err := Chain(failing, full).Credential(ctx); err == nil {
		t.Error("Chain should stop on provider error")
	}
}

func TestFingerprint(t *testing.T) {
	if Fingerprint("") != "none" {
		t.Error("empty credential should fingerprint as none")
	}
	fp := Fingerprint("secret-token")
	if len(fp) != 8 {
		t.Errorf("fingerprint length = %d, want 8", len(fp))
	}
	if fp == Fingerprint("other-token") {
		t.Error("different tokens should have different fingerprints")
	}
}

// =============================================================================
// TOKEN STORE TESTS
// =============================================================================

func TestTokenStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewTokenStore(filepath.Join(dir, "nested", "token"))

	if err := store.Save("  my-token  "); err != nil {
		t.Fatalf("Save: %v", err)
	}

	token, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if token != "my-token" {
		t.Errorf("token = %q, want my-token", token)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token file permissions = %o, want 0600", perm)
	}
}

func TestTokenStore_RejectsEmpty(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
	if err := store.Save("   "); err == nil {
		t.Error("Save should reject empty token")
	}
}

func TestTokenStore_Clear(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))

	// Clearing an absent token is fine.
	if err := store.Clear(); err != nil {
		t.Errorf("Clear on missing file: %v", err)
	}

	if err := store.Save("tok"); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	token, err := store.Load()
	if err != nil || token != "" {
		t.Errorf("Load after Clear = (%q, %v), want empty", token, err)
	}
}

func TestTokenStore_ProviderSeesRotation(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "token"))
	p := store.Provider()
	ctx := context.Background()

	if err := store.Save("one"); err != nil {
		t.Fatal(err)
	}
	if tok, _ := p.Credential(ctx); tok != "one" {
		t.Errorf("token = %q, want one", tok)
	}

	if err := store.Save("two"); err != nil {
		t.Fatal(err)
	}
	if tok, _ := p.Credential(ctx); tok != "two" {
		t.Errorf("token = %q, want two", tok)
	}
}
