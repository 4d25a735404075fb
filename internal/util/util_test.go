// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile_Basic(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "test.txt")
	data := []byte("hello, world!")

	if err := AtomicWriteFile(path, data, 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != string(data) {
		t.Errorf("Content mismatch: got %q, want %q", string(content), string(data))
	}
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "subdir", "deep", "test.txt")

	if err := AtomicWriteFile(path, []byte("test data"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("File not created: %v", err)
	}
}

func TestAtomicWriteFile_Overwrites(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "test.txt")

	if err := AtomicWriteFile(path, []byte("initial"), 0644); err != nil {
		t.Fatalf("First write failed: %v", err)
	}
	if err := AtomicWriteFile(path, []byte("replaced"), 0644); err != nil {
		t.Fatalf("Second write failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(content) != "replaced" {
		t.Errorf("Content = %q, want %q", string(content), "replaced")
	}
}

func TestAtomicWriteFile_Permissions(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "secret")

	if err := AtomicWriteFile(path, []byte("token"), 0600); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Permissions = %o, want 0600", perm)
	}
}

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{"no truncation needed", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"truncates with ellipsis", "hello world", 8, "hello..."},
		{"zero max", "hello", 0, ""},
		{"tiny max skips ellipsis", "hello", 2, "he"},
		{"multibyte safe", "héllo wörld", 8, "héllo..."},
		{"cjk safe", "日本語のテキスト", 5, "日本..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncateRunes(tc.input, tc.maxRunes)
			if got != tc.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.input, tc.maxRunes, got, tc.want)
			}
		})
	}
}

func TestTruncateWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		maxOut   int
	}{
		{"ascii fits", "hello", 10, 10},
		{"ascii truncated", "hello world", 8, 8},
		{"cjk counts double", "日本語テキスト", 6, 6},
		{"zero width", "hello", 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := TruncateWidth(tc.input, tc.maxWidth)
			if w := StringWidth(got); w > tc.maxOut {
				t.Errorf("TruncateWidth(%q, %d) has width %d, want <= %d", tc.input, tc.maxWidth, w, tc.maxOut)
			}
		})
	}
}

func TestStringWidth(t *testing.T) {
	if w := StringWidth("hello"); w != 5 {
		t.Errorf("StringWidth(hello) = %d, want 5", w)
	}
	if w := StringWidth("日本"); w != 4 {
		t.Errorf("StringWidth(日本) = %d, want 4", w)
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Errorf("PadRight(ab, 5) = %q", got)
	}
	if got := PadRight("abcdef", 4); StringWidth(got) != 4 {
		t.Errorf("PadRight should truncate to width, got %q", got)
	}
}

func TestRuneLen(t *testing.T) {
	if n := RuneLen("héllo"); n != 5 {
		t.Errorf("RuneLen(héllo) = %d, want 5", n)
	}
}
