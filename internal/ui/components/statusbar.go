// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kkshivani18/infralens-tui/internal/ui/styles"
)

// StatusBar renders the bottom bar: connection state, a transient
// notice, and key hints.
type StatusBar struct {
	theme *styles.Theme
	width int

	// Connected reflects the last backend interaction
	Connected bool

	// Notice is a transient message (errors, progress)
	Notice string

	// Hints are key binding hints, rendered right-aligned
	Hints []Hint
}

// Hint is a single key binding hint.
type Hint struct {
	Key  string
	Desc string
}

// NewStatusBar creates a status bar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme, Connected: true}
}

// SetWidth updates the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	var left string
	if s.Connected {
		left = s.theme.Connected.Render(styles.StatusIndicators.Active + " connected")
	} else {
		left = s.theme.Disconnected.Render(styles.StatusIndicators.Error + " offline")
	}

	if s.Notice != "" {
		left += "  " + s.theme.WarningStyle.Render(s.Notice)
	}

	var hints []string
	for _, h := range s.Hints {
		hints = append(hints,
			s.theme.ShortcutKey.Render(h.Key)+" "+s.theme.ShortcutDesc.Render(h.Desc))
	}
	right := strings.Join(hints, "  ")

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return s.theme.StatusBar.Width(s.width).Render(
		lipgloss.JoinHorizontal(lipgloss.Center, left, spacer, right))
}
