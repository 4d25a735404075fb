// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kkshivani18/infralens-tui/internal/ui/styles"
	"github.com/kkshivani18/infralens-tui/internal/util"
)

// Header renders the top bar: brand on the left, the bound repository
// on the right.
type Header struct {
	theme *styles.Theme
	width int

	// Repository currently bound to the session, empty when none
	Repository string
}

// NewHeader creates a header component.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{theme: theme}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// View renders the header.
func (h *Header) View() string {
	brand := h.theme.HeaderBrand.Render("infralens")

	right := h.theme.HeaderSubtitle.Render("no repository")
	if h.Repository != "" {
		right = h.theme.HeaderTitle.Render(util.TruncateWidth(h.Repository, h.width/2))
	}

	gap := h.width - lipgloss.Width(brand) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	bar := lipgloss.JoinHorizontal(lipgloss.Center, brand, spacer, right)
	return lipgloss.NewStyle().
		Background(styles.SurfacePanel).
		Width(h.width).
		Padding(0, 1).
		Render(bar)
}
