// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the infralens
// TUI. Every color is a Lip Gloss AdaptiveColor so light and dark
// terminals get a readable variant without configuration.
package styles

import "github.com/charmbracelet/lipgloss"

// Accent colors.
var (
	// Violet carries the assistant identity and selections.
	Violet = lipgloss.AdaptiveColor{Light: "#6D28D9", Dark: "#A78BFA"}

	// Cyan is the brand color, also used for key hints.
	Cyan = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#22D3EE"}

	// Emerald marks success and the connected indicator.
	Emerald = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}

	// Rose marks errors and the offline indicator.
	Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

	// RoseDeep backs error boxes.
	RoseDeep = lipgloss.AdaptiveColor{Light: "#9F1239", Dark: "#881337"}

	// Amber marks warnings and pending work.
	Amber = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
)

// Surfaces and text.
var (
	// SurfacePanel backs the header and status bar.
	SurfacePanel = lipgloss.AdaptiveColor{Light: "#F4F4F5", Dark: "#16161F"}

	// Overlay draws borders and separators.
	Overlay = lipgloss.AdaptiveColor{Light: "#E4E4E7", Dark: "#2E2E40"}

	TextPrimary   = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

	// TextOnAccent is body text placed on an accent background.
	TextOnAccent = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#16161F"}
)

// Transcript bubbles. Each role keeps a foreground/background/border
// triple so the roles stay apart even when color is approximated.
var (
	UserBubbleFg     = lipgloss.AdaptiveColor{Light: "#1E3A8A", Dark: "#E0F2FE"}
	UserBubbleBg     = lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E40AF"}
	UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#3B82F6"}

	AssistantBubbleFg     = lipgloss.AdaptiveColor{Light: "#4C3D73", Dark: "#E9E4F5"}
	AssistantBubbleBg     = lipgloss.AdaptiveColor{Light: "#F5F3FF", Dark: "#35304C"}
	AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#A78BFA", Dark: "#A78BFA"}

	SystemBubbleFg     = lipgloss.AdaptiveColor{Light: "#92400E", Dark: "#FEF3C7"}
	SystemBubbleBg     = lipgloss.AdaptiveColor{Light: "#FEF3C7", Dark: "#6B3410"}
	SystemBubbleBorder = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#F59E0B"}
)

// StatusIndicatorSet holds plain-text markers paired with the status
// colors, so state reads correctly without color perception.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
	Pending string
	Active  string
}

// StatusIndicators is the marker set used across the UI.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
	Pending: "[ ]",
	Active:  "[*]",
}

// Status colors chosen to stay apart under red-green color blindness.
var (
	SuccessHighContrast = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#22C55E"}
	ErrorHighContrast   = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#EF4444"}
	WarningHighContrast = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
	InfoHighContrast    = lipgloss.AdaptiveColor{Light: "#2563EB", Dark: "#3B82F6"}
)

// RenderSuccess renders message with the success marker and color.
func RenderSuccess(message string) string {
	return lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true).
		Render(StatusIndicators.Success + " " + message)
}

// RenderError renders message with the error marker and color.
func RenderError(message string) string {
	return lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true).
		Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders message with the warning marker and color.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().
		Foreground(WarningHighContrast).
		Bold(true).
		Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders message with the info marker and color.
func RenderInfo(message string) string {
	return lipgloss.NewStyle().
		Foreground(InfoHighContrast).
		Bold(true).
		Render(StatusIndicators.Info + " " + message)
}
