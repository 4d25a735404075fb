// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// Application container
	App       lipgloss.Style
	Container lipgloss.Style

	// Header
	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	HeaderBrand    lipgloss.Style

	// Message bubbles
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	SystemBubble    lipgloss.Style

	// Input area
	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	Connected    lipgloss.Style
	Disconnected lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// Repository picker
	PickerBox          lipgloss.Style
	PickerItem         lipgloss.Style
	PickerItemSelected lipgloss.Style
	PickerMeta         lipgloss.Style

	// Spinner and loading
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	// Error boxes
	ErrorBox     lipgloss.Style
	ErrorTitle   lipgloss.Style
	ErrorMessage lipgloss.Style

	// Status indicators
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfacePanel).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Violet).
		Padding(0, 2).
		Align(lipgloss.Center)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Violet)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.SystemBubble = lipgloss.NewStyle().
		Foreground(SystemBubbleFg).
		Background(SystemBubbleBg).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(SystemBubbleBorder).
		Padding(0, 2).
		Align(lipgloss.Center)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfacePanel).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.Connected = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.Disconnected = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Repository picker
	t.PickerBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Violet).
		Padding(1, 2)

	t.PickerItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.PickerItemSelected = lipgloss.NewStyle().
		Background(Violet).
		Foreground(TextOnAccent).
		Bold(true).
		Padding(0, 1)

	t.PickerMeta = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Spinner and loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Violet)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Error boxes
	t.ErrorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Background(RoseDeep).
		Padding(1, 2)

	t.ErrorTitle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(TextPrimary)

	// Status indicators
	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(WarningHighContrast).
		Bold(true)

	t.InfoStyle = lipgloss.NewStyle().
		Foreground(InfoHighContrast).
		Bold(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}
