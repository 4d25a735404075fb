// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// view.go - View rendering for the infralens TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kkshivani18/infralens-tui/internal/ui/components"
)

// View renders the active screen.
func (m *Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	switch m.view {
	case ViewPicker:
		return m.viewPicker()
	case ViewIngest:
		return m.viewIngest()
	default:
		return m.viewChat()
	}
}

func (m *Model) viewPicker() string {
	m.header.Repository = ""
	m.statusBar.Hints = []components.Hint{
		{Key: "enter", Desc: "chat"},
		{Key: "i", Desc: "ingest"},
		{Key: "d", Desc: "delete"},
		{Key: "r", Desc: "refresh"},
		{Key: "q", Desc: "quit"},
	}

	title := m.theme.HeaderTitle.Render("Repositories")
	if m.loading {
		title += " " + m.spin.View()
	}

	body := lipgloss.JoinVertical(lipgloss.Left, title, m.repoList.View())
	content := lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, body)

	return strings.Join([]string{
		m.header.View(),
		content,
		m.statusBar.View(),
	}, "\n")
}

func (m *Model) viewIngest() string {
	m.statusBar.Hints = []components.Hint{
		{Key: "enter", Desc: "index"},
		{Key: "esc", Desc: "back"},
	}

	prompt := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.HeaderTitle.Render("Index a repository"),
		m.theme.InputPlaceholder.Render("Paste a Git URL and press enter."),
		"",
		m.input.View(),
	)
	box := m.theme.PickerBox.Render(prompt)
	content := lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, box)

	return strings.Join([]string{
		m.header.View(),
		content,
		m.statusBar.View(),
	}, "\n")
}

func (m *Model) viewChat() string {
	name, _ := m.binder.Bound()
	m.header.Repository = name
	m.statusBar.Hints = []components.Hint{
		{Key: "enter", Desc: "send"},
		{Key: "esc", Desc: "repos"},
		{Key: "ctrl+c", Desc: "quit"},
	}

	inputLine := m.input.View()
	if m.binder.Conversation().Pending {
		inputLine = m.spin.View() + " " + m.theme.ThinkingText.Render("waiting for answer...")
	}

	return strings.Join([]string{
		m.header.View(),
		m.viewport.View(),
		m.theme.InputContainer.Width(m.width - 2).Render(inputLine),
		m.statusBar.View(),
	}, "\n")
}
