// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/kkshivani18/infralens-tui/internal/model"
	"github.com/kkshivani18/infralens-tui/internal/ui/styles"
)

// MessageRenderer renders conversation messages as aligned bubbles.
// Assistant messages are optionally rendered through glamour.
type MessageRenderer struct {
	theme    *styles.Theme
	width    int
	markdown *glamour.TermRenderer
}

// NewMessageRenderer creates a renderer. Markdown rendering is enabled
// when withMarkdown is set and a terminal renderer can be built.
func NewMessageRenderer(theme *styles.Theme, withMarkdown bool) *MessageRenderer {
	r := &MessageRenderer{theme: theme}
	if withMarkdown {
		if md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(76),
		); err == nil {
			r.markdown = md
		}
	}
	return r
}

// SetWidth updates the render width.
func (r *MessageRenderer) SetWidth(width int) {
	r.width = width
	if r.markdown != nil {
		wrap := width - 12
		if wrap < 20 {
			wrap = 20
		}
		if md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		); err == nil {
			r.markdown = md
		}
	}
}

// bubbleWidth caps a bubble at roughly three quarters of the view.
func (r *MessageRenderer) bubbleWidth() int {
	w := r.width * 3 / 4
	if w < 20 {
		w = 20
	}
	return w
}

// Render renders a single message.
func (r *MessageRenderer) Render(msg *model.Message) string {
	switch msg.Role {
	case model.RoleUser:
		bubble := r.theme.UserBubble.MaxWidth(r.bubbleWidth()).Render(msg.Content)
		return lipgloss.PlaceHorizontal(r.width, lipgloss.Right, bubble)
	case model.RoleAssistant:
		content := msg.Content
		if r.markdown != nil {
			if out, err := r.markdown.Render(content); err == nil {
				content = strings.TrimRight(out, "\n")
			}
		}
		return r.theme.AssistantBubble.MaxWidth(r.bubbleWidth()).Render(content)
	default:
		bubble := r.theme.SystemBubble.MaxWidth(r.bubbleWidth()).Render(msg.Content)
		return lipgloss.PlaceHorizontal(r.width, lipgloss.Center, bubble)
	}
}

// RenderConversation renders all messages joined by blank lines. An
// empty transcript shows a placeholder, unless the history load failed,
// in which case the failure is shown instead so "no prior conversation"
// and "could not check" stay distinguishable.
func (r *MessageRenderer) RenderConversation(conv *model.Conversation) string {
	if conv == nil || len(conv.Messages) == 0 {
		if conv != nil && conv.HistoryError != "" {
			return r.theme.WarningStyle.Render(conv.HistoryError)
		}
		return r.theme.InputPlaceholder.Render("No messages yet. Ask something about the code.")
	}
	parts := make([]string, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		parts = append(parts, r.Render(msg))
	}
	return strings.Join(parts, "\n\n")
}
