// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/kkshivani18/infralens-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// ParseRole maps a wire-format role string to a Role. The backend labels
// assistant turns "ai" in history payloads; everything unknown is kept
// verbatim so transcripts never lose information.
func ParseRole(s string) Role {
	switch s {
	case "user":
		return RoleUser
	case "ai", "assistant":
		return RoleAssistant
	case "system":
		return RoleSystem
	default:
		return Role(s)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single turn in a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        "msg_" + uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) *Message {
	return NewMessage(RoleAssistant, content)
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// Preview returns a truncated single-line preview of the content.
func (m *Message) Preview(maxLen int) string {
	return util.TruncateRunes(m.Content, maxLen)
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}
