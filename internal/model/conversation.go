// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"
)

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the ordered message log for the currently bound
// repository. Messages are append-only between rebinds; a rebind clears
// the log before the new repository's history is loaded.
type Conversation struct {
	RepositoryName string     `json:"repository_name"`
	Messages       []*Message `json:"messages"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Pending is true while a send awaits its backend response.
	// Exactly one send can be in flight at a time.
	Pending bool `json:"-"`

	// HistoryError holds a notice when the last history load failed.
	// The conversation stays usable; sends are still allowed.
	HistoryError string `json:"-"`
}

// NewConversation creates an empty conversation for a repository.
func NewConversation(repositoryName string) *Conversation {
	now := time.Now()
	return &Conversation{
		RepositoryName: repositoryName,
		Messages:       make([]*Message, 0),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// AddMessage appends a message to the conversation.
func (c *Conversation) AddMessage(msg *Message) {
	if msg == nil {
		return
	}
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
}

// AddUserMessage creates, appends and returns a user message.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates, appends and returns an assistant message.
func (c *Conversation) AddAssistantMessage(content string) *Message {
	msg := NewAssistantMessage(content)
	c.AddMessage(msg)
	return msg
}

// ReplaceHistory swaps the message log for one loaded from the backend.
// Loaded history is authoritative and replaces anything accumulated
// locally since the bind.
func (c *Conversation) ReplaceHistory(msgs []*Message) {
	c.Messages = make([]*Message, 0, len(msgs))
	c.Messages = append(c.Messages, msgs...)
	c.HistoryError = ""
	c.UpdatedAt = time.Now()
}

// Clear removes all messages and any history-load notice.
func (c *Conversation) Clear() {
	c.Messages = c.Messages[:0]
	c.HistoryError = ""
	c.UpdatedAt = time.Now()
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// LastMessage returns the most recent message, or nil when empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}
