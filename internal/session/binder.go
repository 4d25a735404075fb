// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"

	"github.com/kkshivani18/infralens-tui/internal/model"
)

// ErrorReplyText is appended as an assistant message when a send fails.
// The optimistic user message stays in place so the user can see what
// went unanswered.
const ErrorReplyText = "Error: Could not connect to backend."

// HistoryErrorText is surfaced as a non-blocking notice when a history
// load fails. The session stays bound and usable.
const HistoryErrorText = "Could not load chat history."

// Error variables for binder operations.
var (
	// ErrNotBound indicates a send was attempted with no repository bound.
	ErrNotBound = errors.New("no repository bound")

	// ErrEmptyMessage indicates the input was empty or whitespace.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrSendInFlight indicates a send is already awaiting its response.
	ErrSendInFlight = errors.New("a send is already pending")
)

// Gateway is the slice of the backend client the binder needs.
type Gateway interface {
	SendMessage(ctx context.Context, message, repositoryName string) (string, error)
	GetHistory(ctx context.Context, repositoryName string) ([]*model.Message, error)
}

// Recorder receives completed exchanges for local archiving. Optional.
type Recorder interface {
	Record(repositoryName string, msg *model.Message)
}

// Binder owns the conversation state and its binding to a repository.
type Binder struct {
	gateway  Gateway
	conv     *model.Conversation
	bound    bool
	epoch    uint64
	recorder Recorder
}

// NewBinder creates an unbound binder.
func NewBinder(gw Gateway) *Binder {
	return &Binder{
		gateway: gw,
		conv:    model.NewConversation(""),
	}
}

// SetRecorder installs an archive sink for completed exchanges.
func (b *Binder) SetRecorder(r Recorder) {
	b.recorder = r
}

// Conversation returns the live conversation. Callers must not mutate
// it; all mutation goes through the binder.
func (b *Binder) Conversation() *model.Conversation {
	return b.conv
}

// Bound returns the bound repository name, if any.
func (b *Binder) Bound() (string, bool) {
	if !b.bound {
		return "", false
	}
	return b.conv.RepositoryName, true
}

// Epoch returns the current binder epoch. It advances on every rebind.
func (b *Binder) Epoch() uint64 {
	return b.epoch
}

// =============================================================================
// BINDING
// =============================================================================

// HistoryRequest identifies one asynchronous history load.
type HistoryRequest struct {
	RepositoryName string
	Epoch          uint64
}

// HistoryResult is the outcome of a history load.
type HistoryResult struct {
	Request  HistoryRequest
	Messages []*model.Message
	Err      error
}

// Bind switches the session to the named repository. Binding to the
// already-bound name is a no-op and returns false: the conversation is
// untouched and no history load is issued. Otherwise the message log is
// cleared synchronously, the epoch advances, and the returned request
// should be passed to FetchHistory off the update goroutine.
func (b *Binder) Bind(name string) (HistoryRequest, bool) {
	if b.bound && b.conv.RepositoryName == name {
		return HistoryRequest{}, false
	}

	b.epoch++
	b.bound = true
	b.conv = model.NewConversation(name)

	return HistoryRequest{RepositoryName: name, Epoch: b.epoch}, true
}

// Unbind drops the binding and clears the conversation. In-flight
// completions for the old binding will be discarded by the epoch guard.
func (b *Binder) Unbind() {
	b.epoch++
	b.bound = false
	b.conv = model.NewConversation("")
}

// FetchHistory performs the gateway call for a history request. Safe to
// run off the update goroutine.
func (b *Binder) FetchHistory(ctx context.Context, req HistoryRequest) HistoryResult {
	msgs, err := b.gateway.GetHistory(ctx, req.RepositoryName)
	return HistoryResult{Request: req, Messages: msgs, Err: err}
}

// ApplyHistory applies a completed history load. Returns false when the
// result is stale: the binder has moved on since the request was issued
// and the payload is discarded in its entirety.
func (b *Binder) ApplyHistory(res HistoryResult) bool {
	if res.Request.Epoch != b.epoch || !b.bound || res.Request.RepositoryName != b.conv.RepositoryName {
		return false
	}

	if res.Err != nil {
		// Degrade: keep the empty conversation usable, surface a notice.
		b.conv.HistoryError = HistoryErrorText
		return true
	}

	b.conv.ReplaceHistory(res.Messages)
	return true
}

// =============================================================================
// SENDING
// =============================================================================

// SendTicket identifies one in-flight send.
type SendTicket struct {
	MessageID      string
	RepositoryName string
	Epoch          uint64
	Text           string
}

// SendResult is the outcome of a send.
type SendResult struct {
	Ticket SendTicket
	Reply  string
	Err    error
}

// BeginSend validates the input, appends the user message optimistically
// and marks the conversation pending. The returned ticket should be
// passed to PerformSend off the update goroutine.
func (b *Binder) BeginSend(text string) (SendTicket, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return SendTicket{}, ErrEmptyMessage
	}
	if !b.bound {
		return SendTicket{}, ErrNotBound
	}
	if b.conv.Pending {
		return SendTicket{}, ErrSendInFlight
	}

	msg := b.conv.AddUserMessage(trimmed)
	b.conv.Pending = true

	return SendTicket{
		MessageID:      msg.ID,
		RepositoryName: b.conv.RepositoryName,
		Epoch:          b.epoch,
		Text:           trimmed,
	}, nil
}

// PerformSend performs the gateway call for a ticket. Safe to run off
// the update goroutine.
func (b *Binder) PerformSend(ctx context.Context, t SendTicket) SendResult {
	reply, err := b.gateway.SendMessage(ctx, t.Text, t.RepositoryName)
	return SendResult{Ticket: t, Reply: reply, Err: err}
}

// FinishSend applies a completed send. On success the assistant reply
// is appended; on failure a fixed error-marker assistant message is
// appended instead and the optimistic user message stays. Stale results
// (epoch advanced since BeginSend) are discarded and return false.
func (b *Binder) FinishSend(res SendResult) bool {
	if res.Ticket.Epoch != b.epoch || !b.bound || res.Ticket.RepositoryName != b.conv.RepositoryName {
		return false
	}

	b.conv.Pending = false

	if res.Err != nil {
		b.conv.AddAssistantMessage(ErrorReplyText)
		return true
	}

	reply := b.conv.AddAssistantMessage(res.Reply)
	if b.recorder != nil {
		if user := b.findMessage(res.Ticket.MessageID); user != nil {
			b.recorder.Record(res.Ticket.RepositoryName, user)
		}
		b.recorder.Record(res.Ticket.RepositoryName, reply)
	}
	return true
}

// Send is the synchronous path used by the plain CLI REPL: begin,
// perform and finish in one call. Returns the appended assistant
// message. A transport failure still returns the error-marker message
// along with the error so the caller can style it.
func (b *Binder) Send(ctx context.Context, text string) (*model.Message, error) {
	ticket, err := b.BeginSend(text)
	if err != nil {
		return nil, err
	}
	res := b.PerformSend(ctx, ticket)
	b.FinishSend(res)
	return b.conv.LastMessage(), res.Err
}

func (b *Binder) findMessage(id string) *model.Message {
	for _, m := range b.conv.Messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}
