// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// messages.go - Bubble Tea messages and commands for backend calls.
package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kkshivani18/infralens-tui/internal/backend"
	"github.com/kkshivani18/infralens-tui/internal/model"
	"github.com/kkshivani18/infralens-tui/internal/session"
)

// ReposLoadedMsg carries a refreshed repository snapshot.
type ReposLoadedMsg struct {
	Repos []model.Repository
	Err   error
}

// IngestResultMsg carries the outcome of an ingest request.
type IngestResultMsg struct {
	Repo   model.Repository
	Result *backend.IngestResult
	Err    error
}

// DeleteResultMsg carries the outcome of a repository deletion.
type DeleteResultMsg struct {
	ID  string
	Err error
}

// HistoryLoadedMsg carries a completed history fetch. The embedded
// request epoch lets the binder discard stale loads.
type HistoryLoadedMsg struct {
	Result session.HistoryResult
}

// SendResultMsg carries a completed send. The embedded ticket epoch
// lets the binder discard replies from a previous binding.
type SendResultMsg struct {
	Result session.SendResult
}

// The commands below run in their own goroutines, so they only use the
// gateway halves of the manager and binder. Snapshot and conversation
// mutations happen when the result messages are applied on the update
// loop.

// loadReposCmd fetches the repository list.
func (m *Model) loadReposCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		repos, err := m.manager.FetchList(ctx)
		return ReposLoadedMsg{Repos: repos, Err: err}
	}
}

// ingestCmd submits a repository URL for indexing.
func (m *Model) ingestCmd(rawURL string) tea.Cmd {
	return func() tea.Msg {
		// Indexing clones and chunks the repository; give it the full
		// request timeout.
		ctx, cancel := m.requestContext()
		defer cancel()
		repo, result, err := m.manager.PerformIngest(ctx, rawURL)
		return IngestResultMsg{Repo: repo, Result: result, Err: err}
	}
}

// deleteRepoCmd removes a repository from the backend.
func (m *Model) deleteRepoCmd(id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		return DeleteResultMsg{ID: id, Err: m.manager.PerformDelete(ctx, id)}
	}
}

// fetchHistoryCmd loads the server-side history for a fresh binding.
func (m *Model) fetchHistoryCmd(req session.HistoryRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		return HistoryLoadedMsg{Result: m.binder.FetchHistory(ctx, req)}
	}
}

// performSendCmd dispatches a ticketed message to the backend.
func (m *Model) performSendCmd(ticket session.SendTicket) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		return SendResultMsg{Result: m.binder.PerformSend(ctx, ticket)}
	}
}

func (m *Model) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(m.cfg.API.TimeoutSecs)*time.Second)
}
