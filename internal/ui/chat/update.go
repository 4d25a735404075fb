// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// update.go - Update loop for the infralens TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kkshivani18/infralens-tui/internal/session"
)

// Update handles all incoming messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.loading && !m.binder.Conversation().Pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case ReposLoadedMsg:
		m.loading = false
		m.statusBar.Connected = msg.Err == nil
		if msg.Err != nil {
			// List degrades to empty; the picker stays usable
			m.statusBar.Notice = "repository list unavailable"
		} else {
			m.statusBar.Notice = ""
		}
		m.repoList.SetRepos(m.manager.ApplyList(msg.Repos, msg.Err))
		return m, nil

	case IngestResultMsg:
		m.loading = false
		if msg.Err != nil {
			m.statusBar.Notice = "ingest failed: " + msg.Err.Error()
			m.view = ViewPicker
			return m, nil
		}
		m.manager.ApplyIngest(msg.Repo)
		m.statusBar.Connected = true
		m.statusBar.Notice = ""
		// Jump straight into the fresh repository
		return m, tea.Batch(m.loadReposCmd(), m.enterChat(msg.Repo.Name))

	case DeleteResultMsg:
		m.loading = false
		if msg.Err != nil {
			m.statusBar.Notice = "delete failed: " + msg.Err.Error()
			return m, nil
		}
		m.statusBar.Notice = ""
		m.manager.ApplyDelete(msg.ID)
		m.repoList.SetRepos(m.manager.Repositories())
		return m, nil

	case HistoryLoadedMsg:
		// ApplyHistory discards loads from a superseded binding
		if m.binder.ApplyHistory(msg.Result) {
			m.loading = false
			m.statusBar.Connected = msg.Result.Err == nil
			// A failed load leaves its notice on the conversation; an
			// empty string clears any previous one.
			m.statusBar.Notice = m.binder.Conversation().HistoryError
			m.refreshTranscript()
		}
		return m, nil

	case SendResultMsg:
		// FinishSend discards completions from a superseded binding
		if m.binder.FinishSend(msg.Result) {
			m.statusBar.Connected = msg.Result.Err == nil
			m.refreshTranscript()
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

// handleKey routes key presses by view.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global bindings
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	}

	switch m.view {
	case ViewPicker:
		return m.handlePickerKey(msg)
	case ViewIngest:
		return m.handleIngestKey(msg)
	default:
		return m.handleChatKey(msg)
	}
}

func (m *Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A pending delete consumes the next keypress: y confirms,
	// anything else cancels.
	if m.confirmDelete != "" {
		id := m.confirmDelete
		m.confirmDelete = ""
		m.statusBar.Notice = ""
		if msg.String() == "y" {
			m.loading = true
			return m, tea.Batch(m.spin.Tick, m.deleteRepoCmd(id))
		}
		return m, nil
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		m.repoList.MoveUp()
	case "down", "j":
		m.repoList.MoveDown()
	case "enter":
		if repo, ok := m.repoList.Selected(); ok {
			return m, m.enterChat(repo.Name)
		}
	case "i":
		m.enterIngest()
	case "r":
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.loadReposCmd())
	case "d", "delete":
		if repo, ok := m.repoList.Selected(); ok {
			id := repo.ID
			if id == "" {
				id = repo.Name
			}
			m.confirmDelete = id
			m.statusBar.Notice = "delete " + repo.Name + "? press y to confirm"
		}
	}
	return m, nil
}

func (m *Model) handleIngestKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.SetValue("")
		m.view = ViewPicker
		return m, nil
	case "enter":
		rawURL := strings.TrimSpace(m.input.Value())
		if rawURL == "" {
			return m, nil
		}
		m.input.SetValue("")
		m.view = ViewPicker
		m.loading = true
		m.statusBar.Notice = "indexing " + rawURL
		return m, tea.Batch(m.spin.Tick, m.ingestCmd(rawURL))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, m.enterPicker()
	case "enter":
		return m.submitMessage()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitMessage validates and dispatches the input line.
func (m *Model) submitMessage() (tea.Model, tea.Cmd) {
	text := m.input.Value()

	ticket, err := m.binder.BeginSend(text)
	switch err {
	case nil:
	case session.ErrEmptyMessage:
		// Nothing leaves the client
		return m, nil
	case session.ErrSendInFlight:
		m.statusBar.Notice = "waiting for the previous answer"
		return m, nil
	default:
		m.statusBar.Notice = err.Error()
		return m, nil
	}

	m.input.SetValue("")
	m.statusBar.Notice = ""
	m.refreshTranscript()
	return m, tea.Batch(m.spin.Tick, m.performSendCmd(ticket))
}

// updateFocused forwards non-key messages to the focused component.
func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.view == ViewChat {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}
