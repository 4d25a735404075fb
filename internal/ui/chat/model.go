// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// model.go - The top-level Bubble Tea model for the infralens TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kkshivani18/infralens-tui/internal/config"
	"github.com/kkshivani18/infralens-tui/internal/repos"
	"github.com/kkshivani18/infralens-tui/internal/session"
	"github.com/kkshivani18/infralens-tui/internal/ui/components"
	"github.com/kkshivani18/infralens-tui/internal/ui/styles"
)

// View identifies which screen the model is showing.
type View int

const (
	// ViewPicker shows the repository list
	ViewPicker View = iota
	// ViewChat shows the bound conversation
	ViewChat
	// ViewIngest shows the URL entry prompt
	ViewIngest
)

// Model is the top-level TUI model.
type Model struct {
	cfg     *config.Config
	manager *repos.Manager
	binder  *session.Binder

	theme     *styles.Theme
	header    *components.Header
	statusBar *components.StatusBar
	repoList  *components.RepoList
	renderer  *components.MessageRenderer

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model

	view    View
	width   int
	height  int
	ready   bool
	loading bool

	// confirmDelete holds the id of the repository awaiting a delete
	// confirmation keypress, empty when none is pending.
	confirmDelete string
}

// New creates the TUI model wired to the given manager and binder.
func New(cfg *config.Config, manager *repos.Manager, binder *session.Binder) *Model {
	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Ask something about the code..."
	input.CharLimit = 4000
	input.Prompt = "> "

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = theme.Spinner

	return &Model{
		cfg:       cfg,
		manager:   manager,
		binder:    binder,
		theme:     theme,
		header:    components.NewHeader(theme),
		statusBar: components.NewStatusBar(theme),
		repoList:  components.NewRepoList(theme),
		renderer:  components.NewMessageRenderer(theme, cfg.UI.Markdown),
		input:     input,
		spin:      spin,
		view:      ViewPicker,
		loading:   true,
	}
}

// Init starts the spinner and the initial repository load.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadReposCmd())
}

// CurrentView returns the active screen. Exposed for tests.
func (m *Model) CurrentView() View {
	return m.view
}

// setSize lays out the components for a new terminal size.
func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.renderer.SetWidth(width)
	m.input.Width = width - 6

	// Header, input line with borders, status bar
	viewportHeight := height - 5
	if viewportHeight < 3 {
		viewportHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(width, viewportHeight)
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = viewportHeight
	}
	m.refreshTranscript()
}

// refreshTranscript re-renders the conversation into the viewport and
// scrolls to the bottom.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderer.RenderConversation(m.binder.Conversation()))
	m.viewport.GotoBottom()
}

// enterChat switches to the chat view, binding the session to the
// repository if it is not already bound there.
func (m *Model) enterChat(name string) tea.Cmd {
	m.view = ViewChat
	m.header.Repository = name
	m.input.Placeholder = "Ask something about the code..."
	m.input.Focus()

	req, changed := m.binder.Bind(name)
	m.refreshTranscript()
	if !changed {
		return nil
	}
	m.loading = true
	return m.fetchHistoryCmd(req)
}

// enterPicker switches back to the repository list.
func (m *Model) enterPicker() tea.Cmd {
	m.view = ViewPicker
	m.input.Blur()
	m.loading = true
	return m.loadReposCmd()
}

// enterIngest switches to the URL entry prompt.
func (m *Model) enterIngest() {
	m.view = ViewIngest
	m.input.Placeholder = "https://github.com/user/tool.git"
	m.input.SetValue("")
	m.input.Focus()
}
