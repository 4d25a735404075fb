// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the infralens CLI.
//
// Handles the "infralens chat" command which provides a REPL bound to
// a single indexed repository. The richer two-view interface lives in
// the TUI; this surface is for quick questions and scripted terminals.
//
// Command: chat
// Short:   Chat with an indexed repository
//
// Examples:
//   infralens chat --repo tool        Bind the session to "tool"
//   infralens chat                    Pick a repository interactively
//
// Interactive commands (during chat):
//   /help            Show available commands
//   /repo [name]     Show or switch the bound repository
//   /clear           Clear the visible transcript
//   /quit            Exit chat
//   Ctrl+D           Exit chat
package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/kkshivani18/infralens-tui/internal/config"
	"github.com/kkshivani18/infralens-tui/internal/model"
	"github.com/kkshivani18/infralens-tui/internal/repos"
	"github.com/kkshivani18/infralens-tui/internal/session"
	"github.com/kkshivani18/infralens-tui/internal/storage"
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	replyPrefixStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)
)

// markdownRenderer renders assistant replies. Nil when markdown is
// disabled in config or the renderer could not be built.
var markdownRenderer *glamour.TermRenderer

func initMarkdownRenderer() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderReply renders an assistant reply, falling back to plain text.
func renderReply(content string) string {
	if markdownRenderer == nil {
		return content
	}
	out, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI(historyFile string) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	cli := &ChatCLI{
		line:        line,
		historyFile: historyFile,
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// HandleChat handles the "chat" command.
func HandleChat(args Args) {
	if err := HandleChatCommand(args); err != nil {
		HandleErrorAndExit(err, args.JSON)
	}
}

// HandleChatCommand runs the interactive chat REPL.
func HandleChatCommand(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	cfg := config.Global()
	client, err := NewBackendClient(cfg)
	if err != nil {
		return err
	}
	manager := repos.NewManager(client)
	binder := session.NewBinder(client)

	if cfg.Storage.TranscriptsEnabled {
		dbPath, err := cfg.TranscriptDBPath()
		if err == nil {
			if store, err := storage.OpenTranscriptStore(dbPath); err == nil {
				defer store.Close()
				binder.SetRecorder(store)
			}
		}
	}

	repoName := strings.TrimSpace(args.Repo)
	if repoName == "" {
		repoName, err = pickRepository(manager, cfg)
		if err != nil {
			return err
		}
	}

	if err := bindAndShowHistory(binder, cfg, repoName, args.Quiet); err != nil {
		return err
	}

	if cfg.UI.Markdown && !args.Plain {
		initMarkdownRenderer()
	}

	historyFile, err := cfg.HistoryFilePath()
	if err != nil {
		historyFile = ""
	}
	if historyFile != "" {
		config.EnsureConfigDir()
	}
	input := NewChatCLI(historyFile)
	defer input.Close()

	if !args.Quiet {
		fmt.Println(DimStyle.Render("Type /help for commands, /quit or Ctrl+D to exit."))
	}

	for {
		name, _ := binder.Bound()
		line, err := input.ReadInput(promptStyle.Render(name+"> "))
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl+C at the prompt clears the line
			continue
		}
		if err != nil {
			// Ctrl+D or closed stdin
			fmt.Println()
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := handleChatCommand(line, binder, manager, cfg)
			if err != nil {
				fmt.Printf("%s %v\n", ErrorStyle.Render("[ERROR]"), err)
			}
			if quit {
				return nil
			}
			continue
		}

		sendAndPrint(binder, cfg, line)
	}
}

// sendAndPrint dispatches one message and prints the reply. A failed
// send still yields the fixed error reply in the transcript, so the
// REPL prints whatever the conversation ends with.
func sendAndPrint(binder *session.Binder, cfg *config.Config, text string) {
	ctx, cancel := requestContext(cfg)
	defer cancel()

	reply, err := binder.Send(ctx, text)
	if err != nil && reply == nil {
		// Pre-dispatch rejection (empty input, not bound)
		fmt.Printf("%s %v\n", ErrorStyle.Render("[ERROR]"), err)
		return
	}
	if reply == nil {
		return
	}

	if reply.Content == session.ErrorReplyText {
		fmt.Println(ErrorStyle.Render(reply.Content))
		return
	}
	fmt.Println(replyPrefixStyle.Render("assistant"))
	fmt.Println(renderReply(reply.Content))
}

// handleChatCommand processes a /command. Returns true when the REPL
// should exit.
func handleChatCommand(line string, binder *session.Binder, manager *repos.Manager, cfg *config.Config) (bool, error) {
	fields := strings.Fields(line)
	cmd := fields[0]

	switch cmd {
	case "/quit", "/q", "/exit":
		return true, nil

	case "/help", "/h":
		fmt.Println(DimStyle.Render("  /repo [name]   show or switch the bound repository"))
		fmt.Println(DimStyle.Render("  /clear         clear the visible transcript"))
		fmt.Println(DimStyle.Render("  /quit          exit chat"))
		return false, nil

	case "/clear", "/c":
		binder.Conversation().Clear()
		fmt.Println(DimStyle.Render("Transcript cleared."))
		return false, nil

	case "/repo", "/r":
		if len(fields) < 2 {
			name, _ := binder.Bound()
			fmt.Printf("Bound to %s\n", ValueStyle.Render(name))
			return false, nil
		}
		return false, bindAndShowHistory(binder, cfg, fields[1], false)

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
}

// bindAndShowHistory binds the session to a repository and prints its
// server-side history. A history failure degrades to an empty
// transcript; the session stays usable.
func bindAndShowHistory(binder *session.Binder, cfg *config.Config, name string, quiet bool) error {
	req, changed := binder.Bind(name)
	if changed {
		ctx, cancel := requestContext(cfg)
		res := binder.FetchHistory(ctx, req)
		cancel()
		binder.ApplyHistory(res)
	}

	conv := binder.Conversation()
	if !quiet {
		fmt.Printf("Chatting with %s\n", TitleStyle.Render(name))
	}
	if conv.HistoryError != "" {
		fmt.Println(WarningStyle.Render(conv.HistoryError))
		return nil
	}
	for _, msg := range conv.Messages {
		printTranscriptMessage(msg)
	}
	return nil
}

func printTranscriptMessage(msg *model.Message) {
	switch msg.Role {
	case model.RoleUser:
		fmt.Printf("%s %s\n", promptStyle.Render(">"), msg.Content)
	case model.RoleAssistant:
		fmt.Println(renderReply(msg.Content))
	default:
		fmt.Println(DimStyle.Render(msg.Content))
	}
}

// pickRepository lists indexed repositories and asks the user to pick
// one. Used when chat is started without --repo.
func pickRepository(manager *repos.Manager, cfg *config.Config) (string, error) {
	ctx, cancel := requestContext(cfg)
	list := manager.Refresh(ctx)
	cancel()

	if err := manager.LastListError(); err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "", fmt.Errorf("no repositories indexed; run 'infralens ingest <url>' first")
	}
	if len(list) == 1 {
		return list[0].Name, nil
	}

	fmt.Println(TitleStyle.Render("Pick a repository"))
	for i, repo := range list {
		fmt.Printf("  %d. %s\n", i+1, repo.Name)
	}
	fmt.Print("Number: ")
	var answer string
	if _, err := fmt.Scanln(&answer); err != nil {
		return "", fmt.Errorf("no selection made")
	}
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < 1 || n > len(list) {
		return "", fmt.Errorf("invalid selection %q", answer)
	}
	return list[n-1].Name, nil
}
