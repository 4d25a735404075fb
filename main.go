// infralens - chat with a codebase from your terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kkshivani18/infralens-tui/internal/cli"
	"github.com/kkshivani18/infralens-tui/internal/config"
	"github.com/kkshivani18/infralens-tui/internal/repos"
	"github.com/kkshivani18/infralens-tui/internal/session"
	"github.com/kkshivani18/infralens-tui/internal/storage"
	"github.com/kkshivani18/infralens-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	// Load configuration once; handlers read it via config.Global.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.Default()
	}
	config.SetGlobal(cfg)

	switch cmd {
	case cli.CmdTUI:
		if err := runTUI(cfg); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}

	case cli.CmdIngest:
		if err := cli.HandleIngest(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}

	case cli.CmdRepos:
		if err := cli.HandleRepos(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}

	case cli.CmdChat:
		cli.HandleChat(args)

	case cli.CmdAuth:
		if err := cli.HandleAuth(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}

	case cli.CmdConfig:
		if err := cli.HandleConfig(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}

	case cli.CmdStatus:
		if err := cli.HandleStatus(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}

	case cli.CmdExport:
		if err := cli.HandleExport(args); err != nil {
			cli.HandleErrorAndExit(err, args.JSON)
		}

	case cli.CmdVersion:
		cli.HandleVersion(args)

	case cli.CmdHelp:
		cli.HandleHelp()
	}
}

// runTUI wires the backend client, lifecycle manager, and session
// binder into the Bubble Tea program.
func runTUI(cfg *config.Config) error {
	client, err := cli.NewBackendClient(cfg)
	if err != nil {
		return err
	}

	manager := repos.NewManager(client)
	binder := session.NewBinder(client)

	// The transcript archive is write-behind; failure to open it never
	// blocks the session.
	if cfg.Storage.TranscriptsEnabled {
		if dbPath, err := cfg.TranscriptDBPath(); err == nil {
			if store, err := storage.OpenTranscriptStore(dbPath); err == nil {
				defer store.Close()
				binder.SetRecorder(store)
			} else {
				fmt.Fprintf(os.Stderr, "Warning: transcript archive unavailable: %v\n", err)
			}
		}
	}

	model := chat.New(cfg, manager, binder)
	program := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
