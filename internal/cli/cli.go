// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for infralens.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdIngest
	CmdRepos
	CmdChat
	CmdAuth
	CmdConfig
	CmdStatus
	CmdExport
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool // Output in JSON format

	// Command-specific
	Repo       string // Repository name (--repo)
	URL        string // Repository URL (ingest)
	Plain      bool   // Disable markdown rendering (chat --plain)
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `infralens - chat with a codebase from your terminal

Infralens connects to an ingestion backend, indexes Git repositories,
and lets you ask questions about their contents.

Usage:
  infralens                       Start TUI (default)
  infralens ingest <url>          Index a repository by Git URL
  infralens repos [list|delete]   Manage indexed repositories
  infralens chat [--repo NAME]    Interactive chat with a repository
  infralens auth [subcommand]     Backend token management
  infralens config [show|set]     Configuration
  infralens status, s             Show backend and auth status
  infralens export <repo>         Export an archived transcript
  infralens version               Show version
  infralens help                  Show this help

Ingest:
  infralens ingest https://github.com/user/tool.git
    The repository name is taken from the last URL segment with any
    trailing .git stripped.

Repos:
  infralens repos                 List indexed repositories (alias: list, ls)
  infralens repos delete <id>     Remove a repository from the backend
    --confirm                     Skip the confirmation prompt

Chat:
  infralens chat --repo NAME      Bind the session to a repository
  infralens chat                  Pick a repository interactively
    --plain                       Print replies without markdown rendering

  Interactive commands:
    /help            Show available commands
    /repo [name]     Show or switch the bound repository
    /clear           Clear the visible transcript
    /quit            Exit chat (also Ctrl+D)

Auth:
  infralens auth login            Store a backend token (hidden input)
  infralens auth status           Show token fingerprint
  infralens auth logout           Remove the stored token

Export:
  infralens export <repo>         Print archived transcript
    --format md|json              Output format (default: md)
    --output FILE                 Write to file instead of stdout

Global Flags:
  --json          Output in JSON format
  -q, --quiet     Minimal output
  -v, --verbose   Debug output

Examples:
  infralens ingest https://github.com/user/tool.git
  infralens repos
  infralens chat --repo tool
  infralens export tool --format json --output tool.json
  infralens status --json

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("infralens version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
	fmt.Printf("  Go version: %s\n", runtime.Version())
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given arguments. Split out from Parse for tests.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	// No remaining args defaults to the TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ingest", "index", "add":
		parseIngestArgs(&parsedArgs, remaining)
		return CmdIngest, parsedArgs

	case "repos", "repositories", "repo":
		parseReposArgs(&parsedArgs, remaining)
		return CmdRepos, parsedArgs

	case "chat":
		parseChatArgs(&parsedArgs, remaining)
		return CmdChat, parsedArgs

	case "auth":
		if len(remaining) > 0 {
			parsedArgs.Subcommand = remaining[0]
		}
		return CmdAuth, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "status", "s":
		return CmdStatus, parsedArgs

	case "export":
		parseExportArgs(&parsedArgs, remaining)
		return CmdExport, parsedArgs

	case "version", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command: restore it and show help rather than guessing.
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	for _, arg := range args {
		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		default:
			remaining = append(remaining, arg)
		}
	}

	return remaining, parsedArgs
}

// parseIngestArgs parses ingest command specific arguments.
// The first positional argument is the repository URL.
func parseIngestArgs(args *Args, remaining []string) {
	for _, arg := range remaining {
		if !strings.HasPrefix(arg, "-") && args.URL == "" {
			args.URL = arg
		}
	}
}

// parseReposArgs parses repos command specific arguments.
func parseReposArgs(args *Args, remaining []string) {
	if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
		args.Subcommand = remaining[0]
	}
}

// parseChatArgs parses chat command specific arguments.
func parseChatArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		switch {
		case arg == "-r" || arg == "--repo":
			if i+1 < len(remaining) {
				i++
				args.Repo = remaining[i]
			}
		case strings.HasPrefix(arg, "--repo="):
			args.Repo = strings.TrimPrefix(arg, "--repo=")
		case arg == "--plain":
			args.Plain = true
		case !strings.HasPrefix(arg, "-") && args.Repo == "":
			args.Repo = arg
		}
	}
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = remaining[2]
		}
	}
}

// parseExportArgs parses export command specific arguments.
// The first positional argument is the repository name; the rest is
// handled by ArgParser inside the handler.
func parseExportArgs(args *Args, remaining []string) {
	for _, arg := range remaining {
		if !strings.HasPrefix(arg, "-") && args.Repo == "" {
			args.Repo = arg
		}
	}
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args) {
	if args.JSON {
		data := map[string]string{
			"version":    Version,
			"git_commit": GitCommit,
			"build_date": BuildDate,
			"go_version": runtime.Version(),
		}
		NewJSONResponse("version", data).Print()
		return
	}
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
