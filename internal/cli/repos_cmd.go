// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// repos_cmd.go - Handler for the "repos" command.
//
// Command: repos
// Short:   Manage indexed repositories
// Aliases: repositories, repo
//
// Examples:
//   infralens repos                   List indexed repositories
//   infralens repos delete <id>       Remove a repository
//   infralens repos delete <id> --confirm
package cli

import (
	"fmt"

	"github.com/kkshivani18/infralens-tui/internal/config"
	"github.com/kkshivani18/infralens-tui/internal/model"
	"github.com/kkshivani18/infralens-tui/internal/repos"
)

// HandleRepos handles the "repos" command.
func HandleRepos(args Args) error {
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "list", "ls":
		return handleReposList(args)
	case "delete", "rm", "remove":
		return handleReposDelete(args, parser)
	default:
		return &ValidationError{
			Field:   "subcommand",
			Value:   parser.Subcommand(),
			Reason:  "unknown repos subcommand",
			Example: "infralens repos [list|delete <id>]",
		}
	}
}

func handleReposList(args Args) error {
	cfg := config.Global()
	client, err := NewBackendClient(cfg)
	if err != nil {
		return err
	}
	manager := repos.NewManager(client)

	ctx, cancel := requestContext(cfg)
	defer cancel()

	list := manager.Refresh(ctx)

	if args.JSON {
		if err := manager.LastListError(); err != nil {
			NewJSONErrorResponse("repos", err).Print()
			return err
		}
		return NewJSONResponse("repos", list).Print()
	}

	if err := manager.LastListError(); err != nil {
		fmt.Printf("%s repository list unavailable: %v\n", WarningStyle.Render("[WARN]"), err)
		return nil
	}

	if len(list) == 0 {
		fmt.Println(DimStyle.Render("No repositories indexed yet. Try: infralens ingest <url>"))
		return nil
	}

	fmt.Println(TitleStyle.Render("Indexed Repositories"))
	for _, repo := range list {
		printRepo(repo, args.Quiet)
	}
	return nil
}

func printRepo(repo model.Repository, quiet bool) {
	if quiet {
		fmt.Println(repo.Name)
		return
	}
	line := fmt.Sprintf("  %s", ValueStyle.Render(repo.Name))
	if repo.FileCount > 0 {
		line += DimStyle.Render(fmt.Sprintf("  (%d files)", repo.FileCount))
	}
	if repo.ID != "" {
		line += DimStyle.Render("  id=" + repo.ID)
	}
	fmt.Println(line)
}

func handleReposDelete(args Args, parser *ArgParser) error {
	id := parser.Positional(1)
	if id == "" {
		return ErrMissingArgument("id", "infralens repos delete <id>")
	}

	if !parser.BoolFlag("confirm") && !args.JSON {
		if !confirm(fmt.Sprintf("Delete repository %q from the backend?", id)) {
			fmt.Println(DimStyle.Render("Aborted."))
			return nil
		}
	}

	cfg := config.Global()
	client, err := NewBackendClient(cfg)
	if err != nil {
		return err
	}
	manager := repos.NewManager(client)

	ctx, cancel := requestContext(cfg)
	defer cancel()

	if err := manager.Delete(ctx, id); err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("repos", map[string]string{"deleted": id}).Print()
	}
	fmt.Printf("%s deleted %s\n", SuccessStyle.Render("[OK]"), id)
	return nil
}
