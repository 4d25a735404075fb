// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ingest.go - Handler for the "ingest" command.
//
// Command: ingest
// Short:   Index a repository by Git URL
// Aliases: index, add
//
// Examples:
//   infralens ingest https://github.com/user/tool.git
//   infralens ingest https://github.com/user/tool.git --json
package cli

import (
	"fmt"

	"github.com/kkshivani18/infralens-tui/internal/config"
	"github.com/kkshivani18/infralens-tui/internal/repos"
)

// ingestData is the JSON payload for a successful ingest.
type ingestData struct {
	Name           string `json:"name"`
	ID             string `json:"id,omitempty"`
	URL            string `json:"url"`
	FilesProcessed int    `json:"files_processed"`
	ChunksStored   int    `json:"chunks_stored"`
}

// HandleIngest handles the "ingest" command.
func HandleIngest(args Args) error {
	if args.URL == "" {
		return ErrMissingArgument("url", "infralens ingest https://github.com/user/tool.git")
	}

	cfg := config.Global()
	client, err := NewBackendClient(cfg)
	if err != nil {
		return err
	}
	manager := repos.NewManager(client)

	ctx, cancel := requestContext(cfg)
	defer cancel()

	if !args.JSON && !args.Quiet {
		fmt.Printf("Indexing %s ...\n", args.URL)
	}

	repo, result, err := manager.Ingest(ctx, args.URL)
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("ingest", ingestData{
			Name:           repo.Name,
			ID:             repo.ID,
			URL:            repo.SourceURL,
			FilesProcessed: result.FilesProcessed,
			ChunksStored:   result.ChunksStored,
		}).Print()
	}

	fmt.Printf("%s indexed %s\n", SuccessStyle.Render("[OK]"), ValueStyle.Render(repo.Name))
	if !args.Quiet {
		fmt.Printf("%s %d\n", RenderLabel("Files processed:"), result.FilesProcessed)
		if result.ChunksStored > 0 {
			fmt.Printf("%s %d\n", RenderLabel("Chunks stored:"), result.ChunksStored)
		}
		fmt.Printf("\nChat with it: %s\n", DimStyle.Render("infralens chat --repo "+repo.Name))
	}
	return nil
}
