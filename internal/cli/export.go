// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export.go - Handler for the "export" command.
//
// Command: export
// Short:   Export an archived transcript
//
// Examples:
//   infralens export tool                     Print transcript as Markdown
//   infralens export tool --format json
//   infralens export tool --output tool.md
//
// Exports read the local transcript archive, not the backend, so a
// transcript survives repository deletion.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kkshivani18/infralens-tui/internal/config"
	"github.com/kkshivani18/infralens-tui/internal/model"
	"github.com/kkshivani18/infralens-tui/internal/storage"
)

// HandleExport handles the "export" command.
func HandleExport(args Args) error {
	if args.Repo == "" {
		return ErrMissingArgument("repository", "infralens export <repo> [--format md|json] [--output FILE]")
	}

	parser := NewArgParser(args.Raw)
	format := strings.ToLower(parser.FlagOrDefault("format", "md"))
	output := parser.Flag("output")

	cfg := config.Global()
	dbPath, err := cfg.TranscriptDBPath()
	if err != nil {
		return err
	}
	store, err := storage.OpenTranscriptStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	msgs, err := store.History(args.Repo)
	if err != nil {
		return err
	}

	var rendered string
	switch format {
	case "md", "markdown":
		rendered = renderTranscriptMarkdown(args.Repo, msgs)
	case "json":
		rendered, err = renderTranscriptJSON(args.Repo, msgs)
		if err != nil {
			return err
		}
	default:
		return ErrUnsupportedFormat(format, []string{"md", "json"})
	}

	if output == "" {
		fmt.Print(rendered)
		return nil
	}

	if err := os.WriteFile(output, []byte(rendered), 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	if !args.Quiet && !args.JSON {
		fmt.Printf("%s exported %d messages to %s\n",
			SuccessStyle.Render("[OK]"), len(msgs), output)
	}
	return nil
}

func renderTranscriptMarkdown(repo string, msgs []*model.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Transcript: %s\n\n", repo)
	fmt.Fprintf(&b, "Exported %s\n\n", time.Now().UTC().Format(time.RFC3339))
	for _, msg := range msgs {
		fmt.Fprintf(&b, "## %s\n\n", msg.Role.DisplayName())
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}

type transcriptExport struct {
	Repository string           `json:"repository"`
	ExportedAt string           `json:"exported_at"`
	Messages   []*model.Message `json:"messages"`
}

func renderTranscriptJSON(repo string, msgs []*model.Message) (string, error) {
	data, err := json.MarshalIndent(transcriptExport{
		Repository: repo,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Messages:   msgs,
	}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}
