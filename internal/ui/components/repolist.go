// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/kkshivani18/infralens-tui/internal/model"
	"github.com/kkshivani18/infralens-tui/internal/ui/styles"
)

// RepoList is a selectable list of indexed repositories for the
// picker view.
type RepoList struct {
	theme *styles.Theme

	repos  []model.Repository
	cursor int
}

// NewRepoList creates an empty repository list.
func NewRepoList(theme *styles.Theme) *RepoList {
	return &RepoList{theme: theme}
}

// SetRepos replaces the list contents, clamping the cursor.
func (l *RepoList) SetRepos(repos []model.Repository) {
	l.repos = repos
	if l.cursor >= len(repos) {
		l.cursor = len(repos) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// Len returns the number of repositories.
func (l *RepoList) Len() int {
	return len(l.repos)
}

// MoveUp moves the cursor up one entry.
func (l *RepoList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// MoveDown moves the cursor down one entry.
func (l *RepoList) MoveDown() {
	if l.cursor < len(l.repos)-1 {
		l.cursor++
	}
}

// Selected returns the repository under the cursor.
func (l *RepoList) Selected() (model.Repository, bool) {
	if len(l.repos) == 0 {
		return model.Repository{}, false
	}
	return l.repos[l.cursor], true
}

// View renders the list.
func (l *RepoList) View() string {
	if len(l.repos) == 0 {
		return l.theme.PickerBox.Render(
			l.theme.InputPlaceholder.Render("No repositories indexed yet.\nPress 'i' to ingest one by URL."))
	}

	var b strings.Builder
	for i, repo := range l.repos {
		line := repo.Name
		if repo.FileCount > 0 {
			line += l.theme.PickerMeta.Render(fmt.Sprintf("  %d files", repo.FileCount))
		}
		if i == l.cursor {
			b.WriteString(l.theme.PickerItemSelected.Render("> " + line))
		} else {
			b.WriteString(l.theme.PickerItem.Render("  " + line))
		}
		if i < len(l.repos)-1 {
			b.WriteString("\n")
		}
	}
	return l.theme.PickerBox.Render(b.String())
}
