// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/kkshivani18/infralens-tui/internal/model"
	"github.com/kkshivani18/infralens-tui/internal/ui/styles"
)

func TestHeader_ShowsRepository(t *testing.T) {
	h := NewHeader(styles.NewTheme())
	h.SetWidth(80)

	if !strings.Contains(h.View(), "no repository") {
		t.Error("unbound header should say 'no repository'")
	}

	h.Repository = "my-service"
	if !strings.Contains(h.View(), "my-service") {
		t.Error("bound header should show the repository name")
	}
}

func TestStatusBar_ConnectionStates(t *testing.T) {
	bar := NewStatusBar(styles.NewTheme())
	bar.SetWidth(80)

	if !strings.Contains(bar.View(), "connected") {
		t.Error("default bar should show connected")
	}

	bar.Connected = false
	if !strings.Contains(bar.View(), "offline") {
		t.Error("disconnected bar should show offline")
	}

	bar.Notice = "history unavailable"
	if !strings.Contains(bar.View(), "history unavailable") {
		t.Error("notice should render in the bar")
	}
}

func TestRepoList_Navigation(t *testing.T) {
	list := NewRepoList(styles.NewTheme())
	list.SetRepos([]model.Repository{
		{Name: "alpha"},
		{Name: "beta"},
		{Name: "gamma"},
	})

	sel, ok := list.Selected()
	if !ok || sel.Name != "alpha" {
		t.Fatalf("initial selection = %v, want alpha", sel.Name)
	}

	list.MoveDown()
	list.MoveDown()
	sel, _ = list.Selected()
	if sel.Name != "gamma" {
		t.Errorf("after two MoveDown, selection = %q, want gamma", sel.Name)
	}

	// Cursor stays at the end
	list.MoveDown()
	sel, _ = list.Selected()
	if sel.Name != "gamma" {
		t.Errorf("MoveDown past end moved cursor to %q", sel.Name)
	}

	list.MoveUp()
	sel, _ = list.Selected()
	if sel.Name != "beta" {
		t.Errorf("after MoveUp, selection = %q, want beta", sel.Name)
	}
}

func TestRepoList_SetReposClampsCursor(t *testing.T) {
	list := NewRepoList(styles.NewTheme())
	list.SetRepos([]model.Repository{{Name: "a"}, {Name: "b"}, {Name: "c"}})
	list.MoveDown()
	list.MoveDown()

	list.SetRepos([]model.Repository{{Name: "only"}})
	sel, ok := list.Selected()
	if !ok || sel.Name != "only" {
		t.Errorf("cursor not clamped after shrink: %v %v", sel.Name, ok)
	}

	list.SetRepos(nil)
	if _, ok := list.Selected(); ok {
		t.Error("Selected should report false on an empty list")
	}
}

func TestMessageRenderer_RolesAndEmpty(t *testing.T) {
	r := NewMessageRenderer(styles.NewTheme(), false)
	r.SetWidth(80)

	conv := model.NewConversation("tool")
	out := r.RenderConversation(conv)
	if !strings.Contains(out, "No messages yet") {
		t.Error("empty conversation should render the placeholder")
	}

	conv.AddUserMessage("what does the parser do?")
	conv.AddAssistantMessage("It tokenizes the input.")
	out = r.RenderConversation(conv)
	if !strings.Contains(out, "what does the parser do?") {
		t.Error("user message missing from rendered conversation")
	}
	if !strings.Contains(out, "It tokenizes the input.") {
		t.Error("assistant message missing from rendered conversation")
	}
}

func TestMessageRenderer_HistoryErrorIsNotEmptyState(t *testing.T) {
	r := NewMessageRenderer(styles.NewTheme(), false)
	r.SetWidth(80)

	conv := model.NewConversation("tool")
	conv.HistoryError = "Could not load chat history."

	out := r.RenderConversation(conv)
	if !strings.Contains(out, "Could not load chat history.") {
		t.Error("failed history load should render its notice")
	}
	if strings.Contains(out, "No messages yet") {
		t.Error("failed history load must not look like an empty history")
	}
}
