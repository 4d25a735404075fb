// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package repos

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kkshivani18/infralens-tui/internal/backend"
	"github.com/kkshivani18/infralens-tui/internal/model"
)

// Gateway is the slice of the backend client the manager needs.
type Gateway interface {
	Ingest(ctx context.Context, repoURL string) (*backend.IngestResult, error)
	ListRepositories(ctx context.Context) ([]model.Repository, error)
	DeleteRepository(ctx context.Context, id string) error
}

// Manager owns the client-side view of ingested repositories.
//
// The snapshot is mutated only through the Apply methods and the
// combined conveniences. Callers that run gateway calls on another
// goroutine use the Fetch/Perform halves there and feed the results to
// the Apply half on the goroutine that owns the manager, the same
// split the session binder uses.
type Manager struct {
	gateway Gateway
	repos   []model.Repository

	// lastListErr remembers why the snapshot may be empty. Cleared on
	// the next successful refresh.
	lastListErr error
}

// NewManager creates a manager with an empty snapshot.
func NewManager(gw Gateway) *Manager {
	return &Manager{gateway: gw}
}

// Repositories returns the current in-memory snapshot.
func (m *Manager) Repositories() []model.Repository {
	return m.repos
}

// LastListError reports why the last refresh failed, or nil.
func (m *Manager) LastListError() error {
	return m.lastListErr
}

// Find looks a repository up by name in the snapshot.
func (m *Manager) Find(name string) (model.Repository, bool) {
	for _, r := range m.repos {
		if r.Name == name {
			return r, true
		}
	}
	return model.Repository{}, false
}

// =============================================================================
// INGEST
// =============================================================================

// PerformIngest submits a repository URL for analysis without touching
// the snapshot. The returned repository carries the derived display
// name; the backend's own name wins when it reports one. Validation
// failures surface before any network call.
func (m *Manager) PerformIngest(ctx context.Context, rawURL string) (model.Repository, *backend.IngestResult, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return model.Repository{}, nil, fmt.Errorf("%w: repository url", backend.ErrEmptyInput)
	}

	result, err := m.gateway.Ingest(ctx, rawURL)
	if err != nil {
		return model.Repository{}, nil, err
	}

	name := result.RepositoryName
	if name == "" {
		name = model.DeriveRepoName(rawURL)
	}
	repo := model.Repository{
		ID:         result.RepositoryID,
		Name:       name,
		SourceURL:  rawURL,
		FileCount:  result.FilesProcessed,
		ChunkCount: result.ChunksStored,
		IngestedAt: time.Now(),
	}
	return repo, result, nil
}

// ApplyIngest folds a completed ingest into the snapshot so it is
// coherent without waiting for a refresh.
func (m *Manager) ApplyIngest(repo model.Repository) {
	m.upsert(repo)
}

// Ingest performs and applies in one call, for sequential callers.
func (m *Manager) Ingest(ctx context.Context, rawURL string) (model.Repository, *backend.IngestResult, error) {
	repo, result, err := m.PerformIngest(ctx, rawURL)
	if err != nil {
		return model.Repository{}, nil, err
	}
	m.ApplyIngest(repo)
	return repo, result, nil
}

// =============================================================================
// LIST
// =============================================================================

// FetchList asks the backend for the repository list without touching
// the snapshot.
func (m *Manager) FetchList(ctx context.Context) ([]model.Repository, error) {
	return m.gateway.ListRepositories(ctx)
}

// ApplyList installs a fetch outcome. On failure the snapshot degrades
// to empty and the error is remembered but not returned as fatal; the
// caller decides how loudly to surface it.
func (m *Manager) ApplyList(repos []model.Repository, err error) []model.Repository {
	if err != nil {
		log.Printf("repository list unavailable: %v", err)
		m.repos = nil
		m.lastListErr = err
		return nil
	}
	m.repos = repos
	m.lastListErr = nil
	return repos
}

// Refresh fetches and applies in one call, for sequential callers.
func (m *Manager) Refresh(ctx context.Context) []model.Repository {
	return m.ApplyList(m.FetchList(ctx))
}

// =============================================================================
// DELETE
// =============================================================================

// PerformDelete removes a repository by backend id without touching
// the snapshot. A NotFound answer means the backend already forgot the
// repository; that is treated as consistent and reported as success.
func (m *Manager) PerformDelete(ctx context.Context, id string) error {
	err := m.gateway.DeleteRepository(ctx, id)
	if errors.Is(err, backend.ErrNotFound) {
		log.Printf("repository %s already absent on backend", id)
		return nil
	}
	return err
}

// ApplyDelete drops the repository from the snapshot. The surviving
// entries are copied into a fresh slice so snapshots handed out
// earlier keep their contents.
func (m *Manager) ApplyDelete(id string) {
	kept := make([]model.Repository, 0, len(m.repos))
	for _, r := range m.repos {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	m.repos = kept
}

// Delete performs and applies in one call, for sequential callers. On
// success, tolerated NotFound included, the repository is dropped from
// the snapshot immediately.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.PerformDelete(ctx, id); err != nil {
		return err
	}
	m.ApplyDelete(id)
	return nil
}

func (m *Manager) upsert(repo model.Repository) {
	for i, r := range m.repos {
		if (repo.ID != "" && r.ID == repo.ID) || r.Name == repo.Name {
			m.repos[i] = repo
			return
		}
	}
	m.repos = append(m.repos, repo)
}
