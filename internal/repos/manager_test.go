// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkshivani18/infralens-tui/internal/backend"
	"github.com/kkshivani18/infralens-tui/internal/model"
)

type fakeGateway struct {
	ingestResult *backend.IngestResult
	ingestErr    error
	ingestCalls  int
	listResult   []model.Repository
	listErr      error
	deleteErr    error
	deletedIDs   []string
}

func (g *fakeGateway) Ingest(ctx context.Context, repoURL string) (*backend.IngestResult, error) {
	g.ingestCalls++
	return g.ingestResult, g.ingestErr
}

func (g *fakeGateway) ListRepositories(ctx context.Context) ([]model.Repository, error) {
	return g.listResult, g.listErr
}

func (g *fakeGateway) DeleteRepository(ctx context.Context, id string) error {
	g.deletedIDs = append(g.deletedIDs, id)
	return g.deleteErr
}

// =============================================================================
// INGEST TESTS
// =============================================================================

func TestManager_IngestDerivesName(t *testing.T) {
	gw := &fakeGateway{ingestResult: &backend.IngestResult{FilesProcessed: 17, RepositoryID: "r1"}}
	m := NewManager(gw)

	repo, result, err := m.Ingest(context.Background(), "https://github.com/user/project.git")
	require.NoError(t, err)

	assert.Equal(t, "project", repo.Name)
	assert.Equal(t, "r1", repo.ID)
	assert.Equal(t, 17, result.FilesProcessed)

	// The snapshot picks the new repository up immediately.
	_, found := m.Find("project")
	assert.True(t, found)
}

func TestManager_IngestPrefersBackendName(t *testing.T) {
	gw := &fakeGateway{ingestResult: &backend.IngestResult{RepositoryName: "server-name"}}
	m := NewManager(gw)

	repo, _, err := m.Ingest(context.Background(), "https://github.com/user/project")
	require.NoError(t, err)
	assert.Equal(t, "server-name", repo.Name)
}

func TestManager_IngestRejectsEmptyURL(t *testing.T) {
	gw := &fakeGateway{}
	m := NewManager(gw)

	_, _, err := m.Ingest(context.Background(), "   ")
	assert.ErrorIs(t, err, backend.ErrEmptyInput)
	assert.Zero(t, gw.ingestCalls)
}

func TestManager_IngestPropagatesFailure(t *testing.T) {
	gw := &fakeGateway{ingestErr: backend.ErrConnectionFailed}
	m := NewManager(gw)

	_, _, err := m.Ingest(context.Background(), "https://github.com/user/project")
	assert.ErrorIs(t, err, backend.ErrConnectionFailed)
	assert.Empty(t, m.Repositories(), "failed ingest must not pollute the snapshot")
}

// =============================================================================
// LIST TESTS
// =============================================================================

func TestManager_RefreshReplacesSnapshot(t *testing.T) {
	gw := &fakeGateway{listResult: []model.Repository{
		{ID: "r1", Name: "alpha"},
		{ID: "r2", Name: "beta"},
	}}
	m := NewManager(gw)

	repos := m.Refresh(context.Background())
	require.Len(t, repos, 2)
	assert.Nil(t, m.LastListError())
}

func TestManager_RefreshDegradesToEmpty(t *testing.T) {
	gw := &fakeGateway{listResult: []model.Repository{{ID: "r1", Name: "alpha"}}}
	m := NewManager(gw)
	m.Refresh(context.Background())
	require.Len(t, m.Repositories(), 1)

	// Backend goes away: snapshot empties, error is remembered, no panic.
	gw.listErr = backend.ErrConnectionFailed
	repos := m.Refresh(context.Background())
	assert.Empty(t, repos)
	assert.ErrorIs(t, m.LastListError(), backend.ErrConnectionFailed)

	// Backend returns: error clears.
	gw.listErr = nil
	m.Refresh(context.Background())
	assert.Nil(t, m.LastListError())
}

// =============================================================================
// DELETE TESTS
// =============================================================================

func TestManager_DeleteRemovesFromSnapshot(t *testing.T) {
	gw := &fakeGateway{listResult: []model.Repository{
		{ID: "r1", Name: "alpha"},
		{ID: "r2", Name: "beta"},
	}}
	m := NewManager(gw)
	m.Refresh(context.Background())

	require.NoError(t, m.Delete(context.Background(), "r1"))

	repos := m.Repositories()
	require.Len(t, repos, 1)
	assert.Equal(t, "r2", repos[0].ID)
	assert.Equal(t, []string{"r1"}, gw.deletedIDs)
}

func TestManager_DeleteToleratesNotFound(t *testing.T) {
	gw := &fakeGateway{listResult: []model.Repository{{ID: "r1", Name: "alpha"}}}
	m := NewManager(gw)
	m.Refresh(context.Background())

	gw.deleteErr = backend.ErrNotFound
	err := m.Delete(context.Background(), "r1")

	assert.NoError(t, err, "NotFound means already consistent")
	assert.Empty(t, m.Repositories(), "both sides agree the repository is gone")
}

func TestManager_DeletePropagatesOtherFailures(t *testing.T) {
	gw := &fakeGateway{listResult: []model.Repository{{ID: "r1", Name: "alpha"}}}
	m := NewManager(gw)
	m.Refresh(context.Background())

	gw.deleteErr = errors.New("boom")
	err := m.Delete(context.Background(), "r1")

	assert.Error(t, err)
	assert.Len(t, m.Repositories(), 1, "failed delete leaves the snapshot unchanged")
}

// =============================================================================
// FETCH/APPLY SPLIT TESTS
// =============================================================================

// The gateway halves never touch the snapshot; that is what makes them
// safe to run off the goroutine that owns the manager.

func TestManager_GatewayHalvesLeaveSnapshotAlone(t *testing.T) {
	gw := &fakeGateway{
		listResult:   []model.Repository{{ID: "r1", Name: "alpha"}},
		ingestResult: &backend.IngestResult{RepositoryID: "r2"},
	}
	m := NewManager(gw)
	m.Refresh(context.Background())
	before := m.Repositories()

	_, err := m.FetchList(context.Background())
	require.NoError(t, err)
	_, _, err = m.PerformIngest(context.Background(), "https://github.com/user/beta.git")
	require.NoError(t, err)
	require.NoError(t, m.PerformDelete(context.Background(), "r1"))

	assert.Equal(t, before, m.Repositories())
	assert.Len(t, m.Repositories(), 1)
}

func TestManager_ApplyListDegradesToEmpty(t *testing.T) {
	m := NewManager(&fakeGateway{})

	m.ApplyList([]model.Repository{{ID: "r1", Name: "alpha"}}, nil)
	require.Len(t, m.Repositories(), 1)

	got := m.ApplyList(nil, backend.ErrConnectionFailed)
	assert.Empty(t, got)
	assert.ErrorIs(t, m.LastListError(), backend.ErrConnectionFailed)
}

func TestManager_ApplyDeleteCopiesSnapshot(t *testing.T) {
	gw := &fakeGateway{listResult: []model.Repository{
		{ID: "r1", Name: "alpha"},
		{ID: "r2", Name: "beta"},
	}}
	m := NewManager(gw)
	handedOut := m.Refresh(context.Background())

	m.ApplyDelete("r1")

	// The snapshot handed out before the delete keeps its contents.
	require.Len(t, handedOut, 2)
	assert.Equal(t, "r1", handedOut[0].ID)
	assert.Equal(t, "r2", handedOut[1].ID)

	repos := m.Repositories()
	require.Len(t, repos, 1)
	assert.Equal(t, "r2", repos[0].ID)
}
