// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kkshivani18/infralens-tui/internal/model"
)

func staticCredential(token string) CredentialFunc {
	return func(ctx context.Context) (string, error) {
		return token, nil
	}
}

// =============================================================================
// CREDENTIAL HANDLING TESTS
// =============================================================================

func TestClient_CredentialReadPerDispatch(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(repositoriesResponse{})
	}))
	defer srv.Close()

	// The provider returns a different token on every call. The client
	// must never cache: each request carries the freshest value.
	var calls int64
	client := NewClient(srv.URL, func(ctx context.Context) (string, error) {
		n := atomic.AddInt64(&calls, 1)
		if n == 1 {
			return "token-one", nil
		}
		return "token-two", nil
	})

	_, err := client.ListRepositories(context.Background())
	require.NoError(t, err)
	_, err = client.ListRepositories(context.Background())
	require.NoError(t, err)

	require.Len(t, gotAuth, 2)
	assert.Equal(t, "Bearer token-one", gotAuth[0])
	assert.Equal(t, "Bearer token-two", gotAuth[1])
	assert.EqualValues(t, 2, calls)
}

func TestClient_NoCredentialOmitsHeader(t *testing.T) {
	var header string
	var present bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		_, present = r.Header["Authorization"]
		json.NewEncoder(w).Encode(repositoriesResponse{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil)
	_, err := client.ListRepositories(context.Background())
	require.NoError(t, err)

	assert.False(t, present, "Authorization header should be absent, got %q", header)
}

func TestClient_CredentialErrorAbortsDispatch(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, func(ctx context.Context) (string, error) {
		return "", errors.New("keychain locked")
	})

	_, err := client.ListRepositories(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.EqualValues(t, 0, requests, "no request should reach the backend")
}

// =============================================================================
// ERROR MAPPING TESTS
// =============================================================================

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  error
		wantCode int
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"token expired"}`, ErrUnauthorized, 0},
		{"not found", http.StatusNotFound, `{"detail":"no such repo"}`, ErrNotFound, 0},
		{"server error", http.StatusInternalServerError, `{"detail":"boom"}`, nil, 500},
		{"unprocessable", 422, `{"detail":"bad payload"}`, nil, 422},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, staticCredential("tok"))
			_, err := client.ListRepositories(context.Background())
			require.Error(t, err)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, tc.wantCode, reqErr.Status)
		})
	}
}

func TestClient_ConnectionFailure(t *testing.T) {
	// A server that is already closed refuses connections.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, staticCredential("tok"))
	_, err := client.ListRepositories(context.Background())
	assert.ErrorIs(t, err, ErrConnectionFailed)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrConnectionFailed))
	assert.True(t, IsRetryable(&RequestError{Status: 503}))
	assert.False(t, IsRetryable(&RequestError{Status: 422}))
	assert.False(t, IsRetryable(ErrUnauthorized))
	assert.False(t, IsRetryable(ErrNotFound))
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestClient_LocalValidation(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticCredential("tok"))
	ctx := context.Background()

	_, err := client.Ingest(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = client.SendMessage(ctx, "\t\n", "repo")
	assert.ErrorIs(t, err, ErrEmptyInput)

	err = client.DeleteRepository(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = client.GetHistory(ctx, " ")
	assert.ErrorIs(t, err, ErrEmptyInput)

	assert.EqualValues(t, 0, requests, "validation failures must not dispatch")
}

// =============================================================================
// OPERATION TESTS
// =============================================================================

func TestClient_Ingest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ingest", r.URL.Path)

		var req ingestRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "https://github.com/user/project.git", req.RepoURL)

		json.NewEncoder(w).Encode(IngestResult{FilesProcessed: 42, ChunksStored: 310})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticCredential("tok"))
	result, err := client.Ingest(context.Background(), "https://github.com/user/project.git")
	require.NoError(t, err)
	assert.Equal(t, 42, result.FilesProcessed)
	assert.Equal(t, 310, result.ChunksStored)
}

func TestClient_ListRepositories(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repositories", r.URL.Path)
		json.NewEncoder(w).Encode(repositoriesResponse{
			Repositories: []repositoryRecord{
				{ID: "r1", Name: "alpha", FileCount: 10},
				{ID: "r2", Name: "beta"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticCredential("tok"))
	repos, err := client.ListRepositories(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "alpha", repos[0].Name)
	assert.Equal(t, "r2", repos[1].ID)
}

func TestClient_DeleteRepository(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/repositories/r1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticCredential("tok"))
	err := client.DeleteRepository(context.Background(), "r1")
	assert.NoError(t, err)
}

func TestClient_SendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "where is main?", req.Message)
		assert.Equal(t, "alpha", req.RepositoryName)

		json.NewEncoder(w).Encode(chatResponse{Response: "cmd/main.go"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticCredential("tok"))
	reply, err := client.SendMessage(context.Background(), "where is main?", "alpha")
	require.NoError(t, err)
	assert.Equal(t, "cmd/main.go", reply)
}

func TestClient_GetHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/history/alpha", r.URL.Path)
		json.NewEncoder(w).Encode(historyResponse{
			Messages: []historyMessage{
				{Role: "user", Content: "hi"},
				{Role: "ai", Content: "hello"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, staticCredential("tok"))
	msgs, err := client.GetHistory(context.Background(), "alpha")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, model.RoleUser, msgs[0].Role)
	assert.Equal(t, model.RoleAssistant, msgs[1].Role)
	assert.Equal(t, "hello", msgs[1].Content)
}
