// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kkshivani18/infralens-tui/internal/model"
)

// Configuration constants for the backend API.
const (
	// DefaultBaseURL matches a locally running analysis backend.
	DefaultBaseURL = "http://127.0.0.1:8000/api"

	// DefaultTimeout is the default timeout for API requests. Chat
	// answers can take a while; the backend does retrieval plus
	// generation per question.
	DefaultTimeout = 120 * time.Second

	// DefaultRequestsPerMinute paces outgoing requests. Generous on
	// purpose; it only guards against accidental tight loops.
	DefaultRequestsPerMinute = 120

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB
)

// CredentialFunc supplies the bearer credential for a request. It is
// called immediately before every dispatch and its result is never
// cached. An empty credential with a nil error means "no credential":
// the request goes out without an Authorization header.
type CredentialFunc func(ctx context.Context) (string, error)

// NoCredential is a CredentialFunc for unauthenticated backends.
func NoCredential(ctx context.Context) (string, error) {
	return "", nil
}

// Client is a client for the infralens analysis backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	credential CredentialFunc
	limiter    *rate.Limiter
	userAgent  string
}

// NewClient creates a backend client. A nil credential behaves like
// NoCredential.
func NewClient(baseURL string, credential CredentialFunc) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if credential == nil {
		credential = NoCredential
	}
	perMin := float64(DefaultRequestsPerMinute)
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		credential: credential,
		limiter:    rate.NewLimiter(rate.Limit(perMin/60.0), DefaultRequestsPerMinute/4),
		userAgent:  "infralens/" + clientVersion,
	}
}

// clientVersion is stamped into the User-Agent header.
var clientVersion = "0.2.0"

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithHTTPClient replaces the underlying HTTP client. Used in tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithRequestsPerMinute adjusts the client-side pacing limit.
func (c *Client) WithRequestsPerMinute(perMin int) *Client {
	if perMin <= 0 {
		perMin = DefaultRequestsPerMinute
	}
	burst := perMin / 4
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(float64(perMin)/60.0), burst)
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// WIRE TYPES
// =============================================================================

// IngestResult reports what the backend processed for an ingest call.
type IngestResult struct {
	FilesProcessed int    `json:"files_processed"`
	ChunksStored   int    `json:"chunks_stored,omitempty"`
	RepositoryID   string `json:"repository_id,omitempty"`
	RepositoryName string `json:"repository_name,omitempty"`
}

type ingestRequest struct {
	RepoURL string `json:"repo_url"`
}

type repositoryRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url,omitempty"`
	FileCount int    `json:"file_count,omitempty"`
}

type repositoriesResponse struct {
	Repositories []repositoryRecord `json:"repositories"`
}

type chatRequest struct {
	Message        string `json:"message"`
	RepositoryName string `json:"repository_name,omitempty"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type historyMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type historyResponse struct {
	Messages []historyMessage `json:"messages"`
}

// apiErrorResponse is the backend's error envelope.
type apiErrorResponse struct {
	Detail string `json:"detail"`
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Ingest asks the backend to clone and analyze a repository.
func (c *Client) Ingest(ctx context.Context, repoURL string) (*IngestResult, error) {
	if strings.TrimSpace(repoURL) == "" {
		return nil, fmt.Errorf("%w: repository url", ErrEmptyInput)
	}

	body, err := c.do(ctx, http.MethodPost, "/ingest", ingestRequest{RepoURL: repoURL})
	if err != nil {
		return nil, err
	}

	var result IngestResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse ingest response: %w", err)
	}
	return &result, nil
}

// ListRepositories fetches all repositories the backend knows about.
func (c *Client) ListRepositories(ctx context.Context) ([]model.Repository, error) {
	body, err := c.do(ctx, http.MethodGet, "/repositories", nil)
	if err != nil {
		return nil, err
	}

	var resp repositoriesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse repositories response: %w", err)
	}

	repos := make([]model.Repository, 0, len(resp.Repositories))
	for _, r := range resp.Repositories {
		repos = append(repos, model.Repository{
			ID:        r.ID,
			Name:      r.Name,
			SourceURL: r.URL,
			FileCount: r.FileCount,
		})
	}
	return repos, nil
}

// DeleteRepository removes a repository by its backend identifier.
// Returns ErrNotFound when the backend no longer knows the id.
func (c *Client) DeleteRepository(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: repository id", ErrEmptyInput)
	}
	_, err := c.do(ctx, http.MethodDelete, "/repositories/"+url.PathEscape(id), nil)
	return err
}

// SendMessage sends a chat message scoped to a repository and returns
// the assistant's reply.
func (c *Client) SendMessage(ctx context.Context, message, repositoryName string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: message", ErrEmptyInput)
	}

	body, err := c.do(ctx, http.MethodPost, "/chat", chatRequest{
		Message:        message,
		RepositoryName: repositoryName,
	})
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse chat response: %w", err)
	}
	return resp.Response, nil
}

// GetHistory fetches the stored conversation for a repository.
func (c *Client) GetHistory(ctx context.Context, repositoryName string) ([]*model.Message, error) {
	if strings.TrimSpace(repositoryName) == "" {
		return nil, fmt.Errorf("%w: repository name", ErrEmptyInput)
	}

	body, err := c.do(ctx, http.MethodGet, "/chat/history/"+url.PathEscape(repositoryName), nil)
	if err != nil {
		return nil, err
	}

	var resp historyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse history response: %w", err)
	}

	msgs := make([]*model.Message, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		msgs = append(msgs, model.NewMessage(model.ParseRole(m.Role), m.Content))
	}
	return msgs, nil
}

// Ping checks backend reachability. Used by the status command only;
// any well-formed HTTP response counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/repositories", nil)
	if err != nil && errors.Is(err, ErrConnectionFailed) {
		return err
	}
	if err != nil && errors.Is(err, ErrUnauthorized) {
		return err
	}
	return nil
}

// =============================================================================
// DISPATCH
// =============================================================================

// do performs one request against the backend: pace, read the
// credential fresh, dispatch, normalize the failure.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if err := c.setHeaders(ctx, req, payload != nil); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)

	// SECURITY: Clear Authorization header immediately after dispatch so
	// a logged request can never carry the credential.
	req.Header.Del("Authorization")

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, handleErrorResponse(resp.StatusCode, body)
	}
	return body, nil
}

// setHeaders attaches content and auth headers. The credential is read
// through the provider on every call; a provider failure aborts the
// dispatch as an authorization failure.
func (c *Client) setHeaders(ctx context.Context, req *http.Request, hasBody bool) error {
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	token, err := c.credential(ctx)
	if err != nil {
		return fmt.Errorf("%w: reading credential: %v", ErrUnauthorized, err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// readResponse reads the response body with a size cap.
func readResponse(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts HTTP error statuses to typed errors.
func handleErrorResponse(statusCode int, body []byte) error {
	detail := ""
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil {
		detail = apiErr.Detail
	}

	switch statusCode {
	case http.StatusUnauthorized:
		if detail != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, detail)
		}
		return ErrUnauthorized
	case http.StatusNotFound:
		if detail != "" {
			return fmt.Errorf("%w: %s", ErrNotFound, detail)
		}
		return ErrNotFound
	default:
		if detail == "" {
			detail = strings.TrimSpace(string(body))
		}
		return &RequestError{Status: statusCode, Message: detail}
	}
}
