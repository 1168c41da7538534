package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/alfredjeanlab/loom/internal/model"
)

// HTTPClient implements LoomClient using the loom HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// --- Sessions ---

func (c *HTTPClient) CreateSession(ctx context.Context, title, actor string) (*model.Session, error) {
	body := map[string]string{"title": title}
	if actor != "" {
		body["actor"] = actor
	}
	var session model.Session
	if err := c.doJSON(ctx, http.MethodPost, "/v1/sessions", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *HTTPClient) GetSession(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	if err := c.doJSON(ctx, http.MethodGet, "/v1/sessions/"+url.PathEscape(id), nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *HTTPClient) ListSessions(ctx context.Context, limit, offset int) (*ListSessionsResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	if offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", offset))
	}
	path := "/v1/sessions"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp ListSessionsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) DeleteSession(ctx context.Context, id string, cascade bool, actor string) ([]string, error) {
	q := url.Values{}
	if cascade {
		q.Set("cascade", "true")
	}
	if actor != "" {
		q.Set("actor", actor)
	}
	path := "/v1/sessions/" + url.PathEscape(id)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp struct {
		DeletedTasks []string `json:"deleted_tasks"`
	}
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.DeletedTasks, nil
}

func (c *HTTPClient) SessionTasks(ctx context.Context, id string) (*ListTasksResponse, error) {
	var resp ListTasksResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/sessions/"+url.PathEscape(id)+"/tasks", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ReadyTasks(ctx context.Context, id string, filter model.ReadyFilter) ([]*model.Task, error) {
	q := url.Values{}
	if filter.Assignee != "" {
		q.Set("assignee", filter.Assignee)
	}
	if filter.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", filter.Limit))
	}
	path := "/v1/sessions/" + url.PathEscape(id) + "/ready"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp struct {
		Tasks []*model.Task `json:"tasks"`
	}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *HTTPClient) ReorderTasks(ctx context.Context, id string, taskIDs []string, actor string) error {
	body := map[string]any{"task_ids": taskIDs}
	if actor != "" {
		body["actor"] = actor
	}
	return c.doJSON(ctx, http.MethodPost, "/v1/sessions/"+url.PathEscape(id)+"/reorder", body, nil)
}

// --- Tasks ---

func (c *HTTPClient) CreateTask(ctx context.Context, req *CreateTaskRequest) (*model.Task, error) {
	var task model.Task
	if err := c.doJSON(ctx, http.MethodPost, "/v1/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) GetTask(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	if err := c.doJSON(ctx, http.MethodGet, "/v1/tasks/"+url.PathEscape(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) ListTasks(ctx context.Context, filter model.TaskFilter) (*ListTasksResponse, error) {
	q := url.Values{}
	if filter.SessionID != "" {
		q.Set("session_id", filter.SessionID)
	}
	if len(filter.Status) > 0 {
		statuses := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			statuses[i] = string(s)
		}
		q.Set("status", strings.Join(statuses, ","))
	}
	if filter.Assignee != "" {
		q.Set("assignee", filter.Assignee)
	}
	if filter.Difficulty != nil {
		q.Set("difficulty", fmt.Sprintf("%d", *filter.Difficulty))
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Sort != "" {
		q.Set("sort", filter.Sort)
	}
	if filter.Limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", filter.Limit))
	}
	if filter.Offset > 0 {
		q.Set("offset", fmt.Sprintf("%d", filter.Offset))
	}

	path := "/v1/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp ListTasksResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) UpdateTask(ctx context.Context, id string, req *UpdateTaskRequest) (*model.Task, error) {
	var task model.Task
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/tasks/"+url.PathEscape(id), req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *HTTPClient) UpdateTasks(ctx context.Context, updates []BatchTaskUpdate) ([]TaskUpdateResult, error) {
	body := map[string]any{"updates": updates}
	var resp struct {
		Results []TaskUpdateResult `json:"results"`
	}
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/tasks", body, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *HTTPClient) DeleteTask(ctx context.Context, id string, cascade bool, actor string) ([]string, error) {
	q := url.Values{}
	if cascade {
		q.Set("cascade", "true")
	}
	if actor != "" {
		q.Set("actor", actor)
	}
	path := "/v1/tasks/" + url.PathEscape(id)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp struct {
		Cascaded []string `json:"cascaded"`
	}
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Cascaded, nil
}

func (c *HTTPClient) Subtasks(ctx context.Context, id string) ([]*model.Task, error) {
	var resp struct {
		Tasks []*model.Task `json:"tasks"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/tasks/"+url.PathEscape(id)+"/subtasks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// --- Dependencies ---

func (c *HTTPClient) AddDependency(ctx context.Context, blockedID, blockerID, actor string) error {
	body := map[string]string{"blocker_id": blockerID}
	if actor != "" {
		body["actor"] = actor
	}
	return c.doJSON(ctx, http.MethodPost, "/v1/tasks/"+url.PathEscape(blockedID)+"/dependencies", body, nil)
}

func (c *HTTPClient) RemoveDependency(ctx context.Context, blockedID, blockerID, actor string) error {
	q := url.Values{}
	q.Set("blocker_id", blockerID)
	if actor != "" {
		q.Set("actor", actor)
	}
	path := "/v1/tasks/" + url.PathEscape(blockedID) + "/dependencies?" + q.Encode()
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *HTTPClient) GetDependencies(ctx context.Context, id string) (*DependenciesResponse, error) {
	var resp DependenciesResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v1/tasks/"+url.PathEscape(id)+"/dependencies", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) IsBlocked(ctx context.Context, id string) (bool, error) {
	var resp struct {
		Blocked bool `json:"blocked"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/tasks/"+url.PathEscape(id)+"/blocked", nil, &resp); err != nil {
		return false, err
	}
	return resp.Blocked, nil
}

func (c *HTTPClient) DependencyChain(ctx context.Context, id string) (*model.Chain, error) {
	var chain model.Chain
	if err := c.doJSON(ctx, http.MethodGet, "/v1/tasks/"+url.PathEscape(id)+"/chain", nil, &chain); err != nil {
		return nil, err
	}
	return &chain, nil
}

// --- Graph ---

func (c *HTTPClient) GetGraph(ctx context.Context, limit int) (*model.GraphResponse, error) {
	path := "/v1/graph"
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	var resp model.GraphResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) GetStats(ctx context.Context) (*model.GraphStats, error) {
	var stats model.GraphStats
	if err := c.doJSON(ctx, http.MethodGet, "/v1/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// --- Events ---

func (c *HTTPClient) GetEvents(ctx context.Context, entityID string) ([]*model.Event, error) {
	var resp struct {
		Events []*model.Event `json:"events"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/tasks/"+url.PathEscape(entityID)+"/events", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// --- Health ---

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// --- internal helpers ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Retryable  bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// doJSON performs an HTTP request with optional JSON body and decodes the JSON response.
// If result is nil, the response body is discarded (for DELETE/204 responses).
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error     string `json:"error"`
			Retryable bool   `json:"retryable"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error, Retryable: errResp.Retryable}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
