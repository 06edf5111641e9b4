package github_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"command-center/domain/dto"
	"command-center/domain/model"
	githubclient "command-center/infrastructure/clients/github"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestListRepos(t *testing.T) {
	server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/repos", r.URL.Path)
		assert.Equal(t, "Bearer gho_abc", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))
		assert.Equal(t, "2022-11-28", r.Header.Get("X-GitHub-Api-Version"))
		assert.Equal(t, "pushed", r.URL.Query().Get("sort"))

		w.Header().Set("ETag", `W/"etag-1"`)
		w.Header().Set("X-RateLimit-Remaining", "4999")
		w.Header().Set("X-RateLimit-Reset", "1750000000")
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"id":        int64(1),
				"name":      "hello",
				"full_name": "octocat/hello",
				"owner":     map[string]string{"login": "octocat"},
				"private":   false,
				"pushed_at": "2025-06-01T10:00:00Z",
			},
		})
	})

	client := githubclient.NewGitHubClient(&githubclient.Config{BaseURL: server.URL})
	list, obs, err := client.ListRepos(context.Background(), "gho_abc", "", dto.RepoListOptions{Sort: "pushed"})
	require.NoError(t, err)
	require.NotNil(t, list)
	require.False(t, list.NotModified)
	require.Len(t, list.Repos, 1)
	assert.Equal(t, "octocat/hello", list.Repos[0].FullName)
	assert.Equal(t, "octocat", list.Repos[0].Owner)
	assert.Equal(t, `W/"etag-1"`, list.ETag)

	require.NotNil(t, obs)
	require.NotNil(t, obs.Remaining)
	assert.Equal(t, 4999, *obs.Remaining)
	require.NotNil(t, obs.ResetAt)
	assert.Equal(t, time.Unix(1750000000, 0).UTC(), *obs.ResetAt)
}

func TestListRepos_NotModified(t *testing.T) {
	server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `W/"etag-1"`, r.Header.Get("If-None-Match"))
		w.Header().Set("X-RateLimit-Remaining", "4998")
		w.WriteHeader(http.StatusNotModified)
	})

	client := githubclient.NewGitHubClient(&githubclient.Config{BaseURL: server.URL})
	list, obs, err := client.ListRepos(context.Background(), "gho_abc", `W/"etag-1"`, dto.RepoListOptions{})
	require.NoError(t, err)
	require.NotNil(t, list)
	assert.True(t, list.NotModified)
	assert.Empty(t, list.Repos)
	assert.Equal(t, `W/"etag-1"`, list.ETag)
	require.NotNil(t, obs)
	require.NotNil(t, obs.Remaining)
	assert.Equal(t, 4998, *obs.Remaining)
}

func TestListRepos_UpstreamError(t *testing.T) {
	server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Bad credentials"})
	})

	client := githubclient.NewGitHubClient(&githubclient.Config{BaseURL: server.URL})
	list, _, err := client.ListRepos(context.Background(), "bad", "", dto.RepoListOptions{})
	require.Error(t, err)
	assert.Nil(t, list)

	upErr, ok := err.(*githubclient.UpstreamError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, upErr.StatusCode)
	assert.Equal(t, "Bad credentials", upErr.Body)
}

func TestListIssues_ExcludesPullRequests(t *testing.T) {
	server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello/issues", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"number":     12,
				"title":      "Crash on startup",
				"state":      "open",
				"user":       map[string]string{"login": "alice"},
				"created_at": "2025-06-01T10:00:00Z",
				"updated_at": "2025-06-01T10:00:00Z",
			},
			{
				"number":       13,
				"title":        "Fix crash on startup",
				"state":        "open",
				"user":         map[string]string{"login": "bob"},
				"created_at":   "2025-06-01T11:00:00Z",
				"updated_at":   "2025-06-01T11:00:00Z",
				"pull_request": map[string]string{"url": "https://example.com/pr/13"},
			},
		})
	})

	client := githubclient.NewGitHubClient(&githubclient.Config{BaseURL: server.URL})
	issues, _, err := client.ListIssues(context.Background(), "gho_abc", "octocat", "hello", dto.IssueListOptions{State: "open"})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 12, issues[0].Number)
	assert.Equal(t, "alice", issues[0].Author)
}

func TestListIssues_QueryFilter(t *testing.T) {
	server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Query stays client-side; it must not leak into the URL.
		assert.Empty(t, r.URL.Query().Get("Query"))
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"number": 1, "title": "Crash on startup", "state": "open", "user": map[string]string{"login": "alice"}},
			{"number": 2, "title": "Docs typo", "state": "open", "user": map[string]string{"login": "bob"}},
		})
	})

	client := githubclient.NewGitHubClient(&githubclient.Config{BaseURL: server.URL})
	issues, _, err := client.ListIssues(context.Background(), "gho_abc", "octocat", "hello", dto.IssueListOptions{Query: "crash"})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 1, issues[0].Number)
}

func TestListIssuesActivity_ExcludesPullRequests(t *testing.T) {
	server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"number": 5, "title": "Real issue", "state": "open", "user": map[string]string{"login": "alice"}, "created_at": "2025-06-01T10:00:00Z"},
			{"number": 6, "title": "A PR", "state": "open", "user": map[string]string{"login": "bob"}, "created_at": "2025-06-01T11:00:00Z", "pull_request": map[string]string{"url": "x"}},
		})
	})

	client := githubclient.NewGitHubClient(&githubclient.Config{BaseURL: server.URL})
	items, err := client.ListIssuesActivity(context.Background(), "gho_abc", "octocat", "hello", 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.ActivityTypeIssue, items[0].Type)
	assert.Equal(t, "octocat/hello#5", items[0].ID)
}

func TestListCommits(t *testing.T) {
	server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octocat/hello/commits", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"sha": "abc123",
				"commit": map[string]interface{}{
					"message": "Fix race in poller\n\nDetails here",
					"author":  map[string]string{"name": "Alice", "date": "2025-06-01T10:00:00Z"},
				},
				"author": map[string]string{"login": "alice"},
			},
		})
	})

	client := githubclient.NewGitHubClient(&githubclient.Config{BaseURL: server.URL})
	items, err := client.ListCommits(context.Background(), "gho_abc", "octocat", "hello", 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, model.ActivityTypeCommit, items[0].Type)
	assert.Equal(t, "Fix race in poller", items[0].Title)
	assert.Equal(t, "alice", items[0].Author)
}

func TestCreateIssue(t *testing.T) {
	server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/octocat/hello/issues", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "New bug", payload["title"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"number":     42,
			"title":      "New bug",
			"state":      "open",
			"user":       map[string]string{"login": "alice"},
			"html_url":   "https://example.com/octocat/hello/issues/42",
			"created_at": "2025-06-01T10:00:00Z",
			"updated_at": "2025-06-01T10:00:00Z",
		})
	})

	client := githubclient.NewGitHubClient(&githubclient.Config{BaseURL: server.URL})
	issue, err := client.CreateIssue(context.Background(), "gho_abc", "octocat", "hello", "New bug", "it crashes")
	require.NoError(t, err)
	require.NotNil(t, issue)
	assert.Equal(t, 42, issue.Number)
	assert.Equal(t, "open", issue.State)
}
