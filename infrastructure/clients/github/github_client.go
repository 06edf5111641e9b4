package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"command-center/domain/dto"
	"command-center/domain/model"
	"command-center/domain/repository"
	"command-center/infrastructure/logger"
)

const apiVersion = "2022-11-28"

// Config holds the upstream API settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// UpstreamError carries the upstream status line for non-2xx responses.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("github: upstream status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewGitHubClient creates the REST client. All requests share one timeout so a
// slow upstream cannot hold handler goroutines open.
func NewGitHubClient(config *Config) repository.IGitHub {
	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, token, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// rateObservation reads the rate-limit and ETag headers from a response.
// Missing headers come back as nil fields, never as zero values.
func rateObservation(resp *http.Response) *model.RateObservation {
	obs := &model.RateObservation{ETag: resp.Header.Get("ETag")}
	if v := resp.Header.Get("X-RateLimit-Remaining"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			obs.Remaining = &n
		}
	}
	if v := resp.Header.Get("X-RateLimit-Reset"); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			t := time.Unix(epoch, 0).UTC()
			obs.ResetAt = &t
		}
	}
	return obs
}

func readErrorBody(resp *http.Response) *UpstreamError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	body := string(raw)
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		body = payload.Message
	}
	return &UpstreamError{StatusCode: resp.StatusCode, Body: body}
}

func (c *Client) do(req *http.Request, out interface{}) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upErr := readErrorBody(resp)
		logger.GetLogger().
			WithField("status", resp.StatusCode).
			WithField("path", req.URL.Path).
			Error("GitHub request failed")
		return resp, upErr
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp, nil
}

type repoResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	Private       bool   `json:"private"`
	DefaultBranch string `json:"default_branch"`
	OpenIssues    int    `json:"open_issues_count"`
	Stars         int    `json:"stargazers_count"`
	PushedAt      string `json:"pushed_at"`
	Owner         struct {
		Login string `json:"login"`
	} `json:"owner"`
}

func (r repoResponse) toModel() model.Repo {
	repo := model.Repo{
		ID:            r.ID,
		FullName:      r.FullName,
		Name:          r.Name,
		Owner:         r.Owner.Login,
		Description:   r.Description,
		Private:       r.Private,
		DefaultBranch: r.DefaultBranch,
		OpenIssues:    r.OpenIssues,
		Stars:         r.Stars,
	}
	if ts, err := time.Parse(time.RFC3339, r.PushedAt); err == nil {
		repo.PushedAt = ts
	}
	return repo
}

// ListRepos fetches the caller's repositories. When etag is set the request
// goes out conditional; a 304 comes back as NotModified with no repos, and is
// not an error.
func (c *Client) ListRepos(ctx context.Context, token, etag string, opts dto.RepoListOptions) (*model.RepoList, *model.RateObservation, error) {
	values, err := query.Values(opts)
	if err != nil {
		return nil, nil, err
	}
	path := "/user/repos"
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}
	req, err := c.newRequest(ctx, http.MethodGet, token, path, nil)
	if err != nil {
		return nil, nil, err
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	obs := rateObservation(resp)
	if resp.StatusCode == http.StatusNotModified {
		if obs.ETag == "" {
			obs.ETag = etag
		}
		return &model.RepoList{NotModified: true, ETag: obs.ETag}, obs, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, obs, readErrorBody(resp)
	}

	var payload []repoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, obs, fmt.Errorf("decode response: %w", err)
	}
	list := &model.RepoList{Repos: make([]model.Repo, 0, len(payload)), ETag: obs.ETag}
	for _, item := range payload {
		list.Repos = append(list.Repos, item.toModel())
	}
	return list, obs, nil
}

type commitResponse struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name string `json:"name"`
			Date string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	Author struct {
		Login string `json:"login"`
	} `json:"author"`
}

func (c *Client) ListCommits(ctx context.Context, token, owner, repo string, limit int) ([]model.ActivityItem, error) {
	if limit <= 0 {
		limit = 10
	}
	path := fmt.Sprintf("/repos/%s/%s/commits?per_page=%d", owner, repo, limit)
	req, err := c.newRequest(ctx, http.MethodGet, token, path, nil)
	if err != nil {
		return nil, err
	}
	var payload []commitResponse
	if _, err := c.do(req, &payload); err != nil {
		return nil, err
	}
	items := make([]model.ActivityItem, 0, len(payload))
	for _, item := range payload {
		author := item.Author.Login
		if author == "" {
			author = item.Commit.Author.Name
		}
		entry := model.ActivityItem{
			ID:     item.SHA,
			Type:   model.ActivityTypeCommit,
			Title:  firstLine(item.Commit.Message),
			Author: author,
		}
		if ts, err := time.Parse(time.RFC3339, item.Commit.Author.Date); err == nil {
			entry.CreatedAt = ts
		}
		items = append(items, entry)
	}
	return items, nil
}

type pullResponse struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	User   struct {
		Login string `json:"login"`
	} `json:"user"`
	CreatedAt string `json:"created_at"`
}

func (c *Client) ListPulls(ctx context.Context, token, owner, repo string, limit int) ([]model.ActivityItem, error) {
	if limit <= 0 {
		limit = 10
	}
	path := fmt.Sprintf("/repos/%s/%s/pulls?state=all&per_page=%d", owner, repo, limit)
	req, err := c.newRequest(ctx, http.MethodGet, token, path, nil)
	if err != nil {
		return nil, err
	}
	var payload []pullResponse
	if _, err := c.do(req, &payload); err != nil {
		return nil, err
	}
	items := make([]model.ActivityItem, 0, len(payload))
	for _, item := range payload {
		entry := model.ActivityItem{
			ID:     fmt.Sprintf("%s/%s#%d", owner, repo, item.Number),
			Type:   model.ActivityTypePullRequest,
			Title:  item.Title,
			Author: item.User.Login,
			State:  item.State,
		}
		if ts, err := time.Parse(time.RFC3339, item.CreatedAt); err == nil {
			entry.CreatedAt = ts
		}
		items = append(items, entry)
	}
	return items, nil
}

type issueResponse struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	State  string `json:"state"`
	User   struct {
		Login string `json:"login"`
	} `json:"user"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
	HTMLURL   string `json:"html_url"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	ClosedAt  string `json:"closed_at"`
	// The issues endpoint also returns pull requests; the presence of this
	// field is how they are told apart.
	PullRequest *struct {
		URL string `json:"url"`
	} `json:"pull_request"`
}

func (r issueResponse) toModel() model.Issue {
	issue := model.Issue{
		Number: r.Number,
		Title:  r.Title,
		Body:   r.Body,
		State:  r.State,
		Author: r.User.Login,
		URL:    r.HTMLURL,
	}
	for _, label := range r.Labels {
		issue.Labels = append(issue.Labels, label.Name)
	}
	if ts, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
		issue.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339, r.UpdatedAt); err == nil {
		issue.UpdatedAt = ts
	}
	if r.ClosedAt != "" {
		if ts, err := time.Parse(time.RFC3339, r.ClosedAt); err == nil {
			issue.ClosedAt = &ts
		}
	}
	return issue
}

func (c *Client) ListIssuesActivity(ctx context.Context, token, owner, repo string, limit int) ([]model.ActivityItem, error) {
	if limit <= 0 {
		limit = 10
	}
	path := fmt.Sprintf("/repos/%s/%s/issues?state=all&per_page=%d", owner, repo, limit)
	req, err := c.newRequest(ctx, http.MethodGet, token, path, nil)
	if err != nil {
		return nil, err
	}
	var payload []issueResponse
	if _, err := c.do(req, &payload); err != nil {
		return nil, err
	}
	items := make([]model.ActivityItem, 0, len(payload))
	for _, item := range payload {
		if item.PullRequest != nil {
			continue
		}
		entry := model.ActivityItem{
			ID:     fmt.Sprintf("%s/%s#%d", owner, repo, item.Number),
			Type:   model.ActivityTypeIssue,
			Title:  item.Title,
			Author: item.User.Login,
			State:  item.State,
		}
		if ts, err := time.Parse(time.RFC3339, item.CreatedAt); err == nil {
			entry.CreatedAt = ts
		}
		items = append(items, entry)
	}
	return items, nil
}

func (c *Client) ListIssues(ctx context.Context, token, owner, repo string, opts dto.IssueListOptions) ([]model.Issue, *model.RateObservation, error) {
	values, err := query.Values(opts)
	if err != nil {
		return nil, nil, err
	}
	path := fmt.Sprintf("/repos/%s/%s/issues", owner, repo)
	if encoded := values.Encode(); encoded != "" {
		path += "?" + encoded
	}
	req, err := c.newRequest(ctx, http.MethodGet, token, path, nil)
	if err != nil {
		return nil, nil, err
	}
	var payload []issueResponse
	resp, err := c.do(req, &payload)
	var obs *model.RateObservation
	if resp != nil {
		obs = rateObservation(resp)
	}
	if err != nil {
		return nil, obs, err
	}

	filter := strings.ToLower(strings.TrimSpace(opts.Query))
	issues := make([]model.Issue, 0, len(payload))
	for _, item := range payload {
		if item.PullRequest != nil {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(item.Title), filter) {
			continue
		}
		issues = append(issues, item.toModel())
	}
	return issues, obs, nil
}

func (c *Client) GetIssue(ctx context.Context, token, owner, repo string, number int) (*model.Issue, error) {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d", owner, repo, number)
	req, err := c.newRequest(ctx, http.MethodGet, token, path, nil)
	if err != nil {
		return nil, err
	}
	var payload issueResponse
	if _, err := c.do(req, &payload); err != nil {
		return nil, err
	}
	issue := payload.toModel()
	return &issue, nil
}

type milestoneResponse struct {
	Number       int    `json:"number"`
	Title        string `json:"title"`
	State        string `json:"state"`
	OpenIssues   int    `json:"open_issues"`
	ClosedIssues int    `json:"closed_issues"`
	DueOn        string `json:"due_on"`
}

func (c *Client) ListMilestones(ctx context.Context, token, owner, repo string) ([]model.Milestone, error) {
	path := fmt.Sprintf("/repos/%s/%s/milestones?state=all", owner, repo)
	req, err := c.newRequest(ctx, http.MethodGet, token, path, nil)
	if err != nil {
		return nil, err
	}
	var payload []milestoneResponse
	if _, err := c.do(req, &payload); err != nil {
		return nil, err
	}
	milestones := make([]model.Milestone, 0, len(payload))
	for _, item := range payload {
		m := model.Milestone{
			Number:       item.Number,
			Title:        item.Title,
			State:        item.State,
			OpenIssues:   item.OpenIssues,
			ClosedIssues: item.ClosedIssues,
		}
		if item.DueOn != "" {
			if ts, err := time.Parse(time.RFC3339, item.DueOn); err == nil {
				m.DueOn = &ts
			}
		}
		milestones = append(milestones, m)
	}
	return milestones, nil
}

func (c *Client) CreateIssue(ctx context.Context, token, owner, repo, title, body string) (*model.Issue, error) {
	payload := map[string]string{"title": title}
	if body != "" {
		payload["body"] = body
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	path := fmt.Sprintf("/repos/%s/%s/issues", owner, repo)
	req, err := c.newRequest(ctx, http.MethodPost, token, path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	var created issueResponse
	if _, err := c.do(req, &created); err != nil {
		return nil, err
	}
	issue := created.toModel()
	return &issue, nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
