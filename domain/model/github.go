package model

import "time"

// Repo is the normalized shape of an upstream repository.
type Repo struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"full_name"` // owner/repo
	Name          string    `json:"name"`
	Owner         string    `json:"owner"`
	Description   string    `json:"description,omitempty"`
	Private       bool      `json:"private"`
	DefaultBranch string    `json:"default_branch"`
	OpenIssues    int       `json:"open_issues"`
	Stars         int       `json:"stars"`
	PushedAt      time.Time `json:"pushed_at"`
}

// RepoList carries a repo page plus the cache-validation token for the next
// conditional fetch. NotModified distinguishes "no change" from "zero repos".
type RepoList struct {
	Repos       []Repo `json:"repos"`
	ETag        string `json:"etag,omitempty"`
	NotModified bool   `json:"not_modified"`
}

const (
	ActivityTypeCommit      = "commit"
	ActivityTypePullRequest = "pull_request"
	ActivityTypeIssue       = "issue"
)

// ActivityItem is the common shape commits, pull requests and issues are
// normalized into before merging.
type ActivityItem struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // commit | pull_request | issue
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	State     string    `json:"state,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Issue struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	State     string     `json:"state"`
	Author    string     `json:"author"`
	Labels    []string   `json:"labels,omitempty"`
	URL       string     `json:"url"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

type Milestone struct {
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	State        string     `json:"state"`
	OpenIssues   int        `json:"open_issues"`
	ClosedIssues int        `json:"closed_issues"`
	DueOn        *time.Time `json:"due_on,omitempty"`
}
