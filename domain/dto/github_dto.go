package dto

import (
	"time"

	"command-center/domain/model"
)

// RepoListOptions maps onto the upstream /user/repos query string
// (encoded with go-querystring).
type RepoListOptions struct {
	Visibility string `url:"visibility,omitempty"`
	Sort       string `url:"sort,omitempty"`      // created, updated, pushed, full_name
	Direction  string `url:"direction,omitempty"` // asc, desc
	PerPage    int    `url:"per_page,omitempty"`
	Page       int    `url:"page,omitempty"`
}

// IssueListOptions maps onto the upstream issues list query string.
type IssueListOptions struct {
	State   string `url:"state,omitempty"` // open, closed, all
	PerPage int    `url:"per_page,omitempty"`
	Page    int    `url:"page,omitempty"`
	// Query is a free-text filter applied after fetch; not sent upstream.
	Query string `url:"-"`
}

type CreateIssueRequest struct {
	Title          string `json:"title" binding:"required"`
	Body           string `json:"body,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

type CreateIssueResponse struct {
	Issue     *model.Issue `json:"issue"`
	RemoteRef string       `json:"remote_ref"` // owner/repo#number
	Replayed  bool         `json:"replayed"`   // true when served from an idempotency record
}

type ActivityResponse struct {
	RepoName string               `json:"repo_name"`
	Items    []model.ActivityItem `json:"items"`
}

type IntegrationStatusResponse struct {
	Connected     bool       `json:"connected"`
	LastSyncAt    *time.Time `json:"last_sync_at,omitempty"`
	RateRemaining *int       `json:"rate_remaining,omitempty"`
	RateResetAt   *time.Time `json:"rate_reset_at,omitempty"`
	LastError     *string    `json:"last_error,omitempty"`
}
