package repository

import (
	"context"

	"command-center/domain/dto"
	"command-center/domain/model"
)

// IGitHub is the outbound adapter for the upstream REST API. Every call takes
// the caller's access token; the adapter holds no per-user state. Each
// response returns the rate-limit/ETag metadata observed on it so the caller
// can persist it through IIntegrationStatus.
type IGitHub interface {
	ListRepos(ctx context.Context, token, etag string, opts dto.RepoListOptions) (*model.RepoList, *model.RateObservation, error)
	ListCommits(ctx context.Context, token, owner, repo string, limit int) ([]model.ActivityItem, error)
	ListPulls(ctx context.Context, token, owner, repo string, limit int) ([]model.ActivityItem, error)
	ListIssuesActivity(ctx context.Context, token, owner, repo string, limit int) ([]model.ActivityItem, error)
	ListIssues(ctx context.Context, token, owner, repo string, opts dto.IssueListOptions) ([]model.Issue, *model.RateObservation, error)
	GetIssue(ctx context.Context, token, owner, repo string, number int) (*model.Issue, error)
	ListMilestones(ctx context.Context, token, owner, repo string) ([]model.Milestone, error)
	CreateIssue(ctx context.Context, token, owner, repo, title, body string) (*model.Issue, error)
}

// ILLM is the chat-completion adapter used for note summarization and issue
// suggestion.
// IRepoCache keeps the last repository listing per user, ETag included, so a
// not-modified poll can be answered without an upstream payload.
type IRepoCache interface {
	GetRepoList(ctx context.Context, userID string) (*model.RepoList, error)
	SetRepoList(ctx context.Context, userID string, list *model.RepoList) error
	InvalidateRepoList(ctx context.Context, userID string) error
}

type ILLM interface {
	SummarizeNote(ctx context.Context, title, content string) (*model.NoteSummary, error)
	SuggestIssue(ctx context.Context, context string) (title, body string, err error)
}
