package repository

import (
	"context"

	"command-center/domain/dto"
	"command-center/domain/model"
)

type IResearchNote interface {
	Create(ctx context.Context, n *model.ResearchNote) error
	GetById(ctx context.Context, userID string, id int64) (*model.ResearchNote, error)
	List(ctx context.Context, userID string, limit int) ([]model.ResearchNote, error)
	Update(ctx context.Context, n *model.ResearchNote) error
	Delete(ctx context.Context, userID string, id int64) error
	Search(ctx context.Context, userID, query string, limit int) ([]model.ResearchNote, error)
	SetSummary(ctx context.Context, userID string, id int64, summary string) error
}

// IContent is the content-pipeline store (gorm/MySQL).
type IContent interface {
	CreateIdea(ctx context.Context, idea *model.Idea) error
	ListIdeas(ctx context.Context, userID string) ([]model.Idea, error)
	UpdateIdea(ctx context.Context, idea *model.Idea) error
	DeleteIdea(ctx context.Context, userID string, id int64) error

	CreateDraft(ctx context.Context, draft *model.ContentDraft) error
	ListDrafts(ctx context.Context, userID string) ([]model.ContentDraft, error)
	UpdateDraft(ctx context.Context, draft *model.ContentDraft) error
	DeleteDraft(ctx context.Context, userID string, id int64) error

	CreateScheduledPost(ctx context.Context, post *model.ScheduledPost) error
	ListScheduledPosts(ctx context.Context, userID string) ([]model.ScheduledPost, error)
	DeleteScheduledPost(ctx context.Context, userID string, id int64) error

	CreateAsset(ctx context.Context, asset *model.Asset) error
	ListAssets(ctx context.Context, userID string) ([]model.Asset, error)
	DeleteAsset(ctx context.Context, userID string, id int64) error

	Stats(ctx context.Context, userID string) (*dto.PipelineStats, error)
	SearchTitles(ctx context.Context, userID, query string, limit int) ([]dto.SearchResult, error)
}

type IAgent interface {
	Create(ctx context.Context, a *model.Agent) error
	GetById(ctx context.Context, userID string, id int64) (*model.Agent, error)
	List(ctx context.Context, userID string) ([]model.Agent, error)
	Update(ctx context.Context, a *model.Agent) error
	Delete(ctx context.Context, userID string, id int64) error

	UpsertMemory(ctx context.Context, m *model.AgentMemory) error
	ListMemory(ctx context.Context, userID string, agentID int64) ([]model.AgentMemory, error)
	GetApprovalPolicy(ctx context.Context, userID string, agentID int64) (*model.ApprovalPolicy, error)
	UpsertApprovalPolicy(ctx context.Context, p *model.ApprovalPolicy) error
	AppendTestLog(ctx context.Context, l *model.AgentTestLog) error
	ListTestLogs(ctx context.Context, userID string, agentID int64, limit int) ([]model.AgentTestLog, error)
}

type IWebhookEvent interface {
	Insert(ctx context.Context, e *model.WebhookEvent) error
	ListByRepo(ctx context.Context, repoName string, limit int) ([]model.WebhookEvent, error)
}
