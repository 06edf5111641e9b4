package dto

import (
	"encoding/json"
	"time"

	"command-center/domain/model"
)

type ResearchNoteRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
	Tags    string `json:"tags,omitempty"`
}

type IdeaRequest struct {
	Title  string `json:"title" binding:"required"`
	Notes  string `json:"notes,omitempty"`
	Status string `json:"status,omitempty"`
}

type DraftRequest struct {
	IdeaID *int64 `json:"idea_id,omitempty"`
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body,omitempty"`
	Tags   string `json:"tags,omitempty"`
	Status string `json:"status,omitempty"`
}

type ScheduledPostRequest struct {
	DraftID     int64     `json:"draft_id" binding:"required"`
	Platform    string    `json:"platform" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

type AssetRequest struct {
	DraftID *int64 `json:"draft_id,omitempty"`
	Kind    string `json:"kind" binding:"required"`
	URL     string `json:"url" binding:"required"`
	Label   string `json:"label,omitempty"`
}

type AgentRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description,omitempty"`
	Model         string          `json:"model,omitempty"`
	SystemPrompt  string          `json:"system_prompt,omitempty"`
	SkillManifest json.RawMessage `json:"skill_manifest,omitempty"`
	Enabled       *bool           `json:"enabled,omitempty"`
}

type AgentMemoryRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

type ApprovalPolicyRequest struct {
	RequireApproval bool `json:"require_approval"`
	AutoApproveRead bool `json:"auto_approve_read"`
}

// Dashboard is the aggregate view; every widget degrades independently.
type Dashboard struct {
	Notifications []model.Notification `json:"notifications"`
	Banners       []model.Notification `json:"banners"`
	UnreadCount   int                  `json:"unread_count"`
	RecentNotes   []model.ResearchNote `json:"recent_notes"`
	PipelineStats PipelineStats        `json:"pipeline_stats"`
	Github        IntegrationStatusResponse `json:"github"`
}

type PipelineStats struct {
	Ideas     int64 `json:"ideas"`
	Drafts    int64 `json:"drafts"`
	Scheduled int64 `json:"scheduled"`
}

// SearchResult is one global-search hit.
type SearchResult struct {
	Kind  string `json:"kind"` // note | idea | draft | notification
	ID    string `json:"id"`
	Title string `json:"title"`
}
