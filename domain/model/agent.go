package model

import (
	"encoding/json"
	"time"
)

type Agent struct {
	ID            int64           `json:"id"`
	UserID        string          `json:"user_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Model         string          `json:"model"`
	SystemPrompt  string          `json:"system_prompt,omitempty"`
	SkillManifest json.RawMessage `json:"skill_manifest,omitempty"` // JSONB
	Enabled       bool            `json:"enabled"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type AgentMemory struct {
	ID        int64     `json:"id"`
	AgentID   int64     `json:"agent_id"`
	UserID    string    `json:"user_id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApprovalPolicy is a singleton row per agent.
type ApprovalPolicy struct {
	AgentID         int64     `json:"agent_id"`
	UserID          string    `json:"user_id"`
	RequireApproval bool      `json:"require_approval"`
	AutoApproveRead bool      `json:"auto_approve_read"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type AgentTestLog struct {
	ID        int64     `json:"id"`
	AgentID   int64     `json:"agent_id"`
	UserID    string    `json:"user_id"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	Passed    bool      `json:"passed"`
	CreatedAt time.Time `json:"created_at"`
}
