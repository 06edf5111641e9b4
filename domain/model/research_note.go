package model

import "time"

type ResearchNote struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      string    `json:"tags,omitempty"` // comma separated
	Summary   *string   `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Citation is one source reference produced by note summarization.
type Citation struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// NoteSummary is the structured result of an LLM summarization call.
type NoteSummary struct {
	Summary   string     `json:"summary"`
	Citations []Citation `json:"citations"`
}
