package model

import "time"

// Content pipeline entities live in the MySQL content database via gorm.

type Idea struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"size:64;index"`
	Title     string    `json:"title" gorm:"size:255"`
	Notes     string    `json:"notes"`
	Status    string    `json:"status" gorm:"size:32"` // backlog | picked | dropped
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type ContentDraft struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"size:64;index"`
	IdeaID    *int64    `json:"idea_id,omitempty" gorm:"index"`
	Title     string    `json:"title" gorm:"size:255"`
	Body      string    `json:"body"`
	Tags      string    `json:"tags" gorm:"size:255"`
	Status    string    `json:"status" gorm:"size:32"` // draft | review | ready
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type ScheduledPost struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"size:64;index"`
	DraftID     int64     `json:"draft_id" gorm:"index"`
	Platform    string    `json:"platform" gorm:"size:32"`
	ScheduledAt time.Time `json:"scheduled_at" gorm:"index"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type Asset struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"size:64;index"`
	DraftID   *int64    `json:"draft_id,omitempty" gorm:"index"`
	Kind      string    `json:"kind" gorm:"size:32"` // image | video | link
	URL       string    `json:"url" gorm:"size:512"`
	Label     string    `json:"label" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
