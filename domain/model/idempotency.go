package model

import "time"

const (
	IdempotencyStatusPending   = "pending"
	IdempotencyStatusCompleted = "completed"
)

// IdempotencyRecord maps a caller-supplied key (scoped per user) to the remote
// resource it created. A pending row is written before the upstream call and
// transitioned to completed with the remote ref after success; a completed row
// is never overwritten.
type IdempotencyRecord struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Key         string    `json:"key"`
	Status      string    `json:"status"` // pending | completed
	RemoteRef   *string   `json:"remote_ref,omitempty"` // owner/repo#issue_number
	CreatedAt   time.Time `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
