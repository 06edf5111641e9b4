package model

import "time"

const (
	SeverityInfo     = "info"
	SeveritySuccess  = "success"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Notification is a per-user message. Once created it mutates only through
// read-state transitions and deletion.
type Notification struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Title      string     `json:"title"`
	Body       *string    `json:"body,omitempty"`
	Severity   string     `json:"severity"` // info | success | warning | error | critical
	SourceRef  *string    `json:"source_ref,omitempty"`
	ActionURL  *string    `json:"action_url,omitempty"`
	Persistent bool       `json:"persistent"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NotificationPreferences is a singleton row per user. A missing row means the
// implicit defaults from DefaultNotificationPreferences.
type NotificationPreferences struct {
	UserID        string    `json:"user_id"`
	EmailCritical bool      `json:"email_critical"`
	EmailWarning  bool      `json:"email_warning"`
	EmailInfo     bool      `json:"email_info"`
	InAppEnabled  bool      `json:"in_app_enabled"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func DefaultNotificationPreferences(userID string) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:        userID,
		EmailCritical: true,
		EmailWarning:  false,
		EmailInfo:     false,
		InAppEnabled:  true,
	}
}
