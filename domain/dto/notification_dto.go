package dto

type CreateNotificationRequest struct {
	Title      string  `json:"title" binding:"required"`
	Body       *string `json:"body,omitempty"`
	Severity   string  `json:"severity,omitempty"`
	SourceRef  *string `json:"source_ref,omitempty"`
	ActionURL  *string `json:"action_url,omitempty"`
	Persistent bool    `json:"persistent,omitempty"`
}

// NotificationListOptions filters the list view. Limit is clamped to 100.
type NotificationListOptions struct {
	UnreadOnly     bool
	PersistentOnly bool
	Limit          int
}

type UpdatePreferencesRequest struct {
	EmailCritical *bool `json:"email_critical,omitempty"`
	EmailWarning  *bool `json:"email_warning,omitempty"`
	EmailInfo     *bool `json:"email_info,omitempty"`
	InAppEnabled  *bool `json:"in_app_enabled,omitempty"`
}

type MarkReadRequest struct {
	Read bool `json:"read"`
}
