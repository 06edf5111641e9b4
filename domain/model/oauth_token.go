package model

import "time"

// OAuthToken stores platform OAuth credentials per user.
// At most one live row per (user_id, platform); writes are upserts.
type OAuthToken struct {
	ID           int64      `json:"id"`
	UserID       string     `json:"user_id"`
	Platform     string     `json:"platform"`
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Scopes       string     `json:"scopes"`
	TokenType    *string    `json:"token_type,omitempty"` // bearer
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IntegrationStatus is a denormalized per-user connectivity view. It is never
// authoritative on its own: connectivity is determined by token presence.
type IntegrationStatus struct {
	UserID        string     `json:"user_id"`
	Platform      string     `json:"platform"`
	Connected     bool       `json:"connected"`
	LastSyncAt    *time.Time `json:"last_sync_at,omitempty"`
	RateRemaining *int       `json:"rate_remaining,omitempty"`
	RateResetAt   *time.Time `json:"rate_reset_at,omitempty"`
	LastError     *string    `json:"last_error,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// RateObservation carries rate-limit and cache-validation metadata observed on
// a single upstream response.
type RateObservation struct {
	Remaining *int
	ResetAt   *time.Time
	ETag      string
}
