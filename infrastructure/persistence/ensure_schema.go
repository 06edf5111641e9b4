package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"command-center/infrastructure/logger"
)

// EnsureUserSchema creates the account table used by register and login.
func EnsureUserSchema(db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS public.user (
        id SERIAL PRIMARY KEY,
        name TEXT NOT NULL,
        user_name TEXT NOT NULL UNIQUE,
        password TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("ensure user schema: %w", err)
	}
	return nil
}

// EnsureIntegrationSchema creates the token, status and idempotency tables.
// Safe to call at startup.
func EnsureIntegrationSchema(db *sql.DB) error {
	ddls := []string{
		`CREATE TABLE IF NOT EXISTS oauth_tokens (
        id BIGSERIAL PRIMARY KEY,
        user_id TEXT NOT NULL,
        platform TEXT NOT NULL,
        access_token TEXT NOT NULL,
        refresh_token TEXT NOT NULL DEFAULT '',
        expires_at TIMESTAMPTZ,
        scopes TEXT NOT NULL DEFAULT '',
        token_type TEXT,
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL,
        UNIQUE (user_id, platform)
    )`,
		`CREATE TABLE IF NOT EXISTS integration_status (
        user_id TEXT NOT NULL,
        platform TEXT NOT NULL,
        connected BOOLEAN NOT NULL DEFAULT FALSE,
        last_sync_at TIMESTAMPTZ,
        rate_remaining INT,
        rate_reset_at TIMESTAMPTZ,
        last_error TEXT,
        updated_at TIMESTAMPTZ NOT NULL,
        PRIMARY KEY (user_id, platform)
    )`,
		`CREATE TABLE IF NOT EXISTS idempotency_keys (
        id BIGSERIAL PRIMARY KEY,
        user_id TEXT NOT NULL,
        key TEXT NOT NULL,
        status TEXT NOT NULL,
        remote_ref TEXT,
        created_at TIMESTAMPTZ NOT NULL,
        completed_at TIMESTAMPTZ,
        UNIQUE (user_id, key)
    )`,
	}
	for _, ddl := range ddls {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("ensure integration schema: %w", err)
		}
	}
	return nil
}

// EnsureNotificationSchema creates the notification tables and indexes.
func EnsureNotificationSchema(db *sql.DB) error {
	ddls := []string{
		`CREATE TABLE IF NOT EXISTS notifications (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        title TEXT NOT NULL,
        body TEXT,
        severity TEXT NOT NULL DEFAULT 'info',
        source_ref TEXT,
        action_url TEXT,
        persistent BOOLEAN NOT NULL DEFAULT FALSE,
        read_at TIMESTAMPTZ,
        created_at TIMESTAMPTZ NOT NULL
    )`,
		`CREATE TABLE IF NOT EXISTS notification_preferences (
        user_id TEXT PRIMARY KEY,
        email_critical BOOLEAN NOT NULL DEFAULT TRUE,
        email_warning BOOLEAN NOT NULL DEFAULT FALSE,
        email_info BOOLEAN NOT NULL DEFAULT FALSE,
        in_app_enabled BOOLEAN NOT NULL DEFAULT TRUE,
        updated_at TIMESTAMPTZ NOT NULL
    )`,
	}
	for _, ddl := range ddls {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("ensure notification schema: %w", err)
		}
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at DESC)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_notifications_user_created")
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_notifications_unread ON notifications(user_id) WHERE read_at IS NULL`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_notifications_unread")
	}
	// action_url landed after the first deployments; add it when missing.
	exists, err := columnExists(context.Background(), db, "notifications", "action_url")
	if err != nil {
		return err
	}
	if !exists {
		if _, err := db.Exec(`ALTER TABLE notifications ADD COLUMN action_url TEXT`); err != nil {
			return fmt.Errorf("adding column notifications.action_url failed: %w", err)
		}
	}
	return nil
}

// EnsureWorkspaceSchema creates research note and agent builder tables.
func EnsureWorkspaceSchema(db *sql.DB) error {
	ddls := []string{
		`CREATE TABLE IF NOT EXISTS research_notes (
        id BIGSERIAL PRIMARY KEY,
        user_id TEXT NOT NULL,
        title TEXT NOT NULL,
        content TEXT NOT NULL DEFAULT '',
        tags TEXT NOT NULL DEFAULT '',
        summary TEXT,
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`,
		`CREATE TABLE IF NOT EXISTS agents (
        id BIGSERIAL PRIMARY KEY,
        user_id TEXT NOT NULL,
        name TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        model TEXT NOT NULL DEFAULT '',
        system_prompt TEXT NOT NULL DEFAULT '',
        skill_manifest JSONB,
        enabled BOOLEAN NOT NULL DEFAULT TRUE,
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`,
		`CREATE TABLE IF NOT EXISTS agent_memory (
        id BIGSERIAL PRIMARY KEY,
        agent_id BIGINT NOT NULL,
        user_id TEXT NOT NULL,
        key TEXT NOT NULL,
        value TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL,
        UNIQUE (agent_id, key)
    )`,
		`CREATE TABLE IF NOT EXISTS approval_policies (
        agent_id BIGINT PRIMARY KEY,
        user_id TEXT NOT NULL,
        require_approval BOOLEAN NOT NULL DEFAULT TRUE,
        auto_approve_read BOOLEAN NOT NULL DEFAULT FALSE,
        updated_at TIMESTAMPTZ NOT NULL
    )`,
		`CREATE TABLE IF NOT EXISTS agent_test_logs (
        id BIGSERIAL PRIMARY KEY,
        agent_id BIGINT NOT NULL,
        user_id TEXT NOT NULL,
        input TEXT NOT NULL,
        output TEXT NOT NULL,
        passed BOOLEAN NOT NULL,
        created_at TIMESTAMPTZ NOT NULL
    )`,
	}
	for _, ddl := range ddls {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("ensure workspace schema: %w", err)
		}
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_research_notes_user ON research_notes(user_id, updated_at DESC)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_research_notes_user")
	}
	return nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	row := db.QueryRowContext(ctx, `SELECT 1 FROM information_schema.columns WHERE table_name=$1 AND column_name=$2`, table, column)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
