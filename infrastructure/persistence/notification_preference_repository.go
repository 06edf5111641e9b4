package persistence

import (
	"context"
	"database/sql"
	"time"

	"command-center/domain/model"
)

type NotificationPreferenceRepository struct{ db *sql.DB }

func NewNotificationPreferenceRepository(db *sql.DB) *NotificationPreferenceRepository {
	return &NotificationPreferenceRepository{db: db}
}

// Get returns nil when the user has no preferences row; callers fall back to
// the implicit defaults.
func (r *NotificationPreferenceRepository) Get(ctx context.Context, userID string) (*model.NotificationPreferences, error) {
	row := r.db.QueryRowContext(ctx, `SELECT user_id, email_critical, email_warning, email_info, in_app_enabled, updated_at FROM notification_preferences WHERE user_id=$1`, userID)
	p := &model.NotificationPreferences{}
	if err := row.Scan(&p.UserID, &p.EmailCritical, &p.EmailWarning, &p.EmailInfo, &p.InAppEnabled, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *NotificationPreferenceRepository) Upsert(ctx context.Context, p *model.NotificationPreferences) error {
	p.UpdatedAt = time.Now().UTC()
	q := `INSERT INTO notification_preferences (user_id, email_critical, email_warning, email_info, in_app_enabled, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6)
		  ON CONFLICT (user_id) DO UPDATE SET
			email_critical=EXCLUDED.email_critical,
			email_warning=EXCLUDED.email_warning,
			email_info=EXCLUDED.email_info,
			in_app_enabled=EXCLUDED.in_app_enabled,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, p.UserID, p.EmailCritical, p.EmailWarning, p.EmailInfo, p.InAppEnabled, p.UpdatedAt)
	return err
}
