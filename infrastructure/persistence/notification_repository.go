package persistence

import (
	"context"
	"database/sql"
	"time"

	"command-center/domain/dto"
	"command-center/domain/model"
)

const notificationColumns = `id, user_id, title, body, severity, source_ref, action_url, persistent, read_at, created_at`

type NotificationRepository struct{ db *sql.DB }

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	q := `INSERT INTO notifications (` + notificationColumns + `) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
	_, err := r.db.ExecContext(ctx, q, n.ID, n.UserID, n.Title, n.Body, n.Severity, n.SourceRef, n.ActionURL, n.Persistent, n.ReadAt, n.CreatedAt)
	return err
}

func (r *NotificationRepository) List(ctx context.Context, userID string, opts dto.NotificationListOptions) ([]model.Notification, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	q := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id=$1`
	if opts.UnreadOnly {
		q += ` AND read_at IS NULL`
	}
	if opts.PersistentOnly {
		q += ` AND persistent`
	}
	q += ` ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (r *NotificationRepository) Banners(ctx context.Context, userID string) ([]model.Notification, error) {
	q := `SELECT ` + notificationColumns + ` FROM notifications
		  WHERE user_id=$1 AND persistent AND read_at IS NULL AND severity IN ('critical','error','warning')
		  ORDER BY created_at DESC LIMIT 100`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM notifications WHERE user_id=$1 AND read_at IS NULL`, userID)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id string, read bool) error {
	var readAt interface{}
	if read {
		readAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read_at=$1 WHERE user_id=$2 AND id=$3`, readAt, userID, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notifications SET read_at=$1 WHERE user_id=$2 AND read_at IS NULL`, time.Now().UTC(), userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *NotificationRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE user_id=$1 AND id=$2`, userID, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanNotifications(rows *sql.Rows) ([]model.Notification, error) {
	out := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		var body, sourceRef, actionURL sql.NullString
		var readAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &body, &n.Severity, &sourceRef, &actionURL, &n.Persistent, &readAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		if body.Valid {
			v := body.String
			n.Body = &v
		}
		if sourceRef.Valid {
			v := sourceRef.String
			n.SourceRef = &v
		}
		if actionURL.Valid {
			v := actionURL.String
			n.ActionURL = &v
		}
		if readAt.Valid {
			n.ReadAt = &readAt.Time
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
