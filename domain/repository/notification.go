package repository

import (
	"context"

	"command-center/domain/dto"
	"command-center/domain/model"
)

type INotification interface {
	Create(ctx context.Context, n *model.Notification) error
	List(ctx context.Context, userID string, opts dto.NotificationListOptions) ([]model.Notification, error)
	Banners(ctx context.Context, userID string) ([]model.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string, read bool) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID, id string) error
}

type INotificationPreference interface {
	// Get returns nil when no row exists; callers treat that as the defaults.
	Get(ctx context.Context, userID string) (*model.NotificationPreferences, error)
	Upsert(ctx context.Context, p *model.NotificationPreferences) error
}
