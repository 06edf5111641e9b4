package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"command-center/domain/dto"
	"command-center/domain/model"
	"command-center/domain/repository"
	"command-center/infrastructure/logger"
	"command-center/infrastructure/realtime"
	"command-center/infrastructure/servicebus"
	"command-center/infrastructure/utils"
)

type INotificationUsecase interface {
	Create(ctx context.Context, userID string, req dto.CreateNotificationRequest) (*model.Notification, error)
	List(ctx context.Context, userID string, opts dto.NotificationListOptions) ([]model.Notification, error)
	Banners(ctx context.Context, userID string) ([]model.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string, read bool) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID, id string) error
	GetPreferences(ctx context.Context, userID string) (*model.NotificationPreferences, error)
	UpdatePreferences(ctx context.Context, userID string, req dto.UpdatePreferencesRequest) (*model.NotificationPreferences, error)
}

type notificationUsecase struct {
	notificationRepo repository.INotification
	preferenceRepo   repository.INotificationPreference
	emailQueue       servicebus.IEmailQueue
	hub              *realtime.Hub
}

func NewNotificationUsecase(
	notificationRepo repository.INotification,
	preferenceRepo repository.INotificationPreference,
	emailQueue servicebus.IEmailQueue,
	hub *realtime.Hub,
) INotificationUsecase {
	return &notificationUsecase{
		notificationRepo: notificationRepo,
		preferenceRepo:   preferenceRepo,
		emailQueue:       emailQueue,
		hub:              hub,
	}
}

func validSeverity(s string) bool {
	switch s {
	case model.SeverityInfo, model.SeveritySuccess, model.SeverityWarning, model.SeverityError, model.SeverityCritical:
		return true
	}
	return false
}

// emailWanted maps a severity onto the matching preference toggle.
func emailWanted(prefs *model.NotificationPreferences, severity string) bool {
	switch severity {
	case model.SeverityCritical:
		return prefs.EmailCritical
	case model.SeverityError, model.SeverityWarning:
		return prefs.EmailWarning
	default:
		return prefs.EmailInfo
	}
}

// Create persists the notification, then fans out best-effort: an SSE push
// when in-app delivery is enabled and an email job when the severity's
// email toggle is on. Fan-out failures never fail the create.
func (u *notificationUsecase) Create(ctx context.Context, userID string, req dto.CreateNotificationRequest) (*model.Notification, error) {
	severity := req.Severity
	if severity == "" {
		severity = model.SeverityInfo
	}
	if !validSeverity(severity) {
		return nil, fmt.Errorf("invalid severity %q", severity)
	}

	n := &model.Notification{
		ID:         uuid.NewString(),
		UserID:     userID,
		Title:      req.Title,
		Body:       req.Body,
		Severity:   severity,
		SourceRef:  req.SourceRef,
		ActionURL:  req.ActionURL,
		Persistent: req.Persistent,
		CreatedAt:  utils.GetCurrentTime(),
	}
	if err := u.notificationRepo.Create(ctx, n); err != nil {
		return nil, err
	}

	prefs, err := u.preferenceRepo.Get(ctx, userID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to load notification preferences, using defaults")
		prefs = nil
	}
	if prefs == nil {
		prefs = model.DefaultNotificationPreferences(userID)
	}

	if prefs.InAppEnabled && u.hub != nil {
		u.hub.BroadcastNotification(n)
	}
	if emailWanted(prefs, severity) && u.emailQueue != nil {
		if err := u.emailQueue.EnqueueNotificationEmail(ctx, n); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed to enqueue notification email")
		}
	}
	return n, nil
}

func (u *notificationUsecase) List(ctx context.Context, userID string, opts dto.NotificationListOptions) ([]model.Notification, error) {
	return u.notificationRepo.List(ctx, userID, opts)
}

func (u *notificationUsecase) Banners(ctx context.Context, userID string) ([]model.Notification, error) {
	return u.notificationRepo.Banners(ctx, userID)
}

func (u *notificationUsecase) CountUnread(ctx context.Context, userID string) (int, error) {
	return u.notificationRepo.CountUnread(ctx, userID)
}

func (u *notificationUsecase) MarkRead(ctx context.Context, userID, id string, read bool) error {
	return u.notificationRepo.MarkRead(ctx, userID, id, read)
}

func (u *notificationUsecase) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return u.notificationRepo.MarkAllRead(ctx, userID)
}

func (u *notificationUsecase) Delete(ctx context.Context, userID, id string) error {
	return u.notificationRepo.Delete(ctx, userID, id)
}

// GetPreferences returns the stored row or the implicit defaults. Reading
// never materializes a row.
func (u *notificationUsecase) GetPreferences(ctx context.Context, userID string) (*model.NotificationPreferences, error) {
	prefs, err := u.preferenceRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		return model.DefaultNotificationPreferences(userID), nil
	}
	return prefs, nil
}

// UpdatePreferences applies a partial update on top of the current effective
// preferences. Omitted fields keep their value.
func (u *notificationUsecase) UpdatePreferences(ctx context.Context, userID string, req dto.UpdatePreferencesRequest) (*model.NotificationPreferences, error) {
	prefs, err := u.GetPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.EmailCritical != nil {
		prefs.EmailCritical = *req.EmailCritical
	}
	if req.EmailWarning != nil {
		prefs.EmailWarning = *req.EmailWarning
	}
	if req.EmailInfo != nil {
		prefs.EmailInfo = *req.EmailInfo
	}
	if req.InAppEnabled != nil {
		prefs.InAppEnabled = *req.InAppEnabled
	}
	if err := u.preferenceRepo.Upsert(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}
