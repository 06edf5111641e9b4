package usecase

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"

	"command-center/domain/model"
	"command-center/domain/repository"
	"command-center/infrastructure/logger"
	"command-center/infrastructure/pubsub"
	"command-center/infrastructure/utils"
)

// ErrInvalidSignature means the payload signature did not verify. Nothing is
// persisted in that case.
var ErrInvalidSignature = errors.New("webhook signature mismatch")

const webhookTopic = "webhook-events"

type IWebhookUsecase interface {
	// Ingest verifies the signature over the raw body and lands exactly one
	// event document. Publishing to Pub/Sub is best-effort.
	Ingest(ctx context.Context, signature, eventType, deliveryID string, body []byte) (*model.WebhookEvent, error)
	ListByRepo(ctx context.Context, repoName string, limit int) ([]model.WebhookEvent, error)
}

type webhookUsecase struct {
	eventRepo repository.IWebhookEvent
	publisher pubsub.IEventPublisher
	secret    []byte
}

func NewWebhookUsecase(eventRepo repository.IWebhookEvent, publisher pubsub.IEventPublisher, secret string) IWebhookUsecase {
	return &webhookUsecase{eventRepo: eventRepo, publisher: publisher, secret: []byte(secret)}
}

// verifySignature checks the sha256=<hex> header against an HMAC-SHA256 over
// the raw body. Constant-time comparison.
func (u *webhookUsecase) verifySignature(signature string, body []byte) bool {
	digest, ok := strings.CutPrefix(signature, "sha256=")
	if !ok {
		return false
	}
	mac := hmac.New(sha256.New, u.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(digest), []byte(expected))
}

func (u *webhookUsecase) Ingest(ctx context.Context, signature, eventType, deliveryID string, body []byte) (*model.WebhookEvent, error) {
	if !u.verifySignature(signature, body) {
		return nil, ErrInvalidSignature
	}

	e := &model.WebhookEvent{
		RepoName:   extractRepoName(body),
		EventType:  eventType,
		DeliveryID: deliveryID,
		Payload:    json.RawMessage(body),
		ReceivedAt: utils.GetCurrentTime(),
	}
	if err := u.eventRepo.Insert(ctx, e); err != nil {
		return nil, err
	}

	if u.publisher != nil {
		if _, err := u.publisher.PublishWebhookEvent(ctx, webhookTopic, e); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed to publish webhook event")
		}
	}
	return e, nil
}

func (u *webhookUsecase) ListByRepo(ctx context.Context, repoName string, limit int) ([]model.WebhookEvent, error) {
	return u.eventRepo.ListByRepo(ctx, repoName, limit)
}

// extractRepoName pulls repository.full_name out of the payload. An event
// without one lands with an empty repo name.
func extractRepoName(body []byte) string {
	var payload struct {
		Repository struct {
			FullName string `json:"full_name"`
		} `json:"repository"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Repository.FullName
}
