package usecase_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"cloud.google.com/go/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"command-center/domain/model"
	"command-center/usecase"
)

type MockWebhookEventRepo struct {
	mock.Mock
}

func (m *MockWebhookEventRepo) Insert(ctx context.Context, e *model.WebhookEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockWebhookEventRepo) ListByRepo(ctx context.Context, repoName string, limit int) ([]model.WebhookEvent, error) {
	args := m.Called(ctx, repoName, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WebhookEvent), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishWebhookEvent(ctx context.Context, topicName string, event *model.WebhookEvent) (string, error) {
	args := m.Called(ctx, topicName, event)
	return args.String(0), args.Error(1)
}

func (m *MockEventPublisher) GetSubscription(subID string) (*pubsub.Subscription, error) {
	args := m.Called(subID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pubsub.Subscription), args.Error(1)
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func TestIngest_ValidSignatureLandsOneEvent(t *testing.T) {
	events := new(MockWebhookEventRepo)
	publisher := new(MockEventPublisher)
	body := []byte(`{"action":"opened","repository":{"full_name":"octocat/hello"}}`)

	events.On("Insert", mock.Anything, mock.MatchedBy(func(e *model.WebhookEvent) bool {
		return e.RepoName == "octocat/hello" && e.EventType == "issues" && e.DeliveryID == "d-1"
	})).Return(nil)
	publisher.On("PublishWebhookEvent", mock.Anything, "webhook-events", mock.Anything).Return("msg-1", nil)

	uc := usecase.NewWebhookUsecase(events, publisher, "topsecret")
	e, err := uc.Ingest(context.Background(), sign("topsecret", body), "issues", "d-1", body)

	require.NoError(t, err)
	assert.Equal(t, "octocat/hello", e.RepoName)
	assert.False(t, e.ReceivedAt.IsZero())
	events.AssertNumberOfCalls(t, "Insert", 1)
}

func TestIngest_BadSignaturePersistsNothing(t *testing.T) {
	events := new(MockWebhookEventRepo)
	publisher := new(MockEventPublisher)
	body := []byte(`{"action":"opened"}`)

	uc := usecase.NewWebhookUsecase(events, publisher, "topsecret")
	_, err := uc.Ingest(context.Background(), sign("wrongsecret", body), "issues", "d-1", body)

	assert.ErrorIs(t, err, usecase.ErrInvalidSignature)
	events.AssertNotCalled(t, "Insert")
	publisher.AssertNotCalled(t, "PublishWebhookEvent")
}

func TestIngest_MissingPrefixRejected(t *testing.T) {
	events := new(MockWebhookEventRepo)
	publisher := new(MockEventPublisher)
	body := []byte(`{}`)

	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write(body)
	bare := hex.EncodeToString(mac.Sum(nil))

	uc := usecase.NewWebhookUsecase(events, publisher, "topsecret")
	_, err := uc.Ingest(context.Background(), bare, "push", "d-2", body)

	assert.ErrorIs(t, err, usecase.ErrInvalidSignature)
}

func TestIngest_PublishFailureDoesNotFailIngest(t *testing.T) {
	events := new(MockWebhookEventRepo)
	publisher := new(MockEventPublisher)
	body := []byte(`{"repository":{"full_name":"octocat/hello"}}`)

	events.On("Insert", mock.Anything, mock.Anything).Return(nil)
	publisher.On("PublishWebhookEvent", mock.Anything, "webhook-events", mock.Anything).Return("", assert.AnError)

	uc := usecase.NewWebhookUsecase(events, publisher, "topsecret")
	e, err := uc.Ingest(context.Background(), sign("topsecret", body), "push", "d-3", body)

	require.NoError(t, err)
	assert.NotNil(t, e)
}
