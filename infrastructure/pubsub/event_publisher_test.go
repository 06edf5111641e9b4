package pubsub_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"command-center/domain/model"
	"command-center/infrastructure/pubsub"
)

// TestNewEventPublisher tests construction and the nil-client no-op path.
func TestNewEventPublisher(t *testing.T) {
	publisher := pubsub.NewEventPublisher(nil)
	assert.NotNil(t, publisher)

	id, err := publisher.PublishWebhookEvent(context.Background(), "webhook-events", &model.WebhookEvent{
		RepoName:  "octocat/hello",
		EventType: "push",
	})
	assert.NoError(t, err)
	assert.Empty(t, id)
}
