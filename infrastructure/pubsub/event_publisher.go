package pubsub

import (
	"context"
	"encoding/json"
	"log"

	"cloud.google.com/go/pubsub"

	"command-center/domain/model"
	"command-center/infrastructure/logger"
)

// NewPubSub creates the Pub/Sub client used to fan out landed webhook events
// to downstream consumers.
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return client, nil
}

type IEventPublisher interface {
	PublishWebhookEvent(ctx context.Context, topicName string, event *model.WebhookEvent) (string, error)
	GetSubscription(subID string) (*pubsub.Subscription, error)
}

type EventPublisher struct {
	PubSubClient *pubsub.Client
}

func NewEventPublisher(pubSubClient *pubsub.Client) IEventPublisher {
	return &EventPublisher{
		PubSubClient: pubSubClient,
	}
}

// PublishWebhookEvent sends a landed event downstream. A nil client degrades
// to a no-op so webhook intake never depends on Pub/Sub availability.
func (p *EventPublisher) PublishWebhookEvent(
	ctx context.Context,
	topicName string,
	event *model.WebhookEvent,
) (string, error) {
	if p.PubSubClient == nil {
		logger.GetLogger().Info("PubSub client is nil - skipping webhook event publish")
		return "", nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	msg := &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_type": event.EventType,
			"repo_name":  event.RepoName,
		},
	}

	topic := p.PubSubClient.Topic(topicName)

	// Create the topic if it doesn't exist.
	exists, err := topic.Exists(ctx)
	if err != nil {
		return "", err
	}
	if !exists {
		log.Printf("Topic %v doesn't exist - creating it", topicName)
		_, err = p.PubSubClient.CreateTopic(ctx, topicName)
		if err != nil {
			return "", err
		}
	}

	serverId, err := topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return "", err
	}

	logger.GetLogger().WithField("server ID", serverId).Info("Webhook event published")
	return serverId, nil
}

func (p *EventPublisher) GetSubscription(
	subID string,
) (*pubsub.Subscription, error) {
	logger.GetLogger().WithField("subID", subID).Info("PubSub starting...")

	return p.PubSubClient.Subscription(subID), nil
}
