package persistence

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"command-center/domain/model"
	"command-center/infrastructure/logger"
)

type WebhookEventRepository struct {
	mongoDb *mongo.Client
}

func NewWebhookEventRepository(db *mongo.Client) *WebhookEventRepository {
	return &WebhookEventRepository{mongoDb: db}
}

func (r *WebhookEventRepository) collection() *mongo.Collection {
	return r.mongoDb.Database("command_center").Collection("webhook_events")
}

func (r *WebhookEventRepository) Insert(ctx context.Context, e *model.WebhookEvent) error {
	if e.ID == "" {
		e.ID = bson.NewObjectID().Hex()
	}
	if _, err := r.collection().InsertOne(ctx, e); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while landing webhook event")
		return fmt.Errorf("insert webhook event: %w", err)
	}
	return nil
}

func (r *WebhookEventRepository) ListByRepo(ctx context.Context, repoName string, limit int) ([]model.WebhookEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "received_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.collection().Find(ctx, bson.D{{Key: "repo_name", Value: repoName}}, opts)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while fetching webhook events")
		return nil, err
	}
	defer func(cursor *mongo.Cursor, ctx context.Context) {
		err := cursor.Close(ctx)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while closing cursor")
		}
	}(cursor, ctx)

	events := make([]model.WebhookEvent, 0)
	for cursor.Next(ctx) {
		var event model.WebhookEvent
		if err := cursor.Decode(&event); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while decoding webhook event")
			continue
		}
		events = append(events, event)
	}
	return events, cursor.Err()
}
