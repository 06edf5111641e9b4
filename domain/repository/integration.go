package repository

import (
	"context"
	"errors"
	"time"

	"command-center/domain/model"
)

// ErrDuplicateKey is returned by IIdempotency.CreatePending when the
// (user, key) row already exists. Stores map their driver's unique-violation
// error onto it so callers can tell a lost race from a store failure.
var ErrDuplicateKey = errors.New("idempotency key already exists")

type IOAuthToken interface {
	UpsertToken(ctx context.Context, t *model.OAuthToken) error
	GetToken(ctx context.Context, userID, platform string) (*model.OAuthToken, error)
	DeleteToken(ctx context.Context, userID, platform string) error
}

// IIntegrationStatus owns the denormalized connectivity/rate-limit view.
// RecordObservation is the single write path for metadata observed on
// upstream responses.
type IIntegrationStatus interface {
	Get(ctx context.Context, userID, platform string) (*model.IntegrationStatus, error)
	SetConnected(ctx context.Context, userID, platform string, connected bool) error
	RecordObservation(ctx context.Context, userID, platform string, obs *model.RateObservation, syncedAt time.Time) error
	RecordError(ctx context.Context, userID, platform, message string) error
}

type IIdempotency interface {
	Get(ctx context.Context, userID, key string) (*model.IdempotencyRecord, error)
	// CreatePending inserts a pending row for (user, key). A unique violation
	// means a concurrent attempt holds the key and surfaces as ErrDuplicateKey.
	CreatePending(ctx context.Context, userID, key string) (*model.IdempotencyRecord, error)
	// Complete transitions a pending row to completed with the remote ref.
	// Completed rows are never overwritten.
	Complete(ctx context.Context, id int64, remoteRef string) error
	// DeletePending removes a pending row after a failed upstream call so the
	// caller can retry with the same key.
	DeletePending(ctx context.Context, id int64) error
}
