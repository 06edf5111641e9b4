package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	mssql "github.com/microsoft/go-mssqldb"

	"command-center/domain/model"
	"command-center/domain/repository"
)

type IdempotencyRepository struct{ db *sql.DB }

func NewIdempotencyRepository(db *sql.DB) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

func (r *IdempotencyRepository) Get(ctx context.Context, userID, key string) (*model.IdempotencyRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, user_id, key, status, remote_ref, created_at, completed_at FROM idempotency_keys WHERE user_id=$1 AND key=$2`, userID, key)
	rec := &model.IdempotencyRecord{}
	var remoteRef sql.NullString
	var completedAt sql.NullTime
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Key, &rec.Status, &remoteRef, &rec.CreatedAt, &completedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if remoteRef.Valid {
		v := remoteRef.String
		rec.RemoteRef = &v
	}
	if completedAt.Valid {
		rec.CompletedAt = &completedAt.Time
	}
	return rec, nil
}

func (r *IdempotencyRepository) CreatePending(ctx context.Context, userID, key string) (*model.IdempotencyRecord, error) {
	rec := &model.IdempotencyRecord{
		UserID:    userID,
		Key:       key,
		Status:    model.IdempotencyStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	row := r.db.QueryRowContext(ctx, `INSERT INTO idempotency_keys (user_id, key, status, created_at) VALUES ($1,$2,$3,$4) RETURNING id`,
		rec.UserID, rec.Key, rec.Status, rec.CreatedAt)
	if err := row.Scan(&rec.ID); err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("create pending for key %q: %w", key, repository.ErrDuplicateKey)
		}
		return nil, err
	}
	return rec, nil
}

// isDuplicateKey recognizes the unique-violation errors of both core store
// drivers: Postgres 23505, SQL Server 2627/2601.
func isDuplicateKey(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var msErr mssql.Error
	if errors.As(err, &msErr) {
		return msErr.Number == 2627 || msErr.Number == 2601
	}
	return false
}

func (r *IdempotencyRepository) Complete(ctx context.Context, id int64, remoteRef string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE idempotency_keys SET status=$1, remote_ref=$2, completed_at=$3 WHERE id=$4 AND status=$5`,
		model.IdempotencyStatusCompleted, remoteRef, time.Now().UTC(), id, model.IdempotencyStatusPending)
	return err
}

func (r *IdempotencyRepository) DeletePending(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM idempotency_keys WHERE id=$1 AND status=$2`, id, model.IdempotencyStatusPending)
	return err
}
