package persistence

import (
	"context"
	"database/sql"
	"time"

	"command-center/domain/model"
)

// IntegrationStatusRepository owns the denormalized connectivity view.
// All rate-limit writes funnel through RecordObservation.
type IntegrationStatusRepository struct{ db *sql.DB }

func NewIntegrationStatusRepository(db *sql.DB) *IntegrationStatusRepository {
	return &IntegrationStatusRepository{db: db}
}

func (r *IntegrationStatusRepository) Get(ctx context.Context, userID, platform string) (*model.IntegrationStatus, error) {
	row := r.db.QueryRowContext(ctx, `SELECT user_id, platform, connected, last_sync_at, rate_remaining, rate_reset_at, last_error, updated_at FROM integration_status WHERE user_id=$1 AND platform=$2`, userID, platform)
	st := &model.IntegrationStatus{}
	var lastSync, rateReset sql.NullTime
	var remaining sql.NullInt64
	var lastError sql.NullString
	if err := row.Scan(&st.UserID, &st.Platform, &st.Connected, &lastSync, &remaining, &rateReset, &lastError, &st.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if lastSync.Valid {
		st.LastSyncAt = &lastSync.Time
	}
	if remaining.Valid {
		v := int(remaining.Int64)
		st.RateRemaining = &v
	}
	if rateReset.Valid {
		st.RateResetAt = &rateReset.Time
	}
	if lastError.Valid {
		v := lastError.String
		st.LastError = &v
	}
	return st, nil
}

func (r *IntegrationStatusRepository) SetConnected(ctx context.Context, userID, platform string, connected bool) error {
	q := `INSERT INTO integration_status (user_id, platform, connected, last_error, updated_at)
		  VALUES ($1,$2,$3,NULL,$4)
		  ON CONFLICT (user_id, platform) DO UPDATE SET
			connected=EXCLUDED.connected,
			last_error=NULL,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, userID, platform, connected, time.Now().UTC())
	return err
}

func (r *IntegrationStatusRepository) RecordObservation(ctx context.Context, userID, platform string, obs *model.RateObservation, syncedAt time.Time) error {
	if obs == nil {
		return nil
	}
	q := `INSERT INTO integration_status (user_id, platform, connected, last_sync_at, rate_remaining, rate_reset_at, updated_at)
		  VALUES ($1,$2,TRUE,$3,$4,$5,$6)
		  ON CONFLICT (user_id, platform) DO UPDATE SET
			last_sync_at=EXCLUDED.last_sync_at,
			rate_remaining=COALESCE(EXCLUDED.rate_remaining, integration_status.rate_remaining),
			rate_reset_at=COALESCE(EXCLUDED.rate_reset_at, integration_status.rate_reset_at),
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, userID, platform, syncedAt, obs.Remaining, obs.ResetAt, time.Now().UTC())
	return err
}

func (r *IntegrationStatusRepository) RecordError(ctx context.Context, userID, platform, message string) error {
	q := `INSERT INTO integration_status (user_id, platform, connected, last_error, updated_at)
		  VALUES ($1,$2,FALSE,$3,$4)
		  ON CONFLICT (user_id, platform) DO UPDATE SET
			last_error=EXCLUDED.last_error,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, userID, platform, message, time.Now().UTC())
	return err
}
