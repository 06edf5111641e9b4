package persistence

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"command-center/domain/model"
	domainrepo "command-center/domain/repository"
)

func TestOAuthTokenRepository_UpsertToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewOAuthTokenRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO oauth_tokens (user_id, platform, access_token, refresh_token, expires_at, scopes, token_type, created_at, updated_at)`)).
		WithArgs("u-1", "github", "gho_abc", "", nil, "repo,read:user", nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	token := &model.OAuthToken{
		UserID:      "u-1",
		Platform:    "github",
		AccessToken: "gho_abc",
		Scopes:      "repo,read:user",
	}
	err = repository.UpsertToken(context.Background(), token)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOAuthTokenRepository_GetToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewOAuthTokenRepository(db)

	createdAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, platform, access_token, refresh_token, expires_at, scopes, token_type, created_at, updated_at FROM oauth_tokens WHERE user_id=$1 AND platform=$2`)).
		WithArgs("u-1", "github").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "platform", "access_token", "refresh_token", "expires_at", "scopes", "token_type", "created_at", "updated_at"}).
			AddRow(int64(7), "u-1", "github", "gho_abc", "", nil, "repo", "bearer", createdAt, createdAt))

	token, err := repository.GetToken(context.Background(), "u-1", "github")
	require.NoError(t, err)
	require.NotNil(t, token)
	require.Equal(t, "gho_abc", token.AccessToken)
	require.NotNil(t, token.TokenType)
	require.Equal(t, "bearer", *token.TokenType)
	require.Nil(t, token.ExpiresAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOAuthTokenRepository_GetToken_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewOAuthTokenRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, platform, access_token, refresh_token, expires_at, scopes, token_type, created_at, updated_at FROM oauth_tokens WHERE user_id=$1 AND platform=$2`)).
		WithArgs("u-1", "github").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "platform", "access_token", "refresh_token", "expires_at", "scopes", "token_type", "created_at", "updated_at"}))

	token, err := repository.GetToken(context.Background(), "u-1", "github")
	require.NoError(t, err)
	require.Nil(t, token)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepository_CreatePending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewIdempotencyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO idempotency_keys (user_id, key, status, created_at) VALUES ($1,$2,$3,$4) RETURNING id`)).
		WithArgs("u-1", "k-123", model.IdempotencyStatusPending, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	rec, err := repository.CreatePending(context.Background(), "u-1", "k-123")
	require.NoError(t, err)
	require.Equal(t, int64(42), rec.ID)
	require.Equal(t, model.IdempotencyStatusPending, rec.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepository_CreatePending_UniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewIdempotencyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO idempotency_keys (user_id, key, status, created_at) VALUES ($1,$2,$3,$4) RETURNING id`)).
		WithArgs("u-1", "k-123", model.IdempotencyStatusPending, sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "idempotency_keys_user_id_key_key"})

	rec, err := repository.CreatePending(context.Background(), "u-1", "k-123")
	require.Nil(t, rec)
	require.ErrorIs(t, err, domainrepo.ErrDuplicateKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepository_CreatePending_StoreError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewIdempotencyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO idempotency_keys (user_id, key, status, created_at) VALUES ($1,$2,$3,$4) RETURNING id`)).
		WithArgs("u-1", "k-123", model.IdempotencyStatusPending, sqlmock.AnyArg()).
		WillReturnError(fmt.Errorf("pq: connection refused"))

	rec, err := repository.CreatePending(context.Background(), "u-1", "k-123")
	require.Nil(t, rec)
	require.Error(t, err)
	require.NotErrorIs(t, err, domainrepo.ErrDuplicateKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepository_Get_Completed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewIdempotencyRepository(db)

	createdAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	completedAt := createdAt.Add(2 * time.Second)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, key, status, remote_ref, created_at, completed_at FROM idempotency_keys WHERE user_id=$1 AND key=$2`)).
		WithArgs("u-1", "k-123").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "key", "status", "remote_ref", "created_at", "completed_at"}).
			AddRow(int64(42), "u-1", "k-123", model.IdempotencyStatusCompleted, "octocat/hello#12", createdAt, completedAt))

	rec, err := repository.Get(context.Background(), "u-1", "k-123")
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, model.IdempotencyStatusCompleted, rec.Status)
	require.NotNil(t, rec.RemoteRef)
	require.Equal(t, "octocat/hello#12", *rec.RemoteRef)
	require.NotNil(t, rec.CompletedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepository_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewIdempotencyRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, key, status, remote_ref, created_at, completed_at FROM idempotency_keys WHERE user_id=$1 AND key=$2`)).
		WithArgs("u-1", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "key", "status", "remote_ref", "created_at", "completed_at"}))

	rec, err := repository.Get(context.Background(), "u-1", "missing")
	require.NoError(t, err)
	require.Nil(t, rec)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepository_Complete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewIdempotencyRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE idempotency_keys SET status=$1, remote_ref=$2, completed_at=$3 WHERE id=$4 AND status=$5`)).
		WithArgs(model.IdempotencyStatusCompleted, "octocat/hello#12", sqlmock.AnyArg(), int64(42), model.IdempotencyStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repository.Complete(context.Background(), 42, "octocat/hello#12")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotencyRepository_DeletePending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewIdempotencyRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM idempotency_keys WHERE id=$1 AND status=$2`)).
		WithArgs(int64(42), model.IdempotencyStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repository.DeletePending(context.Background(), 42)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIntegrationStatusRepository_RecordObservation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewIntegrationStatusRepository(db)

	remaining := 4321
	resetAt := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	syncedAt := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO integration_status (user_id, platform, connected, last_sync_at, rate_remaining, rate_reset_at, updated_at)`)).
		WithArgs("u-1", "github", syncedAt, &remaining, &resetAt, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	obs := &model.RateObservation{Remaining: &remaining, ResetAt: &resetAt}
	err = repository.RecordObservation(context.Background(), "u-1", "github", obs, syncedAt)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIntegrationStatusRepository_RecordObservation_Nil(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewIntegrationStatusRepository(db)

	// A nil observation must not touch the table.
	err = repository.RecordObservation(context.Background(), "u-1", "github", nil, time.Now())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIntegrationStatusRepository_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewIntegrationStatusRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT user_id, platform, connected, last_sync_at, rate_remaining, rate_reset_at, last_error, updated_at FROM integration_status WHERE user_id=$1 AND platform=$2`)).
		WithArgs("u-1", "github").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "platform", "connected", "last_sync_at", "rate_remaining", "rate_reset_at", "last_error", "updated_at"}))

	status, err := repository.Get(context.Background(), "u-1", "github")
	require.NoError(t, err)
	require.Nil(t, status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIntegrationStatusRepository_RecordError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewIntegrationStatusRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO integration_status (user_id, platform, connected, last_error, updated_at)`)).
		WithArgs("u-1", "github", "upstream status 502", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repository.RecordError(context.Background(), "u-1", "github", "upstream status 502")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOAuthTokenRepository_UpsertToken_ExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewOAuthTokenRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO oauth_tokens`)).
		WillReturnError(fmt.Errorf("exec error"))

	err = repository.UpsertToken(context.Background(), &model.OAuthToken{UserID: "u-1", Platform: "github"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
