package persistence

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

// NewPostgreSQLDB pings the configured server before returning, so the
// contract is all we can pin here: no handle without an error, and a returned
// handle is already verified reachable.
func TestNewPostgreSQLDB_Contract(t *testing.T) {
	db, err := NewPostgreSQLDB()
	if err != nil {
		require.Nil(t, db)
		return
	}
	require.NotNil(t, db)
	defer db.Close()
	require.NoError(t, db.Ping())
}

func TestEnsureUserSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS public.user`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, EnsureUserSchema(db))
	require.NoError(t, mock.ExpectationsWereMet())
}
