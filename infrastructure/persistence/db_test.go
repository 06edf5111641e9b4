package persistence

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"command-center/domain/model"
)

// NewRepositories dials the configured MySQL server, so here we only pin its
// contract: a failed open yields no handle, a successful one yields a live DB.
func TestNewRepositories_Contract(t *testing.T) {
	db, err := NewRepositories()
	if err != nil {
		require.Nil(t, db)
		return
	}
	require.NotNil(t, db)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	require.NoError(t, sqlDB.Ping())
}

func TestContentModels_TableNames(t *testing.T) {
	db, _, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	session := gormDB.Session(&gorm.Session{DryRun: true})
	for value, table := range map[interface{}]string{
		&model.Idea{}:          "ideas",
		&model.ContentDraft{}:  "content_drafts",
		&model.ScheduledPost{}: "scheduled_posts",
		&model.Asset{}:         "assets",
	} {
		stmt := session.Model(value).Find(value).Statement
		require.Equal(t, table, stmt.Table)
	}
}
