package postgres

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rezzy/server/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with the service schema.
// A single connection keeps the memory database shared and serializes writers.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

// newConcurrentTestDB opens a file-backed SQLite database with a pool of
// connections, so transactions started from different goroutines overlap and
// writers wait on each other through the busy timeout.
func newConcurrentTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "usage.db") + "?_journal_mode=WAL&_busy_timeout=10000&_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(8)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id string, plan model.PlanTag) *model.User {
	t.Helper()

	u := &model.User{
		ID:       id,
		Email:    id + "@example.com",
		Plan:     plan,
		IsActive: true,
	}
	require.NoError(t, NewUserAdapter(db).Create(context.Background(), u))
	return u
}
