package service

import (
	"bitlab_backend/internal/model"
	"bitlab_backend/internal/repository"
	"bitlab_backend/pkg/database"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func intPtr(i int) *int { return &i }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, rdb
}

// createTasks 按顺序创建题目，created_at 逐个递增一小时
func createTasks(t *testing.T, db *gorm.DB, tasks ...model.Task) []model.Task {
	t.Helper()
	repo := repository.NewTaskRepository(db)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := range tasks {
		tasks[i].CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(context.Background(), &tasks[i]))
	}
	return tasks
}

func createUser(t *testing.T, db *gorm.DB, email string, admin bool) *model.User {
	t.Helper()
	user := &model.User{Name: "Test", Email: email, Password: "x", IsAdmin: admin}
	require.NoError(t, repository.NewUserRepository(db).Create(context.Background(), user))
	return user
}
