package repository

import (
	"bitlab_backend/internal/model"
	"bitlab_backend/pkg/database"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

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

func intPtr(i int) *int { return &i }

func TestTaskRepositoryListNewestFirstWithFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(newTestDB(t))

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, section := range []int{1, 2, 1} {
		task := &model.Task{Title: "t", MaxPoints: 1, SectionNumber: intPtr(section)}
		task.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(ctx, task))
	}

	all, err := repo.List(ctx, TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, uint(3), all[0].ID)
	assert.Equal(t, uint(1), all[2].ID)

	sectionOne, err := repo.List(ctx, TaskFilter{Section: intPtr(1)})
	require.NoError(t, err)
	assert.Len(t, sectionOne, 2)

	recent, err := repo.FindRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, uint(3), recent[0].ID)
	assert.Equal(t, uint(2), recent[1].ID)
}

func TestTaskRepositoryStoresAttachments(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(newTestDB(t))

	task := &model.Task{
		Title: "with files",
		Files: []model.Attachment{{Name: "data.csv", URL: "/uploads/data.csv"}},
	}
	require.NoError(t, repo.Create(ctx, task))

	got, err := repo.FindByID(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, got.Files, 1)
	assert.Equal(t, "data.csv", got.Files[0].Name)

	_, err = repo.FindByID(ctx, 999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestVariantRepositoryReplacesTasks(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tasks := NewTaskRepository(db)
	variants := NewVariantRepository(db)

	var created []model.Task
	for i := 0; i < 3; i++ {
		task := model.Task{Title: "t", MaxPoints: 1}
		require.NoError(t, tasks.Create(ctx, &task))
		created = append(created, task)
	}

	variant := &model.Variant{VariantNumber: 2, Name: "B", Difficulty: model.DifficultyHard, Tasks: created[:2]}
	require.NoError(t, variants.Create(ctx, variant))

	variant.Name = "B2"
	require.NoError(t, variants.Update(ctx, variant, created[2:]))

	got, err := variants.FindByID(ctx, variant.ID)
	require.NoError(t, err)
	assert.Equal(t, "B2", got.Name)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, created[2].ID, got.Tasks[0].ID)

	first := &model.Variant{VariantNumber: 1, Name: "A", Difficulty: model.DifficultyEasy}
	require.NoError(t, variants.Create(ctx, first))

	list, err := variants.List(ctx, VariantFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].VariantNumber)

	hard, err := variants.List(ctx, VariantFilter{Difficulty: model.DifficultyHard})
	require.NoError(t, err)
	require.Len(t, hard, 1)
	assert.Equal(t, "B2", hard[0].Name)
}

func TestActivityRepositoryLatestByUser(t *testing.T) {
	ctx := context.Background()
	repo := NewActivityRepository(newTestDB(t))

	t0 := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	records := []model.UserTaskActivity{
		{UserID: 1, TaskID: 10, Score: 0, CompletedAt: t0},
		{UserID: 1, TaskID: 10, Score: 5, CompletedAt: t0.Add(time.Hour)},
		{UserID: 1, TaskID: 11, Score: 0, CompletedAt: t0.Add(2 * time.Hour)},
		{UserID: 2, TaskID: 10, Score: 5, CompletedAt: t0},
	}
	for i := range records {
		require.NoError(t, repo.Create(ctx, &records[i]))
	}

	latest, err := repo.LatestByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, 5, latest[10].Score)
	assert.Equal(t, 0, latest[11].Score)

	count, err := repo.CountByUserAndTask(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestActivityDefaultsCompletedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewActivityRepository(newTestDB(t))

	activity := &model.UserTaskActivity{UserID: 1, TaskID: 1, Score: 3}
	require.NoError(t, repo.Create(ctx, activity))
	assert.WithinDuration(t, time.Now(), activity.CompletedAt, 5*time.Second)
}

func TestUserRepositoryIsAdminAndCount(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &model.User{Name: "admin", Email: "admin@bitlab.ru", Password: "x", IsAdmin: true}))
	require.NoError(t, repo.Create(ctx, &model.User{Name: "student", Email: "s@bitlab.ru", Password: "x"}))

	isAdmin, err := repo.IsAdmin(ctx, 1)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	students, err := repo.CountStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), students)

	_, err = repo.FindByEmail(ctx, "nobody@bitlab.ru")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestSelectionSessionRepository(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newTestRedis(t)
	repo := NewSelectionSessionRepository(rdb)

	session := &model.SelectionSession{ID: "abc", UserID: 1, TaskIDs: []uint{1, 2}, State: model.SelectionInProgress}
	require.NoError(t, repo.Save(ctx, session, time.Hour))
	assert.True(t, mr.Exists("bitlab:selection:session:abc"))

	updated, err := repo.Update(ctx, "abc", time.Hour, func(s *model.SelectionSession) error {
		s.Index++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Index)

	failed := errors.New("rejected")
	_, err = repo.Update(ctx, "abc", time.Hour, func(s *model.SelectionSession) error {
		s.Index = 99
		return failed
	})
	assert.ErrorIs(t, err, failed)

	got, err := repo.Find(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Index)

	mr.FastForward(2 * time.Hour)
	_, err = repo.Find(ctx, "abc")
	assert.ErrorIs(t, err, redis.Nil)

	_, err = repo.Update(ctx, "missing", time.Hour, func(*model.SelectionSession) error { return nil })
	assert.ErrorIs(t, err, redis.Nil)
}

func TestAICacheRepository(t *testing.T) {
	ctx := context.Background()
	_, rdb := newTestRedis(t)
	repo := NewAICacheRepository(rdb)

	_, found, err := repo.GetExplanation(ctx, 1, "desc")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.SetExplanation(ctx, 1, "desc", "объяснение", time.Hour))

	val, found, err := repo.GetExplanation(ctx, 1, "desc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "объяснение", val)

	_, found, err = repo.GetExplanation(ctx, 1, "changed desc")
	require.NoError(t, err)
	assert.False(t, found)
}
