package service

import (
	"bitlab_backend/internal/model"
	"bitlab_backend/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func act(taskID uint, score int, at time.Time) model.UserTaskActivity {
	return model.UserTaskActivity{TaskID: taskID, Score: score, CompletedAt: at}
}

func TestBuildProfileStatsEmpty(t *testing.T) {
	stats := BuildProfileStats(nil, time.Now(), time.UTC)

	assert.NotNil(t, stats.MonthlyStats)
	assert.Empty(t, stats.MonthlyStats)
	assert.Equal(t, [7]int{}, stats.DailyStats)
	assert.Equal(t, 0, stats.TotalUniqueTasks)
	assert.Equal(t, 0, stats.TotalAttempts)
	assert.Equal(t, 0.0, stats.SuccessRate)
}

func TestBuildProfileStatsSuccessRateRounded(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	activities := []model.UserTaskActivity{
		act(1, 10, at),
		act(2, 0, at),
		act(3, 5, at),
	}

	stats := BuildProfileStats(activities, at, time.UTC)

	assert.Equal(t, 66.67, stats.SuccessRate)
	assert.Equal(t, 3, stats.TotalUniqueTasks)
	assert.Equal(t, 2, stats.CompletedTasks)
	assert.Equal(t, 3, stats.TotalAttempts)
	require.Len(t, stats.MonthlyStats, 1)
	assert.Equal(t, "2025-03", stats.MonthlyStats[0].Month)
	assert.Equal(t, 5.0, stats.MonthlyStats[0].AverageScore)
}

func TestBuildProfileStatsAllSolved(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	activities := []model.UserTaskActivity{
		act(1, 10, at),
		act(2, 1, at),
		act(1, 4, at.Add(time.Hour)),
	}

	stats := BuildProfileStats(activities, at.Add(2*time.Hour), time.UTC)

	assert.Equal(t, 100.0, stats.SuccessRate)
	assert.Equal(t, 2, stats.TotalUniqueTasks)
	assert.Equal(t, 2, stats.CompletedTasks)
	assert.Equal(t, 3, stats.TotalAttempts)
}

func TestBuildProfileStatsMonthsAscending(t *testing.T) {
	activities := []model.UserTaskActivity{
		act(1, 10, time.Date(2024, 12, 30, 8, 0, 0, 0, time.UTC)),
		act(1, 0, time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC)),
		act(2, 10, time.Date(2025, 1, 20, 8, 0, 0, 0, time.UTC)),
		act(2, 4, time.Date(2025, 2, 2, 8, 0, 0, 0, time.UTC)),
	}

	stats := BuildProfileStats(activities, time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), time.UTC)

	assert.Equal(t, []model.MonthlyStat{
		{Month: "2024-12", AverageScore: 10},
		{Month: "2025-01", AverageScore: 5},
		{Month: "2025-02", AverageScore: 4},
	}, stats.MonthlyStats)
	assert.Equal(t, 2, stats.TotalUniqueTasks)
	assert.Equal(t, 2, stats.CompletedTasks)
	assert.Equal(t, 75.0, stats.SuccessRate)
}

func TestBuildProfileStatsCurrentWeekStartsSunday(t *testing.T) {
	// 2025-03-12 是周三，本周从 2025-03-09（周日）开始
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC)
	activities := []model.UserTaskActivity{
		act(1, 5, time.Date(2025, 3, 8, 23, 59, 0, 0, time.UTC)), // 上周六
		act(1, 5, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)),
		act(2, 10, time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)),
		act(2, 10, time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)),
		act(3, 0, time.Date(2025, 3, 12, 11, 0, 0, 0, time.UTC)),
		act(3, 5, time.Date(2025, 3, 15, 23, 0, 0, 0, time.UTC)),
		act(3, 5, time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)), // 下周日
	}

	stats := BuildProfileStats(activities, now, time.UTC)

	assert.Equal(t, [7]int{1, 0, 0, 2, 0, 0, 1}, stats.DailyStats)
}

func TestBuildProfileStatsUsesLocation(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	// UTC 1 月 31 日 22:30 = 莫斯科 2 月 1 日 01:30（周六）
	at := time.Date(2025, 1, 31, 22, 30, 0, 0, time.UTC)
	now := time.Date(2025, 2, 1, 12, 0, 0, 0, msk)

	stats := BuildProfileStats([]model.UserTaskActivity{act(1, 10, at)}, now, msk)

	require.Len(t, stats.MonthlyStats, 1)
	assert.Equal(t, "2025-02", stats.MonthlyStats[0].Month)
	assert.Equal(t, [7]int{0, 0, 0, 0, 0, 0, 1}, stats.DailyStats)
}

func TestBuildSectionStats(t *testing.T) {
	tasks := []model.Task{
		{SectionNumber: intPtr(1)},
		{SectionNumber: intPtr(1)},
		{SectionNumber: intPtr(2)},
		{},
	}
	for i := range tasks {
		tasks[i].ID = uint(i + 1)
	}
	activities := []model.UserTaskActivity{
		{TaskID: 1, Score: 10},
		{TaskID: 1, Score: 0},
		{TaskID: 2, Score: 5},
		{TaskID: 4, Score: 0},
		{TaskID: 99, Score: 10},
	}

	got := BuildSectionStats(tasks, activities)

	require.Len(t, got, 3)
	assert.Equal(t, 0, got[0].Section)
	assert.Equal(t, 0.0, got[0].SuccessRate)
	assert.Equal(t, 1, got[0].Attempts)
	assert.Equal(t, 1, got[1].Section)
	assert.InDelta(t, 66.666, got[1].SuccessRate, 0.01)
	assert.Equal(t, 3, got[1].Attempts)
	assert.Equal(t, 2, got[2].Section)
	assert.Equal(t, 0.0, got[2].SuccessRate)
	assert.Equal(t, 0, got[2].Attempts)
}

func TestStatsServiceUserAndAdmin(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	student := createUser(t, db, "s@example.com", false)
	createUser(t, db, "other@example.com", false)
	createUser(t, db, "admin@example.com", true)
	tasks := createTasks(t, db,
		model.Task{Title: "a", MaxPoints: 10, SectionNumber: intPtr(1), Answer: strPtr("a")},
		model.Task{Title: "b", MaxPoints: 5, SectionNumber: intPtr(2), Answer: strPtr("b")},
	)

	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	activity := NewActivityService(taskRepo, activityRepo)
	_, err := activity.SubmitAnswer(ctx, student.ID, tasks[0].ID, "a", SourceTasks)
	require.NoError(t, err)
	_, err = activity.SubmitAnswer(ctx, student.ID, tasks[1].ID, "x", SourceTasks)
	require.NoError(t, err)

	variantRepo := repository.NewVariantRepository(db)
	require.NoError(t, variantRepo.Create(ctx, &model.Variant{VariantNumber: 1, Name: "v", Difficulty: model.DifficultyEasy}))

	svc := NewStatsService(repository.NewUserRepository(db), taskRepo, variantRepo, activityRepo, time.UTC)

	stats, err := svc.GetUserStats(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalAttempts)
	assert.Equal(t, 50.0, stats.SuccessRate)

	overview, err := svc.GetAdminOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), overview.TotalStudents)
	assert.Equal(t, int64(2), overview.TotalTasks)
	assert.Equal(t, int64(1), overview.TotalVariants)
	assert.Equal(t, []model.SectionSuccessRate{
		{Section: 1, SuccessRate: 100, Attempts: 1},
		{Section: 2, SuccessRate: 0, Attempts: 1},
	}, overview.SectionSuccessRates)
}
