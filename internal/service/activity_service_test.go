package service

import (
	"bitlab_backend/internal/model"
	"bitlab_backend/internal/repository"
	"bitlab_backend/internal/util"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActivityService(t *testing.T) (*ActivityService, *repository.ActivityRepository, []model.Task) {
	db := newTestDB(t)
	tasks := createTasks(t, db,
		model.Task{Title: "sum", MaxPoints: 10, Answer: strPtr("42")},
		model.Task{Title: "no answer", MaxPoints: 5},
	)
	activityRepo := repository.NewActivityRepository(db)
	svc := NewActivityService(repository.NewTaskRepository(db), activityRepo)
	return svc, activityRepo, tasks
}

func TestSubmitAnswerRecordsCorrectAttempt(t *testing.T) {
	svc, activityRepo, tasks := newActivityService(t)
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	sub, err := svc.SubmitAnswer(context.Background(), 7, tasks[0].ID, " 42 ", SourceTasks)
	require.NoError(t, err)
	assert.True(t, sub.IsCorrect)
	assert.Equal(t, 10, sub.PointsAwarded)
	assert.Equal(t, MessageCorrect, sub.Message())
	assert.NotZero(t, sub.Activity.ID)
	assert.True(t, sub.Activity.CompletedAt.Equal(now))

	rows, err := activityRepo.FindByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 10, rows[0].Score)
}

func TestSubmitAnswerAppendsEveryAttempt(t *testing.T) {
	svc, activityRepo, tasks := newActivityService(t)
	ctx := context.Background()

	wrong, err := svc.SubmitAnswer(ctx, 1, tasks[0].ID, "41", SourceTasks)
	require.NoError(t, err)
	assert.False(t, wrong.IsCorrect)
	assert.Equal(t, 0, wrong.PointsAwarded)
	assert.Equal(t, MessageIncorrect, wrong.Message())

	_, err = svc.SubmitAnswer(ctx, 1, tasks[0].ID, "42", SourceTasks)
	require.NoError(t, err)

	count, err := activityRepo.CountByUserAndTask(ctx, 1, tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSubmitAnswerTaskWithoutStoredAnswer(t *testing.T) {
	svc, _, tasks := newActivityService(t)

	sub, err := svc.SubmitAnswer(context.Background(), 1, tasks[1].ID, "", SourceTasks)
	require.NoError(t, err)
	assert.False(t, sub.IsCorrect)
	assert.Equal(t, 0, sub.Activity.Score)
}

func TestSubmitAnswerUnknownTaskWritesNothing(t *testing.T) {
	svc, activityRepo, _ := newActivityService(t)
	ctx := context.Background()

	_, err := svc.SubmitAnswer(ctx, 1, 999, "42", SourceTasks)
	assert.ErrorIs(t, err, util.ErrTaskNotFound)
	assert.ErrorIs(t, err, util.ErrNotFound)

	rows, err := activityRepo.FindByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSubmitAnswerRequiresUser(t *testing.T) {
	svc, _, tasks := newActivityService(t)

	_, err := svc.SubmitAnswer(context.Background(), 0, tasks[0].ID, "42", SourceTasks)
	assert.ErrorIs(t, err, util.ErrUnauthorized)
}
