package service

import (
	"bitlab_backend/internal/model"
	"bitlab_backend/internal/repository"
	"bitlab_backend/internal/util"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskServiceListForUser(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	tasks := createTasks(t, db,
		model.Task{Title: "tried", MaxPoints: 10, Answer: strPtr("x"), Solution: strPtr("explained")},
		model.Task{Title: "untouched", MaxPoints: 5, Answer: strPtr("y")},
	)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	activity := NewActivityService(taskRepo, activityRepo)
	_, err := activity.SubmitAnswer(ctx, 1, tasks[0].ID, "x", SourceTasks)
	require.NoError(t, err)
	_, err = activity.SubmitAnswer(ctx, 1, tasks[0].ID, "nope", SourceTasks)
	require.NoError(t, err)
	// 其他用户的作答不影响
	_, err = activity.SubmitAnswer(ctx, 2, tasks[1].ID, "y", SourceTasks)
	require.NoError(t, err)

	svc := NewTaskService(taskRepo, activityRepo)
	list, err := svc.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)

	untouched, tried := list[0], list[1]
	assert.Equal(t, "untouched", untouched.Title)
	assert.Nil(t, untouched.UserActivity)
	assert.False(t, untouched.IsCompleted)
	assert.Nil(t, untouched.Answer)

	assert.Equal(t, "tried", tried.Title)
	require.NotNil(t, tried.UserActivity)
	assert.Equal(t, 0, tried.UserScore)
	assert.False(t, tried.IsCompleted)
	assert.Equal(t, strPtr("x"), tried.Answer)
	assert.Equal(t, strPtr("explained"), tried.Solution)
}

func TestTaskServiceCreateValidation(t *testing.T) {
	svc := NewTaskService(repository.NewTaskRepository(newTestDB(t)), nil)
	ctx := context.Background()
	var validationErr *util.ValidationError

	_, err := svc.Create(ctx, TaskInput{Title: "  "})
	assert.ErrorAs(t, err, &validationErr)

	_, err = svc.Create(ctx, TaskInput{Title: "t", MaxPoints: -1})
	assert.ErrorAs(t, err, &validationErr)

	_, err = svc.Create(ctx, TaskInput{Title: "t", Files: []model.Attachment{{Name: "a.txt"}}})
	assert.ErrorAs(t, err, &validationErr)
}

func TestTaskServiceCreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	svc := NewTaskService(repository.NewTaskRepository(newTestDB(t)), nil)

	task, err := svc.Create(ctx, TaskInput{
		Title:         " Binary search ",
		MaxPoints:     15,
		SectionNumber: intPtr(2),
		Answer:        strPtr("O(log n)"),
		Files:         []model.Attachment{{Name: "input.txt", URL: "/uploads/tasks/input.txt"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Binary search", task.Title)
	assert.NotZero(t, task.ID)

	updated, err := svc.Update(ctx, task.ID, TaskInput{Title: "Binary search", MaxPoints: 20})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.MaxPoints)
	assert.Nil(t, updated.Answer)
	assert.Empty(t, updated.Files)

	tasks, err := svc.List(ctx, repository.TaskFilter{Section: intPtr(2)})
	require.NoError(t, err)
	assert.Empty(t, tasks)

	_, err = svc.Update(ctx, 404, TaskInput{Title: "x"})
	assert.ErrorIs(t, err, util.ErrTaskNotFound)
}
