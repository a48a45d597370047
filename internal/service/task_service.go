package service

import (
	"bitlab_backend/internal/model"
	"bitlab_backend/internal/repository"
	"bitlab_backend/internal/util"
	"bitlab_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TaskService struct {
	TaskRepo     *repository.TaskRepository
	ActivityRepo *repository.ActivityRepository
}

func NewTaskService(taskRepo *repository.TaskRepository, activityRepo *repository.ActivityRepository) *TaskService {
	return &TaskService{TaskRepo: taskRepo, ActivityRepo: activityRepo}
}

// TaskInput 管理端创建/更新题目
type TaskInput struct {
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	MaxPoints     int                `json:"maxPoints"`
	SectionNumber *int               `json:"sectionNumber"`
	Answer        *string            `json:"answer"`
	Solution      *string            `json:"solution"`
	Files         []model.Attachment `json:"files"`
}

func (in *TaskInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return util.NewValidationError("Title is required")
	}
	if in.MaxPoints < 0 {
		return util.NewValidationError("maxPoints must be a non-negative integer")
	}
	for i, f := range in.Files {
		if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.URL) == "" {
			return util.NewValidationError("files[%d]: name and url are required", i)
		}
	}
	return nil
}

func (in *TaskInput) apply(task *model.Task) {
	task.Title = in.Title
	task.Description = in.Description
	task.MaxPoints = in.MaxPoints
	task.SectionNumber = in.SectionNumber
	task.Answer = in.Answer
	task.Solution = in.Solution
	task.Files = in.Files
	if task.Files == nil {
		task.Files = []model.Attachment{}
	}
}

// ListForUser 题库列表，附带当前用户每道题最近一次作答。
// 答案和解析只对已经作答过的题目返回。
func (s *TaskService) ListForUser(ctx context.Context, userID uint) ([]model.TaskWithActivity, error) {
	tasks, err := s.TaskRepo.List(ctx, repository.TaskFilter{})
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	latest, err := s.ActivityRepo.LatestByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load activities: %w", err)
	}

	result := make([]model.TaskWithActivity, 0, len(tasks))
	for i := range tasks {
		item := model.TaskWithActivity{PublicTask: tasks[i].Public()}
		if activity, ok := latest[tasks[i].ID]; ok {
			a := activity
			item.UserActivity = &a
			item.IsCompleted = a.Successful()
			item.UserScore = a.Score
			item.Answer = tasks[i].Answer
			item.Solution = tasks[i].Solution
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *TaskService) List(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	return s.TaskRepo.List(ctx, filter)
}

func (s *TaskService) Create(ctx context.Context, in TaskInput) (*model.Task, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	task := &model.Task{}
	in.apply(task)
	if err := s.TaskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	logger.Log.Info("task created", zap.Uint("taskId", task.ID), zap.String("title", task.Title))
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, id uint, in TaskInput) (*model.Task, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	task, err := s.TaskRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load task %d: %w", id, err)
	}
	in.apply(task)
	if err := s.TaskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	logger.Log.Info("task updated", zap.Uint("taskId", task.ID))
	return task, nil
}
