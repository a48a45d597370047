package service

import (
	"bitlab_backend/internal/model"
	"bitlab_backend/internal/repository"
	"bitlab_backend/internal/util"
	"bitlab_backend/pkg/logger"
	"bitlab_backend/pkg/monitoring"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 判题来源，用于指标标签
const (
	SourceTasks     = "tasks"
	SourceSelection = "selection"
)

const (
	MessageCorrect   = "Ответ верный!"
	MessageIncorrect = "Ответ неверный."
)

type ActivityService struct {
	TaskRepo     *repository.TaskRepository
	ActivityRepo *repository.ActivityRepository
	Now          func() time.Time
}

func NewActivityService(taskRepo *repository.TaskRepository, activityRepo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{
		TaskRepo:     taskRepo,
		ActivityRepo: activityRepo,
		Now:          time.Now,
	}
}

// Submission 一次提交：题目、判题结果和写入的作答记录
type Submission struct {
	Task     *model.Task
	Activity *model.UserTaskActivity
	GradeResult
}

func (s *Submission) Message() string {
	if s.IsCorrect {
		return MessageCorrect
	}
	return MessageIncorrect
}

// SubmitAnswer 判题并追加一条作答记录；题目不存在时不写任何记录
func (s *ActivityService) SubmitAnswer(ctx context.Context, userID, taskID uint, answer, source string) (*Submission, error) {
	if userID == 0 {
		return nil, util.ErrUnauthorized
	}

	task, err := s.TaskRepo.FindByID(ctx, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load task %d: %w", taskID, err)
	}

	result := GradeAnswer(answer, task.Answer, task.MaxPoints)

	activity := &model.UserTaskActivity{
		UserID:      userID,
		TaskID:      task.ID,
		Score:       result.PointsAwarded,
		CompletedAt: s.Now(),
	}
	if err := s.ActivityRepo.Create(ctx, activity); err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}

	monitoring.ObserveGrade(source, result.IsCorrect)
	logger.Log.Debug("answer graded",
		zap.Uint("userId", userID),
		zap.Uint("taskId", task.ID),
		zap.Bool("correct", result.IsCorrect),
		zap.String("source", source),
	)

	return &Submission{Task: task, Activity: activity, GradeResult: result}, nil
}
