package service

import (
	"bitlab_backend/internal/model"
	"bitlab_backend/internal/repository"
	"bitlab_backend/internal/util"
	"bitlab_backend/pkg/logger"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SelectionService 快速练习：从最新的题目中随机组题，进度保存在服务端会话里
type SelectionService struct {
	TaskRepo    *repository.TaskRepository
	SessionRepo *repository.SelectionSessionRepository
	Activity    *ActivityService
	Size        int
	TTL         time.Duration

	// 测试时替换为确定性的实现
	Shuffle func(n int, swap func(i, j int))
	NewID   func() string
	Now     func() time.Time
}

func NewSelectionService(
	taskRepo *repository.TaskRepository,
	sessionRepo *repository.SelectionSessionRepository,
	activity *ActivityService,
	size int,
	ttl time.Duration,
) *SelectionService {
	return &SelectionService{
		TaskRepo:    taskRepo,
		SessionRepo: sessionRepo,
		Activity:    activity,
		Size:        size,
		TTL:         ttl,
		Shuffle:     rand.Shuffle,
		NewID:       uuid.NewString,
		Now:         time.Now,
	}
}

type SelectionStart struct {
	Tasks   []model.PublicTask
	Session *model.SelectionSession
}

type SelectionSubmission struct {
	*Submission
	Session *model.SelectionSession
}

type SelectionSessionView struct {
	Session     *model.SelectionSession `json:"session"`
	CurrentTask *model.PublicTask       `json:"currentTask"`
}

// Start 取最新的 Size 道题，Fisher-Yates 打乱后开一个新会话
func (s *SelectionService) Start(ctx context.Context, userID uint) (*SelectionStart, error) {
	tasks, err := s.TaskRepo.FindRecent(ctx, s.Size)
	if err != nil {
		return nil, fmt.Errorf("load selection pool: %w", err)
	}
	s.Shuffle(len(tasks), func(i, j int) { tasks[i], tasks[j] = tasks[j], tasks[i] })

	now := s.Now()
	session := &model.SelectionSession{
		ID:        s.NewID(),
		UserID:    userID,
		TaskIDs:   make([]uint, 0, len(tasks)),
		State:     model.SelectionInProgress,
		Missed:    []uint{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := range tasks {
		session.TaskIDs = append(session.TaskIDs, tasks[i].ID)
		session.MaxScore += tasks[i].MaxPoints
	}
	if len(tasks) == 0 {
		session.State = model.SelectionCompleted
	}

	if err := s.SessionRepo.Save(ctx, session, s.TTL); err != nil {
		return nil, fmt.Errorf("save selection session: %w", err)
	}

	logger.Log.Debug("selection session started",
		zap.String("sessionId", session.ID),
		zap.Uint("userId", userID),
		zap.Int("tasks", len(tasks)),
	)
	return &SelectionStart{Tasks: model.PublicTasks(tasks), Session: session}, nil
}

// Submit 判题并记录；带 sessionID 时题目必须是会话当前题，随后推进会话
func (s *SelectionService) Submit(ctx context.Context, userID, taskID uint, answer, sessionID string) (*SelectionSubmission, error) {
	if sessionID == "" {
		sub, err := s.Activity.SubmitAnswer(ctx, userID, taskID, answer, SourceSelection)
		if err != nil {
			return nil, err
		}
		return &SelectionSubmission{Submission: sub}, nil
	}

	// 先校验一次，避免对不属于会话的题目写入作答记录
	session, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := checkCurrentTask(session, taskID); err != nil {
		return nil, err
	}

	sub, err := s.Activity.SubmitAnswer(ctx, userID, taskID, answer, SourceSelection)
	if err != nil {
		return nil, err
	}

	updated, err := s.SessionRepo.Update(ctx, sessionID, s.TTL, func(current *model.SelectionSession) error {
		if current.UserID != userID {
			return util.ErrForbidden
		}
		return advanceSession(current, taskID, sub.GradeResult, s.Now())
	})
	if err != nil {
		return nil, s.sessionError(sessionID, err)
	}
	return &SelectionSubmission{Submission: sub, Session: updated}, nil
}

// GetSession 刷新页面后恢复进度
func (s *SelectionService) GetSession(ctx context.Context, userID uint, sessionID string) (*SelectionSessionView, error) {
	session, err := s.loadSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	view := &SelectionSessionView{Session: session}
	taskID, ok := session.CurrentTaskID()
	if !ok {
		return view, nil
	}
	task, err := s.TaskRepo.FindByID(ctx, taskID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return view, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load current task: %w", err)
	}
	public := task.Public()
	view.CurrentTask = &public
	return view, nil
}

func (s *SelectionService) loadSession(ctx context.Context, userID uint, sessionID string) (*model.SelectionSession, error) {
	session, err := s.SessionRepo.Find(ctx, sessionID)
	if err != nil {
		return nil, s.sessionError(sessionID, err)
	}
	if session.UserID != userID {
		return nil, util.ErrForbidden
	}
	return session, nil
}

func (s *SelectionService) sessionError(sessionID string, err error) error {
	switch {
	case errors.Is(err, redis.Nil):
		return util.ErrSessionNotFound
	case errors.Is(err, redis.TxFailedErr):
		logger.Log.Warn("selection session modified concurrently", zap.String("sessionId", sessionID))
		return util.ErrSessionModified
	}
	var validationErr *util.ValidationError
	if errors.As(err, &validationErr) || errors.Is(err, util.ErrForbidden) {
		return err
	}
	return fmt.Errorf("selection session %s: %w", sessionID, err)
}

func checkCurrentTask(session *model.SelectionSession, taskID uint) error {
	if session.State == model.SelectionCompleted {
		return util.NewValidationError("Selection session is already completed")
	}
	current, ok := session.CurrentTaskID()
	if !ok || current != taskID {
		return util.NewValidationError("Task %d is not the current task of this session", taskID)
	}
	return nil
}

// advanceSession 状态机：in_progress(i) -> in_progress(i+1)，最后一题后 -> completed
func advanceSession(session *model.SelectionSession, taskID uint, result GradeResult, now time.Time) error {
	if err := checkCurrentTask(session, taskID); err != nil {
		return err
	}
	session.Score += result.PointsAwarded
	if result.IsCorrect {
		session.Correct++
	} else {
		session.Missed = append(session.Missed, taskID)
	}
	session.Index++
	if session.Index >= len(session.TaskIDs) {
		session.State = model.SelectionCompleted
	}
	session.UpdatedAt = now
	return nil
}
