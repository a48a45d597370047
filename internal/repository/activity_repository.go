package repository

import (
	"bitlab_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

// ActivityRepository 作答记录只提供追加和查询
type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *model.UserTaskActivity) error {
	return r.DB.WithContext(ctx).Create(activity).Error
}

// FindByUser 按完成时间升序
func (r *ActivityRepository) FindByUser(ctx context.Context, userID uint) ([]model.UserTaskActivity, error) {
	var activities []model.UserTaskActivity
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at ASC").
		Order("id ASC").
		Find(&activities).Error
	return activities, err
}

// FindAll 全量记录，管理端按分区统计用
func (r *ActivityRepository) FindAll(ctx context.Context) ([]model.UserTaskActivity, error) {
	var activities []model.UserTaskActivity
	err := r.DB.WithContext(ctx).
		Select("id", "task_id", "score").
		Find(&activities).Error
	return activities, err
}

// LatestByUser 每道题最近一次作答
func (r *ActivityRepository) LatestByUser(ctx context.Context, userID uint) (map[uint]model.UserTaskActivity, error) {
	activities, err := r.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	latest := make(map[uint]model.UserTaskActivity, len(activities))
	for _, a := range activities {
		latest[a.TaskID] = a
	}
	return latest, nil
}

func (r *ActivityRepository) CountByUserAndTask(ctx context.Context, userID, taskID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.UserTaskActivity{}).
		Where("user_id = ? AND task_id = ?", userID, taskID).
		Count(&count).Error
	return count, err
}
