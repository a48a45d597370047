package repository

import (
	"bitlab_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type TaskRepository struct {
	DB *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

// TaskFilter 管理端列表筛选
type TaskFilter struct {
	Limit   int
	Section *int
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.DB.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.DB.WithContext(ctx).Save(task).Error
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.DB.WithContext(ctx).First(&task, id).Error
	return &task, err
}

func (r *TaskRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Task, error) {
	var tasks []model.Task
	if len(ids) == 0 {
		return tasks, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&tasks).Error
	return tasks, err
}

// List 最新创建的在前
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	var tasks []model.Task
	query := r.DB.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if filter.Section != nil {
		query = query.Where("section_number = ?", *filter.Section)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	err := query.Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) FindRecent(ctx context.Context, limit int) ([]model.Task, error) {
	return r.List(ctx, TaskFilter{Limit: limit})
}

func (r *TaskRepository) FindAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Task{}).Count(&count).Error
	return count, err
}
