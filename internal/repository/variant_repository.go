package repository

import (
	"bitlab_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type VariantRepository struct {
	DB *gorm.DB
}

func NewVariantRepository(db *gorm.DB) *VariantRepository {
	return &VariantRepository{DB: db}
}

type VariantFilter struct {
	Limit      int
	Difficulty model.Difficulty
}

// Create 同时建立与题目的关联
func (r *VariantRepository) Create(ctx context.Context, variant *model.Variant) error {
	return r.DB.WithContext(ctx).Create(variant).Error
}

// Update 更新基本信息并整体替换题目集合
func (r *VariantRepository) Update(ctx context.Context, variant *model.Variant, tasks []model.Task) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tasks").Save(variant).Error; err != nil {
			return err
		}
		if err := tx.Model(variant).Association("Tasks").Replace(tasks); err != nil {
			return err
		}
		variant.Tasks = tasks
		return nil
	})
}

func (r *VariantRepository) FindByID(ctx context.Context, id uint) (*model.Variant, error) {
	var variant model.Variant
	err := r.DB.WithContext(ctx).Preload("Tasks").First(&variant, id).Error
	return &variant, err
}

func (r *VariantRepository) List(ctx context.Context, filter VariantFilter) ([]model.Variant, error) {
	var variants []model.Variant
	query := r.DB.WithContext(ctx).Preload("Tasks").Order("variant_number ASC").Order("id ASC")
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	err := query.Find(&variants).Error
	return variants, err
}

func (r *VariantRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Variant{}).Count(&count).Error
	return count, err
}
