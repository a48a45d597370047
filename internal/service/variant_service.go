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

type VariantService struct {
	VariantRepo *repository.VariantRepository
	TaskRepo    *repository.TaskRepository
}

func NewVariantService(variantRepo *repository.VariantRepository, taskRepo *repository.TaskRepository) *VariantService {
	return &VariantService{VariantRepo: variantRepo, TaskRepo: taskRepo}
}

type VariantInput struct {
	VariantNumber int              `json:"variantNumber"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Difficulty    model.Difficulty `json:"difficulty"`
	TaskIDs       []uint           `json:"taskIds"`
}

func (in *VariantInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.VariantNumber <= 0 {
		return util.NewValidationError("variantNumber must be a positive integer")
	}
	if in.Name == "" {
		return util.NewValidationError("Name is required")
	}
	if in.Difficulty == "" {
		in.Difficulty = model.DifficultyMedium
	}
	if !in.Difficulty.Valid() {
		return util.NewValidationError("difficulty must be one of easy, medium, hard")
	}
	return nil
}

// ParseDifficulty 列表筛选参数，空串表示不筛选
func ParseDifficulty(raw string) (model.Difficulty, error) {
	if raw == "" {
		return "", nil
	}
	d := model.Difficulty(raw)
	if !d.Valid() {
		return "", util.NewValidationError("difficulty must be one of easy, medium, hard")
	}
	return d, nil
}

// resolveTasks 所有 id 都必须存在
func (s *VariantService) resolveTasks(ctx context.Context, ids []uint) ([]model.Task, error) {
	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	tasks, err := s.TaskRepo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, fmt.Errorf("load variant tasks: %w", err)
	}
	if len(tasks) != len(unique) {
		return nil, util.ErrTaskNotFound
	}
	return tasks, nil
}

func (s *VariantService) List(ctx context.Context, filter repository.VariantFilter) ([]model.Variant, error) {
	return s.VariantRepo.List(ctx, filter)
}

func (s *VariantService) ListPublic(ctx context.Context, difficulty model.Difficulty) ([]model.PublicVariant, error) {
	variants, err := s.VariantRepo.List(ctx, repository.VariantFilter{Difficulty: difficulty})
	if err != nil {
		return nil, err
	}
	result := make([]model.PublicVariant, 0, len(variants))
	for i := range variants {
		result = append(result, variants[i].Public())
	}
	return result, nil
}

func (s *VariantService) GetPublic(ctx context.Context, id uint) (*model.PublicVariant, error) {
	variant, err := s.VariantRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrVariantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load variant %d: %w", id, err)
	}
	public := variant.Public()
	return &public, nil
}

func (s *VariantService) Create(ctx context.Context, in VariantInput) (*model.Variant, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	tasks, err := s.resolveTasks(ctx, in.TaskIDs)
	if err != nil {
		return nil, err
	}

	variant := &model.Variant{
		VariantNumber: in.VariantNumber,
		Name:          in.Name,
		Description:   in.Description,
		Difficulty:    in.Difficulty,
		Tasks:         tasks,
	}
	if err := s.VariantRepo.Create(ctx, variant); err != nil {
		return nil, fmt.Errorf("create variant: %w", err)
	}
	logger.Log.Info("variant created", zap.Uint("variantId", variant.ID), zap.Int("tasks", len(tasks)))
	return variant, nil
}

// Update 题目集合整体替换
func (s *VariantService) Update(ctx context.Context, id uint, in VariantInput) (*model.Variant, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	variant, err := s.VariantRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrVariantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load variant %d: %w", id, err)
	}
	tasks, err := s.resolveTasks(ctx, in.TaskIDs)
	if err != nil {
		return nil, err
	}

	variant.VariantNumber = in.VariantNumber
	variant.Name = in.Name
	variant.Description = in.Description
	variant.Difficulty = in.Difficulty
	if err := s.VariantRepo.Update(ctx, variant, tasks); err != nil {
		return nil, fmt.Errorf("update variant %d: %w", id, err)
	}
	logger.Log.Info("variant updated", zap.Uint("variantId", variant.ID), zap.Int("tasks", len(tasks)))
	return variant, nil
}
