package database

import (
	"bitlab_backend/internal/model"
	"bitlab_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// Seed 题库为空时写入演示题目和试卷
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Task{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tasks := []model.Task{
		{
			Title:         "Сумма двух чисел",
			Description:   "Чему равна сумма 19 и 23?",
			MaxPoints:     10,
			SectionNumber: intPtr(1),
			Answer:        strPtr("42"),
			Solution:      strPtr("19 + 23 = 42"),
		},
		{
			Title:         "Тип данных",
			Description:   "Какой тип в Python хранит целые числа? Ответ одним словом.",
			MaxPoints:     5,
			SectionNumber: intPtr(1),
			Answer:        strPtr("int"),
			Solution:      strPtr("Целые числа в Python имеют тип int."),
		},
		{
			Title:         "Двоичная система",
			Description:   "Запишите число 10 в двоичной системе счисления.",
			MaxPoints:     10,
			SectionNumber: intPtr(2),
			Answer:        strPtr("1010"),
			Solution:      strPtr("10 = 8 + 2 = 1010₂"),
		},
		{
			Title:         "Сложность поиска",
			Description:   "Какова сложность бинарного поиска в О-нотации?",
			MaxPoints:     15,
			SectionNumber: intPtr(2),
			Answer:        strPtr("O(log n)"),
			Solution:      strPtr("На каждом шаге область поиска уменьшается вдвое."),
		},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tasks).Error; err != nil {
			return err
		}
		variant := model.Variant{
			VariantNumber: 1,
			Name:          "Вариант 1",
			Description:   "Базовые задачи",
			Difficulty:    model.DifficultyEasy,
			Tasks:         tasks,
		}
		if err := tx.Create(&variant).Error; err != nil {
			return err
		}
		logger.Log.Info("Seed data inserted", zap.Int("tasks", len(tasks)))
		return nil
	})
}
