package model

import (
	"time"

	"gorm.io/gorm"
)

// UserTaskActivity 一次作答记录，只追加不修改
// swagger:model UserTaskActivity
type UserTaskActivity struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"userId"`
	TaskID      uint      `gorm:"index;not null" json:"taskId"`
	Score       int       `gorm:"not null;default:0" json:"score"`
	CompletedAt time.Time `gorm:"index;not null" json:"completedAt"`
}

func (UserTaskActivity) TableName() string {
	return "user_task_activities"
}

func (a *UserTaskActivity) BeforeCreate(tx *gorm.DB) error {
	if a.CompletedAt.IsZero() {
		a.CompletedAt = time.Now()
	}
	return nil
}

func (a *UserTaskActivity) Successful() bool {
	return a.Score > 0
}
