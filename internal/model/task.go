package model

import (
	"time"

	"gorm.io/datatypes"
)

// Attachment 题目附件
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// swagger:model Task
type Task struct {
	Record
	Title         string                          `gorm:"size:255;not null" json:"title"`
	Description   string                          `gorm:"type:text" json:"description"`
	MaxPoints     int                             `gorm:"not null;default:0" json:"maxPoints"`
	SectionNumber *int                            `gorm:"index" json:"sectionNumber"`
	Answer        *string                         `gorm:"type:text" json:"answer"`
	Solution      *string                         `gorm:"type:text" json:"solution"`
	Files         datatypes.JSONSlice[Attachment] `json:"files"`
}

func (Task) TableName() string {
	return "tasks"
}

// Section 未设置分区的题目归入 0 号分区
func (t *Task) Section() int {
	if t.SectionNumber == nil {
		return 0
	}
	return *t.SectionNumber
}

// PublicTask 给学生看的题目，不含答案和解析
// swagger:model PublicTask
type PublicTask struct {
	ID            uint         `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	MaxPoints     int          `json:"maxPoints"`
	SectionNumber *int         `json:"sectionNumber"`
	Files         []Attachment `json:"files"`
	CreatedAt     time.Time    `json:"createdAt"`
}

func (t *Task) Public() PublicTask {
	files := []Attachment(t.Files)
	if files == nil {
		files = []Attachment{}
	}
	return PublicTask{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		MaxPoints:     t.MaxPoints,
		SectionNumber: t.SectionNumber,
		Files:         files,
		CreatedAt:     t.CreatedAt,
	}
}

func PublicTasks(tasks []Task) []PublicTask {
	out := make([]PublicTask, 0, len(tasks))
	for i := range tasks {
		out = append(out, tasks[i].Public())
	}
	return out
}

// TaskWithActivity 题库列表项：题目 + 当前用户最近一次作答
type TaskWithActivity struct {
	PublicTask
	Answer       *string           `json:"answer,omitempty"`
	Solution     *string           `json:"solution,omitempty"`
	UserActivity *UserTaskActivity `json:"userActivity"`
	IsCompleted  bool              `json:"isCompleted"`
	UserScore    int               `json:"userScore"`
}
