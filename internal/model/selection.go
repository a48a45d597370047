package model

import "time"

type SelectionState string

// 会话不存在即未开始；创建后直接进入 in_progress
const (
	SelectionInProgress SelectionState = "in_progress"
	SelectionCompleted  SelectionState = "completed"
)

// SelectionSession 快速练习会话，存 Redis，刷新页面后可恢复
// swagger:model SelectionSession
type SelectionSession struct {
	ID        string         `json:"id"`
	UserID    uint           `json:"userId"`
	TaskIDs   []uint         `json:"taskIds"`
	Index     int            `json:"index"`
	State     SelectionState `json:"state"`
	Score     int            `json:"score"`
	MaxScore  int            `json:"maxScore"`
	Correct   int            `json:"correct"`
	Missed    []uint         `json:"missed"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// CurrentTaskID 会话未结束时返回当前题目
func (s *SelectionSession) CurrentTaskID() (uint, bool) {
	if s.State != SelectionInProgress || s.Index < 0 || s.Index >= len(s.TaskIDs) {
		return 0, false
	}
	return s.TaskIDs[s.Index], true
}
