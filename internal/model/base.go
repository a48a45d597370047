package model

import "time"

// Record 所有业务表共用的主键和时间戳。
// 题目、试卷、用户都没有删除接口，作答记录只追加，所以不做软删除
type Record struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
