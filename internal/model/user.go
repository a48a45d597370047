package model

// swagger:model User
type User struct {
	Record
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"`
	// 管理员只能在库里手动设置，没有自助提升接口
	IsAdmin bool `gorm:"default:false" json:"isAdmin"`
}

func (User) TableName() string {
	return "users"
}
