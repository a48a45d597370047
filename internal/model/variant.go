package model

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Variant 试卷：管理员固定组好的一组题
// swagger:model Variant
type Variant struct {
	Record
	VariantNumber int        `gorm:"not null;index" json:"variantNumber"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	Description   string     `gorm:"type:text" json:"description"`
	Difficulty    Difficulty `gorm:"size:10;not null;default:'medium'" json:"difficulty"`
	Tasks         []Task     `gorm:"many2many:variant_tasks;" json:"tasks"`
}

func (Variant) TableName() string {
	return "variants"
}

// PublicVariant 学生视角的试卷
type PublicVariant struct {
	ID            uint         `json:"id"`
	VariantNumber int          `json:"variantNumber"`
	Name          string       `json:"name"`
	Description   string       `json:"description"`
	Difficulty    Difficulty   `json:"difficulty"`
	Tasks         []PublicTask `json:"tasks"`
}

func (v *Variant) Public() PublicVariant {
	return PublicVariant{
		ID:            v.ID,
		VariantNumber: v.VariantNumber,
		Name:          v.Name,
		Description:   v.Description,
		Difficulty:    v.Difficulty,
		Tasks:         PublicTasks(v.Tasks),
	}
}
