package model

type MonthlyStat struct {
	Month        string  `json:"month"` // YYYY-MM
	AverageScore float64 `json:"averageScore"`
}

// ProfileStats 个人主页统计
// swagger:model ProfileStats
type ProfileStats struct {
	MonthlyStats     []MonthlyStat `json:"monthlyStats"`
	DailyStats       [7]int        `json:"dailyStats"` // 本周（周日开始）每天答对次数
	TotalUniqueTasks int           `json:"totalUniqueTasks"`
	CompletedTasks   int           `json:"completedTasks"`
	TotalAttempts    int           `json:"totalAttempts"`
	SuccessRate      float64       `json:"successRate"`
}

type SectionSuccessRate struct {
	Section     int     `json:"section"`
	SuccessRate float64 `json:"successRate"`
	Attempts    int     `json:"attempts"`
}

// AdminOverview 管理后台统计
// swagger:model AdminOverview
type AdminOverview struct {
	TotalStudents       int64                `json:"totalStudents"`
	TotalTasks          int64                `json:"totalTasks"`
	TotalVariants       int64                `json:"totalVariants"`
	SectionSuccessRates []SectionSuccessRate `json:"sectionSuccessRates"`
}
