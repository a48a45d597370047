package service

import "strings"

// GradeResult 判题结果：只有全对/全错，没有部分得分
type GradeResult struct {
	IsCorrect     bool `json:"isCorrect"`
	PointsAwarded int  `json:"pointsAwarded"`
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// GradeAnswer 去掉首尾空白、转小写后逐字比较。
// 题目没有标准答案（nil 或规整后为空）时一律判错。
func GradeAnswer(submitted string, correct *string, maxPoints int) GradeResult {
	if correct == nil {
		return GradeResult{}
	}
	want := normalizeAnswer(*correct)
	if want == "" || normalizeAnswer(submitted) != want {
		return GradeResult{}
	}
	return GradeResult{IsCorrect: true, PointsAwarded: maxPoints}
}
