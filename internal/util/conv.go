package util

import (
	"strconv"
)

// ParseID 解析路径参数中的 ID，非正整数视为参数错误
func ParseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, NewValidationError("invalid id %q", s)
	}
	return uint(id), nil
}

// ParseOptionalInt 空字符串返回 nil
func ParseOptionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, NewValidationError("%q is not a number", s)
	}
	return &v, nil
}
