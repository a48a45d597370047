package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrUnauthorized       = errors.New("Unauthorized")
	ErrForbidden          = errors.New("Forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("Неверный email или пароль")

	ErrTaskNotFound    = fmt.Errorf("Task %w", ErrNotFound)
	ErrVariantNotFound = fmt.Errorf("Variant %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("User %w", ErrNotFound)
	ErrSessionNotFound = fmt.Errorf("Selection session %w", ErrNotFound)

	ErrEmailRegistered  = fmt.Errorf("Пользователь с таким email уже существует: %w", ErrConflict)
	ErrSessionModified  = fmt.Errorf("selection session was modified concurrently: %w", ErrConflict)
	ErrAIKeyNotSet      = errors.New("Server configuration error: AI token not set.")
	ErrStorageNotConfig = errors.New("storage provider is not configured")
)

// ValidationError 请求参数不合法（缺字段、格式错误等）
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UpstreamError 第三方 AI 接口返回的错误，消息原样透传给前端
type UpstreamError struct {
	Provider string
	Status   int
	Message  string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// StatusOf 按错误分类得到 HTTP 状态码
func StatusOf(err error) int {
	var validationErr *ValidationError
	var upstreamErr *UpstreamError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.As(err, &upstreamErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// HandleError 把 service 层错误翻译成 HTTP 响应；未分类的错误记录日志并返回通用 500
func HandleError(c *gin.Context, err error) {
	var upstreamErr *UpstreamError
	status := StatusOf(err)
	switch {
	case status != http.StatusInternalServerError:
		Error(c, status, err.Error())
	case errors.As(err, &upstreamErr), errors.Is(err, ErrAIKeyNotSet):
		Error(c, status, err.Error())
	default:
		LogInternalError(c, err)
	}
}
