package middleware

import (
	"bitlab_backend/internal/util"
	"bitlab_backend/pkg/logger"
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// tokenFromRequest 优先取 Authorization 头，其次 ?token=
func tokenFromRequest(c *gin.Context) string {
	tokenString := ""
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		tokenString = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if tokenString == "" {
		tokenString = c.Query("token")
	}
	return tokenString
}

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, secret)
		if err != nil {
			logger.Log.Debug("JWT parse failed", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// AdminChecker 管理员标志以数据库为准，不信任 token 里的声明
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uint) (bool, error)
}

// AdminMiddleware 必须挂在 AuthMiddleware 之后
func AdminMiddleware(checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		isAdmin, err := checker.IsAdmin(c.Request.Context(), claims.UserID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			util.LogInternalError(c, err)
			c.Abort()
			return
		}
		if !isAdmin {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
