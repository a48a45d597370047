package middleware

import (
	"bitlab_backend/internal/model"
	"bitlab_backend/internal/util"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const secret = "middleware-test-secret-middleware-test"

type stubChecker map[uint]bool

func (s stubChecker) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	if userID == 500 {
		return false, errors.New("db down")
	}
	admin, ok := s[userID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	return admin, nil
}

func token(t *testing.T, id uint, isAdmin bool) string {
	t.Helper()
	user := &model.User{Email: "u@example.com", IsAdmin: isAdmin}
	user.ID = id
	tok, err := util.GenerateJWT(user, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	checker := stubChecker{1: false, 2: true}
	r.GET("/me", AuthMiddleware(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": util.GetUserFromContext(c).UserID})
	})
	r.GET("/admin", AuthMiddleware(secret), AdminMiddleware(checker), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter()

	w := do(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "Bearer garbage").Code)

	w = do(r, "/me", "Bearer "+token(t, 7, false))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7}`, w.Body.String())

	w = do(r, "/me?token="+token(t, 8, false), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejectsForeignSignature(t *testing.T) {
	r := newRouter()
	user := &model.User{Email: "u@example.com"}
	user.ID = 1
	forged, err := util.GenerateJWT(user, "another-secret-another-secret-another", time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "Bearer "+forged).Code)
}

func TestAdminMiddleware(t *testing.T) {
	r := newRouter()

	assert.Equal(t, http.StatusUnauthorized, do(r, "/admin", "").Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/admin", "Bearer "+token(t, 2, false)).Code)
	// token 声称是管理员，但库里不是
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", "Bearer "+token(t, 1, true)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, "/admin", "Bearer "+token(t, 99, true)).Code)
	assert.Equal(t, http.StatusInternalServerError, do(r, "/admin", "Bearer "+token(t, 500, false)).Code)
}
