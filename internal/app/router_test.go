package app

import (
	"bitlab_backend/internal/config"
	"bitlab_backend/internal/model"
	"bitlab_backend/pkg/database"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp(t *testing.T) *App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", Mode: "test", Timezone: "UTC"},
		JWT:       config.JWTConfig{Secret: "router-test-secret", ExpireTime: time.Hour},
		Storage:   config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		Selection: config.SelectionConfig{Size: 10, SessionTTLHours: 1},
	}

	app, err := Build(cfg, db, rdb)
	require.NoError(t, err)
	return app
}

func doJSON(t *testing.T, app *App, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

// registerAndLogin 返回 token 和用户 ID
func registerAndLogin(t *testing.T, app *App, email string) (string, uint) {
	t.Helper()
	w := doJSON(t, app, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Student",
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, app, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User.ID
}

func seedTask(t *testing.T, app *App, title, answer string, points int) model.Task {
	t.Helper()
	task := model.Task{Title: title, Description: title + " description", MaxPoints: points, Answer: &answer}
	require.NoError(t, app.DB.Create(&task).Error)
	return task
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	w := doJSON(t, app, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	token, userID := registerAndLogin(t, app, "Student@Example.com")
	assert.NotZero(t, userID)

	w := doJSON(t, app, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile struct {
		Data model.User `json:"data"`
	}
	decode(t, w, &profile)
	assert.Equal(t, "student@example.com", profile.Data.Email)

	// 重复注册
	w = doJSON(t, app, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Again", "email": "student@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 错误密码
	w = doJSON(t, app, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "student@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 未登录
	w = doJSON(t, app, http.MethodGet, "/api/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmitAnswerAndStats(t *testing.T) {
	app := newTestApp(t)
	token, _ := registerAndLogin(t, app, "solver@example.com")
	task := seedTask(t, app, "Binary 101", "101", 5)

	w := doJSON(t, app, http.MethodPost, "/api/submit-answer", token, gin.H{
		"taskId": task.ID, "userAnswer": " 101 ",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result struct {
		Message   string `json:"message"`
		Score     int    `json:"score"`
		IsCorrect bool   `json:"isCorrect"`
	}
	decode(t, w, &result)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 5, result.Score)
	assert.Equal(t, "Ответ верный!", result.Message)

	w = doJSON(t, app, http.MethodPost, "/api/submit-answer", token, gin.H{
		"taskId": task.ID, "answer": "110",
	})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &result)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0, result.Score)

	w = doJSON(t, app, http.MethodPost, "/api/submit-answer", token, gin.H{"taskId": task.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, app, http.MethodPost, "/api/submit-answer", token, gin.H{"taskId": 9999, "answer": "1"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, app, http.MethodGet, "/api/user-stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats model.ProfileStats
	decode(t, w, &stats)
	assert.Equal(t, 2, stats.TotalAttempts)
	assert.Equal(t, 1, stats.TotalUniqueTasks)
	assert.Equal(t, 1, stats.CompletedTasks)
	assert.Equal(t, 50.0, stats.SuccessRate)

	// 作答过的题目会返回答案
	w = doJSON(t, app, http.MethodGet, "/api/tasks", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tasks struct {
		Data []model.TaskWithActivity `json:"data"`
	}
	decode(t, w, &tasks)
	require.Len(t, tasks.Data, 1)
	require.NotNil(t, tasks.Data[0].Answer)
	assert.Equal(t, "101", *tasks.Data[0].Answer)
}

func TestSelectionFlow(t *testing.T) {
	app := newTestApp(t)
	token, _ := registerAndLogin(t, app, "quick@example.com")
	seedTask(t, app, "First", "a", 2)
	seedTask(t, app, "Second", "b", 3)

	w := doJSON(t, app, http.MethodGet, "/api/task-selection", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var start struct {
		Data    []model.PublicTask      `json:"data"`
		Session *model.SelectionSession `json:"session"`
	}
	decode(t, w, &start)
	require.Len(t, start.Data, 2)
	require.NotNil(t, start.Session)
	assert.Equal(t, 5, start.Session.MaxScore)
	assert.NotContains(t, w.Body.String(), `"answer"`)

	answers := map[uint]string{}
	var all []model.Task
	require.NoError(t, app.DB.Find(&all).Error)
	for _, task := range all {
		answers[task.ID] = *task.Answer
	}

	// 不是当前题
	second := start.Session.TaskIDs[1]
	w = doJSON(t, app, http.MethodPost, "/api/task-selection/submit", token, gin.H{
		"taskId": second, "answer": answers[second], "sessionId": start.Session.ID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var last struct {
		IsCorrect bool                    `json:"isCorrect"`
		Session   *model.SelectionSession `json:"session"`
	}
	for _, id := range start.Session.TaskIDs {
		w = doJSON(t, app, http.MethodPost, "/api/tests/selection/submit", token, gin.H{
			"taskId": id, "answer": answers[id], "sessionId": start.Session.ID,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		decode(t, w, &last)
		assert.True(t, last.IsCorrect)
	}
	require.NotNil(t, last.Session)
	assert.Equal(t, model.SelectionCompleted, last.Session.State)
	assert.Equal(t, 5, last.Session.Score)

	w = doJSON(t, app, http.MethodGet, "/api/task-selection/sessions/"+start.Session.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 其他用户不能访问
	other, _ := registerAndLogin(t, app, "other@example.com")
	w = doJSON(t, app, http.MethodGet, "/api/task-selection/sessions/"+start.Session.ID, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, app, http.MethodGet, "/api/task-selection/sessions/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	app := newTestApp(t)
	studentToken, _ := registerAndLogin(t, app, "student@example.com")
	adminToken, adminID := registerAndLogin(t, app, "admin@example.com")
	require.NoError(t, app.DB.Model(&model.User{}).Where("id = ?", adminID).Update("is_admin", true).Error)

	w := doJSON(t, app, http.MethodGet, "/api/admin/stats", studentToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, app, http.MethodPost, "/api/admin/tasks", adminToken, gin.H{
		"title": "Hex", "description": "0xFF?", "maxPoints": 4, "sectionNumber": 2, "answer": "255",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created struct {
		Data model.Task `json:"data"`
	}
	decode(t, w, &created)
	require.NotZero(t, created.Data.ID)

	w = doJSON(t, app, http.MethodPost, "/api/admin/tasks", adminToken, gin.H{"maxPoints": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, app, http.MethodPost, "/api/admin/variants", adminToken, gin.H{
		"variantNumber": 1, "name": "Вариант 1", "difficulty": "easy", "taskIds": []uint{created.Data.ID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 学生看到的试卷不含答案
	w = doJSON(t, app, http.MethodGet, "/api/variants?difficulty=easy", studentToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hex")
	assert.NotContains(t, w.Body.String(), `"answer"`)

	w = doJSON(t, app, http.MethodGet, "/api/admin/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var overview model.AdminOverview
	decode(t, w, &overview)
	assert.Equal(t, int64(1), overview.TotalStudents)
	assert.Equal(t, int64(1), overview.TotalTasks)
	assert.Equal(t, int64(1), overview.TotalVariants)
	assert.NotContains(t, w.Body.String(), `"data"`)
}

func TestTheoryIsPublic(t *testing.T) {
	app := newTestApp(t)

	w := doJSON(t, app, http.MethodGet, "/api/theory", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []model.TheorySection `json:"data"`
	}
	decode(t, w, &resp)
	assert.NotEmpty(t, resp.Data)
}
