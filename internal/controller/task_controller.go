package controller

import (
	"bitlab_backend/internal/model"
	"bitlab_backend/internal/service"
	"bitlab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TaskController struct {
	TaskService     *service.TaskService
	ActivityService *service.ActivityService
}

func NewTaskController(taskService *service.TaskService, activityService *service.ActivityService) *TaskController {
	return &TaskController{
		TaskService:     taskService,
		ActivityService: activityService,
	}
}

// SubmitAnswerRequest 题库作答；userAnswer 和 answer 任选其一
// swagger:model SubmitAnswerRequest
type SubmitAnswerRequest struct {
	TaskID     uint    `json:"taskId"`
	UserAnswer *string `json:"userAnswer"`
	Answer     *string `json:"answer"`
}

func (r *SubmitAnswerRequest) answer() (string, bool) {
	if r.UserAnswer != nil {
		return *r.UserAnswer, true
	}
	if r.Answer != nil {
		return *r.Answer, true
	}
	return "", false
}

// SubmitAnswerResponse 判题结果
type SubmitAnswerResponse struct {
	Message    string `json:"message"`
	Score      int    `json:"score"`
	ActivityID uint   `json:"activityId"`
	IsCorrect  bool   `json:"isCorrect"`
}

// ListTasks godoc
// @Summary 题库列表（附当前用户作答情况）
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.DataResponse{data=[]model.TaskWithActivity}
// @Failure 401 {object} util.ErrorResponse
// @Router /api/tasks [get]
func (c *TaskController) ListTasks(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	tasks, err := c.TaskService.ListForUser(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if tasks == nil {
		tasks = []model.TaskWithActivity{}
	}
	util.Success(ctx, tasks)
}

// SubmitAnswer godoc
// @Summary 提交答案
// @Description 判题并追加一条作答记录，不修改历史记录
// @Tags 题目
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SubmitAnswerRequest true "答案"
// @Success 200 {object} SubmitAnswerResponse
// @Failure 400 {object} util.ErrorResponse
// @Failure 401 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/submit-answer [post]
func (c *TaskController) SubmitAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Missing task ID or answer")
		return
	}
	answer, ok := req.answer()
	if req.TaskID == 0 || !ok {
		util.BadRequest(ctx, "Missing task ID or answer")
		return
	}

	sub, err := c.ActivityService.SubmitAnswer(ctx.Request.Context(), claims.UserID, req.TaskID, answer, service.SourceTasks)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.JSON(ctx, SubmitAnswerResponse{
		Message:    sub.Message(),
		Score:      sub.PointsAwarded,
		ActivityID: sub.Activity.ID,
		IsCorrect:  sub.IsCorrect,
	})
}
