package controller

import (
	"bitlab_backend/internal/model"
	"bitlab_backend/internal/service"
	"bitlab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SelectionController struct {
	SelectionService *service.SelectionService
}

func NewSelectionController(selectionService *service.SelectionService) *SelectionController {
	return &SelectionController{SelectionService: selectionService}
}

// SelectionResponse 新的随机组题
type SelectionResponse struct {
	Data    []model.PublicTask      `json:"data"`
	Session *model.SelectionSession `json:"session"`
}

// SelectionSubmitRequest 快速练习作答
// swagger:model SelectionSubmitRequest
type SelectionSubmitRequest struct {
	TaskID    uint    `json:"taskId"`
	Answer    *string `json:"answer"`
	SessionID string  `json:"sessionId"`
}

type SelectionSubmitResponse struct {
	Data          *model.UserTaskActivity `json:"data"`
	IsCorrect     bool                    `json:"isCorrect"`
	PointsAwarded int                     `json:"pointsAwarded"`
	CorrectAnswer *string                 `json:"correctAnswer"`
	Session       *model.SelectionSession `json:"session,omitempty"`
}

// GetSelection godoc
// @Summary 开始快速练习
// @Description 从最新的题目中随机抽取一组（不含答案），并创建服务端会话
// @Tags 快速练习
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} SelectionResponse
// @Failure 401 {object} util.ErrorResponse
// @Router /api/task-selection [get]
func (c *SelectionController) GetSelection(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	start, err := c.SelectionService.Start(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.JSON(ctx, SelectionResponse{Data: start.Tasks, Session: start.Session})
}

// Submit godoc
// @Summary 快速练习提交答案
// @Description 带 sessionId 时题目必须是会话当前题，提交后会话前进一题
// @Tags 快速练习
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SelectionSubmitRequest true "答案"
// @Success 200 {object} SelectionSubmitResponse
// @Failure 400 {object} util.ErrorResponse
// @Failure 403 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Failure 409 {object} util.ErrorResponse
// @Router /api/task-selection/submit [post]
func (c *SelectionController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SelectionSubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.TaskID == 0 || req.Answer == nil {
		util.BadRequest(ctx, "Task ID and answer are required")
		return
	}

	res, err := c.SelectionService.Submit(ctx.Request.Context(), claims.UserID, req.TaskID, *req.Answer, req.SessionID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.JSON(ctx, SelectionSubmitResponse{
		Data:          res.Activity,
		IsCorrect:     res.IsCorrect,
		PointsAwarded: res.PointsAwarded,
		CorrectAnswer: res.Task.Answer,
		Session:       res.Session,
	})
}

// GetSession godoc
// @Summary 恢复快速练习会话
// @Tags 快速练习
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "会话 ID"
// @Success 200 {object} util.DataResponse{data=service.SelectionSessionView}
// @Failure 403 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/task-selection/sessions/{id} [get]
func (c *SelectionController) GetSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.SelectionService.GetSession(ctx.Request.Context(), claims.UserID, ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}
