package controller

import (
	"bitlab_backend/internal/service"
	"bitlab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AIController struct {
	AIService *service.AIService
}

func NewAIController(aiService *service.AIService) *AIController {
	return &AIController{AIService: aiService}
}

// AskRequest AI 助手提问
// swagger:model AskRequest
type AskRequest struct {
	Message string `json:"message"`
}

// ExplainTaskRequest 题目讲解
// swagger:model ExplainTaskRequest
type ExplainTaskRequest struct {
	TaskID          uint   `json:"taskId"`
	TaskDescription string `json:"taskDescription"`
}

// Ask godoc
// @Summary AI 助手
// @Tags AI
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AskRequest true "问题"
// @Success 200 {object} map[string]string "message"
// @Failure 400 {object} util.ErrorResponse
// @Failure 500 {object} util.ErrorResponse "未配置密钥或上游接口出错"
// @Router /api/ai-assistant [post]
func (c *AIController) Ask(ctx *gin.Context) {
	var req AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Message is required")
		return
	}

	reply, err := c.AIService.Ask(ctx.Request.Context(), req.Message)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.JSON(ctx, gin.H{"message": reply})
}

// ExplainTask godoc
// @Summary AI 讲解题目
// @Description 相同题目和描述的讲解缓存 24 小时
// @Tags AI
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ExplainTaskRequest true "题目"
// @Success 200 {object} map[string]string "explanation"
// @Failure 400 {object} util.ErrorResponse
// @Failure 500 {object} util.ErrorResponse
// @Router /api/explain-task [post]
func (c *AIController) ExplainTask(ctx *gin.Context) {
	var req ExplainTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Task ID and description are required")
		return
	}

	explanation, err := c.AIService.ExplainTask(ctx.Request.Context(), req.TaskID, req.TaskDescription)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.JSON(ctx, gin.H{"explanation": explanation})
}
