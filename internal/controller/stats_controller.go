package controller

import (
	"bitlab_backend/internal/service"
	"bitlab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	StatsService *service.StatsService
}

func NewStatsController(statsService *service.StatsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// GetUserStats godoc
// @Summary 个人统计
// @Description 月度平均分、本周每日答对次数、去重题目数和正确率
// @Tags 统计
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} model.ProfileStats
// @Failure 401 {object} util.ErrorResponse
// @Router /api/user-stats [get]
func (c *StatsController) GetUserStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.StatsService.GetUserStats(ctx.Request.Context(), claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.JSON(ctx, stats)
}

// GetAdminStats godoc
// @Summary 管理后台统计
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} model.AdminOverview
// @Failure 401 {object} util.ErrorResponse
// @Failure 403 {object} util.ErrorResponse
// @Router /api/admin/stats [get]
func (c *StatsController) GetAdminStats(ctx *gin.Context) {
	overview, err := c.StatsService.GetAdminOverview(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.JSON(ctx, overview)
}
