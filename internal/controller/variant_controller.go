package controller

import (
	"bitlab_backend/internal/service"
	"bitlab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type VariantController struct {
	VariantService *service.VariantService
}

func NewVariantController(variantService *service.VariantService) *VariantController {
	return &VariantController{VariantService: variantService}
}

// ListVariants godoc
// @Summary 试卷列表（不含答案）
// @Tags 试卷
// @Produce  json
// @Security ApiKeyAuth
// @Param   difficulty query string false "难度" Enums(easy, medium, hard)
// @Success 200 {object} util.DataResponse{data=[]model.PublicVariant}
// @Router /api/variants [get]
func (c *VariantController) ListVariants(ctx *gin.Context) {
	difficulty, err := service.ParseDifficulty(ctx.Query("difficulty"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	variants, err := c.VariantService.ListPublic(ctx.Request.Context(), difficulty)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, variants)
}

// GetVariant godoc
// @Summary 试卷详情（不含答案）
// @Tags 试卷
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "试卷 ID"
// @Success 200 {object} util.DataResponse{data=model.PublicVariant}
// @Failure 404 {object} util.ErrorResponse
// @Router /api/variants/{id} [get]
func (c *VariantController) GetVariant(ctx *gin.Context) {
	id, err := util.ParseID(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	variant, err := c.VariantService.GetPublic(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, variant)
}
