package controller

import (
	"bitlab_backend/internal/service"
	"bitlab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TheoryController struct {
	TheoryService *service.TheoryService
}

func NewTheoryController(theoryService *service.TheoryService) *TheoryController {
	return &TheoryController{TheoryService: theoryService}
}

// ListSections godoc
// @Summary 理论章节目录
// @Tags 理论
// @Produce  json
// @Success 200 {object} util.DataResponse{data=[]model.TheorySection}
// @Router /api/theory [get]
func (c *TheoryController) ListSections(ctx *gin.Context) {
	util.Success(ctx, c.TheoryService.Sections())
}
