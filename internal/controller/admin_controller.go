package controller

import (
	"bitlab_backend/internal/model"
	"bitlab_backend/internal/repository"
	"bitlab_backend/internal/service"
	"bitlab_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminController 题目和试卷管理，路由组已挂 AdminMiddleware
type AdminController struct {
	TaskService    *service.TaskService
	VariantService *service.VariantService
	StorageService *service.StorageService
}

func NewAdminController(taskService *service.TaskService, variantService *service.VariantService, storageService *service.StorageService) *AdminController {
	return &AdminController{
		TaskService:    taskService,
		VariantService: variantService,
		StorageService: storageService,
	}
}

// idParam 支持 /:id 和 ?id= 两种写法
func idParam(ctx *gin.Context) (uint, error) {
	raw := ctx.Param("id")
	if raw == "" {
		raw = ctx.Query("id")
	}
	return util.ParseID(raw)
}

func limitParam(ctx *gin.Context) (int, error) {
	limit, err := util.ParseOptionalInt(ctx.Query("limit"))
	if err != nil || limit == nil {
		return 0, err
	}
	if *limit < 0 {
		return 0, util.NewValidationError("limit must not be negative")
	}
	return *limit, nil
}

// ListTasks godoc
// @Summary 管理端题目列表
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "数量上限"
// @Param   section query int false "分区"
// @Success 200 {object} util.DataResponse{data=[]model.Task}
// @Failure 400 {object} util.ErrorResponse
// @Failure 403 {object} util.ErrorResponse
// @Router /api/admin/tasks [get]
func (c *AdminController) ListTasks(ctx *gin.Context) {
	limit, err := limitParam(ctx)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	section, err := util.ParseOptionalInt(ctx.Query("section"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	tasks, err := c.TaskService.List(ctx.Request.Context(), repository.TaskFilter{Limit: limit, Section: section})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	util.Success(ctx, tasks)
}

// CreateTask godoc
// @Summary 创建题目
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.TaskInput true "题目"
// @Success 200 {object} util.DataResponse{data=model.Task}
// @Failure 400 {object} util.ErrorResponse
// @Router /api/admin/tasks [post]
func (c *AdminController) CreateTask(ctx *gin.Context) {
	var req service.TaskInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.TaskService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// UpdateTask godoc
// @Summary 更新题目
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "题目 ID"
// @Param   body body service.TaskInput true "题目"
// @Success 200 {object} util.DataResponse{data=model.Task}
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/admin/tasks/{id} [put]
func (c *AdminController) UpdateTask(ctx *gin.Context) {
	id, err := idParam(ctx)
	if err != nil {
		util.BadRequest(ctx, "Task ID is required")
		return
	}
	var req service.TaskInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	task, err := c.TaskService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// UploadTaskFile godoc
// @Summary 上传题目附件
// @Description 返回的 {name, url} 直接放进题目的 files
// @Tags 管理
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "附件"
// @Success 200 {object} util.DataResponse{data=model.Attachment}
// @Failure 400 {object} util.ErrorResponse
// @Router /api/admin/tasks/files [post]
func (c *AdminController) UploadTaskFile(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}

	attachment, err := c.StorageService.SaveAttachment(ctx.Request.Context(), header)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, attachment)
}

// ListVariants godoc
// @Summary 管理端试卷列表
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   limit query int false "数量上限"
// @Param   difficulty query string false "难度" Enums(easy, medium, hard)
// @Success 200 {object} util.DataResponse{data=[]model.Variant}
// @Router /api/admin/variants [get]
func (c *AdminController) ListVariants(ctx *gin.Context) {
	limit, err := limitParam(ctx)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	difficulty, err := service.ParseDifficulty(ctx.Query("difficulty"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	variants, err := c.VariantService.List(ctx.Request.Context(), repository.VariantFilter{Limit: limit, Difficulty: difficulty})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if variants == nil {
		variants = []model.Variant{}
	}
	util.Success(ctx, variants)
}

// CreateVariant godoc
// @Summary 创建试卷
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.VariantInput true "试卷"
// @Success 200 {object} util.DataResponse{data=model.Variant}
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse "题目不存在"
// @Router /api/admin/variants [post]
func (c *AdminController) CreateVariant(ctx *gin.Context) {
	var req service.VariantInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	variant, err := c.VariantService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, variant)
}

// UpdateVariant godoc
// @Summary 更新试卷（题目集合整体替换）
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "试卷 ID"
// @Param   body body service.VariantInput true "试卷"
// @Success 200 {object} util.DataResponse{data=model.Variant}
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/admin/variants/{id} [put]
func (c *AdminController) UpdateVariant(ctx *gin.Context) {
	id, err := idParam(ctx)
	if err != nil {
		util.BadRequest(ctx, "Variant ID is required")
		return
	}
	var req service.VariantInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	variant, err := c.VariantService.Update(ctx.Request.Context(), id, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, variant)
}
