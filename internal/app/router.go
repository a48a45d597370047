package app

import (
	"bitlab_backend/docs"
	"bitlab_backend/internal/config"
	"bitlab_backend/internal/middleware"
	"bitlab_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要登录的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		a.registerStudentRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
		public.GET("/theory", c.theory.ListSections)
	}
}

func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/profile", c.auth.Profile)

	// 题库与作答
	group.GET("/tasks", c.task.ListTasks)
	group.POST("/submit-answer", c.task.SubmitAnswer)
	group.POST("/user-tasks", c.task.SubmitAnswer)
	group.GET("/user-stats", c.stats.GetUserStats)

	// 快速练习
	selection := group.Group("/task-selection")
	{
		selection.GET("", c.selection.GetSelection)
		selection.POST("/submit", c.selection.Submit)
		selection.GET("/sessions/:id", c.selection.GetSession)
	}
	group.GET("/tests/selection", c.selection.GetSelection)
	group.POST("/tests/selection/submit", c.selection.Submit)

	// 试卷
	group.GET("/variants", c.variant.ListVariants)
	group.GET("/variants/:id", c.variant.GetVariant)

	// AI
	group.POST("/ai-assistant", c.ai.Ask)
	group.POST("/explain-task", c.ai.ExplainTask)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.AdminMiddleware(repos.user))
	{
		admin.GET("/stats", c.stats.GetAdminStats)

		admin.GET("/tasks", c.admin.ListTasks)
		admin.POST("/tasks", c.admin.CreateTask)
		admin.PUT("/tasks", c.admin.UpdateTask)
		admin.PUT("/tasks/:id", c.admin.UpdateTask)
		admin.POST("/tasks/files", c.admin.UploadTaskFile)

		admin.GET("/variants", c.admin.ListVariants)
		admin.POST("/variants", c.admin.CreateVariant)
		admin.PUT("/variants", c.admin.UpdateVariant)
		admin.PUT("/variants/:id", c.admin.UpdateVariant)
	}
}
