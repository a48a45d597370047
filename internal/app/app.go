package app

import (
	"bitlab_backend/internal/config"
	"bitlab_backend/internal/controller"
	"bitlab_backend/internal/repository"
	"bitlab_backend/internal/service"
	"bitlab_backend/pkg/configwatcher"
	"bitlab_backend/pkg/database"
	"bitlab_backend/pkg/logger"
	"bitlab_backend/pkg/monitoring"
	"bitlab_backend/pkg/security"
	"bitlab_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configDir = "configs"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
	tracerProvider  *sdktrace.TracerProvider
	rateLimiter     *security.RateLimiter
}

type repositories struct {
	user             *repository.UserRepository
	task             *repository.TaskRepository
	variant          *repository.VariantRepository
	activity         *repository.ActivityRepository
	selectionSession *repository.SelectionSessionRepository
	aiCache          *repository.AICacheRepository
}

type services struct {
	auth      *service.AuthService
	storage   *service.StorageService
	activity  *service.ActivityService
	stats     *service.StatsService
	selection *service.SelectionService
	task      *service.TaskService
	variant   *service.VariantService
	ai        *service.AIService
	theory    *service.TheoryService
}

type controllers struct {
	auth      *controller.AuthController
	task      *controller.TaskController
	stats     *controller.StatsController
	selection *controller.SelectionController
	variant   *controller.VariantController
	admin     *controller.AdminController
	ai        *controller.AIController
	theory    *controller.TheoryController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:             repository.NewUserRepository(db),
		task:             repository.NewTaskRepository(db),
		variant:          repository.NewVariantRepository(db),
		activity:         repository.NewActivityRepository(db),
		selectionSession: repository.NewSelectionSessionRepository(rdb),
		aiCache:          repository.NewAICacheRepository(rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) (*services, error) {
	s := &services{}

	s.storage = service.NewStorageService(&cfg.Storage)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.activity = service.NewActivityService(repos.task, repos.activity)
	s.stats = service.NewStatsService(repos.user, repos.task, repos.variant, repos.activity, cfg.Server.Location())
	s.selection = service.NewSelectionService(
		repos.task,
		repos.selectionSession,
		s.activity,
		cfg.Selection.Size,
		cfg.Selection.SessionTTL(),
	)
	s.task = service.NewTaskService(repos.task, repos.activity)
	s.variant = service.NewVariantService(repos.variant, repos.task)
	s.ai = service.NewAIService(cfg.AI, repos.aiCache)

	theory, err := service.NewTheoryService()
	if err != nil {
		return nil, err
	}
	s.theory = theory

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		task:      controller.NewTaskController(s.task, s.activity),
		stats:     controller.NewStatsController(s.stats),
		selection: controller.NewSelectionController(s.selection),
		variant:   controller.NewVariantController(s.variant),
		admin:     controller.NewAdminController(s.task, s.variant, s.storage),
		ai:        controller.NewAIController(s.ai),
		theory:    controller.NewTheoryController(s.theory),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	if limiter := security.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window()); limiter != nil {
		a.rateLimiter = limiter
		router.Use(limiter.Middleware())
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// registerConfigCallbacks 配置热更新：日志级别和 AI 服务商设置
func (a *App) registerConfigCallbacks(s *services) {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		logger.SetMode(cfg.Server.Mode)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.ai.UpdateConfig(cfg.AI)
	})
}

// Build 用已建立的连接组装路由，测试时传入 sqlite + miniredis
func Build(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*App, error) {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services, err := app.initServices(repos, cfg)
	if err != nil {
		return nil, err
	}
	app.services = services
	controllers := app.initControllers(services, db, rdb)
	app.registerConfigCallbacks(services)

	// 监控初始化
	monitoring.Init()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos, cfg)

	// 远端存储初始化失败也会退回本地目录，按实际 provider 判断
	if local, ok := services.storage.Provider.(*service.LocalStorageProvider); ok {
		router.Static("/uploads", local.Root)
	}

	return app, nil
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")
	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app, err := Build(cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to build application", zap.Error(err))
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	return app
}

func (a *App) watchConfig(ctx context.Context) {
	path := filepath.Join(configDir, "config.yaml")
	err := configwatcher.WatchConfig(ctx, path, time.Second, func(cfg *config.Config) {
		for _, callback := range a.configCallbacks {
			callback(cfg)
		}
	})
	if err != nil {
		logger.Log.Warn("Config watcher stopped", zap.Error(err))
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go a.watchConfig(watchCtx)
	if a.rateLimiter != nil {
		go a.rateLimiter.Run(watchCtx)
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	stopWatch()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if err := a.Redis.Close(); err != nil {
		logger.Log.Warn("Failed to close redis", zap.Error(err))
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
	logger.Log.Sync()
}
