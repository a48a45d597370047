// @title BitLab 后端 API
// @version 1.0
// @description BitLab 编程练习平台的后端服务器：题库、判题、统计、快速练习、试卷管理和 AI 助手。

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"bitlab_backend/internal/app"
	"bitlab_backend/internal/config"
	"bitlab_backend/pkg/database"
	"bitlab_backend/pkg/logger"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	seed := flag.Bool("seed", false, "空库时写入演示题目和试卷")
	flag.Parse()

	// .env 不存在时直接使用环境变量
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly
	cfg.Seed = *seed

	// 迁移完成后直接退出，不连接 Redis
	if *migrateOnly {
		logger.InitLogger(cfg)
		defer logger.Log.Sync()

		db, err := database.InitDB(cfg)
		if err != nil {
			logger.Log.Fatal("Database migration failed", zap.Error(err))
		}
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		log.Println("数据库迁移完成，退出程序")
		return
	}

	app.NewApp(cfg).Run()
}
