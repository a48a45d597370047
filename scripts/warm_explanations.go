// 预热题目讲解缓存
//
// 对题库中的全部题目请求一次 AI 讲解并写入 Redis，
// 适合首次部署或批量导入题目之后手动执行，避免学生第一次点击时等待大模型。
//
// 用法: go run scripts/warm_explanations.go [-limit 50]

package main

import (
	"bitlab_backend/internal/config"
	"bitlab_backend/internal/repository"
	"bitlab_backend/internal/service"
	"bitlab_backend/pkg/database"
	"bitlab_backend/pkg/logger"
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	limit := flag.Int("limit", 0, "最多处理的题目数量，0 表示全部")
	delay := flag.Duration("delay", time.Second, "两次请求之间的间隔")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Redis 连接失败: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()
	tasks, err := repository.NewTaskRepository(db).FindAll(ctx)
	if err != nil {
		log.Fatalf("读取题目失败: %v", err)
	}
	if *limit > 0 && len(tasks) > *limit {
		tasks = tasks[:*limit]
	}

	aiService := service.NewAIService(cfg.AI, repository.NewAICacheRepository(rdb))

	log.Printf("开始预热 %d 道题目的讲解...", len(tasks))
	failed := 0
	for i, task := range tasks {
		if task.Description == "" {
			continue
		}
		if _, err := aiService.ExplainTask(ctx, task.ID, task.Description); err != nil {
			failed++
			logger.Log.Warn("warm explanation failed", zap.Uint("taskId", task.ID), zap.Error(err))
		}
		if i < len(tasks)-1 {
			time.Sleep(*delay)
		}
	}
	log.Printf("完成！失败 %d 道", failed)
}
