package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"vip/internal/business"
	"vip/pkg/config"
	"vip/pkg/infra/mysql"
	"vip/pkg/infra/redis"
	"vip/pkg/logger"
)

var (
	configPath   = flag.String("config", "./config/analytics.yaml", "配置文件路径")
	scoresOnly   = flag.Bool("scores-only", false, "仅计算供应商绩效评分")
	forecastOnly = flag.Bool("forecast-only", false, "仅运行需求预测（结果不落库）")
	vendorName   = flag.String("vendor", "", "预测模式下的供应商过滤（为空表示全量）")
	horizonDays  = flag.Int("horizon", 0, "预测天数（0 表示使用配置默认值）")
)

func main() {
	flag.Parse()

	log.Println("========================================")
	log.Println("  VIP Analytics Engine Starting...")
	log.Println("========================================")

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	log.Printf("Config loaded: %s, env: %s, log_level: %s\n", cfg.App.Name, cfg.App.Env, cfg.App.LogLevel)

	// 2. 初始化 Logger
	zapLogger, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// 3. 初始化存储
	dao, err := mysql.NewAnalyticsDAO(cfg.MySQL.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dao.Close()

	// 4. 初始化运行完成通知（可选）
	var notifier business.Notifier
	if cfg.Redis.Addr != "" {
		pubsub, err := redis.NewPubSub(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Channel)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer pubsub.Close()
		notifier = pubsub
	}

	// 5. 组装流水线并按模式执行
	pipeline := business.NewPipeline(dao, notifier, cfg.Analytics, zapLogger)
	ctx := context.Background()

	switch {
	case *scoresOnly:
		if err := pipeline.RunScoresOnly(ctx); err != nil {
			log.Fatalf("Scoring failed: %v", err)
		}
		log.Println("Scoring completed")

	case *forecastOnly:
		result, err := pipeline.RunForecastOnly(ctx, *vendorName, *horizonDays)
		if err != nil {
			log.Fatalf("Forecasting failed: %v", err)
		}
		printJSON(result)

	default:
		report, err := pipeline.Run(ctx)
		if err != nil {
			log.Fatalf("Pipeline failed: %v", err)
		}
		printJSON(report)
	}

	log.Println("========================================")
	log.Println("  Analytics exited")
	log.Println("========================================")
}

// printJSON 将结果以缩进 JSON 输出到标准输出
func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Printf("Failed to encode result: %v", err)
	}
}
