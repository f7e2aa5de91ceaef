package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pgha-inspect/internal/cli"
	"pgha-inspect/internal/config"
	"pgha-inspect/internal/pkg/logger"
)

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	// 初始化日志
	cfg := config.LoadConfig()
	appLogger := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	zap.ReplaceGlobals(appLogger.Logger)
	if envErr != nil {
		appLogger.Debug("No .env file loaded, using environment and defaults")
	}

	if err := cli.Execute(); err != nil {
		zap.L().Fatal("Cluster inspection failed", zap.Error(err))
	}
	_ = zap.L().Sync()
}
