package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"pgha-inspect/internal/config"
	"pgha-inspect/internal/handler"
	"pgha-inspect/internal/pkg/logger"
	"pgha-inspect/internal/router"
	"pgha-inspect/internal/service"
)

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	cfg := config.LoadConfig()

	// 初始化日志
	appLogger := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	defer appLogger.Sync()
	zap.ReplaceGlobals(appLogger.Logger)
	if envErr != nil {
		appLogger.Warn("Failed to load .env file, using default config")
	}

	// 初始化服务
	sshService := service.NewSSHService(cfg.SSH, appLogger)
	inspectionService := service.NewInspectionService(sshService.Connector, cfg.Cluster, appLogger)

	// 初始化处理器
	sshHandler := handler.NewSSHHandler(sshService)
	inspectHandler := handler.NewInspectHandler(inspectionService)

	// 设置 Gin 模式
	gin.SetMode(gin.ReleaseMode)

	// 创建路由
	r := gin.New()

	// 中间件
	r.Use(gin.Recovery())
	r.Use(handler.RequestLogger(appLogger))
	r.Use(handler.Metrics())

	// CORS 配置
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-Request-Id"}
	corsConfig.ExposeHeaders = []string{"Content-Length", "X-Request-Id", "X-Run-Id"}
	r.Use(cors.New(corsConfig))

	// 注册路由
	limiter := rate.NewLimiter(rate.Limit(cfg.Server.RateLimit), cfg.Server.RateBurst)
	router.RegisterRoutes(r, sshHandler, inspectHandler, limiter)

	srv := &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	appLogger.Info("Starting server", zap.String("address", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		appLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
