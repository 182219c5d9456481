package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"sublet_hub_v1_202608/internal/controller"
	"sublet_hub_v1_202608/internal/middleware"
	"sublet_hub_v1_202608/internal/model"
	"sublet_hub_v1_202608/internal/repository"
	"sublet_hub_v1_202608/internal/router"
	"sublet_hub_v1_202608/internal/service"
	"sublet_hub_v1_202608/internal/task"
	"sublet_hub_v1_202608/pkg/database"
)

// @title Sublet Hub API
// @version 1.0
// @description 学生转租房源发布与审核服务
// @host localhost:8080
// @BasePath /
func main() {
	// 1. 初始化配置
	middleware.SetJWTConfig(jwtConfigFromEnv())

	// 2. 初始化数据库
	db := initDatabase()

	// 3. 初始化依赖
	deps := initDependencies(db)

	// 4. 启动定时任务
	sweeper := task.NewSessionSweepTask(deps.WizardService)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("启动定时任务失败: %v", err)
	}
	defer sweeper.Stop()

	// 5. 初始化路由
	r := router.SetupRouter(deps.Controllers)

	// 6. 启动服务
	startServer(r)
}

// jwtConfigFromEnv 在默认配置上套用环境变量里的 Token 有效期
// 密钥本身由 JWT_SECRET 覆盖（见 middleware.DefaultJWTConfig）
func jwtConfigFromEnv() *middleware.JWTConfig {
	cfg := middleware.DefaultJWTConfig()
	if v := os.Getenv("JWT_ACCESS_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.AccessTokenTTL = d
		}
	}
	if v := os.Getenv("JWT_REFRESH_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RefreshTokenTTL = d
		}
	}
	return cfg
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB            *gorm.DB
	WizardService *service.WizardService
	Controllers   *router.Controllers
}

func initDatabase() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=sublet_admin password=1234 dbname=sublet_hub port=5432 sslmode=disable"
	}

	return database.InitDB(dsn,
		&model.SysUser{},
		&model.Listing{},
	)
}

func initDependencies(db *gorm.DB) *Dependencies {
	// Repositories
	listingRepo := repository.NewListingRepository(db)
	userRepo := repository.NewUserRepository(db)

	// 存储
	storage, err := service.NewStorageProvider(storageConfigFromEnv())
	if err != nil {
		log.Fatalf("初始化存储失败: %v", err)
	}

	// Services
	authSvc := service.NewAuthService(userRepo)
	wizardSvc := service.NewWizardService(listingRepo)
	mediaSvc := service.NewMediaService(storage)
	listingSvc := service.NewListingService(listingRepo, mediaSvc, wizardSvc, storage)
	moderationSvc := service.NewModerationService(listingRepo)

	return &Dependencies{
		DB:            db,
		WizardService: wizardSvc,
		Controllers: &router.Controllers{
			Auth:       controller.NewAuthController(authSvc),
			Wizard:     controller.NewWizardController(wizardSvc, listingSvc),
			Listing:    controller.NewListingController(listingSvc),
			Moderation: controller.NewModerationController(moderationSvc),
		},
	}
}

func storageConfigFromEnv() *service.StorageConfig {
	provider := os.Getenv("STORAGE_PROVIDER")
	if provider == "" {
		provider = "local"
	}
	return &service.StorageConfig{
		Provider:  provider,
		Bucket:    os.Getenv("STORAGE_BUCKET"),
		Region:    os.Getenv("STORAGE_REGION"),
		AccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
		SecretKey: os.Getenv("STORAGE_SECRET_KEY"),
		Endpoint:  os.Getenv("STORAGE_ENDPOINT"),
		CDNDomain: os.Getenv("STORAGE_CDN_DOMAIN"),
		BasePath:  os.Getenv("STORAGE_BASE_PATH"),
		LocalDir:  os.Getenv("STORAGE_LOCAL_DIR"),
		LocalURL:  os.Getenv("STORAGE_LOCAL_URL"),
	}
}

// ==================== 服务启动 ====================

func startServer(handler http.Handler) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	go func() {
		log.Printf("服务启动, 监听 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 优雅退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务关闭异常: %v", err)
	}
	log.Println("服务已退出")
}
