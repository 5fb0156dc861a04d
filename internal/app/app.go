package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"training_exam_backend/internal/config"
	"training_exam_backend/internal/controller"
	"training_exam_backend/internal/repository"
	"training_exam_backend/internal/service"
	"training_exam_backend/pkg/configwatcher"
	"training_exam_backend/pkg/database"
	"training_exam_backend/pkg/logger"
	"training_exam_backend/pkg/monitoring"
	"training_exam_backend/pkg/security"
	"training_exam_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configDir = "configs"

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	services        *services
	tracer          *sdktrace.TracerProvider
	ctx             context.Context
	cancel          context.CancelFunc
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	exam       *repository.ExamRepository
	assignment *repository.AssignmentRepository
	attempt    *repository.AttemptRepository
	training   *repository.TrainingRepository
}

type services struct {
	access   *service.AccessResolver
	gate     *service.TrainingGateService
	attempt  *service.AttemptService
	notifier service.Notifier
	sweeper  *service.AttemptSweeper
}

type controllers struct {
	attempt *controller.AttemptController
	health  *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		exam:       repository.NewExamRepository(db),
		assignment: repository.NewAssignmentRepository(db),
		attempt:    repository.NewAttemptRepository(db),
		training:   repository.NewTrainingRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	var notifier service.Notifier = service.LogNotifier{}
	if rdb != nil {
		notifier = service.NewRedisNotifier(rdb, cfg.Exam.NotificationChannel)
	}

	access := service.NewAccessResolver(repos.exam, repos.user, repos.assignment)
	gate := service.NewTrainingGateService(repos.user, repos.training)
	attempt := service.NewAttemptService(db, repos.attempt, repos.exam, access, gate, notifier)

	return &services{
		access:   access,
		gate:     gate,
		attempt:  attempt,
		notifier: notifier,
		sweeper:  service.NewAttemptSweeper(attempt),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		attempt: controller.NewAttemptController(s.attempt),
		health:  controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	if err := s.sweeper.Start(a.Config.Exam.SweepSchedule); err != nil {
		logger.Log.Error("Invalid sweep schedule, expired attempts close on access only",
			zap.String("schedule", a.Config.Exam.SweepSchedule),
			zap.Error(err))
	}
	a.RegisterConfigCallback(func(cfg *config.Config) {
		if err := s.sweeper.Reschedule(cfg.Exam.SweepSchedule); err != nil {
			logger.Log.Error("Rejected sweep schedule from reloaded config", zap.Error(err))
		}
	})

	w := configwatcher.New(configDir)
	w.OnReload(func(cfg *config.Config) {
		for _, cb := range a.configCallbacks {
			cb(cfg)
		}
	})
	go func() {
		if err := w.Run(a.ctx); err != nil {
			logger.Log.Warn("Config watcher stopped", zap.Error(err))
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.ForceMigrate || cfg.Server.Mode != "release"
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Exam.NotificationsEnabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		ctx:    ctx,
		cancel: cancel,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("training-exam-engine", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos)
	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.cancel()
	a.services.sweeper.Stop()

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
}
