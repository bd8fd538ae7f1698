package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/campus-sched-api/api/swagger"
	internalhandler "github.com/noah-isme/campus-sched-api/internal/handler"
	internalmiddleware "github.com/noah-isme/campus-sched-api/internal/middleware"
	"github.com/noah-isme/campus-sched-api/internal/repository"
	"github.com/noah-isme/campus-sched-api/internal/service"
	"github.com/noah-isme/campus-sched-api/pkg/cache"
	"github.com/noah-isme/campus-sched-api/pkg/config"
	"github.com/noah-isme/campus-sched-api/pkg/database"
	"github.com/noah-isme/campus-sched-api/pkg/jobs"
	"github.com/noah-isme/campus-sched-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-sched-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-sched-api/pkg/middleware/requestid"
)

// @title Campus Scheduling API
// @version 0.1.0
// @description Constraint-based course scheduling service
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise database", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()
	metricsHandler := internalhandler.NewMetricsHandler(metricsSvc)

	var cacheSvc *service.CacheService
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to initialise redis", "error", err)
		}
		defer redisClient.Close()
		cacheSvc = service.NewCacheService(redisClient, cfg.Scheduler.SummaryCacheTTL, logr)
	}

	roomRepo := repository.NewRoomRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	timeslotRepo := repository.NewTimeslotRepository(db)
	curriculumRepo := repository.NewCurriculumRepository(db)
	dayBlockRepo := repository.NewDayBlockRepository(db)
	maintenanceRepo := repository.NewMaintenanceRepository(db)
	runRepo := repository.NewScheduleRunRepository(db)
	entryRepo := repository.NewScheduleEntryRepository(db)

	schedulingSvc := service.NewSchedulingService(
		roomRepo,
		teacherRepo,
		timeslotRepo,
		curriculumRepo,
		dayBlockRepo,
		maintenanceRepo,
		runRepo,
		entryRepo,
		db,
		cacheSvc,
		metricsSvc,
		nil,
		logr,
	)

	runQueue := jobs.NewQueue("schedule-runs", schedulingSvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Scheduler.Workers,
		BufferSize: cfg.Scheduler.QueueSize,
		Logger:     logr,
	})
	runQueue.Start(context.Background())
	defer runQueue.Stop()
	schedulingSvc.SetQueue(runQueue)

	exportSvc := service.NewExportService(runRepo, entryRepo, logr)
	masterDataSvc := service.NewMasterDataService(roomRepo, teacherRepo, timeslotRepo, logr)

	runHandler := internalhandler.NewScheduleRunHandler(schedulingSvc, exportSvc)
	masterDataHandler := internalhandler.NewMasterDataHandler(masterDataSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.GET("/rooms", masterDataHandler.Rooms)
	api.GET("/teachers", masterDataHandler.Teachers)
	api.GET("/timeslots", masterDataHandler.Timeslots)

	api.POST("/schedule/runs", runHandler.Generate)
	api.GET("/schedule/runs", runHandler.List)
	api.GET("/schedule/runs/:id", runHandler.Get)
	api.GET("/schedule/runs/:id/entries", runHandler.Entries)
	api.GET("/schedule/runs/:id/export", runHandler.Export)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
