package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jadwal-backend/internal/config"
	"jadwal-backend/internal/database"
	httpapi "jadwal-backend/internal/http"
	"jadwal-backend/internal/logger"
	"jadwal-backend/internal/notify"
	"jadwal-backend/internal/repository"
	"jadwal-backend/internal/service"
	"jadwal-backend/internal/store"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format, "jadwal-backend")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("Starting jadwal-backend",
		zap.String("http_addr", cfg.HTTP.Addr),
		zap.Bool("sync_enabled", cfg.Sync.Enabled),
		zap.Strings("sync_cron", cfg.Sync.CronSpecs),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	kv := store.NewRedisKV(redisClient)

	// Repositories: Postgres when enabled and reachable, in-memory otherwise
	// so the service still comes up for local development.
	var db *sql.DB
	var schedulesRepo repository.SchedulesRepo
	var attendanceRepo repository.AttendanceRepo
	var latenessRepo repository.LatenessRepo
	if cfg.DBEnabled {
		if d, err := database.NewPostgres(&cfg.Database); err == nil {
			db = d
			zlog.Info("DB enabled for jadwal-backend")
		} else {
			zlog.Warn("DB enabled but connection failed, falling back to in-memory repositories", zap.Error(err))
		}
	}
	if db != nil {
		schedulesRepo = repository.NewPostgresSchedulesRepo(db)
		attendanceRepo = repository.NewPostgresAttendanceRepo(db)
		latenessRepo = repository.NewPostgresLatenessRepo(db)
	} else {
		schedulesRepo = repository.NewMemorySchedulesRepo()
		attendanceRepo = repository.NewMemoryAttendanceRepo()
		latenessRepo = repository.NewMemoryLatenessRepo()
	}

	fetcher := service.NewTimeClockClient(cfg.TimeClock.BaseURL, cfg.TimeClock.Timeout, zlog)
	archiver := service.NewImageArchiver(service.ImageArchiverConfig{
		UploadURL:        cfg.ImageCDN.UploadURL,
		APIKey:           cfg.ImageCDN.APIKey,
		ArchivedHost:     cfg.ImageCDN.ArchivedHost,
		FolderPrefix:     cfg.ImageCDN.FolderPrefix,
		MaxDownloadBytes: cfg.ImageCDN.MaxDownloadBytes,
		DownloadTimeout:  cfg.ImageCDN.DownloadTimeout,
		UploadTimeout:    cfg.ImageCDN.UploadTimeout,
	}, zlog)
	processor := service.NewIngestProcessor(fetcher, archiver, attendanceRepo,
		cfg.Sync.BatchSize, cfg.Sync.BatchDelay, zlog)
	jobs := service.NewJobManager(0, zlog)
	latenessService := service.NewLatenessService(schedulesRepo, attendanceRepo, latenessRepo, zlog)

	router := httpapi.NewRouter(zlog)
	authMW := httpapi.NewAuthMiddleware(kv, zlog)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(kv, cfg.Sync.Username, cfg.Sync.Password, zlog))
	router.RegisterHealthRoutes(httpapi.NewHealthHandler(db, redisClient))
	router.RegisterAttendanceRoutes(httpapi.NewAttendanceHandler(jobs, processor, schedulesRepo, attendanceRepo, zlog), authMW)
	router.RegisterScheduleRoutes(httpapi.NewScheduleHandler(schedulesRepo, zlog), authMW)
	router.RegisterLatenessRoutes(httpapi.NewLatenessHandler(latenessService, zlog), authMW)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	var orchestrator *service.Orchestrator
	if cfg.Sync.Enabled {
		var notifier service.Notifier
		if cfg.SMTP.Host != "" {
			notifier = notify.NewMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User,
				cfg.SMTP.Pass, cfg.SMTP.From, cfg.SMTP.To, zlog)
		}
		orchestrator = service.NewOrchestrator(service.OrchestratorConfig{
			BaseURL:      cfg.Sync.BaseURL,
			Username:     cfg.Sync.Username,
			Password:     cfg.Sync.Password,
			CronSpecs:    cfg.Sync.CronSpecs,
			Timezone:     cfg.Sync.Timezone,
			PollInterval: cfg.Sync.PollInterval,
			WaitBudget:   cfg.Sync.WaitBudget,
		}, service.NewTokenCache(kv), notifier, zlog)
		if err := orchestrator.StartSchedules(); err != nil {
			zlog.Fatal("Failed to start sync schedules", zap.Error(err))
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	zlog.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	if orchestrator != nil {
		orchestrator.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Error during shutdown", zap.Error(err))
	}
	database.Close(db)
	redisClient.Close()

	zlog.Info("Service stopped")
}
