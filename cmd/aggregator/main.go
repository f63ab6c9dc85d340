package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/edoardok-cmd/BOOM-Card-sub004/internal/analytics"
	"github.com/edoardok-cmd/BOOM-Card-sub004/internal/config"
	"github.com/edoardok-cmd/BOOM-Card-sub004/internal/repository"
	"github.com/edoardok-cmd/BOOM-Card-sub004/internal/version"
)

func main() {
	build := version.GetBuildInfo()
	log.Printf("🚀 Starting analytics aggregator %s (commit %s, built %s)",
		build["version"], build["git_commit"], build["build_time"])

	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.App.Environment == "development" {
		log.Printf("Config loaded:\n%s", cfg.SafeString())
	}

	db, err := repository.InitDatabase(cfg.Database, cfg.App)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	log.Printf("Database initialized")

	defer func() {
		if err := repository.CloseDatabase(db); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if err := repository.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Printf("Database migrated")

	redisClient, err := analytics.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	if redisClient == nil {
		log.Println("⚠️ Redis not configured, metric snapshots will not be cached")
	}

	defer func() {
		if err := analytics.CloseRedisClient(redisClient); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}()

	txRepo := repository.NewTransactionRepository(db)
	userRepo := repository.NewUserRepository(db)
	partnerRepo := repository.NewPartnerRepository(db)
	platformMetrics := repository.NewPlatformMetricRepository(db)
	partnerMetrics := repository.NewPartnerMetricRepository(db)

	service := analytics.NewService(
		txRepo,
		userRepo,
		partnerRepo,
		platformMetrics,
		partnerMetrics,
		analytics.NewCache(redisClient),
		cfg.Analytics,
	)

	scheduler := analytics.NewScheduler(service, cfg.Analytics.DailyRunHour)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	if cfg.App.Environment == "development" {
		log.Println("Running initial aggregation...")
		scheduler.RunNow()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Analytics aggregator started successfully!")
	log.Println("Press Ctrl+C to stop...")

	<-quit
	log.Println("\n🛑 Shutting down gracefully...")

	scheduler.Stop()
}
