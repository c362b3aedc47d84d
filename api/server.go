package api

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rafa-porto/dev-connect/api/cache"
	"github.com/rafa-porto/dev-connect/api/config"
	"github.com/rafa-porto/dev-connect/api/controllers"
	"github.com/rafa-porto/dev-connect/api/database"
	"github.com/rafa-porto/dev-connect/api/engagement"
	"github.com/rafa-porto/dev-connect/api/events"
	"github.com/rafa-porto/dev-connect/api/jobs"
	applog "github.com/rafa-porto/dev-connect/api/logger"
	"github.com/rafa-porto/dev-connect/api/notifications"
	"github.com/rafa-porto/dev-connect/api/seed"
	"github.com/rafa-porto/dev-connect/api/store"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

var server = controllers.Server{}

// Run wires the application from the environment and serves until SIGINT or SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applog.Init(applog.Options{Env: cfg.AppEnv, Level: cfg.LogLevel}); err != nil {
		return fmt.Errorf("cannot initialize logger: %w", err)
	}
	defer applog.Sync()
	log := applog.Get()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			log.Warn("Sentry disabled", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("cannot migrate database: %w", err)
		}
	}
	log.Info("Database ready", zap.String("driver", db.Dialector.Name()))

	cacheStore := cache.New(nil)
	if redisClient, err := cache.Connect(cfg); err != nil {
		log.Warn("Redis unavailable, caching disabled", zap.Error(err))
	} else {
		cacheStore = cache.New(redisClient)
	}
	defer cacheStore.Close()

	var publisher events.Publisher
	if cfg.NatsURL != "" {
		client, err := events.NewClient(events.Config{
			URL:           cfg.NatsURL,
			MaxReconnects: 10,
			ReconnectWait: 2 * time.Second,
			ClientName:    "dev-connect-api",
		})
		if err != nil {
			return fmt.Errorf("cannot connect to nats: %w", err)
		}
		defer client.Close()

		notifier := notifications.NewNotifier(db, client)
		if err := notifier.Start(); err != nil {
			return fmt.Errorf("cannot start notification subscriber: %w", err)
		}
		defer notifier.Stop()
		publisher = events.NewNatsPublisher(client)
	} else {
		log.Info("NATS_URL not set, notifications are written in-process")
		publisher = notifications.NewNotifier(db, nil)
	}

	posts, err := store.NewPostStore(db)
	if err != nil {
		return err
	}
	svc := engagement.NewService(db, posts,
		engagement.WithCache(cacheStore),
		engagement.WithPublisher(publisher),
		engagement.WithMaxAttempts(cfg.EngagementMaxRetries),
		engagement.WithFollowingTTL(cfg.FeedCacheTTL),
	)

	scheduler := jobs.NewScheduler()
	if err := scheduler.ScheduleRecount(cfg.RecountSchedule, svc); err != nil {
		return fmt.Errorf("invalid RECOUNT_SCHEDULE: %w", err)
	}
	scheduler.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		scheduler.Stop(ctx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedDemo {
		if err := seed.Load(ctx, svc); err != nil {
			return fmt.Errorf("cannot seed demo data: %w", err)
		}
	}

	server.DB = db
	server.Engagement = svc
	server.Cache = cacheStore
	server.Log = log
	server.Initialize(cfg)

	addr := ":" + strings.TrimSpace(cfg.Port)
	return server.Run(ctx, addr)
}
