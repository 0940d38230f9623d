package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/cache"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/config"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/db"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/grpcserver"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/kafka"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/logger"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/notify"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/push"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/repository/postgresql"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/server"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/storage"
	"github.com/Jerryneche/edmich-autoplux-v2-sub000/internal/tracking"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	database, err := db.NewDb(ctx, cfg.DB.DSN())
	if err != nil {
		log.Fatal("Database init error", zap.Error(err))
	}
	defer database.Close()

	notificationRepo := postgresql.NewNotificationRepo(database)
	deviceTokenRepo := postgresql.NewDeviceTokenRepo(database)
	orderRepo := postgresql.NewOrderRepo(database)
	bookingRepo := postgresql.NewBookingRepo(database)
	trackingRepo := postgresql.NewTrackingRepo(database)
	outboxRepo := postgresql.NewOutboxTaskRepo()

	var tokens push.TokenSource = deviceTokenRepo
	if cfg.Redis.URL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn("Redis unavailable, reading device tokens from the database", zap.Error(err))
		} else {
			defer rdb.Close()
			tokens = cache.NewTokenCache(rdb, deviceTokenRepo, cfg.Redis.TokenTTL, log.Named("token_cache"))
		}
	}

	gateway := push.NewHTTPGateway(cfg.Push.GatewayURL, cfg.Push.AccessToken, cfg.Push.Timeout)
	dispatcher := push.NewDispatcher(tokens, gateway, cfg.Push.BatchSize, log.Named("push"))
	orchestrator := notify.NewOrchestrator(notificationRepo, dispatcher, log.Named("notify"))

	timeline := tracking.NewTimeline(database, trackingRepo, log.Named("tracking"))
	stg := storage.NewStorage(database, orderRepo, bookingRepo, outboxRepo, timeline, cfg.Kafka.Topic, log.Named("storage"))

	var producer kafka.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer = kafka.NewKafkaProducer(cfg.Kafka.Brokers, log.Named("kafka"))
	} else {
		producer = kafka.NewConsoleProducer(log.Named("kafka"))
	}
	publisher := kafka.NewPublisher(database, outboxRepo, producer, kafka.PublisherConfig{
		PollInterval: cfg.Outbox.PollInterval,
		BatchSize:    cfg.Outbox.BatchSize,
		MaxAttempts:  cfg.Outbox.MaxAttempts,
		ClaimTimeout: cfg.Outbox.ClaimTimeout,
	}, log.Named("outbox"))

	httpSrv := server.New(stg, timeline, orchestrator, notificationRepo, log.Named("http"))
	grpcSrv := grpcserver.NewServer(log.Named("grpc"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		publisher.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return httpSrv.Run(cfg.HTTPPort)
	})
	g.Go(func() error {
		return grpcSrv.Run(cfg.GRPCPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")
		grpcSrv.SetServing(false)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		err := httpSrv.Shutdown(shutdownCtx)
		grpcSrv.Stop()
		publisher.Shutdown()
		return err
	})

	if err := database.Ping(ctx); err != nil {
		log.Error("Database ping failed", zap.Error(err))
	} else {
		grpcSrv.SetServing(true)
	}

	log.Info("Notification service started",
		zap.String("http_port", cfg.HTTPPort),
		zap.String("grpc_port", cfg.GRPCPort))

	if err := g.Wait(); err != nil {
		log.Error("Service stopped with error", zap.Error(err))
		return
	}
	log.Info("Service gracefully stopped")
}
