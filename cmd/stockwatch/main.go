package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dimaswib/go-shop-backend/internal/catalog"
	"github.com/dimaswib/go-shop-backend/internal/config"
	kafkax "github.com/dimaswib/go-shop-backend/internal/kafka"
	"github.com/dimaswib/go-shop-backend/internal/logx"
	"github.com/dimaswib/go-shop-backend/internal/orders"
	"github.com/dimaswib/go-shop-backend/internal/postgres"
	"github.com/dimaswib/go-shop-backend/internal/redisx"
	"github.com/dimaswib/go-shop-backend/internal/stockwatch"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logx.New(cfg.ServiceName + "-stockwatch")
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &stockwatch.Service{
		Stock:     &catalog.Repo{DB: db},
		Redis:     rdb,
		Threshold: cfg.LowStockThreshold,
		Log:       log,
	}

	group := getenv("STOCKWATCH_GROUP", "stockwatch")
	workers := mustAtoi(os.Getenv("STOCKWATCH_WORKERS"), 4)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderPlaced, workers, log)

	go func() {
		log.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
		if err := http.ListenAndServe(cfg.MetricsAddr, promhttp.Handler()); err != nil && err != http.ErrServerClosed {
			log.Warn("metrics listener", zap.Error(err))
		}
	}()

	go func() {
		log.Info("consumer started",
			zap.String("group", group),
			zap.String("topic", orders.TopicOrderPlaced),
			zap.Int("workers", workers))
		if err := cons.Start(ctx, svc.HandleOrderPlaced); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
