package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dimaswib/go-shop-backend/internal/accounts"
	"github.com/dimaswib/go-shop-backend/internal/auth"
	"github.com/dimaswib/go-shop-backend/internal/cart"
	"github.com/dimaswib/go-shop-backend/internal/catalog"
	"github.com/dimaswib/go-shop-backend/internal/config"
	"github.com/dimaswib/go-shop-backend/internal/httpx"
	kafkax "github.com/dimaswib/go-shop-backend/internal/kafka"
	"github.com/dimaswib/go-shop-backend/internal/logx"
	"github.com/dimaswib/go-shop-backend/internal/orders"
	"github.com/dimaswib/go-shop-backend/internal/postgres"
	"github.com/dimaswib/go-shop-backend/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logx.New(cfg.ServiceName)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal("db migrate", zap.Error(err))
	}

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024, log)
	prod.Start(ctx)
	statusProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024, log)
	statusProd.Start(ctx)

	tokens := auth.Tokens{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL}

	accountsSvc := &accounts.Service{
		Store:      &accounts.Repo{DB: db},
		Tokens:     tokens,
		BcryptCost: cfg.BcryptCost,
		Log:        log,
	}
	ordersSvc := &orders.Service{Ledger: &orders.Repo{DB: db}, Log: log}

	router := httpx.NewRouter(log)
	(&httpx.AccountsHandler{Svc: accountsSvc}).Register(router)
	(&httpx.ProductsHandler{Repo: &catalog.Repo{DB: db}, Tokens: tokens}).Register(router)
	(&httpx.CartHandler{Store: &cart.Repo{DB: db}, Tokens: tokens}).Register(router)
	(&httpx.OrdersHandler{
		Svc:            ordersSvc,
		Producer:       prod,
		StatusProducer: statusProd,
		Redis:          rdb,
		Service:        cfg.ServiceName,
	}).Register(router, tokens)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
		if err := http.ListenAndServe(cfg.MetricsAddr, promhttp.Handler()); err != nil && err != http.ErrServerClosed {
			log.Warn("metrics listener", zap.Error(err))
		}
	}()

	go func() {
		log.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // stop accepting -> flush & close writer
	statusProd.Close()
	cancel() // stop producer loops
	prod.WaitClosed()
	statusProd.WaitClosed()
}
