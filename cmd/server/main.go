package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"marketlens/internal/api"
	"marketlens/internal/catalog"
	"marketlens/internal/collector"
	"marketlens/internal/config"
	"marketlens/internal/logger"
	"marketlens/internal/metrics"
	"marketlens/internal/notifier"
	"marketlens/internal/overview"
	"marketlens/internal/scheduler"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bootLog := logrus.New()
	if err := config.LoadDotEnv(); err != nil {
		bootLog.Fatalf("load .env: %v", err)
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		bootLog.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		bootLog.Fatalf("config validation: %v", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		bootLog.Fatalf("init logger: %v", err)
	}
	gin.SetMode(gin.ReleaseMode)
	log.Info("MarketLens starting")

	m := metrics.NewMetrics()

	// Data source: provider, metered, optionally cached.
	var base collector.Source
	switch cfg.DataSource.Provider {
	case "rest":
		base = collector.NewRESTSource(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, log)
	case "mock":
		base = &collector.MockSource{}
	default:
		base = collector.NewYahooSource(cfg.Proxy, log)
	}
	var src collector.Source = &collector.MeteredSource{Source: base, Metrics: m}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable, chart cache will bypass until it recovers")
		}
		src = collector.NewCachedSource(src, rdb, cfg.Redis.TTL(), log, m)
	}
	log.WithField("source", src.Name()).Info("data source ready")

	col := collector.NewCollector(src, log)

	ov := overview.NewBuilder(src, log, m)
	if len(cfg.Overview.Symbols) > 0 {
		ov.Symbols = cfg.Overview.Symbols
	}
	if len(cfg.Overview.Watchlist) > 0 {
		ov.Watch = cfg.Overview.Watchlist
	}
	ov.Concurrency = cfg.Overview.Concurrency

	var cat catalog.Catalog
	var store scheduler.SymbolStore
	sc, err := catalog.NewSQLiteCatalog(cfg.Catalog.SQLitePath, log)
	if err != nil {
		log.WithError(err).Warn("init sqlite catalog failed, using built-in list")
		cat = catalog.NewMemoryCatalog()
	} else {
		cat = sc
		store = sc
	}
	defer cat.Close()

	hub := api.NewHub(log, m)
	defer hub.Close()

	var tn *notifier.TelegramNotifier
	var alerts scheduler.Notifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)
		alerts = tn
	}

	sched := scheduler.NewScheduler(ctx, ov, col, hub, alerts, log)
	sched.Symbols = store
	if err := sched.RegisterAll(cfg.Overview.RefreshCron); err != nil {
		log.Fatalf("register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()
	go sched.RefreshNow()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           api.NewServer(col, ov, cat, hub, m, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("HTTP server listening on %s", cfg.HTTP.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, stopping")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown error")
	}
	log.Info("MarketLens stopped")
}
