package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/delir1um/Bizzin-sub001/internal/analysis"
	"github.com/delir1um/Bizzin-sub001/internal/config"
	"github.com/delir1um/Bizzin-sub001/internal/db"
	"github.com/delir1um/Bizzin-sub001/internal/digest"
	"github.com/delir1um/Bizzin-sub001/internal/handlers"
	"github.com/delir1um/Bizzin-sub001/internal/logging"
	"github.com/delir1um/Bizzin-sub001/internal/middleware"
	"github.com/delir1um/Bizzin-sub001/internal/realtime"
	"github.com/delir1um/Bizzin-sub001/internal/router"
)

func main() {
	cfg := config.Load()
	logging.Init(false, logging.ParseLevel(cfg.LogLevel))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	hub := realtime.NewHub()

	analysisStore := analysis.NewStore(store, cfg.MasterKey)
	var fallback *analysis.ProviderConfig
	if cfg.HFAPIToken != "" {
		fallback = &analysis.ProviderConfig{
			ProviderName:   "huggingface",
			APIToken:       cfg.HFAPIToken,
			BaseURL:        cfg.HFBaseURL,
			SentimentModel: cfg.SentimentModel,
			EmotionModel:   cfg.EmotionModel,
		}
	}
	analysisRouter := analysis.NewRouter(analysis.NewFactory(), analysisStore, fallback)

	cache, err := analysis.NewResultCache(4096, 24*time.Hour)
	if err != nil {
		log.Fatalf("failed to init result cache: %v", err)
	}
	registry := prometheus.NewRegistry()
	metrics := analysis.MustNewMetrics(registry)
	service := analysis.NewService(cache, analysisRouter, analysisStore, metrics)

	api := handlers.NewAPI(store, hub)
	api.Analysis = service
	api.AnalysisStore = analysisStore
	api.Digest = digest.NewService(store, digest.NewMailer(cfg.EmailAPIURL, cfg.EmailAPIKey, cfg.EmailFrom))
	api.FrontendOrigin = cfg.FrontendOrigin
	api.CronSecret = cfg.CronSecret

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	if cfg.RedisURL != "" {
		queue, err := analysis.NewQueue(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		api.Queue = queue
		api.WorkerScheduler = analysis.NewWorkerScheduler(queue, service, store, analysisStore, hub)
		api.WorkerScheduler.EnsureTenant(appCtx, 1)
	}

	monitor := &analysis.HealthMonitor{Router: analysisRouter, Store: analysisStore}
	api.HealthScheduler = analysis.NewHealthScheduler(monitor)
	api.HealthScheduler.EnsureTenant(appCtx, 1)

	limiter := middleware.NewRateLimiter(60, time.Minute)
	rt := router.New(api, limiter, cfg.FrontendOrigin, hub, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     rt,
		ReadTimeout: 10 * time.Second,
		// The dashboard stream holds its response open, so no WriteTimeout.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("server listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
