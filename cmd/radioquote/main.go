package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mmamrila/aiquoting-sub000/internal/audit"
	"github.com/mmamrila/aiquoting-sub000/internal/compatibility"
	"github.com/mmamrila/aiquoting-sub000/internal/config"
	"github.com/mmamrila/aiquoting-sub000/internal/database"
	"github.com/mmamrila/aiquoting-sub000/internal/erp"
	"github.com/mmamrila/aiquoting-sub000/internal/extractor"
	httpapi "github.com/mmamrila/aiquoting-sub000/internal/http"
	"github.com/mmamrila/aiquoting-sub000/internal/learning"
	"github.com/mmamrila/aiquoting-sub000/internal/logger"
	"github.com/mmamrila/aiquoting-sub000/internal/pricing"
	"github.com/mmamrila/aiquoting-sub000/internal/repository"
	"github.com/mmamrila/aiquoting-sub000/internal/service"
	"github.com/mmamrila/aiquoting-sub000/internal/store"
	"github.com/mmamrila/aiquoting-sub000/internal/validator"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "radioquote")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	redisClient := store.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := store.Ping(context.Background(), redisClient); err != nil {
		log.Warn("Redis unreachable, price cache and audit stream degraded", zap.Error(err))
	}
	kv := store.NewRedisKV(redisClient)

	rules, err := compatibility.LoadRuleTable(cfg.CompatibilityRulesFile)
	if err != nil {
		log.Fatal("Failed to load compatibility rules", zap.Error(err))
	}

	auditPublisher := audit.NewPublisher(redisClient, cfg.AuditStream, log)
	defer auditPublisher.Close()
	if cfg.MQTT.Enabled {
		if err := auditPublisher.AttachMQTT(cfg.MQTT); err != nil {
			log.Warn("MQTT audit fan-out disabled", zap.Error(err))
		} else {
			log.Info("Audit records mirrored to MQTT", zap.String("topic", cfg.MQTT.Topic))
		}
	}

	productsRepo := repository.NewProductsRepository(db, log)
	patternsRepo := repository.NewQuotePatternsRepository(db, log)

	quoteService := service.NewQuoteService(
		extractor.NewExtractor(cfg.Safety, log),
		validator.NewValidator(cfg.Safety, log),
		pricing.NewCalculator(cfg.Rates),
		compatibility.NewResolver(rules, log),
		productsRepo,
		erp.NewClient(cfg.ERP, log),
		learning.NewAdjuster(patternsRepo, kv, log),
		auditPublisher,
		patternsRepo,
		kv,
		cfg.ERP.Timeout,
		cfg.ERP.CacheTTL,
		log,
	)

	router := httpapi.NewRouter(log)
	router.RegisterQuoteRoutes(httpapi.NewQuoteHandler(quoteService, log))
	router.RegisterHealthRoutes(db, redisClient)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("radioquote listening", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Shutdown incomplete", zap.Error(err))
	}
}
