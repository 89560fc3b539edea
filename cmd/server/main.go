package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"modforge-service/internal/adapters/primary/http/handlers"
	"modforge-service/internal/adapters/secondary/openai"
	"modforge-service/internal/config"
	"modforge-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// ============================================================================
	// Hexagonal Architecture Wiring
	// ============================================================================

	// Secondary Adapter (Output Port - completion service)
	llm, err := openai.NewCompletionClient(context.Background(), &cfg.LLM)
	if err != nil {
		log.Fatalf("create completion client: %v", err)
	}
	if llm.IsAvailable() {
		log.WithFields(log.Fields{
			"model":    cfg.LLM.Model,
			"base_url": cfg.LLM.BaseURL,
		}).Info("completion client initialized")
	} else {
		log.Warn("OPENAI_API_KEY not set: generate and port run in demo mode, chat is disabled")
	}

	// Core Services (Application Layer)
	generateSvc := services.NewGenerateService(llm)
	chatSvc := services.NewChatService(llm)
	portSvc := services.NewPortService(llm, services.ArchiveLimits{
		MaxBytes:      cfg.Archive.MaxBytes,
		MaxEntryBytes: cfg.Archive.MaxEntryBytes,
		MaxTotalBytes: cfg.Archive.MaxTotalBytes,
	})

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(generateSvc, chatSvc, portSvc)
	router := handlers.NewRouter(cfg, h)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "llm_configured": llm.IsAvailable()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
