package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tech-service/push-relay/internal/config"
	"github.com/tech-service/push-relay/internal/firebase"
	"github.com/tech-service/push-relay/internal/logger"
	"github.com/tech-service/push-relay/internal/metrics"
	"github.com/tech-service/push-relay/internal/push"
	"github.com/tech-service/push-relay/internal/relay"
	"github.com/tech-service/push-relay/internal/trigger"
)

func main() {
	config.LoadConfig()

	logg := logger.New(logger.FromConfig(config.AppConfig.LogLevel, config.AppConfig.LogFormat))

	logg.Info("Setting Gin mode", "mode", config.AppConfig.GinMode)
	gin.SetMode(config.AppConfig.GinMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize Firebase clients (Firestore + Cloud Messaging).
	fbClient, err := firebase.NewClient(ctx, config.AppConfig.FirebaseProjectID, config.AppConfig.FirebaseCredJSON)
	if err != nil {
		logg.Error("Failed to initialize Firebase client", "error", err)
		os.Exit(1)
	}
	defer fbClient.Close()

	// Initialize the dispatch core
	resolver := push.NewResolver(fbClient.Firestore, logg)
	gateway := push.NewGateway(fbClient.Messaging, config.AppConfig.FirebaseProjectID, config.AppConfig.FirebaseCredJSON, logg)
	handler := relay.NewHandler(resolver, gateway, config.AppConfig.APIKey, logg)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLoggingMiddleware(logg))

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.POST("/sendPush", handler.SendPush)
	router.GET("/health", handler.Health)
	router.GET("/", handler.Root)
	router.GET("/lastRequest", handler.LastRequest)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Change-feed consumer for the notifications collection.
	if config.AppConfig.TriggerEnabled {
		adapter := trigger.NewAdapter(gateway, logg)
		listener := trigger.NewListener(fbClient.Firestore, adapter, logg)
		go listener.Run(ctx)
	} else {
		logg.Info("⚠️  trigger adapter disabled")
	}

	port := ":" + config.AppConfig.Port
	logg.Info("🔔 push relay listening on " + port)

	srv := &http.Server{
		Addr:    port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("🛑 Shutting down server...")

	// Stop the change-feed listener before closing the HTTP side.
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(config.AppConfig.ServerShutdownTimeoutSeconds)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logg.Info("✅ Server exited")
}
