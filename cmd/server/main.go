// Package main runs the form templates HTTP server with the live
// submissions feed and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/formtemplates/backend/config"
	"github.com/formtemplates/backend/internal/auth"
	"github.com/formtemplates/backend/internal/middleware"
	"github.com/formtemplates/backend/internal/realtime"
	"github.com/formtemplates/backend/internal/stats"
	"github.com/formtemplates/backend/internal/submissions"
	"github.com/formtemplates/backend/internal/templates"
	"github.com/formtemplates/backend/pkg/database"
	"github.com/formtemplates/backend/pkg/redis"
	"github.com/formtemplates/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Templates
	templateRepo := templates.NewRepository(pool)
	templateHandler := templates.NewHandler(templateRepo, logger)

	// Submissions + live feed
	submissionRepo := submissions.NewRepository(pool)
	feedPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	feed := realtime.NewFeed(submissionRepo, logger, feedPubSub, feedPubSub)
	submissionHandler := submissions.NewHandler(submissionRepo, templateRepo, feed, logger)

	// Stats
	statsHandler := stats.NewHandler(submissionRepo, logger)

	wsValidate := func(token string) (string, error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return "", err
		}
		return claims.Email, nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Reads are open; only writes require a session.
	router.GET("/templates", templateHandler.List)
	router.GET("/templates/:id", templateHandler.GetByID)
	router.GET("/templates/:id/submissions", submissionHandler.ListByTemplate)
	router.GET("/submissions", submissionHandler.List)
	router.GET("/stats", statsHandler.Get)

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.GET("/auth/me", authHandler.Me)
		api.POST("/templates", templateHandler.Create)
		api.POST("/templates/:id/submissions", submissionHandler.Create)
	}

	// Live submissions feed (token in query, optional)
	router.GET("/ws", realtime.ServeWs(feed, logger, wsValidate))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
