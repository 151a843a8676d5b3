package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ilucaslima/clubidulivro/database"
	"github.com/ilucaslima/clubidulivro/internal/cache"
	"github.com/ilucaslima/clubidulivro/internal/clock"
	"github.com/ilucaslima/clubidulivro/internal/config"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/handler"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/middleware"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/repository"
	"github.com/ilucaslima/clubidulivro/internal/httpapi/service"
	"github.com/ilucaslima/clubidulivro/internal/live"
	"github.com/ilucaslima/clubidulivro/internal/monitoring"
	"github.com/ilucaslima/clubidulivro/internal/search"
	"github.com/ilucaslima/clubidulivro/pkg/logger"
)

func main() {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Sync()
	appLog := logger.Named("api-server")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(cfg, logger.Named("database"))
	if err != nil {
		appLog.Fatal("database init failed", zap.Error(err))
	}

	redisClient, err := database.ConnectRedis(cfg, logger.Named("redis"))
	if err != nil {
		appLog.Fatal("redis init failed", zap.Error(err))
	}
	defer redisClient.Close()

	store := cache.New(redisClient, time.Duration(cfg.CacheTTL)*time.Second)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// Services
	clk := clock.Real()
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	recorderService := service.NewRecorderService(progressRepo, userRepo, store, clk, logger.Named("recorder"))
	boardService := service.NewBoardService(userRepo, progressRepo, store, clk, logger.Named("board"))
	profileService := service.NewProfileService(userRepo, store, logger.Named("profile"))
	booksClient := search.NewClient(cfg.BooksAPIURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Live profile updates fan out through redis so every instance
	// sees writes made by any of them.
	hub := live.NewHub(logger.Named("live"))
	pubsub := store.SubscribeProfiles(ctx)
	defer pubsub.Close()
	go live.Relay(ctx, pubsub, hub, logger.Named("live"))

	// Handlers
	authHandler := handler.NewAuthHandler(authService, logger.Named("auth"))
	progressHandler := handler.NewProgressHandler(recorderService)
	profileHandler := handler.NewProfileHandler(profileService)
	boardHandler := handler.NewBoardHandler(boardService)
	searchHandler := handler.NewSearchHandler(booksClient, logger.Named("search"))

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Length"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	if cfg.PrometheusEnabled {
		monitoring.Init()
		router.Use(monitoring.MetricsMiddleware())
		router.GET("/metrics", monitoring.PrometheusHandler())
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes (public, rate limited per client IP)
	rateLimiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	authGroup := router.Group("/auth")
	authGroup.Use(rateLimiter.Middleware())
	authHandler.RegisterRoutes(authGroup)

	// Book search (public, used by the signup flow)
	booksGroup := router.Group("/books")
	searchHandler.RegisterRoutes(booksGroup)

	// Protected routes
	authRequired := middleware.AuthMiddleware(authService)

	progressGroup := router.Group("/progress")
	progressGroup.Use(authRequired)
	progressHandler.RegisterRoutes(progressGroup)

	meGroup := router.Group("/me")
	meGroup.Use(authRequired)
	profileHandler.RegisterRoutes(meGroup)

	groupRoutes := router.Group("/group")
	groupRoutes.Use(authRequired)
	boardHandler.RegisterRoutes(groupRoutes)

	router.GET("/ws/profile", authRequired, live.ServeWS(hub, logger.Named("live")))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router,
	}

	go func() {
		appLog.Info("server listening", zap.Int("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("shutdown failed", zap.Error(err))
	}
}
