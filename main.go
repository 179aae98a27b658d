package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ambujpandey123/Ecommerce-Backend/controllers"
	"github.com/ambujpandey123/Ecommerce-Backend/database"
	"github.com/ambujpandey123/Ecommerce-Backend/logger"
	"github.com/ambujpandey123/Ecommerce-Backend/middleware"
	"github.com/ambujpandey123/Ecommerce-Backend/repository"
	"github.com/ambujpandey123/Ecommerce-Backend/routes"
	"github.com/ambujpandey123/Ecommerce-Backend/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"go.uber.org/zap"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg := LoadConfig()

	logger.Initialize(cfg.Env)
	defer zap.L().Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Storage clients ---

	mongoClient, db, err := database.Connect(cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	zap.L().Info("Connected to MongoDB", zap.String("database", cfg.MongoDB))

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureIndexes(indexCtx, db); err != nil {
		zap.L().Fatal("Failed to ensure indexes", zap.Error(err))
	}
	cancelIndex()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		zap.L().Warn("Failed to parse REDIS_URL, falling back to default", zap.Error(err))
		redisOpts = &redis.Options{Addr: "localhost:6379"}
	}
	redisClient := redis.NewClient(redisOpts)

	// --- Dependency injection ---

	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	cartRepo := repository.NewCartRepository(db)
	txRunner := database.NewTxRunner(mongoClient)

	catalogService := services.NewCatalogService(productRepo, categoryRepo, cartRepo, txRunner, zap.L())
	categoryService := services.NewCategoryService(categoryRepo, productRepo, zap.L())
	cartService := services.NewCartService(cartRepo, productRepo, categoryRepo, zap.L())

	cacheManager := controllers.NewCacheManager(redisClient)
	productController := controllers.NewProductController(catalogService, cacheManager)
	categoryController := controllers.NewCategoryController(categoryService)
	cartController := controllers.NewCartController(cartService)

	// --- HTTP server & middleware ---

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.CORSOrigin))

	rateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, cfg.RateLimitTTL)
	r.Use(rateLimiter.Middleware())

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterRoutes(r, productController, categoryController, cartController)

	startedAt := time.Now()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"uptime":      time.Since(startedAt).Seconds(),
			"environment": cfg.Env,
		})
	})
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "E-commerce Backend API",
			"version": "1.0.0",
			"endpoints": gin.H{
				"health":     "/health",
				"products":   "/api/products",
				"categories": "/api/categories",
				"cart":       "/api/cart",
			},
		})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Catalog & cart service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Server forced to shutdown", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		zap.L().Error("Failed to close Redis", zap.Error(err))
	}
	if err := database.Close(mongoClient); err != nil {
		zap.L().Error("Failed to disconnect from MongoDB", zap.Error(err))
	}

	zap.L().Info("Service stopped gracefully")
}
