// @title Bidhaus API
// @version 1.0
// @description Online auction storefront with magic-link login and admin-run auctions
// @host localhost:8080
// @BasePath /
// @schemes http
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	docs "github.com/mhk-dev/bidhaus/docs"
	"github.com/mhk-dev/bidhaus/internal/config"
	"github.com/mhk-dev/bidhaus/internal/database"
	"github.com/mhk-dev/bidhaus/internal/middleware"
	"github.com/mhk-dev/bidhaus/internal/pkg/logger"
	"github.com/mhk-dev/bidhaus/internal/pkg/response"
	"github.com/mhk-dev/bidhaus/internal/pkg/session"
	"github.com/mhk-dev/bidhaus/internal/routes"
)

func main() {
	cfg := config.Load()

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", map[string]any{"error": err.Error()})
	}
	defer db.Disconnect(context.Background())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	codec := session.NewCodec(cfg.SessionSecret)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.AppURL))
	router.Use(middleware.Guard(codec, cfg.IsProduction()))

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	// Locally stored item images
	router.Static("/uploads", cfg.UploadDir)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, db.Database, cfg, codec)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", map[string]any{"port": cfg.Port})

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", map[string]any{"error": err.Error()})
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", map[string]any{"error": err.Error()})
	}

	logger.Info("server exited", nil)
}
