package auth

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mhk-dev/bidhaus/internal/config"
	"github.com/mhk-dev/bidhaus/internal/pkg/mailer"
	"github.com/mhk-dev/bidhaus/internal/pkg/ratelimit"
	"github.com/mhk-dev/bidhaus/internal/pkg/session"
)

func RegisterRoutes(router *gin.Engine, db *mongo.Database, cfg *config.Config, codec *session.Codec, mail mailer.Sender) {
	repo := NewRepository(db)
	service := NewService(repo, mail, codec, cfg.AppURL, cfg.IsProduction())
	handler := NewHandler(service, cfg.IsProduction())

	// Bound how fast a single client can request login emails.
	loginLimiter := ratelimit.New(5, time.Minute)

	api := router.Group("/api/auth")
	{
		api.POST("/login", ratelimit.Middleware(loginLimiter), handler.Login)
		api.GET("/verify", handler.Verify)
		api.POST("/admin-login", handler.AdminLogin)
	}
}
