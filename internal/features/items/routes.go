package items

import (
	"github.com/gin-gonic/gin"

	"github.com/mhk-dev/bidhaus/internal/pkg/blob"
	"github.com/mhk-dev/bidhaus/internal/pkg/mailer"
)

// RegisterRoutes wires the storefront browse endpoints and the admin
// lifecycle endpoints. The route guard has already gated /auction to any
// session and /admin to admins.
func RegisterRoutes(router *gin.Engine, repo *Repository, bids BidStore, mail mailer.Sender, uploader blob.Uploader) *Service {
	service := NewService(repo, bids, mail)
	handler := NewHandler(service, uploader)

	auction := router.Group("/auction")
	{
		auction.GET("/items", handler.List)
		auction.GET("/items/:id", handler.Get)
	}

	admin := router.Group("/admin")
	{
		admin.GET("/items", handler.List)
		admin.POST("/items", handler.Create)
		admin.PUT("/items/:id", handler.Update)
		admin.DELETE("/items/:id", handler.Delete)
		admin.POST("/items/:id/close", handler.Close)
		admin.POST("/items/:id/reset", handler.Reset)
	}

	return service
}
