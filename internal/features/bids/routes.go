package bids

import (
	"github.com/gin-gonic/gin"

	"github.com/mhk-dev/bidhaus/internal/pkg/mailer"
)

// RegisterRoutes mounts bid placement under the guarded /auction prefix.
func RegisterRoutes(router *gin.Engine, repo *Repository, items ItemStore, mail mailer.Sender, appURL string) *Service {
	service := NewService(repo, items, mail, appURL)
	handler := NewHandler(service)

	router.POST("/auction/items/:id/bids", handler.Place)

	return service
}
