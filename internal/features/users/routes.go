package users

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the admin user endpoints. The route guard has
// already restricted /admin to admins.
func RegisterRoutes(router *gin.Engine, store Store) {
	service := NewService(store)
	handler := NewHandler(service)

	admin := router.Group("/admin")
	{
		admin.GET("/users", handler.List)
		admin.PUT("/users/:id/tag", handler.UpdateTag)
	}
}
