package users

import (
	"github.com/gin-gonic/gin"

	"github.com/mhk-dev/bidhaus/internal/middleware"
	"github.com/mhk-dev/bidhaus/internal/pkg/response"
)

// UpdateTagRequest is the tag reassignment payload
type UpdateTagRequest struct {
	TagID string `json:"tagId" binding:"required"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List godoc
// @Summary List registered users
// @Tags admin
// @Produce json
// @Success 200 {object} response.SuccessResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /admin/users [get]
func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, list)
}

// UpdateTag godoc
// @Summary Reassign a user's tag identifier
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UpdateTagRequest true "New tag id"
// @Success 200 {object} response.SuccessResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /admin/users/{id}/tag [put]
func (h *Handler) UpdateTag(c *gin.Context) {
	var req UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Tag id is required", "MISSING_TAG")
		return
	}

	err := h.service.UpdateTagID(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.TagID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Tag updated"})
}
