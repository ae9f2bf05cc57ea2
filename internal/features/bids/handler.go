package bids

import (
	"github.com/gin-gonic/gin"

	"github.com/mhk-dev/bidhaus/internal/middleware"
	"github.com/mhk-dev/bidhaus/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Place godoc
// @Summary Place a bid on an auction item
// @Tags bids
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body PlaceBidRequest true "Bid amount"
// @Success 201 {object} response.SuccessResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /auction/items/{id}/bids [post]
func (h *Handler) Place(c *gin.Context) {
	var req PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid bid data", "INVALID_BID")
		return
	}

	bid, err := h.service.PlaceBid(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Amount)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, bid)
}
