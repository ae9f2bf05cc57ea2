package items

import (
	"mime/multipart"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mhk-dev/bidhaus/internal/middleware"
	"github.com/mhk-dev/bidhaus/internal/pkg/blob"
	"github.com/mhk-dev/bidhaus/internal/pkg/response"
)

type Handler struct {
	service  *Service
	uploader blob.Uploader
}

func NewHandler(service *Service, uploader blob.Uploader) *Handler {
	return &Handler{service: service, uploader: uploader}
}

// List godoc
// @Summary List auction items
// @Tags items
// @Produce json
// @Success 200 {object} response.SuccessResponse
// @Router /auction/items [get]
func (h *Handler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		response.InternalServerError(c, "Failed to load items")
		return
	}
	response.Success(c, items)
}

// Get godoc
// @Summary Get an auction item with its recent bids
// @Tags items
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /auction/items/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, detail)
}

// Create godoc
// @Summary Create an auction item
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param startingBid formData number true "Starting bid"
// @Param startTime formData string true "Start time (RFC 3339)"
// @Param endTime formData string true "End time (RFC 3339)"
// @Param image formData file false "Item image"
// @Success 201 {object} response.SuccessResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /admin/items [post]
func (h *Handler) Create(c *gin.Context) {
	in, ok := h.bindItemForm(c)
	if !ok {
		return
	}

	item, err := h.service.Create(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update an auction item
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/items/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	in, ok := h.bindItemForm(c)
	if !ok {
		return
	}

	item, err := h.service.Update(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, item)
}

// Delete godoc
// @Summary Delete an auction item and its bids
// @Tags admin
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/items/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Item deleted"})
}

// Close godoc
// @Summary Close an auction immediately and notify the winner
// @Tags admin
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/items/{id}/close [post]
func (h *Handler) Close(c *gin.Context) {
	if err := h.service.Close(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Auction closed"})
}

// Reset godoc
// @Summary Wipe all bids and restore the starting price
// @Tags admin
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.SuccessResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/items/{id}/reset [post]
func (h *Handler) Reset(c *gin.Context) {
	if err := h.service.Reset(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Auction reset"})
}

// bindItemForm parses the multipart item form and uploads the optional image.
// Reports its own error responses; the bool result signals success.
func (h *Handler) bindItemForm(c *gin.Context) (ItemInput, bool) {
	var in ItemInput
	in.Title = c.PostForm("title")
	in.Description = c.PostForm("description")

	startingBid, err := strconv.ParseFloat(c.PostForm("startingBid"), 64)
	if err != nil {
		response.ValidationError(c, "Invalid starting bid", "INVALID_FORM")
		return in, false
	}
	in.StartingBid = startingBid

	in.StartTime, err = parseFormTime(c.PostForm("startTime"))
	if err != nil {
		response.ValidationError(c, "Invalid start time", "INVALID_FORM")
		return in, false
	}
	in.EndTime, err = parseFormTime(c.PostForm("endTime"))
	if err != nil {
		response.ValidationError(c, "Invalid end time", "INVALID_FORM")
		return in, false
	}

	file, header, err := c.Request.FormFile("image")
	if err == nil {
		defer file.Close()
		url, ok := h.uploadImage(c, file, header)
		if !ok {
			return in, false
		}
		in.ImageURL = url
	}

	return in, true
}

func (h *Handler) uploadImage(c *gin.Context, file multipart.File, header *multipart.FileHeader) (string, bool) {
	if err := blob.ValidateImageFile(header); err != nil {
		response.BadRequest(c, err.Error(), "INVALID_FILE")
		return "", false
	}

	url, err := h.uploader.UploadImage(c.Request.Context(), file, blob.UniqueFilename(header.Filename))
	if err != nil {
		response.InternalServerError(c, "Failed to upload image", "UPLOAD_FAILED")
		return "", false
	}
	return url, true
}

func parseFormTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	// datetime-local inputs omit zone and seconds
	return time.Parse("2006-01-02T15:04", value)
}
