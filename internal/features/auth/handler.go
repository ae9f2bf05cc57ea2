package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mhk-dev/bidhaus/internal/pkg/response"
	"github.com/mhk-dev/bidhaus/internal/pkg/session"
	apperrors "github.com/mhk-dev/bidhaus/pkg/errors"
)

type Handler struct {
	service      *Service
	secureCookie bool
}

func NewHandler(service *Service, secureCookie bool) *Handler {
	return &Handler{service: service, secureCookie: secureCookie}
}

// Login godoc
// @Summary Request a magic login link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Email and optional name"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} response.ErrorResponse
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid email", "INVALID_EMAIL")
		return
	}

	debugLink, err := h.service.RequestMagicLink(c.Request.Context(), req.Email, req.FirstName, req.Surname)
	if err != nil {
		if errors.Is(err, apperrors.ErrInternal) {
			response.InternalServerError(c, "System busy, try again.", "TAG_EXHAUSTED")
			return
		}
		response.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Success: true, DebugLink: debugLink})
}

// Verify godoc
// @Summary Consume a magic-link token and start a session
// @Tags auth
// @Produce json
// @Param token query string true "Magic-link token"
// @Success 302
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/auth/verify [get]
func (h *Handler) Verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "Missing token", "MISSING_TOKEN")
		return
	}

	cookie, payload, err := h.service.VerifyMagicLink(c.Request.Context(), token)
	if err != nil {
		response.FromError(c, err)
		return
	}

	session.SetCookie(c, cookie, payload.Expires, h.secureCookie)
	c.Redirect(http.StatusFound, "/auction")
}

// AdminLogin godoc
// @Summary Password login for administrators
// @Tags auth
// @Accept json
// @Produce json
// @Param request body AdminLoginRequest true "Admin credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/auth/admin-login [post]
func (h *Handler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Missing credentials", "MISSING_CREDENTIALS")
		return
	}

	cookie, payload, err := h.service.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}

	session.SetCookie(c, cookie, payload.Expires, h.secureCookie)
	c.JSON(http.StatusOK, LoginResponse{Success: true})
}
