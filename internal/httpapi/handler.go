// Package httpapi exposes the authentication operations over HTTP using gin.
// Credentials travel in HttpOnly cookies; the access token is additionally
// returned in the response body for non-browser clients.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/services"
	"github.com/dmitrijs2005/authkeeper/internal/transport"
)

// Handler holds the HTTP endpoints of the auth service.
type Handler struct {
	auth       *services.AuthService
	logger     logging.Logger
	cookieOpts transport.CookieOptions
}

func NewHandler(auth *services.AuthService, logger logging.Logger, cookieOpts transport.CookieOptions) *Handler {
	return &Handler{auth: auth, logger: logger, cookieOpts: cookieOpts}
}

// RegisterRoutes attaches the auth endpoints to the router.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/auth")
	api.POST("/register", h.register)
	api.POST("/login", h.login)
	api.POST("/refresh", h.refresh)
	api.POST("/logout", h.logout)

	protected := api.Group("")
	protected.Use(h.RequireAuth())
	protected.POST("/logout_all", h.logoutAll)
	protected.GET("/me", h.me)
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
			return
		}
		h.logger.Error(c.Request.Context(), "registration failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Username})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	pair, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logger.Error(c.Request.Context(), "login failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	creds := h.credentials(c)
	creds.SetRefreshCredential(pair.RefreshToken, pair.RefreshExpiresAt)
	creds.SetAccessCredential(pair.AccessToken, pair.AccessExpiresAt)

	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: pair.AccessToken,
		ExpiresAt:   pair.AccessExpiresAt.Unix(),
	})
}

func (h *Handler) refresh(c *gin.Context) {
	pair, err := h.auth.Refresh(c.Request.Context(), h.credentials(c))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRefreshTokenExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
		case errors.Is(err, common.ErrInvalidToken):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		default:
			h.logger.Error(c.Request.Context(), "token refresh failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "refresh temporarily unavailable"})
		}
		return
	}

	c.JSON(http.StatusOK, tokenResponse{
		AccessToken: pair.AccessToken,
		ExpiresAt:   pair.AccessExpiresAt.Unix(),
	})
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), h.credentials(c)); err != nil {
		h.logger.Error(c.Request.Context(), "logout failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "logout failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) logoutAll(c *gin.Context) {
	if err := h.auth.LogoutAll(c.Request.Context(), c.GetString(ctxUserID)); err != nil {
		h.logger.Error(c.Request.Context(), "logout all failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "logout failed"})
		return
	}
	creds := h.credentials(c)
	creds.ClearRefreshCredential()
	creds.ClearAccessCredential()
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.auth.GetUser(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		h.logger.Error(c.Request.Context(), "user lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "username": user.Username, "created_at": user.CreatedAt})
}

func (h *Handler) credentials(c *gin.Context) transport.Credentials {
	return transport.NewCookieCredentials(c.Writer, c.Request, h.cookieOpts)
}
