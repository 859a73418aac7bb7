// internal/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodmarket/marketplace/internal/i18n"
	"github.com/foodmarket/marketplace/internal/middleware"
	"github.com/foodmarket/marketplace/internal/models"
	"github.com/foodmarket/marketplace/internal/services"
	"github.com/foodmarket/marketplace/internal/utils"
)

type AuthHandler struct {
	authService  *services.AuthService
	secureCookie bool
}

func NewAuthHandler(authService *services.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// POST /seller_register, POST /buyer_register
func (h *AuthHandler) Register(kind models.ActorKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.RegisterRequest
		if !bind(c, &req) {
			return
		}

		account, err := h.authService.Register(c.Request.Context(), kind, &req)
		if err != nil {
			respondError(c, err)
			return
		}

		utils.CreatedResponse(c, i18n.KeyAuthRegisterSuccess, gin.H{
			"user": account,
			"role": kind,
		})
	}
}

// POST /seller_login, POST /buyer_login
func (h *AuthHandler) Login(kind models.ActorKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.LoginRequest
		if !bind(c, &req) {
			return
		}

		authResponse, err := h.authService.Login(c.Request.Context(), kind, &req)
		if err != nil {
			respondError(c, err)
			return
		}

		h.startSession(c, authResponse)
	}
}

// POST /login (admin)
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req services.LoginRequest
	if !bind(c, &req) {
		return
	}

	authResponse, err := h.authService.AdminLogin(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.startSession(c, authResponse)
}

// GET|POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	utils.MessageResponse(c, http.StatusOK, i18n.KeyAuthLogoutSuccess, nil)
}

func (h *AuthHandler) startSession(c *gin.Context, authResponse *services.AuthResponse) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, authResponse.AccessToken, authResponse.ExpiresIn, "/", "", h.secureCookie, true)
	utils.MessageResponse(c, http.StatusOK, i18n.KeyAuthLoginSuccess, authResponse)
}
