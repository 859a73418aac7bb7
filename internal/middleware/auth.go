// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foodmarket/marketplace/internal/i18n"
	"github.com/foodmarket/marketplace/internal/models"
	"github.com/foodmarket/marketplace/internal/utils"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "session"

func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		token := tokenFromRequest(c)
		if token == "" {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			c.Abort()
			return
		}

		// Set actor info in context
		c.Set(utils.ContextKeyActorID, claims.ActorID)
		c.Set(utils.ContextKeyUsername, claims.Username)
		c.Set(utils.ContextKeyName, claims.Name)
		c.Set(utils.ContextKeyRole, claims.Role)
		c.Next()
	}
}

// RequireRole lets only actors of the given kind through. Must run after
// AuthRequired.
func RequireRole(role models.ActorKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(utils.ContextKeyRole) == string(role) {
			c.Next()
			return
		}

		lang := utils.GetLangFromContext(c)
		switch role {
		case models.ActorAdmin:
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAdminAccessDenied))
		case models.ActorBuyer:
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthLoginFirst))
		default:
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAuthForbidden))
		}
		c.Abort()
	}
}

// RequireSameActor rejects requests whose path id names someone other than
// the logged-in actor. The path id is never trusted on its own.
func RequireSameActor(param string, mismatchStatus int) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := utils.GetActorFromContext(c)
		id, err := strconv.ParseUint(c.Param(param), 10, 64)
		if ok && err == nil && uint(id) == actor.ID {
			c.Next()
			return
		}

		lang := utils.GetLangFromContext(c)
		if mismatchStatus == http.StatusUnauthorized {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthLoginFirst))
		} else {
			utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAuthForbidden))
		}
		c.Abort()
	}
}
