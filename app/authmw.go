package app

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"equiptrack/models"
)

const authUserKey = "authUser"

// AuthRequired parses the Bearer token and, when Redis sessions are
// enabled, checks the token's jti is still a live session. The verified
// caller context lands in the gin context for handlers.
func (a *App) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		claims, err := a.Signer.Parse(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid token"})
			return
		}

		// 会话被撤销（删号/封禁/登出）时立即失效
		if a.appSess != nil {
			as, err := a.appSess.Get(c.Request.Context(), claims.ID)
			if err != nil || as.UserID != claims.User.ID {
				c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "session revoked"})
				return
			}
		}

		c.Set(authUserKey, claims.User)
		c.Set("sessionID", claims.ID)
		c.Next()
	}
}

// CurrentUser returns the caller set by AuthRequired.
func CurrentUser(c *gin.Context) models.AuthUser {
	v, _ := c.Get(authUserKey)
	u, _ := v.(models.AuthUser)
	return u
}

func SessionID(c *gin.Context) string {
	v, _ := c.Get("sessionID")
	s, _ := v.(string)
	return s
}

// AdminOnly gates user/department management endpoints.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).Role.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// ItemManagerOnly gates item create/update/delete.
func ItemManagerOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).Role.CanManageItems() {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
