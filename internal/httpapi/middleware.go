package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/transport"
)

// ctxUserID is the gin context key the middleware stores the authenticated
// user id under.
const ctxUserID = "userID"

const bearerPrefix = "Bearer "

// refreshHintHeader is set on authenticated responses when the access token
// is close to expiry.
const refreshHintHeader = "X-Refresh-Suggested"

// RequireAuth verifies the access token from the Authorization header or,
// failing that, the access cookie. An expired token gets a distinct message
// so clients know to hit the refresh endpoint instead of re-authenticating.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			if cookie, err := c.Request.Cookie(transport.AccessCookieName); err == nil {
				tokenStr = cookie.Value
			}
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		userID, err := h.auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		if h.auth.ShouldRefresh(tokenStr) {
			c.Header(refreshHintHeader, "true")
		}

		c.Set(ctxUserID, userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, bearerPrefix) {
		return strings.TrimPrefix(header, bearerPrefix)
	}
	return ""
}
