package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"violation-ledger/internal/auth"
	"violation-ledger/internal/model"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer"
	principalContextKey = "principal"
)

// Auth authenticates from the Authorization header, falling back to a
// ?token= query parameter for websocket clients that cannot set headers.
func Auth(parser *auth.Parser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := ""
		if raw := c.GetHeader(authorizationHeader); raw != "" {
			parts := strings.SplitN(raw, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], bearerPrefix) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
				return
			}
			tokenStr = parts[1]
		} else {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization missing"})
			return
		}

		claims, err := parser.Parse(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		principal := model.Principal{
			UserID: claims.UserID,
			Role:   claims.Role,
		}
		c.Set(principalContextKey, principal)
		c.Next()
	}
}

func MustPrincipal(c *gin.Context) (model.Principal, bool) {
	value, exists := c.Get(principalContextKey)
	if !exists {
		return model.Principal{}, false
	}
	principal, ok := value.(model.Principal)
	if !ok {
		return model.Principal{}, false
	}
	return principal, true
}
