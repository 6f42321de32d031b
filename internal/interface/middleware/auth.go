package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/lahjatuna/lahjatuna-api/pkg/helpers"
	"github.com/lahjatuna/lahjatuna-api/pkg/response"
)

// accessToken reads the access_token cookie, falling back to an Authorization bearer header.
func accessToken(c *gin.Context) string {
	if tok, err := c.Cookie(helpers.AccessCookie); err == nil && tok != "" {
		return tok
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Auth validates the access token and, when Redis is configured, ensures the
// session it belongs to is still active. It sets userID, userRoles and
// sessionID in the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token")
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid access token")
			return
		}

		if rdb != nil {
			key := "user:session:" + claims.UserID
			sid, err := rdb.HGet(c.Request.Context(), key, "sid").Result()
			if err != nil || sid != claims.SessionID {
				response.Abort(c, http.StatusUnauthorized, "session not found")
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRoles, claims.Roles)
		c.Set(CtxSessionID, claims.SessionID)
		c.Next()
	}
}

// RequireRole lets the request through only when the token carries one of roles.
// It must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		have := Roles(c)
		for _, want := range roles {
			for _, r := range have {
				if r == want {
					c.Next()
					return
				}
			}
		}
		response.Abort(c, http.StatusForbidden, "forbidden")
	}
}
