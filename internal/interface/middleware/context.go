package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/lahjatuna/lahjatuna-api/pkg/response"
)

// Gin context keys shared by middleware and handlers.
const (
	CtxUserID    = "userID"
	CtxRoles     = "userRoles"
	CtxSessionID = "sessionID"
	CtxRequestID = response.RequestIDKey
	CtxRealIP    = "real_ip"
)

// UserID returns the authenticated user id, or "" outside Auth.
func UserID(c *gin.Context) string { return c.GetString(CtxUserID) }

// Roles returns the roles carried by the access token.
func Roles(c *gin.Context) []string { return c.GetStringSlice(CtxRoles) }
