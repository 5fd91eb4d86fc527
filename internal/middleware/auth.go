package middleware

import (
	"errors"
	"net/http"
	"strings"

	"filemeta/internal/domain"
	"filemeta/internal/modules/access"
	"filemeta/internal/pkg/jwt"
	"filemeta/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxActor  = "actor"
)

// JWTAuth validates the bearer token and stores its user id under "user_id".
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be Bearer <token>")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		claims, err := jwtService.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Next()
	}
}

// ResolveActor loads the user named by "user_id" and stores it under "actor".
// It must run after JWTAuth.
func ResolveActor(gateway *access.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := gateway.ResolveUser(c.Request.Context(), c.GetString(ctxUserID))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				response.Error(c, http.StatusUnauthorized, "UNKNOWN_USER", "User from token does not exist")
				c.Abort()
				return
			}
			response.FromError(c, err)
			c.Abort()
			return
		}

		c.Set(ctxActor, user)
		c.Next()
	}
}

// Actor returns the user stored by ResolveActor, or nil.
func Actor(c *gin.Context) *domain.User {
	v, ok := c.Get(ctxActor)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
