package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const ctxKeyUserID = "user_id"

// UserFinder lets the middleware reject tokens for accounts that no longer
// exist.
type UserFinder interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// RequireAuth verifies a Bearer JWT (HS256, "id" claim) and stores the user
// id in the context. Ownership checks stay in the services.
func RequireAuth(secret []byte, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			unauthorized(c, "Please login first")
			return
		}

		raw, ok := strings.CutPrefix(authz, "Bearer ")
		if !ok {
			unauthorized(c, "Invalid token")
			return
		}

		tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !tok.Valid {
			unauthorized(c, "Invalid token")
			return
		}

		claims, ok := tok.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, "Invalid token")
			return
		}
		id, _ := claims["id"].(string)
		if id == "" {
			unauthorized(c, "Invalid token")
			return
		}

		exists, err := users.Exists(c.Request.Context(), id)
		if err != nil || !exists {
			unauthorized(c, "Invalid token")
			return
		}

		c.Set(ctxKeyUserID, id)
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's id, if any.
func CurrentUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message":    msg,
		"request_id": GetRequestID(c),
	})
}
