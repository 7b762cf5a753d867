package delivery

import (
	"errors"
	"net/http"
	"strings"

	authdomain "dietlog-backend/internal/auth/domain"
	"dietlog-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

var tokenMessages = map[error]string{
	usecase.ErrTokenMissing: "Token is missing!",
	usecase.ErrTokenExpired: "Token has expired!",
	usecase.ErrTokenInvalid: "Invalid token!",
}

// AuthMiddleware rejects requests without a valid bearer token with 403 and
// stores the verified identity on the context.
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.TrimSpace(authHeader) == "" {
			abort(c, usecase.ErrTokenMissing)
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, usecase.ErrTokenInvalid)
			return
		}

		identity, err := authUsecase.ValidateToken(parts[1])
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(identityKey, *identity)
		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	msg := tokenMessages[usecase.ErrTokenInvalid]
	for sentinel, m := range tokenMessages {
		if errors.Is(err, sentinel) {
			msg = m
			break
		}
	}
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": msg})
}

// IdentityFrom returns the identity stored by AuthMiddleware
func IdentityFrom(c *gin.Context) (authdomain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return authdomain.Identity{}, false
	}
	id, ok := v.(authdomain.Identity)
	return id, ok && id.UserID != ""
}

// Authed adapts a handler that takes the caller identity as an argument.
// It must run after AuthMiddleware.
func Authed(h func(c *gin.Context, id authdomain.Identity)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": tokenMessages[usecase.ErrTokenMissing]})
			return
		}
		h(c, id)
	}
}
