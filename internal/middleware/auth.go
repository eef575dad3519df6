package middleware

import (
	"errors"
	"net/http"

	"github.com/iceweasel13/fishclicker-backend/internal/services"
	"github.com/iceweasel13/fishclicker-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware for downstream handlers.
const (
	ContextIdentityKey = "identity"
	ContextTokenKey    = "token"
)

// AuthMiddleware resolves the bearer token into a session identity. It never
// touches the users table; handlers that need the backing row look it up
// themselves so a stale token for a deleted user yields 404, not 401.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := utils.ExtractToken(c)
		if err != nil {
			utils.AbortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}

		isDenylisted, err := services.IsDenylisted(tokenString)
		if err != nil {
			utils.AbortWithError(c, http.StatusInternalServerError, "failed to check token status")
			return
		}
		if isDenylisted {
			utils.AbortWithError(c, http.StatusUnauthorized, "token has been revoked")
			return
		}

		identity, err := utils.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, utils.ErrSecretNotSet) {
				utils.AbortWithError(c, http.StatusInternalServerError, err.Error())
				return
			}
			utils.AbortWithError(c, http.StatusUnauthorized, err.Error())
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Set(ContextTokenKey, tokenString)
		c.Next()
	}
}

// IdentityFromContext returns the resolved session identity, or nil when the
// request did not pass AuthMiddleware.
func IdentityFromContext(c *gin.Context) *utils.TokenIdentity {
	val, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil
	}
	identity, ok := val.(*utils.TokenIdentity)
	if !ok {
		return nil
	}
	return identity
}
