package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"band-backend/apperrors"
	"band-backend/services"
	"band-backend/utils"
)

const identityKey = "admin"

// Authenticator validates a bearer token.
type Authenticator interface {
	Authenticate(token string) (*services.Identity, error)
}

// extractToken strips the Bearer scheme from the Authorization header.
func extractToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// RequireAdmin rejects requests without a valid admin token: 401 when the
// token is missing, 403 when it is invalid or expired.
func RequireAdmin(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := auth.Authenticate(extractToken(c.GetHeader("Authorization")))
		if err != nil {
			c.Abort()
			utils.JSONMessage(c, apperrors.HTTPStatus(err), apperrors.PublicMessage(err))
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// CurrentIdentity returns the admin attached by RequireAdmin.
func CurrentIdentity(c *gin.Context) (*services.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*services.Identity)
	return identity, ok
}
